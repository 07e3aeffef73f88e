package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/content-model/pkg/contentmodel"
	"github.com/tendant/content-model/pkg/contentmodel/fields"
	"github.com/tendant/content-model/pkg/contentmodel/store/cache"
	"github.com/tendant/content-model/pkg/contentmodel/store/memory"
	"github.com/tendant/content-model/pkg/contentmodel/store/objectstore"
	"github.com/tendant/content-model/pkg/contentmodel/store/sqlite"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.StoreType)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, objectstore.DefaultPrefix, cfg.ObjectPrefix)
	assert.True(t, cfg.EnableEventLogging)
	assert.False(t, cfg.StrictFields)
}

func TestStoreOptions(t *testing.T) {
	tests := []struct {
		name      string
		option    Option
		wantType  string
		wantError bool
	}{
		{"memory", WithMemoryStore(), StoreMemory, false},
		{"postgres", WithPostgresStore("postgres://localhost/cm", "content"), StorePostgres, false},
		{"postgres missing url", WithPostgresStore("", ""), "", true},
		{"sqlite", WithSQLiteStore("cm.db"), StoreSQLite, false},
		{"sqlite missing path", WithSQLiteStore(""), "", true},
		{"filesystem", WithFilesystemStore("/var/data"), StoreFS, false},
		{"filesystem missing dir", WithFilesystemStore(""), "", true},
		{"s3", WithS3Store("bucket", ""), StoreS3, false},
		{"s3 missing bucket", WithS3Store("", "us-east-1"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.option)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, cfg.StoreType)
		})
	}
}

func TestWithS3Settings(t *testing.T) {
	cfg, err := Load(
		WithS3Store("bucket", "eu-central-1"),
		WithS3Credentials("key", "secret"),
		WithS3Endpoint("http://localhost:9000", true),
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"bucket":            "bucket",
		"region":            "eu-central-1",
		"access_key_id":     "key",
		"secret_access_key": "secret",
		"endpoint":          "http://localhost:9000",
		"use_path_style":    true,
	}, cfg.StorageConfig)
}

func TestValidateUnknownStoreType(t *testing.T) {
	cfg := defaults()
	cfg.StoreType = "redis"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestBuildStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		options []Option
		check   func(t *testing.T, store contentmodel.Store)
	}{
		{
			name:    "memory",
			options: []Option{WithMemoryStore()},
			check: func(t *testing.T, store contentmodel.Store) {
				assert.IsType(t, &memory.Store{}, store)
			},
		},
		{
			name:    "sqlite",
			options: []Option{WithSQLiteStore(filepath.Join(dir, "cm.db"))},
			check: func(t *testing.T, store contentmodel.Store) {
				assert.IsType(t, &sqlite.Store{}, store)
			},
		},
		{
			name:    "filesystem",
			options: []Option{WithFilesystemStore(filepath.Join(dir, "objects"))},
			check: func(t *testing.T, store contentmodel.Store) {
				assert.IsType(t, &objectstore.Store{}, store)
			},
		},
		{
			name:    "cached",
			options: []Option{WithMemoryStore(), WithCache(true)},
			check: func(t *testing.T, store contentmodel.Store) {
				assert.IsType(t, &cache.Store{}, store)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.options...)
			require.NoError(t, err)

			store, cleanup, err := cfg.BuildStore(ctx)
			require.NoError(t, err)
			defer cleanup()
			tt.check(t, store)
		})
	}
}

func TestBuildService(t *testing.T) {
	ctx := context.Background()
	cfg, err := Load(WithSQLiteStore(filepath.Join(t.TempDir(), "cm.db")), WithStrictFields(true))
	require.NoError(t, err)

	svc, cleanup, err := cfg.BuildService(ctx, contentmodel.WithRegistry(fields.NewRegistry()))
	require.NoError(t, err)
	defer cleanup()

	page := contentmodel.TypeDefinition{
		ID:      "Page",
		Regions: []contentmodel.RegionDefinition{{ID: "Body", Type: "Html"}},
	}
	result, err := svc.Build(ctx, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Page"}, result.Inserted)

	instance, err := svc.Create(ctx, "Page")
	require.NoError(t, err)
	body, ok := instance.Region("Body")
	require.True(t, ok)
	assert.IsType(t, &fields.HTMLField{}, body)
}
