// Package presets builds ready-to-use content model services for common
// setups so callers can skip wiring stores and registries by hand.
package presets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/tendant/content-model/pkg/contentmodel"
	"github.com/tendant/content-model/pkg/contentmodel/config"
	"github.com/tendant/content-model/pkg/contentmodel/fields"
	"github.com/tendant/content-model/pkg/contentmodel/store/memory"
)

// NewDevelopment creates a service for local development.
//
// Features:
//   - SQLite descriptor store under ./dev-data (survives restarts)
//   - Built-in field types registered
//   - Schema changes logged
//
// The cleanup function closes the store and removes the data directory.
//
// Example:
//
//	svc, cleanup, err := presets.NewDevelopment()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
func NewDevelopment(opts ...DevelopmentOption) (contentmodel.Service, func(), error) {
	cfg := &devConfig{
		dataDir: "./dev-data",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	c, err := config.Load(
		config.WithEnvironment("development"),
		config.WithSQLiteStore(filepath.Join(cfg.dataDir, "content-model.db")),
		config.WithEventLogging(true),
	)
	if err != nil {
		return nil, nil, err
	}

	svc, closeStore, err := c.BuildService(context.Background(),
		append([]contentmodel.Option{contentmodel.WithRegistry(fields.NewRegistry())}, cfg.extra...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	cleanup := func() {
		closeStore()
		os.RemoveAll(cfg.dataDir)
	}
	return svc, cleanup, nil
}

// NewTesting creates an isolated service for tests: an in-memory store, a
// private registry holding the built-in field types and no event logging.
// Declarations passed with WithTestTypes are built before it is returned.
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    svc := presets.NewTesting(t, presets.WithTestTypes(Page{}))
//	    inst, err := svc.Create(ctx, "Page")
//	    ...
//	}
func NewTesting(t testing.TB, opts ...TestingOption) contentmodel.Service {
	t.Helper()

	cfg := &testConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	options := append([]contentmodel.Option{
		contentmodel.WithStore(memory.New()),
		contentmodel.WithRegistry(fields.NewRegistry()),
	}, cfg.extra...)

	svc, err := contentmodel.New(options...)
	if err != nil {
		t.Fatalf("failed to create test service: %v", err)
	}

	if len(cfg.types) > 0 {
		if _, err := svc.Build(context.Background(), cfg.types...); err != nil {
			t.Fatalf("failed to build test content types: %v", err)
		}
	}
	return svc
}

// NewProduction creates a service from the environment using config.WithEnv
// with the given prefix. It refuses the memory store, since descriptors would
// be lost on restart.
//
// Required environment variables (prefix omitted):
//   - DATABASE_URL: postgres connection string, or
//   - STORAGE_URL: file:// or s3:// location of the descriptor objects
func NewProduction(ctx context.Context, prefix string, opts ...ProductionOption) (contentmodel.Service, func(), error) {
	cfg := &prodConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	c, err := config.Load(
		config.WithEnvironment("production"),
		config.WithEnv(prefix),
		config.WithCache(true),
	)
	if err != nil {
		return nil, nil, err
	}
	if c.StoreType == config.StoreMemory {
		return nil, nil, fmt.Errorf("production preset requires a persistent store (set %sDATABASE_URL or %sSTORAGE_URL)", prefix, prefix)
	}

	return c.BuildService(ctx,
		append([]contentmodel.Option{contentmodel.WithRegistry(fields.NewRegistry())}, cfg.extra...)...)
}

type devConfig struct {
	dataDir string
	extra   []contentmodel.Option
}

type testConfig struct {
	types []contentmodel.Declarer
	extra []contentmodel.Option
}

type prodConfig struct {
	extra []contentmodel.Option
}

// DevelopmentOption is a functional option for NewDevelopment
type DevelopmentOption func(*devConfig)

// WithDevDataDir sets the directory holding the development database
func WithDevDataDir(dir string) DevelopmentOption {
	return func(cfg *devConfig) {
		cfg.dataDir = dir
	}
}

// WithDevOptions appends service options
func WithDevOptions(opts ...contentmodel.Option) DevelopmentOption {
	return func(cfg *devConfig) {
		cfg.extra = append(cfg.extra, opts...)
	}
}

// TestingOption is a functional option for NewTesting
type TestingOption func(*testConfig)

// WithTestTypes builds the given declarations into the test store
func WithTestTypes(decls ...contentmodel.Declarer) TestingOption {
	return func(cfg *testConfig) {
		cfg.types = append(cfg.types, decls...)
	}
}

// WithTestOptions appends service options
func WithTestOptions(opts ...contentmodel.Option) TestingOption {
	return func(cfg *testConfig) {
		cfg.extra = append(cfg.extra, opts...)
	}
}

// ProductionOption is a functional option for NewProduction
type ProductionOption func(*prodConfig)

// WithProdOptions appends service options
func WithProdOptions(opts ...contentmodel.Option) ProductionOption {
	return func(cfg *prodConfig) {
		cfg.extra = append(cfg.extra, opts...)
	}
}
