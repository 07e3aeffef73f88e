// Package config assembles a content model Service from declarative
// settings: which descriptor store to use and how the engine behaves.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/content-model/pkg/contentmodel"
	fsstorage "github.com/tendant/content-model/pkg/contentmodel/storage/fs"
	s3storage "github.com/tendant/content-model/pkg/contentmodel/storage/s3"
	"github.com/tendant/content-model/pkg/contentmodel/store/cache"
	"github.com/tendant/content-model/pkg/contentmodel/store/memory"
	"github.com/tendant/content-model/pkg/contentmodel/store/objectstore"
	storepg "github.com/tendant/content-model/pkg/contentmodel/store/postgres"
	"github.com/tendant/content-model/pkg/contentmodel/store/sqlite"
)

// Store types
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreFS       = "fs"
	StoreS3       = "s3"
)

// Option applies configuration to a Config instance.
type Option func(*Config) error

// Load constructs a Config by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		Environment:        "development",
		StoreType:          StoreMemory,
		DBSchema:           "public",
		SQLitePath:         "./data/content-model.db",
		ObjectPrefix:       objectstore.DefaultPrefix,
		StorageConfig:      map[string]interface{}{},
		DefinitionsDir:     "./content-types",
		EnableEventLogging: true,
	}
}

// Config represents configuration for the content model engine
type Config struct {
	Environment string // development, production, testing

	// Descriptor store
	StoreType     string // "memory", "postgres", "sqlite", "fs", "s3"
	DatabaseURL   string
	DBSchema      string // Postgres schema holding content_types
	SQLitePath    string
	ObjectPrefix  string                 // key prefix for fs and s3 stores
	StorageConfig map[string]interface{} // backend settings for fs and s3 stores
	EnableCache   bool

	// Engine behaviour
	DefinitionsDir     string // directory of YAML/JSON type definitions
	StrictFields       bool
	DeleteOrphans      bool
	DryRun             bool
	EnableEventLogging bool
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.StoreType {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("database_url is required when using postgres")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite_path is required when using sqlite")
		}
	case StoreFS:
		if getString(c.StorageConfig, "base_dir", "") == "" {
			return errors.New("base_dir is required when using the fs store")
		}
	case StoreS3:
		if getString(c.StorageConfig, "bucket", "") == "" {
			return errors.New("bucket is required when using the s3 store")
		}
	default:
		return fmt.Errorf("store_type must be one of memory, postgres, sqlite, fs, s3; got %q", c.StoreType)
	}
	return nil
}

// BuildService creates a Service backed by the configured store. Extra
// options are applied after the configured ones. The returned cleanup
// releases store resources.
func (c *Config) BuildService(ctx context.Context, extra ...contentmodel.Option) (contentmodel.Service, func(), error) {
	store, cleanup, err := c.BuildStore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build store: %w", err)
	}

	options := []contentmodel.Option{
		contentmodel.WithStore(store),
		contentmodel.WithStrictFactory(c.StrictFields),
		contentmodel.WithBuildDryRun(c.DryRun),
	}
	if c.EnableEventLogging {
		options = append(options, contentmodel.WithEventSink(contentmodel.NewLoggingEventSink(slog.Default())))
	}
	options = append(options, extra...)

	svc, err := contentmodel.New(options...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// BuildStore creates the configured descriptor store, wrapped in a read
// cache when EnableCache is set.
func (c *Config) BuildStore(ctx context.Context) (contentmodel.Store, func(), error) {
	store, cleanup, err := c.buildStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if c.EnableCache {
		return cache.New(store), cleanup, nil
	}
	return store, cleanup, nil
}

func (c *Config) buildStore(ctx context.Context) (contentmodel.Store, func(), error) {
	noop := func() {}

	switch c.StoreType {
	case StoreMemory:
		return memory.New(), noop, nil

	case StorePostgres:
		pool, err := c.newPool(ctx)
		if err != nil {
			return nil, nil, err
		}
		store := storepg.NewWithPool(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	case StoreSQLite:
		store, err := sqlite.Open(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil

	case StoreFS:
		backend, err := fsstorage.New(fsstorage.Config{
			BaseDir: getString(c.StorageConfig, "base_dir", ""),
		})
		if err != nil {
			return nil, nil, err
		}
		return objectstore.New(backend, objectstore.WithPrefix(c.ObjectPrefix)), noop, nil

	case StoreS3:
		backend, err := s3storage.New(ctx, s3storage.Config{
			Region:                 getString(c.StorageConfig, "region", "us-east-1"),
			Bucket:                 getString(c.StorageConfig, "bucket", ""),
			AccessKeyID:            getString(c.StorageConfig, "access_key_id", ""),
			SecretAccessKey:        getString(c.StorageConfig, "secret_access_key", ""),
			Endpoint:               getString(c.StorageConfig, "endpoint", ""),
			UsePathStyle:           getBool(c.StorageConfig, "use_path_style", false),
			EnableSSE:              getBool(c.StorageConfig, "enable_sse", false),
			SSEAlgorithm:           getString(c.StorageConfig, "sse_algorithm", "AES256"),
			SSEKMSKeyID:            getString(c.StorageConfig, "sse_kms_key_id", ""),
			CreateBucketIfNotExist: getBool(c.StorageConfig, "create_bucket_if_not_exist", false),
		})
		if err != nil {
			return nil, nil, err
		}
		return objectstore.New(backend, objectstore.WithPrefix(c.ObjectPrefix)), noop, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store type: %s", c.StoreType)
	}
}

func (c *Config) newPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	schema := c.DBSchema
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if schema == "" {
			return nil
		}
		_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return pool, nil
}

func getString(config map[string]interface{}, key string, defaultValue string) string {
	if value, exists := config[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBool(config map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := config[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
		if str, ok := value.(string); ok {
			if b, err := strconv.ParseBool(str); err == nil {
				return b
			}
		}
	}
	return defaultValue
}
