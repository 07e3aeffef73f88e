package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// WithEnv applies environment variable overrides using the provided prefix.
//
// Store:
//
//	DATABASE_URL - "postgres://..." or "postgresql://..." selects postgres,
//	               "sqlite://path/to/file.db" selects sqlite,
//	               "memory" selects the in-memory store
//	DB_SCHEMA    - Postgres schema (default: public)
//	STORAGE_URL  - used when DATABASE_URL is unset:
//	               "file:///path/to/dir" selects the fs store,
//	               "s3://bucket?region=us-east-1&endpoint=http://localhost:9000" selects s3
//	OBJECT_PREFIX, ENABLE_CACHE
//
// Engine:
//
//	ENVIRONMENT, DEFINITIONS_DIR, STRICT_FIELDS, DELETE_ORPHANS, DRY_RUN,
//	ENABLE_EVENT_LOGGING
//
// Unset variables leave the current value alone.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		if v, ok := lookupEnv(prefix, "ENVIRONMENT"); ok && v != "" {
			c.Environment = v
		}
		if v, ok := lookupEnv(prefix, "DEFINITIONS_DIR"); ok && v != "" {
			c.DefinitionsDir = v
		}
		if v, ok := lookupEnv(prefix, "DB_SCHEMA"); ok && v != "" {
			c.DBSchema = v
		}
		if v, ok := lookupEnv(prefix, "OBJECT_PREFIX"); ok {
			c.ObjectPrefix = v
		}

		if err := applyStoreEnv(prefix, c); err != nil {
			return err
		}

		for key, target := range map[string]*bool{
			"ENABLE_CACHE":         &c.EnableCache,
			"STRICT_FIELDS":        &c.StrictFields,
			"DELETE_ORPHANS":       &c.DeleteOrphans,
			"DRY_RUN":              &c.DryRun,
			"ENABLE_EVENT_LOGGING": &c.EnableEventLogging,
		} {
			v, ok, err := parseBoolEnv(prefix, key)
			if err != nil {
				return err
			}
			if ok {
				*target = v
			}
		}
		return nil
	}
}

// applyStoreEnv selects the descriptor store from DATABASE_URL and
// STORAGE_URL.
func applyStoreEnv(prefix string, c *Config) error {
	dbURL, _ := lookupEnv(prefix, "DATABASE_URL")
	storageURL, _ := lookupEnv(prefix, "STORAGE_URL")
	return WithStoreURL(dbURL, storageURL)(c)
}

// WithStoreURL selects the descriptor store from connection strings.
// databaseURL is one of "memory", "postgres://...", "postgresql://..." or
// "sqlite://path"; when it is empty storageURL is consulted instead:
// "memory://", "file:///dir" or "s3://bucket?region=...&endpoint=...".
// Both empty leaves the store unchanged.
func WithStoreURL(databaseURL, storageURL string) Option {
	return func(c *Config) error {
		if databaseURL != "" {
			return applyDatabaseURL(databaseURL, c)
		}
		if storageURL != "" {
			return applyStorageURL(storageURL, c)
		}
		return nil
	}
}

func applyDatabaseURL(dbURL string, c *Config) error {
	switch {
	case dbURL == "memory" || dbURL == "memory://":
		c.StoreType = StoreMemory
		c.DatabaseURL = ""
	case strings.HasPrefix(dbURL, "postgresql://"), strings.HasPrefix(dbURL, "postgres://"):
		c.StoreType = StorePostgres
		c.DatabaseURL = dbURL
	case strings.HasPrefix(dbURL, "sqlite://"):
		path := strings.TrimPrefix(dbURL, "sqlite://")
		if path == "" {
			return fmt.Errorf("sqlite path cannot be empty in DATABASE_URL")
		}
		c.StoreType = StoreSQLite
		c.SQLitePath = path
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory', 'postgresql://...' or 'sqlite://...')", dbURL)
	}
	return nil
}

func applyStorageURL(storageURL string, c *Config) error {
	u, err := url.Parse(storageURL)
	if err != nil {
		return fmt.Errorf("invalid STORAGE_URL: %w", err)
	}

	switch u.Scheme {
	case "memory":
		c.StoreType = StoreMemory
	case "file":
		if u.Path == "" {
			return fmt.Errorf("filesystem path cannot be empty in STORAGE_URL")
		}
		c.StoreType = StoreFS
		c.StorageConfig = map[string]interface{}{"base_dir": u.Path}
	case "s3":
		if u.Host == "" {
			return fmt.Errorf("S3 bucket name cannot be empty in STORAGE_URL")
		}
		applyS3Storage(u, c)
	default:
		return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...', or 's3://...')", storageURL)
	}
	return nil
}

// applyS3Storage configures the S3 store from
// s3://bucket?region=us-east-1&endpoint=http://localhost:9000&path_style=true
func applyS3Storage(u *url.URL, c *Config) {
	q := u.Query()
	storage := map[string]interface{}{
		"bucket": u.Host,
		"region": "us-east-1",
	}
	if region := q.Get("region"); region != "" {
		storage["region"] = region
	} else if region, ok := os.LookupEnv("AWS_REGION"); ok && region != "" {
		storage["region"] = region
	}
	if endpoint := q.Get("endpoint"); endpoint != "" {
		storage["endpoint"] = endpoint
		storage["use_path_style"] = true
	}
	if pathStyle := q.Get("path_style"); pathStyle != "" {
		storage["use_path_style"] = pathStyle
	}
	if q.Get("create_bucket") != "" {
		storage["create_bucket_if_not_exist"] = q.Get("create_bucket")
	}
	if accessKey, ok := os.LookupEnv("AWS_ACCESS_KEY_ID"); ok && accessKey != "" {
		storage["access_key_id"] = accessKey
	}
	if secretKey, ok := os.LookupEnv("AWS_SECRET_ACCESS_KEY"); ok && secretKey != "" {
		storage["secret_access_key"] = secretKey
	}

	c.StoreType = StoreS3
	c.StorageConfig = storage
}

func lookupEnv(prefix, key string) (string, bool) {
	return os.LookupEnv(prefix + key)
}

func parseBoolEnv(prefix, key string) (bool, bool, error) {
	raw, ok := lookupEnv(prefix, key)
	if !ok || raw == "" {
		return false, false, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, fmt.Errorf("invalid boolean for %s%s: %w", prefix, key, err)
	}
	return parsed, true, nil
}
