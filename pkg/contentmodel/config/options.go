package config

import (
	"fmt"
)

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *Config) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithMemoryStore keeps descriptors in process memory
func WithMemoryStore() Option {
	return func(c *Config) error {
		c.StoreType = StoreMemory
		return nil
	}
}

// WithPostgresStore keeps descriptors in Postgres
func WithPostgresStore(url, schema string) Option {
	return func(c *Config) error {
		if url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.StoreType = StorePostgres
		c.DatabaseURL = url
		if schema != "" {
			c.DBSchema = schema
		}
		return nil
	}
}

// WithSQLiteStore keeps descriptors in a SQLite database file
func WithSQLiteStore(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return fmt.Errorf("sqlite path cannot be empty")
		}
		c.StoreType = StoreSQLite
		c.SQLitePath = path
		return nil
	}
}

// WithFilesystemStore keeps descriptors as JSON files under baseDir
func WithFilesystemStore(baseDir string) Option {
	return func(c *Config) error {
		if baseDir == "" {
			return fmt.Errorf("filesystem base directory cannot be empty")
		}
		c.StoreType = StoreFS
		c.StorageConfig = map[string]interface{}{"base_dir": baseDir}
		return nil
	}
}

// WithS3Store keeps descriptors as JSON objects in an S3 bucket
func WithS3Store(bucket, region string) Option {
	return func(c *Config) error {
		if bucket == "" {
			return fmt.Errorf("S3 bucket cannot be empty")
		}
		if region == "" {
			region = "us-east-1"
		}
		c.StoreType = StoreS3
		c.StorageConfig = map[string]interface{}{
			"bucket": bucket,
			"region": region,
		}
		return nil
	}
}

// WithS3Credentials sets static AWS credentials for the S3 store
func WithS3Credentials(accessKeyID, secretAccessKey string) Option {
	return func(c *Config) error {
		c.storageConfig()["access_key_id"] = accessKeyID
		c.storageConfig()["secret_access_key"] = secretAccessKey
		return nil
	}
}

// WithS3Endpoint sets a custom S3 endpoint (for MinIO, LocalStack, etc.)
func WithS3Endpoint(endpoint string, usePathStyle bool) Option {
	return func(c *Config) error {
		c.storageConfig()["endpoint"] = endpoint
		c.storageConfig()["use_path_style"] = usePathStyle
		return nil
	}
}

// WithObjectPrefix sets the key prefix for the fs and s3 stores
func WithObjectPrefix(prefix string) Option {
	return func(c *Config) error {
		c.ObjectPrefix = prefix
		return nil
	}
}

// WithCache enables or disables the read-through descriptor cache
func WithCache(enabled bool) Option {
	return func(c *Config) error {
		c.EnableCache = enabled
		return nil
	}
}

// WithDefinitionsDir sets the directory type definitions are loaded from
func WithDefinitionsDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return fmt.Errorf("definitions directory cannot be empty")
		}
		c.DefinitionsDir = dir
		return nil
	}
}

// WithStrictFields makes instance creation fail on unregistered field types
func WithStrictFields(strict bool) Option {
	return func(c *Config) error {
		c.StrictFields = strict
		return nil
	}
}

// WithDeleteOrphans removes stored types missing from the definitions after a build
func WithDeleteOrphans(enabled bool) Option {
	return func(c *Config) error {
		c.DeleteOrphans = enabled
		return nil
	}
}

// WithDryRun reports schema changes without writing them
func WithDryRun(dryRun bool) Option {
	return func(c *Config) error {
		c.DryRun = dryRun
		return nil
	}
}

// WithEventLogging enables or disables logging of schema change events
func WithEventLogging(enabled bool) Option {
	return func(c *Config) error {
		c.EnableEventLogging = enabled
		return nil
	}
}

func (c *Config) storageConfig() map[string]interface{} {
	if c.StorageConfig == nil {
		c.StorageConfig = map[string]interface{}{}
	}
	return c.StorageConfig
}

// WithDatabaseSchema sets the Postgres schema holding content_types
func WithDatabaseSchema(schema string) Option {
	return func(c *Config) error {
		c.DBSchema = schema
		return nil
	}
}
