package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tendant/content-model/pkg/contentmodel"
	"github.com/tendant/content-model/pkg/contentmodel/config"
	"github.com/tendant/content-model/pkg/contentmodel/fields"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Config is read from the environment, or from a YAML file given with
// --config with the environment still taking precedence.
type Config struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`

	DatabaseURL  string `yaml:"database_url" env:"DATABASE_URL"`
	DBSchema     string `yaml:"db_schema" env:"DB_SCHEMA" env-default:"public"`
	StorageURL   string `yaml:"storage_url" env:"STORAGE_URL"`
	ObjectPrefix string `yaml:"object_prefix" env:"OBJECT_PREFIX" env-default:"content-types/"`
	EnableCache  bool   `yaml:"enable_cache" env:"ENABLE_CACHE" env-default:"false"`

	DefinitionsDir string `yaml:"definitions_dir" env:"DEFINITIONS_DIR" env-default:"./content-types"`
	StrictFields   bool   `yaml:"strict_fields" env:"STRICT_FIELDS" env-default:"false"`
}

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	var configFile string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "contentmodel",
		Short: "Content type schema tool",
		Long: `Content Model Command Line Interface

Loads content type definitions from YAML or JSON files, synchronizes them
into the configured descriptor store and creates empty content instances.

The store is chosen with DATABASE_URL (memory, postgres://..., sqlite://path)
or STORAGE_URL (file:///dir, s3://bucket). Uses in-memory storage by default.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(NewSyncCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewNewCommand())
	rootCmd.AddCommand(NewFieldTypesCommand())

	return rootCmd
}

// loadConfig reads the CLI configuration for cmd.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	var cfg Config
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		if err := cleanenv.ReadConfig(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}

// newLogger builds the process logger writing to w.
func newLogger(cfg *Config, verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// session is one configured service plus the settings it was built from.
type session struct {
	cfg     *Config
	engine  *config.Config
	service contentmodel.Service
	logger  *slog.Logger
	close   func()
}

// newSession builds the service for cmd. extra options are applied to the
// engine configuration after the CLI settings.
func newSession(ctx context.Context, cmd *cobra.Command, extra ...config.Option) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(cfg, verbose, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	opts := []config.Option{
		config.WithStoreURL(cfg.DatabaseURL, cfg.StorageURL),
		config.WithObjectPrefix(cfg.ObjectPrefix),
		config.WithCache(cfg.EnableCache),
		config.WithStrictFields(cfg.StrictFields),
	}
	if cfg.DBSchema != "" {
		opts = append(opts, config.WithDatabaseSchema(cfg.DBSchema))
	}
	if cfg.DefinitionsDir != "" {
		opts = append(opts, config.WithDefinitionsDir(cfg.DefinitionsDir))
	}
	opts = append(opts, extra...)

	engine, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	svc, cleanup, err := engine.BuildService(ctx,
		contentmodel.WithRegistry(fields.NewRegistry()),
		contentmodel.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "Service initialized",
		"store_type", engine.StoreType,
		"definitions_dir", engine.DefinitionsDir,
		"strict_fields", engine.StrictFields)

	return &session{cfg: cfg, engine: engine, service: svc, logger: logger, close: cleanup}, nil
}
