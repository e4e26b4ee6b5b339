// Package config loads the leafscan configuration from config.toml, an
// optional config.<env>.toml overlay and LEAFSCAN_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/leafscan/pkg/database"
	"github.com/JaimeStill/leafscan/pkg/logging"
	"github.com/JaimeStill/leafscan/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvLeafscanEnv             = "LEAFSCAN_ENV"
	EnvLeafscanShutdownTimeout = "LEAFSCAN_SHUTDOWN_TIMEOUT"
	EnvLeafscanVersion         = "LEAFSCAN_VERSION"
)

var databaseEnv = &database.Env{
	Enabled:         "LEAFSCAN_DB_ENABLED",
	Host:            "LEAFSCAN_DB_HOST",
	Port:            "LEAFSCAN_DB_PORT",
	Name:            "LEAFSCAN_DB_NAME",
	User:            "LEAFSCAN_DB_USER",
	Password:        "LEAFSCAN_DB_PASSWORD",
	SSLMode:         "LEAFSCAN_DB_SSL_MODE",
	MaxOpenConns:    "LEAFSCAN_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "LEAFSCAN_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "LEAFSCAN_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "LEAFSCAN_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Backend:          "LEAFSCAN_STORAGE_BACKEND",
	Root:             "LEAFSCAN_STORAGE_ROOT",
	ContainerName:    "LEAFSCAN_STORAGE_CONTAINER_NAME",
	ConnectionString: "LEAFSCAN_STORAGE_CONNECTION_STRING",
	AccountURL:       "LEAFSCAN_STORAGE_ACCOUNT_URL",
}

var loggingEnv = &logging.Env{
	Level:      "LEAFSCAN_LOG_LEVEL",
	Format:     "LEAFSCAN_LOG_FORMAT",
	File:       "LEAFSCAN_LOG_FILE",
	MaxSizeMB:  "LEAFSCAN_LOG_MAX_SIZE_MB",
	MaxBackups: "LEAFSCAN_LOG_MAX_BACKUPS",
	MaxAgeDays: "LEAFSCAN_LOG_MAX_AGE_DAYS",
}

// Config is the root configuration shared by the server and the CLIs.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	API             APIConfig       `toml:"api"`
	Model           ModelConfig     `toml:"model"`
	Storage         storage.Config  `toml:"storage"`
	Database        database.Config `toml:"database"`
	Logging         logging.Config  `toml:"logging"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the LEAFSCAN_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvLeafscanEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads config.toml from the working directory (if present), applies
// any environment overlay, and finalizes all values.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with the config files resolved against dir. Without a
// base file, defaults and environment variables provide all configuration.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{}

	base := filepath.Join(dir, BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(dir); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Model.Merge(&overlay.Model)
	c.Storage.Merge(&overlay.Storage)
	c.Database.Merge(&overlay.Database)
	c.Logging.Merge(&overlay.Logging)
}

// Finalize applies defaults, environment overrides and validation to the
// root config and every sub-config.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Model.Finalize(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvLeafscanShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvLeafscanVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvLeafscanEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
