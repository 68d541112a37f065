// Package config loads the service configuration from TOML files and
// BULLETIN_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/bulletin/pkg/database"
	"github.com/JaimeStill/bulletin/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvBulletinEnv             = "BULLETIN_ENV"
	EnvBulletinShutdownTimeout = "BULLETIN_SHUTDOWN_TIMEOUT"
	EnvBulletinVersion         = "BULLETIN_VERSION"
)

// DatabaseEnv names the environment variables that override database settings.
var DatabaseEnv = &database.Env{
	Host:            "BULLETIN_DB_HOST",
	Port:            "BULLETIN_DB_PORT",
	Name:            "BULLETIN_DB_NAME",
	User:            "BULLETIN_DB_USER",
	Password:        "BULLETIN_DB_PASSWORD",
	SSLMode:         "BULLETIN_DB_SSL_MODE",
	MaxConns:        "BULLETIN_DB_MAX_CONNS",
	MinConns:        "BULLETIN_DB_MIN_CONNS",
	ConnMaxLifetime: "BULLETIN_DB_CONN_MAX_LIFETIME",
	ConnMaxIdleTime: "BULLETIN_DB_CONN_MAX_IDLE_TIME",
	ConnTimeout:     "BULLETIN_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "BULLETIN_STORAGE_CONTAINER_NAME",
	ConnectionString: "BULLETIN_STORAGE_CONNECTION_STRING",
	ServiceURL:       "BULLETIN_STORAGE_SERVICE_URL",
}

// Config is the root configuration for the Bulletin service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Logging         LoggingConfig   `toml:"logging"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the BULLETIN_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvBulletinEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads config.toml from dir (if present), applies the
// config.<BULLETIN_ENV>.toml overlay, and finalizes all values. Without a
// base file, defaults and environment variables provide all configuration.
func Load(dir string) (*Config, error) {
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

	if err := cfg.finalize(); err != nil {
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
	c.Logging.Merge(&overlay.Logging)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Database.Finalize(DatabaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
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
	if v := os.Getenv(EnvBulletinShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvBulletinVersion); v != "" {
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
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvBulletinEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
