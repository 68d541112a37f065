package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/bulletin/pkg/formatting"
	"github.com/JaimeStill/bulletin/pkg/middleware"
	"github.com/JaimeStill/bulletin/pkg/pagination"
)

const (
	EnvAPIBasePath      = "BULLETIN_API_BASE_PATH"
	EnvAPIMaxUploadSize = "BULLETIN_API_MAX_UPLOAD_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "BULLETIN_CORS_ENABLED",
	Origins:          "BULLETIN_CORS_ORIGINS",
	AllowedMethods:   "BULLETIN_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "BULLETIN_CORS_ALLOWED_HEADERS",
	AllowCredentials: "BULLETIN_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "BULLETIN_CORS_MAX_AGE",
}

var paginationEnv = &pagination.Env{
	DefaultPageSize: "BULLETIN_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "BULLETIN_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, upload limits, CORS, and pagination settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize formatting.ByteSize   `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != 0 {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = 10 << 20
	}
}

func (c *APIConfig) loadEnv() error {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		if err := c.MaxUploadSize.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAPIMaxUploadSize, err)
		}
	}
	return nil
}
