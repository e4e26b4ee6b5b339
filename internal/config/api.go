package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/leafscan/pkg/formatting"
	"github.com/JaimeStill/leafscan/pkg/middleware"
	"github.com/JaimeStill/leafscan/pkg/openapi"
	"github.com/JaimeStill/leafscan/pkg/pagination"
)

const (
	EnvAPIBasePath      = "LEAFSCAN_API_BASE_PATH"
	EnvAPIMaxUploadSize = "LEAFSCAN_API_MAX_UPLOAD_SIZE"

	defaultMaxUploadSize = 10 * 1024 * 1024
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "LEAFSCAN_CORS_ENABLED",
	Origins:          "LEAFSCAN_CORS_ORIGINS",
	AllowedMethods:   "LEAFSCAN_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "LEAFSCAN_CORS_ALLOWED_HEADERS",
	AllowCredentials: "LEAFSCAN_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "LEAFSCAN_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "LEAFSCAN_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "LEAFSCAN_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "LEAFSCAN_OPENAPI_TITLE",
	Description: "LEAFSCAN_OPENAPI_DESCRIPTION",
}

var authEnv = &middleware.AuthEnv{
	Enabled:   "LEAFSCAN_AUTH_ENABLED",
	IssuerURL: "LEAFSCAN_AUTH_ISSUER_URL",
	ClientID:  "LEAFSCAN_AUTH_CLIENT_ID",
}

// APIConfig holds API routing, upload limits, CORS, pagination, admin auth
// and OpenAPI document settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	Auth          middleware.AuthConfig `toml:"auth"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return defaultMaxUploadSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.Auth.Merge(&overlay.Auth)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}
