package config

import (
	"fmt"
	"os"
	"strconv"
)

// Merchant backend kinds.
const (
	BackendPostgres = "postgres"
	BackendCatalog  = "catalog"
)

// Catalogue sources for the catalog backend.
const (
	CatalogSourceFile = "file"
	CatalogSourceS3   = "s3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Merchant MerchantConfig
	Cart     CartConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration, used when the
// merchant backend is "postgres".
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// MerchantConfig selects and configures the merchant backend.
type MerchantConfig struct {
	// Backend is "postgres" or "catalog".
	Backend string

	// Catalogue settings, used when Backend is "catalog".
	CatalogSource string // "file" or "s3"
	CatalogPath   string // file path, or S3 key
	S3Bucket      string
	S3Region      string
}

// CartConfig holds cart-store configuration.
type CartConfig struct {
	// TTLSeconds evicts carts idle for longer than this. Zero disables
	// eviction.
	TTLSeconds int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "merchantkit"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Merchant: MerchantConfig{
			Backend:       getEnv("MERCHANT_BACKEND", BackendCatalog),
			CatalogSource: getEnv("CATALOG_SOURCE", CatalogSourceFile),
			CatalogPath:   getEnv("CATALOG_PATH", "data/catalog.json"),
			S3Bucket:      getEnv("CATALOG_S3_BUCKET", ""),
			S3Region:      getEnv("CATALOG_S3_REGION", "us-east-1"),
		},
		Cart: CartConfig{
			TTLSeconds: getEnvAsInt("CART_TTL_SECONDS", 3600),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Merchant.Backend {
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.MaxConnections < 1 {
			return fmt.Errorf("database max connections must be at least 1")
		}
		if c.Database.MinConnections < 1 {
			return fmt.Errorf("database min connections must be at least 1")
		}
		if c.Database.MinConnections > c.Database.MaxConnections {
			return fmt.Errorf("database min connections cannot exceed max connections")
		}
	case BackendCatalog:
		switch c.Merchant.CatalogSource {
		case CatalogSourceFile:
			if c.Merchant.CatalogPath == "" {
				return fmt.Errorf("catalogue path is required")
			}
		case CatalogSourceS3:
			if c.Merchant.S3Bucket == "" {
				return fmt.Errorf("S3 bucket is required for the s3 catalogue source")
			}
			if c.Merchant.S3Region == "" {
				return fmt.Errorf("S3 region is required for the s3 catalogue source")
			}
			if c.Merchant.CatalogPath == "" {
				return fmt.Errorf("catalogue key is required for the s3 catalogue source")
			}
		default:
			return fmt.Errorf("invalid catalogue source: %s (must be file or s3)", c.Merchant.CatalogSource)
		}
	default:
		return fmt.Errorf("invalid merchant backend: %s (must be postgres or catalog)", c.Merchant.Backend)
	}

	if c.Cart.TTLSeconds < 0 {
		return fmt.Errorf("cart TTL cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
