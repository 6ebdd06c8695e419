package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration. Redis is optional; an empty RedisURL and
	// RedisHost disable rate limiting and token revocation.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Listing configuration
	PageSize int

	// Image storage
	ImageBackend string
	MediaDir     string
	MediaURL     string
	S3Bucket     string
	AWSRegion    string

	// Maximum recipes a user may create per minute, 0 disables the limit.
	RecipeCreateLimit int

	// Origins allowed to call the API from a browser
	CORSOrigins []string
}

// LoadConfig builds the configuration from environment variables, falling
// back to Docker secrets and then to defaults.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if env == Development || env == Test {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := &Config{
		ServerPort: lookup("SERVER_PORT", "8080"),
		ServerHost: lookup("SERVER_HOST", "0.0.0.0"),

		DBDriver:   lookup("DB_DRIVER", defaultDriver(env)),
		DBHost:     lookup("DB_HOST", "localhost"),
		DBPort:     lookup("DB_PORT", "5432"),
		DBUser:     lookup("DB_USER", "postgres"),
		DBPassword: lookup("DB_PASSWORD", ""),
		DBName:     lookup("DB_NAME", "foodgram"),
		DBSSLMode:  lookup("DB_SSL_MODE", "disable"),
		SQLitePath: lookup("SQLITE_PATH", "foodgram.db"),

		RedisURL:      lookup("REDIS_URL", ""),
		RedisHost:     lookup("REDIS_HOST", ""),
		RedisPort:     lookup("REDIS_PORT", "6379"),
		RedisPassword: lookup("REDIS_PASSWORD", ""),

		JWTSecret: lookup("JWT_SECRET", ""),

		ImageBackend: lookup("IMAGE_BACKEND", "local"),
		MediaDir:     lookup("MEDIA_DIR", "media"),
		MediaURL:     lookup("MEDIA_URL", "/media"),
		S3Bucket:     lookup("S3_BUCKET_NAME", ""),
		AWSRegion:    lookup("AWS_REGION", "us-east-1"),

		CORSOrigins: splitList(lookup("CORS_ORIGINS", "")),
	}

	var err error
	if cfg.RedisDB, err = lookupInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = lookupInt("PAGE_SIZE", 6); err != nil {
		return nil, err
	}
	if cfg.RecipeCreateLimit, err = lookupInt("RECIPE_CREATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = time.ParseDuration(lookup("TOKEN_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RedisEnabled reports whether a Redis server is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// Addr returns the address the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

// PostgresDSN returns the connection string for the PostgreSQL driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func defaultDriver(env Environment) string {
	if env == Production || env == CI {
		return "postgres"
	}
	return "sqlite"
}

// lookup returns the environment variable name, then the Docker secret of
// the same name in lower case, then def.
func lookup(name, def string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	if value := readSecret(strings.ToLower(name)); value != "" {
		return value
	}
	return def
}

func lookupInt(name string, def int) (int, error) {
	raw := lookup(name, "")
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return value, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
