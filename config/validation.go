package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable in the current
// environment. Production and CI must run against PostgreSQL with explicit
// secrets.
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var problems []string

	if cfg.JWTSecret == "" {
		if env == Production || env == CI {
			problems = append(problems, ValidationError{"JWT_SECRET", "required"}.Error())
		} else {
			cfg.JWTSecret = "dev-insecure-secret"
		}
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			problems = append(problems, ValidationError{"DB_HOST", "host and database name are required for postgres"}.Error())
		}
		if cfg.DBPassword == "" && (env == Production || env == CI) {
			problems = append(problems, ValidationError{"DB_PASSWORD", "required"}.Error())
		}
	case "sqlite":
		if IsProduction() {
			problems = append(problems, ValidationError{"DB_DRIVER", "sqlite is not allowed in production"}.Error())
		}
		if cfg.SQLitePath == "" {
			problems = append(problems, ValidationError{"SQLITE_PATH", "required for sqlite"}.Error())
		}
	default:
		problems = append(problems, ValidationError{"DB_DRIVER", fmt.Sprintf("unknown driver %q", cfg.DBDriver)}.Error())
	}

	switch cfg.ImageBackend {
	case "local":
		if cfg.MediaDir == "" {
			problems = append(problems, ValidationError{"MEDIA_DIR", "required for local image storage"}.Error())
		}
	case "s3":
		if cfg.S3Bucket == "" {
			problems = append(problems, ValidationError{"S3_BUCKET_NAME", "required for s3 image storage"}.Error())
		}
	default:
		problems = append(problems, ValidationError{"IMAGE_BACKEND", fmt.Sprintf("unknown backend %q", cfg.ImageBackend)}.Error())
	}

	if cfg.PageSize < 1 {
		problems = append(problems, ValidationError{"PAGE_SIZE", "must be at least 1"}.Error())
	}
	if cfg.TokenTTL <= 0 {
		problems = append(problems, ValidationError{"TOKEN_TTL", "must be positive"}.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "\n"))
	}
	return nil
}
