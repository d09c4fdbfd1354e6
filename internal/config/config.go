package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	// HTTP Server
	Host            string        `env:"HOST" validate:"required,hostname|ip"`
	Port            int           `env:"PORT" validate:"min=1,max=65535"`
	OpenBrowser     bool          `env:"OPEN_BROWSER"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`

	// Statement loading
	HeaderScanRows int `env:"HEADER_SCAN_ROWS" validate:"min=1,max=1000"`
	SiblingWorkers int `env:"SIBLING_WORKERS" validate:"min=1,max=64"`

	// Detail cache
	DetailCacheSize int           `env:"DETAIL_CACHE_SIZE" validate:"min=1,max=100000"`
	DetailCacheTTL  time.Duration `env:"DETAIL_CACHE_TTL"`

	// Google Sheets
	GoogleServiceAccountJSON string `env:"GOOGLE_SERVICE_ACCOUNT_JSON" validate:"omitempty,json"`
	GoogleServiceAccountFile string `env:"GOOGLE_SERVICE_ACCOUNT_FILE" validate:"omitempty,file"`
}

func Load() *Config {
	return &Config{
		Host:            getEnv("HOST", "127.0.0.1"),
		Port:            getEnvInt("PORT", 8050),
		OpenBrowser:     getEnvBool("OPEN_BROWSER", true),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		HeaderScanRows: getEnvInt("HEADER_SCAN_ROWS", 10),
		SiblingWorkers: getEnvInt("SIBLING_WORKERS", 4),

		DetailCacheSize: getEnvInt("DETAIL_CACHE_SIZE", 64),
		DetailCacheTTL:  getEnvDuration("DETAIL_CACHE_TTL", 10*time.Minute),

		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
	}
}

// Addr is the listen address of the dashboard server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("configuration validation failed:\n- %v", err)
		}
		for _, fe := range verrs {
			errs = append(errs, describe(fe))
		}
	}

	if c.ShutdownTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid SHUTDOWN_TIMEOUT %v: must be at least 1 second", c.ShutdownTimeout))
	} else if c.ShutdownTimeout > 5*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid SHUTDOWN_TIMEOUT %v: must be at most 5 minutes", c.ShutdownTimeout))
	}

	if c.DetailCacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("invalid DETAIL_CACHE_TTL %v: must not be negative", c.DetailCacheTTL))
	}

	if c.GoogleServiceAccountJSON != "" && c.GoogleServiceAccountFile != "" {
		errs = append(errs, "set only one of GOOGLE_SERVICE_ACCOUNT_JSON and GOOGLE_SERVICE_ACCOUNT_FILE")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "min":
		return fmt.Sprintf("invalid %s %v: must be at least %s", name, fe.Value(), fe.Param())
	case "max":
		return fmt.Sprintf("invalid %s %v: must be at most %s", name, fe.Value(), fe.Param())
	case "oneof":
		return fmt.Sprintf("invalid %s '%v': must be one of [%s]", name, fe.Value(), fe.Param())
	case "hostname|ip":
		return fmt.Sprintf("invalid %s '%v': must be a hostname or IP address", name, fe.Value())
	case "json":
		return fmt.Sprintf("invalid %s: must be valid JSON", name)
	case "file":
		return fmt.Sprintf("%s does not exist: %v", name, fe.Value())
	}
	return fmt.Sprintf("invalid %s '%v': failed %s", name, fe.Value(), fe.Tag())
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
