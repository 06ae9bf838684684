package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Data source selection
	DataBackend string // "memory" or "gateway"

	// Gateway API
	GatewayBaseURL string
	GatewayTimeout time.Duration

	// Caching
	RefCodeTTL  time.Duration
	SnapshotTTL time.Duration

	// Memory backend seed directory
	DataDir string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		DataBackend:    getEnv("DATA_BACKEND", "memory"),
		GatewayBaseURL: getEnv("GATEWAY_BASE_URL", "http://localhost:9090/api"),
		GatewayTimeout: getEnvDuration("GATEWAY_TIMEOUT", 10*time.Second),
		RefCodeTTL:     getEnvDuration("REFCODE_TTL", 5*time.Minute),
		SnapshotTTL:    getEnvDuration("SNAPSHOT_TTL", 30*time.Second),
		DataDir:        getEnv("DATA_DIR", "./data"),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "memory", "gateway":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [memory gateway]", c.DataBackend))
	}

	if c.DataBackend == "gateway" {
		if u, err := url.Parse(c.GatewayBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid gateway base URL '%s'", c.GatewayBaseURL))
		}
		if c.GatewayTimeout < time.Second || c.GatewayTimeout > time.Minute {
			errs = append(errs, fmt.Sprintf("invalid gateway timeout %v: must be between 1s and 1m", c.GatewayTimeout))
		}
	}

	if c.RefCodeTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid refcode TTL %v: must be at least 1 second", c.RefCodeTTL))
	}
	if c.SnapshotTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid snapshot TTL %v: must be at least 1 second", c.SnapshotTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
