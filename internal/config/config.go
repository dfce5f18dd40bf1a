package config

import (
	"os"
	"strconv"

	"bootdw/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Bootstrap BootstrapConfig
}

// ServerConfig holds API server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings. URL empty means
// persistence is disabled.
type DatabaseConfig struct {
	URL string
}

// BootstrapConfig holds defaults for bootstrap test invocations
type BootstrapConfig struct {
	// DefaultReplicates is used when a request omits n_bootstrap. At least
	// 199 is recommended for stable percentiles.
	DefaultReplicates int
	DefaultSeed       int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server:   ServerConfig{Port: envOr("PORT", "8080")},
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Bootstrap: BootstrapConfig{
			DefaultReplicates: 1000,
			DefaultSeed:       42,
		},
	}

	if v := os.Getenv("BOOTSTRAP_REPLICATES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, errors.ConfigInvalid("BOOTSTRAP_REPLICATES must be a positive integer")
		}
		cfg.Bootstrap.DefaultReplicates = n
	}
	if v := os.Getenv("BOOTSTRAP_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("BOOTSTRAP_SEED must be an integer")
		}
		cfg.Bootstrap.DefaultSeed = seed
	}

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		return nil, errors.ConfigInvalid("PORT must be numeric")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
