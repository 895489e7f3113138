// Package config loads process configuration from the environment and the
// per-client sheet schema registry from YAML. Registry validation happens at
// load time so a broken schema is caught before any sync runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

const AppName = "insurancesync"

// Config is the process configuration, read from the environment.
type Config struct {
	// DatabasePath is the SQLite file holding the customer cache. Defaults
	// to <user config dir>/insurancesync/customers.db.
	DatabasePath string `env:"INSYNC_DB_PATH"`
	// ClientsPath is the YAML client registry. Defaults to
	// <user config dir>/insurancesync/clients.yaml.
	ClientsPath string `env:"INSYNC_CLIENTS_PATH"`
	// CredentialsPath is the Google OAuth client JSON.
	CredentialsPath string `env:"INSYNC_CREDENTIALS_PATH"`
	// Account is the Google account whose stored refresh token is used.
	Account string `env:"INSYNC_ACCOUNT"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `env:"INSYNC_LOG_LEVEL" envDefault:"info"`
}

// Load reads the environment and fills in path defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(dir, "customers.db")
	}
	if cfg.ClientsPath == "" {
		cfg.ClientsPath = filepath.Join(dir, "clients.yaml")
	}
	if cfg.CredentialsPath == "" {
		cfg.CredentialsPath = filepath.Join(dir, "credentials.json")
	}

	return cfg, nil
}

// Dir returns the application config directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// EnsureDir creates the config directory if needed and returns it.
func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
