// Package config provides YAML-based configuration loading for the server.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration, loaded from config.yaml.
// Command-line flags override individual fields after loading.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Demo      DemoConfig      `yaml:"demo"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// DemoConfig controls demo data seeding on startup.
type DemoConfig struct {
	Seed bool `yaml:"seed"`
}

// ReconcileConfig controls the background used-hours reconciler.
type ReconcileConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalMinutes int  `yaml:"interval_minutes"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/timeflow.db"
	}
	if c.Reconcile.IntervalMinutes == 0 {
		c.Reconcile.IntervalMinutes = 60
	}
}

// validate checks that all fields are consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	for i, origin := range c.Server.CORSOrigins {
		if origin == "" {
			errs = append(errs, fmt.Sprintf("server.cors_origins[%d] is empty", i))
		}
	}
	if c.Reconcile.IntervalMinutes < 0 {
		errs = append(errs, fmt.Sprintf("reconcile.interval_minutes %d is negative", c.Reconcile.IntervalMinutes))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
