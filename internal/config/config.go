// Package config loads pipeline settings from a .env file and the
// environment. Environment variables override the file.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DataDir     string `mapstructure:"DATA_DIR"`
	SnapshotDir string `mapstructure:"SNAPSHOT_DIR"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Synthetic feed sizing, used by the generate command.
	Seed            int64 `mapstructure:"SEED"`
	NumPatients     int   `mapstructure:"NUM_PATIENTS"`
	NumEncounters   int   `mapstructure:"NUM_ENCOUNTERS"`
	NumLabOrders    int   `mapstructure:"NUM_LAB_ORDERS"`
	NumAppointments int   `mapstructure:"NUM_APPOINTMENTS"`
}

// Load reads .env from the working directory if present, then applies
// environment overrides. DATABASE_URL has no default: commands that
// never touch PostgreSQL work without it, and Validate gates the rest.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("SNAPSHOT_DIR", "snapshots")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED", 42)
	v.SetDefault("NUM_PATIENTS", 50000)
	v.SetDefault("NUM_ENCOUNTERS", 100000)
	v.SetDefault("NUM_LAB_ORDERS", 50000)
	v.SetDefault("NUM_APPOINTMENTS", 120000)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DATA_DIR")
	v.BindEnv("SNAPSHOT_DIR")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("SEED")
	v.BindEnv("NUM_PATIENTS")
	v.BindEnv("NUM_ENCOUNTERS")
	v.BindEnv("NUM_LAB_ORDERS")
	v.BindEnv("NUM_APPOINTMENTS")

	// Try reading .env, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings a full pipeline run depends on.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	return nil
}

// Source file paths under DataDir, one per feed.

func (c *Config) PatientsPath() string     { return filepath.Join(c.DataDir, "patients.csv") }
func (c *Config) EncountersPath() string   { return filepath.Join(c.DataDir, "encounters.json") }
func (c *Config) LabResultsPath() string   { return filepath.Join(c.DataDir, "lab_results.csv") }
func (c *Config) AppointmentsPath() string { return filepath.Join(c.DataDir, "appointments.csv") }
