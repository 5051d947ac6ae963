// Package config loads databridge configuration from a YAML file with
// environment variable overrides. Secrets (database passwords) should come
// from environment variables only.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the databridge binary.
type Config struct {
	// Source selects the loader: csv, postgres, mssql or sqlite.
	Source string `yaml:"source" env:"DATABRIDGE_SOURCE" env-default:"csv"`

	// LogLevel is a zap level string (debug, info, warn, error).
	LogLevel string `yaml:"log_level" env:"DATABRIDGE_LOG_LEVEL" env-default:"info"`

	CSV       CSVConfig       `yaml:"csv"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	MSSQL     MSSQLConfig     `yaml:"mssql"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Inference InferenceConfig `yaml:"inference"`
}

// CSVConfig configures the delimited-file directory loader.
type CSVConfig struct {
	Dir       string `yaml:"dir" env:"DATABRIDGE_CSV_DIR" env-default:"."`
	Delimiter string `yaml:"delimiter" env:"DATABRIDGE_CSV_DELIMITER" env-default:","`
}

// PostgresConfig configures the PostgreSQL catalog loader.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"DATABRIDGE_PG_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DATABRIDGE_PG_PORT" env-default:"5432"`
	Database string `yaml:"database" env:"DATABRIDGE_PG_DATABASE" env-default:"postgres"`
	User     string `yaml:"user" env:"DATABRIDGE_PG_USER" env-default:"postgres"`
	Password string `yaml:"-" env:"DATABRIDGE_PG_PASSWORD" env-default:""`
	SSLMode  string `yaml:"ssl_mode" env:"DATABRIDGE_PG_SSLMODE" env-default:"prefer"`
	Schema   string `yaml:"schema" env:"DATABRIDGE_PG_SCHEMA" env-default:"public"`
}

// MSSQLConfig configures the SQL Server catalog loader.
type MSSQLConfig struct {
	Host     string `yaml:"host" env:"DATABRIDGE_MSSQL_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DATABRIDGE_MSSQL_PORT" env-default:"1433"`
	Database string `yaml:"database" env:"DATABRIDGE_MSSQL_DATABASE" env-default:"master"`
	User     string `yaml:"user" env:"DATABRIDGE_MSSQL_USER" env-default:"sa"`
	Password string `yaml:"-" env:"DATABRIDGE_MSSQL_PASSWORD" env-default:""`
}

// SQLiteConfig configures the SQLite file loader.
type SQLiteConfig struct {
	Path string `yaml:"path" env:"DATABRIDGE_SQLITE_PATH" env-default:"databridge.db"`
}

// InferenceConfig tunes relationship inference.
type InferenceConfig struct {
	// Threshold is the minimum subset ratio for a relationship.
	Threshold float64 `yaml:"threshold" env:"DATABRIDGE_INFERENCE_THRESHOLD" env-default:"0.95"`

	// UniqueIgnoresNulls drops nulls from the key-candidate uniqueness
	// check instead of letting any null disqualify the column.
	UniqueIgnoresNulls bool `yaml:"unique_ignores_nulls" env:"DATABRIDGE_UNIQUE_IGNORES_NULLS" env-default:"false"`

	// Mode is value_match or name_match.
	Mode string `yaml:"mode" env:"DATABRIDGE_INFERENCE_MODE" env-default:"value_match"`
}

// Load reads configuration from the given YAML file, applying environment
// overrides. A missing file is not an error; environment variables and
// defaults are used alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Source {
	case "csv", "postgres", "mssql", "sqlite":
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	if c.Inference.Threshold <= 0 || c.Inference.Threshold > 1 {
		return fmt.Errorf("inference threshold must be in (0,1], got %v", c.Inference.Threshold)
	}
	switch c.Inference.Mode {
	case "value_match", "name_match":
	default:
		return fmt.Errorf("unknown inference mode %q", c.Inference.Mode)
	}
	if len(c.CSV.Delimiter) != 1 {
		return fmt.Errorf("csv delimiter must be a single character, got %q", c.CSV.Delimiter)
	}
	return nil
}
