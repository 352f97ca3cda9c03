// Package config loads tableshim settings from .tableshim.yaml, the
// environment and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/tableshim/internal/adapters/database"
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
)

// AppFs is the filesystem config files are read from and written to.
var AppFs = afero.NewOsFs()

const (
	// FileName is the config file name without extension.
	FileName = ".tableshim"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TABLESHIM"
)

// Config holds the application configuration.
type Config struct {
	SchemaPath     string `mapstructure:"schema_path"`
	Dialect        string `mapstructure:"dialect"`
	DatabaseURL    string `mapstructure:"database_url"`
	Debug          bool   `mapstructure:"debug"`
	MaxConnections int    `mapstructure:"max_connections"`
	ConnectTimeout int    `mapstructure:"connect_timeout"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		SchemaPath:     "schema.tbl",
		Dialect:        string(domain.SQLite),
		DatabaseURL:    "file:tableshim.db",
		MaxConnections: 10,
		ConnectTimeout: 10,
	}
}

// Load reads configuration. An explicit configFile must exist; otherwise
// .tableshim.yaml is searched in the working directory, $HOME and
// $HOME/.config/tableshim and is optional. Environment variables with the
// TABLESHIM_ prefix override file values, and .env and .env.local are
// loaded into the environment first.
func Load(configFile string) (*Config, error) {
	if err := loadDotEnv(AppFs); err != nil {
		return nil, err
	}

	v, err := newViper(AppFs)
	if err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = FileName + ".yaml"
	}
	if err := AppFs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.Set("schema_path", cfg.SchemaPath)
	v.Set("dialect", cfg.Dialect)
	v.Set("database_url", cfg.DatabaseURL)
	v.Set("debug", cfg.Debug)
	v.Set("max_connections", cfg.MaxConnections)
	v.Set("connect_timeout", cfg.ConnectTimeout)
	return v.WriteConfigAs(path)
}

// Validate checks the dialect and numeric limits.
func (c *Config) Validate() error {
	d, ok := domain.ParseDialect(c.Dialect)
	if !ok {
		return fmt.Errorf("unsupported dialect %q", c.Dialect)
	}
	c.Dialect = string(d)
	if c.MaxConnections < 1 {
		return fmt.Errorf("max_connections must be positive, got %d", c.MaxConnections)
	}
	if c.ConnectTimeout < 1 {
		return fmt.Errorf("connect_timeout must be positive, got %d", c.ConnectTimeout)
	}
	return nil
}

// Database returns the adapter configuration.
func (c *Config) Database() database.Config {
	return database.Config{
		Dialect:        domain.Dialect(c.Dialect),
		URL:            c.DatabaseURL,
		MaxConnections: c.MaxConnections,
		ConnectTimeout: c.ConnectTimeout,
	}
}

func newViper(fs afero.Fs) (*viper.Viper, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "tableshim"))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// DATABASE_URL is honored as a fallback for the prefixed name.
	if err := v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, err
	}

	d := Default()
	v.SetDefault("schema_path", d.SchemaPath)
	v.SetDefault("dialect", d.Dialect)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("max_connections", d.MaxConnections)
	v.SetDefault("connect_timeout", d.ConnectTimeout)
	return v, nil
}

// loadDotEnv applies .env without overriding the environment, then
// .env.local with override.
func loadDotEnv(fs afero.Fs) error {
	for _, f := range []struct {
		name     string
		override bool
	}{{".env", false}, {".env.local", true}} {
		content, err := afero.ReadFile(fs, f.name)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read %s: %w", f.name, err)
		}
		vars, err := godotenv.UnmarshalBytes(content)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", f.name, err)
		}
		for k, val := range vars {
			if _, set := os.LookupEnv(k); set && !f.override {
				continue
			}
			if err := os.Setenv(k, val); err != nil {
				return err
			}
		}
	}
	return nil
}
