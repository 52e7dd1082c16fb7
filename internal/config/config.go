// Package config loads settings shared by every front-end from defaults,
// an optional YAML file, and TICKETS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/HendryAvila/tickets/internal/tickets"
)

// EnvPrefix is prepended to every environment override, with dots in the
// key replaced by underscores: db.path → TICKETS_DB_PATH.
const EnvPrefix = "TICKETS"

type Config struct {
	DB      DBConfig  `mapstructure:"db"`
	Project string    `mapstructure:"project"`
	Log     LogConfig `mapstructure:"log"`
}

type DBConfig struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File, when set, receives log output instead of stderr.
	File string `mapstructure:"file"`
}

// Dir returns the per-user directory holding config.yaml and, by
// default, the database.
func Dir() string {
	return filepath.Dir(tickets.DefaultPath())
}

// Load reads configuration. If file is empty, config.yaml in Dir() is
// used when present; an explicit file must exist.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := tickets.DefaultConfig()

	v.SetDefault("db.path", def.Path)
	v.SetDefault("db.busy_timeout", def.BusyTimeout)
	v.SetDefault("db.max_retries", def.MaxRetries)

	v.SetDefault("project", "")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
}

func (c *Config) validate() error {
	if c.DB.BusyTimeout < 0 {
		return fmt.Errorf("db.busy_timeout must not be negative, got %s", c.DB.BusyTimeout)
	}
	if c.DB.MaxRetries < 0 {
		return fmt.Errorf("db.max_retries must not be negative, got %d", c.DB.MaxRetries)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// Store converts the database settings to a tickets.Config. A leading
// "~/" in the path is expanded.
func (c *Config) Store() tickets.Config {
	out := tickets.DefaultConfig()
	out.Path = expandHome(c.DB.Path)
	out.BusyTimeout = c.DB.BusyTimeout
	out.MaxRetries = c.DB.MaxRetries
	return out
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
