// Package config resolves the CLI settings from defaults, an optional config
// file, FORMSTATE_* environment variables and explicit flag overrides, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment variable, e.g. FORMSTATE_LOG_LEVEL.
const EnvPrefix = "FORMSTATE"

// Config is the resolved CLI configuration.
type Config struct {
	Log      LogConfig     `mapstructure:"log"`
	Schemas  string        `mapstructure:"schemas"`
	Sanitize bool          `mapstructure:"sanitize"`
	Output   string        `mapstructure:"output"`
	OpenAPI  OpenAPIConfig `mapstructure:"openapi"`
}

// LogConfig controls the zap logger. When File is set, output goes to a
// rotating file instead of stderr.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// OpenAPIConfig holds the contract export defaults.
type OpenAPIConfig struct {
	Format  string `mapstructure:"format"`
	Title   string `mapstructure:"title"`
	Version string `mapstructure:"version"`
}

var defaults = map[string]any{
	"log.level":        "warn",
	"log.format":       "console",
	"log.file":         "",
	"log.max_size_mb":  10,
	"log.max_backups":  3,
	"log.max_age_days": 28,
	"log.compress":     false,
	"schemas":          "",
	"sanitize":         true,
	"output":           "text",
	"openapi.format":   "yaml",
	"openapi.title":    "formstate screens",
	"openapi.version":  "1.0.0",
}

// Load resolves the configuration. file may be empty, in which case a
// formstate.{yaml,json,toml} in the working directory or in
// $HOME/.config/formstate is used when present. overrides are keyed like the
// config file ("log.level") and win over every other source.
func Load(file string, overrides map[string]any) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	} else {
		v.SetConfigName("formstate")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/formstate")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: log.format must be console or json, got %q", c.Log.Format)
	}
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("config: output must be text or json, got %q", c.Output)
	}
	switch c.OpenAPI.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("config: openapi.format must be json or yaml, got %q", c.OpenAPI.Format)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return errors.New("config: log rotation limits must not be negative")
	}
	return nil
}
