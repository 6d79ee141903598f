package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "FRAUD"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration. Every key can be set in the YAML
// config file or as FRAUD_<KEY> in the environment.
type Config struct {
	HTTPAddr       string        `mapstructure:"http_addr" validate:"required"`
	MetricsAddr    string        `mapstructure:"metrics_addr" validate:"required"`
	LogLevel       string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Workers        int           `mapstructure:"workers" validate:"min=1,max=64"`
	MaxBatchSize   int           `mapstructure:"max_batch_size" validate:"min=1"`
	SigningKey     string        `mapstructure:"signing_key" validate:"required"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("log_level", "info")
	v.SetDefault("workers", 1)
	v.SetDefault("max_batch_size", 10000)
	v.SetDefault("signing_key", "change-me")
	v.SetDefault("request_timeout", 30*time.Second)
}

// Load reads defaults, then the optional config file at path, then the
// environment, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
