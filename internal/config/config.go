// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting for the service.
type Config struct {
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	DBPath        string        `mapstructure:"DB_PATH"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
	CacheCapacity int           `mapstructure:"CACHE_CAPACITY"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from path/.env if present, then overlays any
// matching environment variables. A missing .env file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_PATH", "./data/paymeback.db")
	v.SetDefault("CACHE_TTL", "1h")
	v.SetDefault("CACHE_CAPACITY", 10000)
	v.SetDefault("LOG_LEVEL", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
