package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration, read from environment variables.
type Config struct {
	DBPath   string `env:"LARDER_DB_PATH" envDefault:"larder.db"`
	LogLevel string `env:"LARDER_LOG_LEVEL" envDefault:"info"`
}

// Load reads a .env file if one exists in the working directory, then parses
// the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
