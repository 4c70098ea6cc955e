package internal

import (
	"fmt"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	SearchLimit    *int   `env:"SEARCH_LIMIT"`
	DebugPort      int    `env:"DEBUG_PORT,default=8081"`
	MaxBots        int    `env:"MAX_BOTS,default=5"`
}

// LoadConfig reads a .env file when one is present, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if config.SearchLimit != nil && *config.SearchLimit <= 0 {
		return Config{}, fmt.Errorf("SEARCH_LIMIT must be positive, got %d", *config.SearchLimit)
	}
	return config, nil
}
