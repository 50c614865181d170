package infrastructure

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"meraki-api/config"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadConfig reads an optional .env file and then parses the process
// environment into an AppConfig.
func LoadConfig() (*config.AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.Sanitize()
	return &cfg, nil
}

// InitLogger installs a JSON slog handler as the process default.
func InitLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
