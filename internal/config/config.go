package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath         string
	ServerPort     string
	BridgeAddr     string
	LogLevel       string
	LocalAccountID string

	// set when no .env file was found
	envFileMissing bool
}

func Load() (*Config, error) {
	envFileMissing := godotenv.Load() != nil

	cfg := &Config{
		DBPath:         getEnv("DB_PATH", "dota-reviews.db"),
		ServerPort:     getEnv("SERVER_PORT", "8787"),
		BridgeAddr:     getEnv("BRIDGE_ADDR", "127.0.0.1:8788"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LocalAccountID: getEnv("LOCAL_ACCOUNT_ID", ""),
		envFileMissing: envFileMissing,
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("DB_PATH must not be empty")
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	return cfg, nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func (c *Config) Log(logger zerolog.Logger) {
	if c.envFileMissing {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	logger.Info().
		Str("db_path", c.DBPath).
		Str("server_port", c.ServerPort).
		Str("bridge_addr", c.BridgeAddr).
		Str("log_level", c.LogLevel).
		Bool("local_account_fallback", c.LocalAccountID != "").
		Msg("configuration loaded")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Options(
	fx.Provide(Load),
	fx.Invoke(func(cfg *Config, logger zerolog.Logger) { cfg.Log(logger) }),
)
