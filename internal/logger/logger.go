package logger

import (
	"io"
	"os"

	"dota-review-tracker/internal/config"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func New(cfg *config.Config) zerolog.Logger {
	return SetLevel(os.Stdout, cfg.Level())
}

func SetLevel(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(level)

	return logger
}

var Module = fx.Provide(New)
