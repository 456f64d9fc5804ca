package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/TWRT/teamwork-tasks/internal/config"
)

// NewDefaultLogger is used until the config has been read.
func NewDefaultLogger(w io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	return zerolog.New(w).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
}

// NewLogger adjusts the level and output format of base for the configured
// environment. Local runs get a human readable console writer.
func NewLogger(base zerolog.Logger, w io.Writer, env string) (zerolog.Logger, error) {
	switch env {
	case config.EnvDev:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case config.EnvProd:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case config.EnvLocal:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = w
		w = consoleWriter
	default:
		base.Error().
			Str("env", env).
			Msg("unknown env")
		return base, fmt.Errorf("unknown env: %s", env)
	}

	logger := base.Output(w)
	logger.Debug().
		Str("env", env).
		Msg("initialized application logger")
	return logger, nil
}
