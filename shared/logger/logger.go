package logger

import (
	"io"
	"os"
	"time"

	"cowork/config"
	"cowork/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.InfoLevel

// InitLogger installs a human readable console logger. SetLogLevel switches
// to JSON output once the environment is known.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = newLogger(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// ErrorWithStack logs err together with the stack of the caller.
func ErrorWithStack(err error) {
	if err == nil {
		return
	}

	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies the configured level and picks the output format.
// Anything outside development logs JSON lines.
func SetLogLevel(cfg *config.Config) {
	if cfg.Server.Env != constant.ServerEnvDevelopment && cfg.Server.Env != constant.Empty {
		log.Logger = newLogger(os.Stdout).With().Str("service", cfg.App.Name).Logger()
	}

	zerolog.SetGlobalLevel(ParseLevel(cfg.Server.LogLevel))
	log.Debug().Str("loglevel", zerolog.GlobalLevel().String()).Msg("Log level applied.")
}

// ParseLevel reads a zerolog level name, falling back to info.
func ParseLevel(value string) zerolog.Level {
	if value == constant.Empty {
		return defaultLevel
	}

	level, err := zerolog.ParseLevel(value)
	if err != nil {
		log.Warn().Str("loglevel", value).Msg("Unknown log level, using default.")

		return defaultLevel
	}

	return level
}

func newLogger(out io.Writer) zerolog.Logger {
	return zerolog.New(out).With().Timestamp().Logger()
}
