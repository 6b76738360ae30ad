package logger_test

import (
	"bytes"
	"errors"
	"testing"

	"cowork/config"
	"cowork/shared/logger"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func restoreGlobals(t *testing.T) {
	t.Helper()

	original := log.Logger
	level := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		value string
		want  zerolog.Level
	}{
		{value: "debug", want: zerolog.DebugLevel},
		{value: "warn", want: zerolog.WarnLevel},
		{value: "disabled", want: zerolog.Disabled},
		{value: "", want: zerolog.InfoLevel},
		{value: "loud", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.value))
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	restoreGlobals(t)
	logger.InitLogger()

	cfg := &config.Config{}
	cfg.Server.Env = "development"
	cfg.Server.LogLevel = "error"

	logger.SetLogLevel(cfg)

	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
}

func TestErrorWithStack(t *testing.T) {
	restoreGlobals(t)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger.ErrorWithStack(nil)
	assert.Zero(t, buf.Len())

	logger.ErrorWithStack(errors.New("meeting room lookup failed"))

	assert.Contains(t, buf.String(), "meeting room lookup failed")
	assert.Contains(t, buf.String(), `"level":"error"`)
}
