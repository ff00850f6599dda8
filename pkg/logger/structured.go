package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var zlog = zerolog.New(os.Stdout).With().Timestamp().Logger()

// IsDevelopmentEnv reports whether env gets human-readable console output
func IsDevelopmentEnv(env string) bool {
	switch strings.ToLower(env) {
	case "development", "dev", "local":
		return true
	}
	return false
}

// InitStructured initializes the global logger. LOG_LEVEL overrides the
// default level (debug for development, info otherwise).
func InitStructured(env string) {
	initWith(env, os.Getenv("LOG_LEVEL"), os.Stdout)
}

func initWith(env, level string, out io.Writer) {
	w := out
	defaultLevel := zerolog.InfoLevel
	if IsDevelopmentEnv(env) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		defaultLevel = zerolog.DebugLevel
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = defaultLevel
	}

	zlog = zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("service", "angple-content").
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
}

// GetLogger returns the global zerolog logger
func GetLogger() *zerolog.Logger {
	return &zlog
}

// Component returns a child logger tagged with a component name
func Component(name string) *zerolog.Logger {
	l := zlog.With().Str("component", name).Logger()
	return &l
}

// WithRequestID returns a logger with request_id field
func WithRequestID(requestID string) zerolog.Logger {
	return zlog.With().Str("request_id", requestID).Logger()
}

// Nop returns a disabled logger, handy for tests and the quiet CLI
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
