package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config controls the global logger.
type Config struct {
	// Level is one of debug, info, warn, error, fatal, disabled.
	Level string
	// Format is "json" or "console".
	Format string
	Output io.Writer
}

var (
	mu  sync.RWMutex
	log = newLogger(Config{Level: "info", Format: "json"})
)

// Init reconfigures the global logger. Safe to call more than once.
func Init(cfg Config) {
	l := newLogger(cfg)

	mu.Lock()
	log = l
	mu.Unlock()
}

func newLogger(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name to zerolog's level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// L returns the global logger for structured use:
//
//	logger.L().Info().Str("reportId", id).Msg("report created")
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

// With returns a child logger context carrying the given component name.
func With(component string) zerolog.Logger {
	return L().With().Str("component", component).Logger()
}

func Debug(format string, v ...interface{}) { L().Debug().Msgf(format, v...) }
func Info(format string, v ...interface{})  { L().Info().Msgf(format, v...) }
func Warn(format string, v ...interface{})  { L().Warn().Msgf(format, v...) }
func Error(format string, v ...interface{}) { L().Error().Msgf(format, v...) }
func Fatal(format string, v ...interface{}) { L().Fatal().Msgf(format, v...) }
