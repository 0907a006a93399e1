package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the logger options.
type Config struct {
	Env    string    // development -> readable console; otherwise JSON
	Level  string    // trace, debug, info, warn, error
	Output io.Writer // default os.Stderr
}

// Logger wraps zerolog for injection and consistency.
type Logger struct {
	zl zerolog.Logger
}

// New creates a structured logger. Development uses a readable console
// writer, every other environment JSON.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	w := out
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: out}
	}

	level := parseLevel(cfg.Level)
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()

	// Libraries using the global zerolog logger get the same output.
	log.Logger = zl

	return &Logger{zl: zl}
}

// parseLevel accepts zerolog level names in any case; unknown or empty
// names mean info.
func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Debug, Info, Warn and Error delegate to zerolog.
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }

// WithComponent returns a zerolog.Logger tagged with component, ready to
// be handed to an engine option.
func (l *Logger) WithComponent(component string) zerolog.Logger {
	return l.zl.With().Str("component", component).Logger()
}
