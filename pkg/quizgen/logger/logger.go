// Package logger builds the charm loggers shared by the quizgen tools.
package logger

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Config configures a logger. Zero values select stderr, info level and
// text output.
type Config struct {
	Level  string
	Output io.Writer
	JSON   bool
	Prefix string
}

// ParseLevel maps a level name to a charm level, defaulting to info.
func ParseLevel(s string) charmlog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return charmlog.DebugLevel
	case "warn", "warning":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// New creates a logger from cfg.
func New(cfg Config) *charmlog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           ParseLevel(cfg.Level),
		Prefix:          cfg.Prefix,
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	}
	return l
}

// Discard returns a logger that drops everything. Library types fall back
// to it when no logger is configured.
func Discard() *charmlog.Logger {
	return charmlog.New(io.Discard)
}
