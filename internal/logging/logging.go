// Package logging builds the client's file logger. The interactive UI owns
// the terminal, so logs always go to a rotated file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/idilsaglam/tada/internal/config"
)

// Logger wraps a charmbracelet logger and the file behind it.
type Logger struct {
	*log.Logger
	closer io.Closer
}

// New returns a logger writing to cfg.File. An empty file discards output.
func New(cfg config.LogConfig) (*Logger, error) {
	if cfg.File == "" {
		return &Logger{Logger: newLogger(io.Discard, cfg.Level)}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return nil, err
	}
	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}
	return &Logger{Logger: newLogger(w, cfg.Level), closer: w}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: newLogger(io.Discard, "error")}
}

func newLogger(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		Prefix:          "tada",
	})
}

func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
