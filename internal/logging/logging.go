// Package logging builds the structured logger shared by the console and
// the data-access service.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nhle/admin-console/internal/model"
)

// Logger wraps a logrus logger and the rotating file behind it.
type Logger struct {
	*logrus.Logger
	file *lumberjack.Logger
}

// New creates a logger writing JSON lines to the configured file. When
// alsoStderr is set, entries are mirrored to stderr; the terminal console
// must leave it off.
func New(cfg model.LogConfig, alsoStderr bool) (*Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}

	var out io.Writer = file
	if alsoStderr {
		out = io.MultiWriter(file, os.Stderr)
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})

	return &Logger{Logger: l, file: file}, nil
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	return l.file.Close()
}
