// Package logging builds the application logger. The TUI owns stdout, so
// log output goes to a file under the library state directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Config selects the log level and destination.
type Config struct {
	Level  string
	Output io.Writer
	Prefix string
}

// New builds a logger from cfg. An empty level means info.
func New(cfg Config) (*log.Logger, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
	}

	out := cfg.Output
	if out == nil {
		out = io.Discard
	}

	return log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          cfg.Prefix,
		ReportTimestamp: true,
	}), nil
}

// OpenFile opens path for appending, creating parent directories.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
