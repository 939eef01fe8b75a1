// Package logging builds the charmbracelet/log logger shared by the CLI and TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const Prefix = "tada"

type Options struct {
	Level     string
	Format    string
	Prefix    string
	Timestamp bool
	// File, when set, receives the output instead of Writer. Parent
	// directories are created.
	File   string
	Writer io.Writer
}

// New returns a logger and a closer for any file it opened. The closer is
// never nil.
func New(opts Options) (*log.Logger, func() error, error) {
	closer := func() error { return nil }

	w := opts.Writer
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return nil, closer, fmt.Errorf("log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closer = f.Close
	}
	if w == nil {
		w = os.Stderr
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = Prefix
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.Timestamp || opts.File != "",
		Prefix:          prefix,
	})
	return logger, closer, nil
}

// Discard is a logger that drops everything.
func Discard() *log.Logger { return log.New(io.Discard) }

// ParseLevel maps a level name to a log.Level; unknown names mean info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps "json" and "logfmt"; anything else is text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
