// Package logging builds the charm logger used as the slog handler.
// It is configured through environment variables and can log to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerCloser wraps a logger and provides a Close method for cleanup
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// LevelFromEnv parses UDONDIS_LOG_LEVEL, defaulting to info.
func LevelFromEnv() log.Level {
	level, err := log.ParseLevel(os.Getenv("UDONDIS_LOG_LEVEL"))
	if err != nil || os.Getenv("UDONDIS_LOG_LEVEL") == "" {
		return log.InfoLevel
	}
	return level
}

// NewLoggerWithWriter creates a new logger with the provided writer
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           LevelFromEnv(),
	})

	prefix := os.Getenv("UDONDIS_LOG_PREFIX")
	if prefix == "" {
		prefix = "udondis "
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr && w != os.Stdout {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a new logger based on environment variables
// UDONDIS_LOG_LEVEL: debug, info, warn, error (default: info)
// UDONDIS_LOG_PREFIX: prefix for log messages (default: "udondis ")
// UDONDIS_LOG_TO_FILE: when set to "1", logs to a timestamped file instead of stderr
func NewLogger() *LoggerCloser {
	output := io.Writer(os.Stderr)

	if os.Getenv("UDONDIS_LOG_TO_FILE") == "1" {
		timestamp := time.Now().Format("20060102-150405")
		logFile := fmt.Sprintf("udondis-%s-debug.log", timestamp)

		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err == nil {
			output = f
		}
		// If file creation fails, fall back to stderr
	}

	return NewLoggerWithWriter(output)
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return LevelFromEnv() == log.DebugLevel
}
