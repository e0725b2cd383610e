package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultLogFile is the log file name used when only a directory is configured
const DefaultLogFile = "sheetpipe.log"

// Options describes logger construction parameters.
type Options struct {
	// Level is one of debug, info, warn (or warning) and error. Empty means info.
	Level string
	// FilePath is an optional log file. It is appended to and created with its parent directories.
	FilePath string
	// Console receives every record as well. Nil means os.Stderr.
	Console io.Writer
	// DisableConsole turns console output off
	DisableConsole bool
}

// New constructs a logger writing to the console and the optional log file.
// The returned close func releases the log file.
func New(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	var handlers []slog.Handler
	if !opts.DisableConsole {
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		handlers = append(handlers, newLineHandler(console, levelVar))
	}

	closeFn := func() error { return nil }
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, newLineHandler(file, levelVar))
		closeFn = file.Close
	}

	return slog.New(newFanoutHandler(handlers...)), closeFn, nil
}

// ParseLevel converts a level name to a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log level: unsupported value %q", level)
	}
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640) //nolint:gosec // Path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
