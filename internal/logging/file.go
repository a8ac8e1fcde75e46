package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const (
	logDirPerm  = 0o755
	logFilePerm = 0o644
)

// RunLogFilename names the log file of one run.
// Example: "run_20251217_205106.log"
func RunLogFilename(start time.Time) string {
	return "run_" + start.Format("20060102_150405") + ".log"
}

// NewWithFile creates a logger writing to a fresh file in dir instead of
// stderr, for hosts that own the terminal. The returned cleanup closes it.
func NewWithFile(cfg Config, dir string) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, RunLogFilename(time.Now()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("open log file: %w", err)
	}

	cfg.Output = f
	if cfg.Format == "console" {
		// No colors in files.
		logger := zerolog.New(zerolog.ConsoleWriter{Out: f, TimeFormat: cfg.TimeFormat, NoColor: true}).
			Level(cfg.Level).
			With().
			Timestamp().
			Logger()
		return logger, func() { _ = f.Close() }, nil
	}
	return New(cfg), func() { _ = f.Close() }, nil
}
