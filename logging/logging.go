package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration.
type Config struct {
	Level string
	// File receives a rotated copy of the log when set.
	File  string
	Debug bool
	// Stderr defaults to os.Stderr.
	Stderr io.Writer
}

// New builds the application logger. Output to a terminal is styled text;
// anything else, including the log file, gets logfmt.
func New(cfg Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log.ParseLevel: %w", err)
	}
	if cfg.Debug {
		level = log.DebugLevel
	}

	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	writer := stderr
	formatter := log.TextFormatter
	if !isTerminal(stderr) {
		formatter = log.LogfmtFormatter
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		writer = io.MultiWriter(stderr, fileWriter)
		formatter = log.LogfmtFormatter
	}

	logger := log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "weekclock",
		Formatter:       formatter,
	})
	return logger, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
