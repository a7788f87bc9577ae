// Package logger provides a structured logger that writes to stderr and to
// a timestamped log file inside the data directory. The panel runs with the
// file side only so log lines never land on the alternate screen.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options controls where log events go.
type Options struct {
	// Level is the minimum level; empty reads LOG_LEVEL, defaulting to info.
	Level string
	// Stderr enables the console side. When false only the file is written.
	Stderr bool
}

// Logger writes zerolog events to stderr and a log file simultaneously.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New creates a logger that writes to <dataDir>/logs/panel-<ts>.log and,
// when opts.Stderr is set, to stderr. Stderr gets human-readable console
// output on a terminal and JSON otherwise.
func New(dataDir string, opts Options) (*Logger, error) {
	logsDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}

	ts := time.Now().Format("20060102-150405")
	logPath := filepath.Join(logsDir, fmt.Sprintf("panel-%s.log", ts))

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	var w io.Writer = f
	if opts.Stderr {
		w = zerolog.MultiLevelWriter(f, stderrWriter())
	}

	zl := zerolog.New(w).Level(parseLevel(opts.Level)).With().Timestamp().Logger()
	return &Logger{Logger: zl, file: f}, nil
}

// NewDiscard returns a logger that drops every event (used in tests and
// before the data directory exists).
func NewDiscard() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// LogPath returns the path of the current log file, or empty string if discarded.
func (l *Logger) LogPath() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Printf writes a formatted info line, matching the old line-oriented API
// for progress output.
func (l *Logger) Printf(format string, args ...any) {
	l.Info().Msgf(format, args...)
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// LatestLogPath returns the path to the most recent log in <dataDir>/logs.
// Returns "" if no logs exist.
func LatestLogPath(dataDir string) string {
	logsDir := filepath.Join(dataDir, "logs")
	entries, err := os.ReadDir(logsDir)
	if err != nil || len(entries) == 0 {
		return ""
	}
	// ReadDir returns sorted by name; panel-<ts> logs sort chronologically.
	latest := ""
	for _, e := range entries {
		if !e.IsDir() {
			latest = filepath.Join(logsDir, e.Name())
		}
	}
	return latest
}

func stderrWriter() io.Writer {
	fd := os.Stderr.Fd()
	if (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && os.Getenv("LOG_FORMAT") != "json" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}
	return os.Stderr
}

func parseLevel(s string) zerolog.Level {
	if s == "" {
		s = os.Getenv("LOG_LEVEL")
	}
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
