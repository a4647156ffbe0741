// Package logger provides the diagnostic log written on every run: one
// timestamped plain-text file per command inside the log directory,
// optionally echoed to stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const timestampLayout = "20060102-150405.000"

// Logger writes to a log file and, when echoing, to stderr as well.
type Logger struct {
	w    io.Writer
	file *os.File
}

// New creates a logger that writes to <logDir>/<ts>-<command>.log.
// When echo is true every line is also written to stderr.
func New(logDir, command string, echo bool) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}

	ts := time.Now().Format(timestampLayout)
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-%s.log", ts, command))

	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	var w io.Writer = f
	if echo {
		w = io.MultiWriter(os.Stderr, f)
	}
	return &Logger{w: w, file: f}, nil
}

// NewDiscard returns a logger with no file. When echo is true lines still
// reach stderr.
func NewDiscard(echo bool) *Logger {
	if echo {
		return &Logger{w: os.Stderr}
	}
	return &Logger{w: io.Discard}
}

// LogPath returns the path of the current log file, or empty string if discarded.
func (l *Logger) LogPath() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Write implements io.Writer — forwards to the underlying writer.
func (l *Logger) Write(p []byte) (n int, err error) {
	return l.w.Write(p)
}

// Printf writes a formatted line to the log.
func (l *Logger) Printf(format string, args ...any) {
	fmt.Fprintf(l.w, format+"\n", args...)
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// LatestLogPath returns the path to the most recently written log in logDir.
// Returns "" if no logs exist. Equal modification times fall back to name
// order, which is chronological for <ts>-<command> logs.
func LatestLogPath(logDir string) string {
	entries, err := os.ReadDir(logDir)
	if err != nil || len(entries) == 0 {
		return ""
	}

	latest := ""
	var latestMod time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		// ReadDir is sorted by name, so !Before keeps the later name on ties.
		if latest == "" || !info.ModTime().Before(latestMod) {
			latest = filepath.Join(logDir, e.Name())
			latestMod = info.ModTime()
		}
	}
	return latest
}
