package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := OpenFile(path)
	if err != nil {
		return nil, nil, err
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	cleanup := func() {
		f.Close()
	}

	return &Logger{Logger: l}, cleanup, nil
}

// OpenFile opens a log file for appending, creating it and its directory
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	w := io.MultiWriter(writers...)
	return NewWithLevel(w, level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// GenerationStarted logs the start of a summary run
func (l *Logger) GenerationStarted(runID, vaultDir, summaryPath string) {
	l.Info("generation started",
		"run_id", runID,
		"vault", vaultDir,
		"summary", summaryPath)
}

// GenerationCompleted logs a successful summary run
func (l *Logger) GenerationCompleted(runID string, files, folders, skipped int, changed bool, duration time.Duration) {
	l.Info("generation completed",
		"run_id", runID,
		"files", files,
		"folders", folders,
		"skipped", skipped,
		"changed", changed,
		"duration", duration.Round(time.Millisecond))
}

// GenerationFailed logs a summary run that did not write a file
func (l *Logger) GenerationFailed(runID string, err error) {
	l.Error("generation failed",
		"run_id", runID,
		"error", err)
}

// BookmarkSkipped logs a bookmark left out of the summary
func (l *Logger) BookmarkSkipped(runID, kind, path, reason string) {
	l.Debug("bookmark skipped",
		"run_id", runID,
		"kind", kind,
		"path", path,
		"reason", reason)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(vaultDir, summaryPath string, interval time.Duration) {
	l.Debug("config loaded",
		"vault", vaultDir,
		"summary", summaryPath,
		"interval", interval)
}

// WatchEvent logs a change that triggered a regeneration
func (l *Logger) WatchEvent(path, op string) {
	l.Debug("bookmarks changed",
		"path", path,
		"op", op)
}

// Unchanged logs a watcher run skipped because nothing changed
func (l *Logger) Unchanged(vaultDir string) {
	l.Debug("bookmarks unchanged",
		"vault", vaultDir)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}
