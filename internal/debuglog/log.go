// Package debuglog is a small leveled logger that writes to a file. The TUI
// owns the terminal, so nothing here ever writes to stdout or stderr.
package debuglog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown input means INFO.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "OFF", "NONE":
		return LevelOff
	default:
		return LevelInfo
	}
}

var (
	mu           sync.Mutex
	currentLevel = LevelOff
	logger       *log.Logger
	logFile      io.Closer
)

// Setup configures the level and the output file. An empty filePath means
// ~/.ghscout/ghscout.log.
func Setup(level LogLevel, filePath string) error {
	mu.Lock()
	defer mu.Unlock()

	currentLevel = level

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if level == LevelOff {
		logger = nil
		return nil
	}

	logPath := filePath
	if logPath == "" {
		home, _ := os.UserHomeDir()
		logPath = filepath.Join(home, ".ghscout", "ghscout.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	logFile = f
	logger = log.New(f, "ghscout ", log.LstdFlags|log.Lmicroseconds)
	return nil
}

// SetOutput routes log lines to w, mainly for tests.
func SetOutput(level LogLevel, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	logger = log.New(w, "ghscout ", 0)
}

// SetLevel changes the current logging level
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
}

// GetLevel returns the current logging level
func GetLevel() LogLevel {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

// Close closes the log file if open
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	logger = nil
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

func logf(level LogLevel, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level < currentLevel || logger == nil {
		return
	}
	logger.Printf("[%s] %s", level.String(), fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

func Infof(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

func Errorf(format string, args ...any) {
	logf(LevelError, format, args...)
}

// Fields are key-value pairs appended to a log line.
type Fields map[string]any

// FieldLogger appends a fixed set of fields to every line.
type FieldLogger struct {
	fields Fields
}

// WithFields returns a logger that appends fields to every message
func WithFields(fields Fields) *FieldLogger {
	return &FieldLogger{fields: fields}
}

// formatFields renders fields sorted by key so lines are stable.
func (fl *FieldLogger) formatFields() string {
	if len(fl.fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fl.fields))
	for k := range fl.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fl.fields[k]))
	}
	return " [" + strings.Join(parts, " ") + "]"
}

func (fl *FieldLogger) Debugf(format string, args ...any) {
	logf(LevelDebug, "%s", fmt.Sprintf(format, args...)+fl.formatFields())
}

func (fl *FieldLogger) Infof(format string, args ...any) {
	logf(LevelInfo, "%s", fmt.Sprintf(format, args...)+fl.formatFields())
}

func (fl *FieldLogger) Warnf(format string, args ...any) {
	logf(LevelWarn, "%s", fmt.Sprintf(format, args...)+fl.formatFields())
}

func (fl *FieldLogger) Errorf(format string, args ...any) {
	logf(LevelError, "%s", fmt.Sprintf(format, args...)+fl.formatFields())
}
