// Package logger provides leveled diagnostic logging for sitec.
//
// Diagnostics go to stderr so they never mix with the user-facing build
// report printed by the output package (which may be JSON).
//
// By default only Warn and Error are shown. Init(true), wired to the
// --verbose flag, enables Debug and Info, which trace every page and every
// template the compiler touches:
//
//	[DEBUG] 2026-10-17 10:30:45 compiling template template=t/home.tmpl params=2 data=data/home.json
//	[INFO] 2026-10-17 10:30:45 wrote page out=out/home/index.html
//
// The *w variants take alternating key/value pairs which are appended to
// the message in call order.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger handles leveled logging with thread-safe output.
type Logger struct {
	level  Level
	output io.Writer
	mu     sync.Mutex
}

var std = &Logger{
	level:  LevelWarn,
	output: os.Stderr,
}

// Init sets the global level from the --verbose flag.
func Init(verbose bool) {
	if verbose {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelWarn)
	}
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
}

// SetOutput sets the output destination for the global logger.
// A nil writer restores os.Stderr.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	std.output = w
}

// GetLevel returns the current log level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

// Enabled reports whether messages at level would be written.
func Enabled(level Level) bool {
	return level >= GetLevel()
}

func (l *Logger) write(level Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(l.output, "[%s] %s %s\n", level.String(), timestamp, msg)
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	l.write(level, fmt.Sprintf(format, args...))
}

func (l *Logger) logw(level Level, msg string, kv []interface{}) {
	l.write(level, msg+formatPairs(kv))
}

// formatPairs renders alternating key/value pairs as " k=v k=v".
// A dangling key is rendered with the value MISSING.
func formatPairs(kv []interface{}) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		b.WriteByte(' ')
		fmt.Fprintf(&b, "%v=", kv[i])
		if i+1 < len(kv) {
			fmt.Fprintf(&b, "%v", kv[i+1])
		} else {
			b.WriteString("MISSING")
		}
	}
	return b.String()
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	std.logf(LevelDebug, format, args...)
}

// Info logs an informational message.
func Info(format string, args ...interface{}) {
	std.logf(LevelInfo, format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	std.logf(LevelWarn, format, args...)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	std.logf(LevelError, format, args...)
}

// Debugw logs a debug message with key/value pairs.
func Debugw(msg string, kv ...interface{}) {
	std.logw(LevelDebug, msg, kv)
}

// Infow logs an informational message with key/value pairs.
func Infow(msg string, kv ...interface{}) {
	std.logw(LevelInfo, msg, kv)
}

// Warnw logs a warning message with key/value pairs.
func Warnw(msg string, kv ...interface{}) {
	std.logw(LevelWarn, msg, kv)
}
