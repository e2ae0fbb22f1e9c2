// SPDX-License-Identifier: AGPL-3.0-only
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
)

// Level represents a logging severity level.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
	Fatal
)

// ParseLevel converts a level name to a Level. Unknown names default to Info.
func ParseLevel(name string) Level {
	switch strings.ToLower(name) {
	case "debug":
		return Debug
	case "info":
		return Info
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	case "fatal":
		return Fatal
	default:
		return Info
	}
}

// IsValidLevel reports whether name is a recognized level name.
func IsValidLevel(name string) bool {
	switch strings.ToLower(name) {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	default:
		return "INFO"
	}
}

// Options configures a Logger.
type Options struct {
	Output io.Writer // defaults to os.Stderr
	Level  Level
	Prefix string
}

// Logger is a small leveled logger. Log output goes to stderr by default so
// stdout stays reserved for program output.
type Logger struct {
	mu     sync.Mutex
	out    *log.Logger
	level  Level
	fields map[string]string
}

// New creates a Logger from opts.
func New(opts Options) *Logger {
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		out:   log.New(w, opts.Prefix, log.LstdFlags),
		level: opts.Level,
	}
}

var (
	defaultMu     sync.Mutex
	defaultLogger *Logger
)

// GetDefaultLogger returns the process-wide logger, creating an Info-level
// stderr logger on first use.
func GetDefaultLogger() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(Options{Level: Info})
	}
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger.
func SetDefaultLogger(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// WithField returns a logger that includes key=value on every line.
func (l *Logger) WithField(key, value string) *Logger {
	fields := make(map[string]string, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Logger{
		out:    l.out,
		level:  l.level,
		fields: fields,
	}
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+l.fields[k])
		}
		msg = msg + " [" + strings.Join(parts, " ") + "]"
	}
	l.mu.Lock()
	l.out.Printf("[%s] %s", level, msg)
	l.mu.Unlock()
	if level == Fatal {
		os.Exit(1)
	}
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(Debug, format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(Info, format, args...)
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(Warn, format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(Error, format, args...)
}

// Fatalf logs at fatal level and exits with status 1.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.logf(Fatal, format, args...)
}
