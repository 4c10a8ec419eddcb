package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// VerboseChecker reports whether debug and info output is enabled
type VerboseChecker interface {
	IsVerbose() bool
}

// Logger writes component-scoped log lines to stderr.
// Debug and Info are gated by the verbose checker; Warn and Error always print.
type Logger struct {
	component      string
	verboseChecker VerboseChecker
	mu             *sync.Mutex
	writer         io.Writer
}

// Field is a key-value pair appended to a log line
type Field struct {
	Key   string
	Value interface{}
}

// New creates a logger for the given component
func New(component string, verboseChecker VerboseChecker) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		mu:             &sync.Mutex{},
		writer:         os.Stderr,
	}
}

// NewWithCallback creates a logger whose verbosity is decided by verboseCheck
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return New(component, &callbackChecker{callback: verboseCheck})
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	l := New("", nil)
	l.writer = io.Discard
	return l
}

// WithComponent derives a logger for another component sharing the same output
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: l.verboseChecker,
		mu:             l.mu,
		writer:         l.writer,
	}
}

// SetOutput redirects log output
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

type callbackChecker struct {
	callback func() bool
}

func (c *callbackChecker) IsVerbose() bool {
	if c.callback == nil {
		return false
	}
	return c.callback()
}

func (l *Logger) verbose() bool {
	return l.verboseChecker != nil && l.verboseChecker.IsVerbose()
}

// Debug logs debug messages (only when verbose)
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.verbose() {
		l.write("DEBUG", msg, nil, args...)
	}
}

// Info logs informational messages (only when verbose)
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.verbose() {
		l.write("INFO", msg, nil, args...)
	}
}

// Warn logs warnings
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.write("WARN", msg, nil, args...)
}

// Error logs errors
func (l *Logger) Error(msg string, args ...interface{}) {
	l.write("ERROR", msg, nil, args...)
}

// DebugWithFields logs a debug message with structured fields
func (l *Logger) DebugWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.write("DEBUG", msg, fields, args...)
	}
}

// InfoWithFields logs an info message with structured fields
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.write("INFO", msg, fields, args...)
	}
}

// WarnWithFields logs a warning with structured fields
func (l *Logger) WarnWithFields(msg string, fields []Field, args ...interface{}) {
	l.write("WARN", msg, fields, args...)
}

func (l *Logger) write(level, msg string, fields []Field, args ...interface{}) {
	component := l.component
	if component == "" {
		component = "main"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s [%s] ", time.Now().Format("15:04:05.000"), level, component)
	if len(args) > 0 {
		fmt.Fprintf(&b, msg, args...)
	} else {
		b.WriteString(msg)
	}

	if len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, fmt.Sprintf("%s=%v", field.Key, field.Value))
		}
		b.WriteString(" [" + strings.Join(parts, " ") + "]")
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	// nothing useful to do if the log sink itself fails
	_, _ = io.WriteString(l.writer, b.String())
}

// F builds a field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Count(value int) Field {
	return Field{Key: "count", Value: value}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}
