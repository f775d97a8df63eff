package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger is a minimal printf-style logging contract. Components take it as a
// dependency so tests can silence or capture output.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}

type componentLogger struct {
	component string
	debug     bool
	out       *log.Logger
}

// NewComponentLogger returns a stderr-backed logger scoped to a component.
// Debug output is suppressed unless enabled.
func NewComponentLogger(component string, debug bool) Logger {
	return &componentLogger{
		component: component,
		debug:     debug,
		out:       log.New(os.Stderr, "", log.LstdFlags),
	}
}

// NewWriterLogger is like NewComponentLogger but writes to w. Used by the TUI
// to keep log lines off the terminal.
func NewWriterLogger(component string, debug bool, w io.Writer) Logger {
	return &componentLogger{
		component: component,
		debug:     debug,
		out:       log.New(w, "", log.LstdFlags),
	}
}

func (l *componentLogger) emit(level, format string, args ...any) {
	l.out.Printf("[%s] %s: %s", level, l.component, fmt.Sprintf(format, args...))
}

func (l *componentLogger) Debug(format string, args ...any) {
	if l.debug {
		l.emit("DEBUG", format, args...)
	}
}

func (l *componentLogger) Info(format string, args ...any) {
	l.emit("INFO", format, args...)
}

func (l *componentLogger) Warn(format string, args ...any) {
	l.emit("WARN", format, args...)
}

func (l *componentLogger) Error(format string, args ...any) {
	l.emit("ERROR", format, args...)
}
