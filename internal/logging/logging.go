// Package logging provides the leveled stderr logging used across the
// picklist core. No structured logging library appears anywhere in the
// retrieval pack; every retry/backoff and tool-execution path in the
// teacher repo logs with plain fmt/log, so this package keeps that shape
// instead of reaching for one.
package logging

import (
	"fmt"
	"log"
	"os"
)

// Logger is a minimal leveled wrapper around the standard library logger.
type Logger struct {
	std *log.Logger
}

// Default is the process-wide logger, writing to stderr with no
// timestamp prefix beyond what log.Logger adds by default.
var Default = New(os.Stderr, "")

// New creates a Logger writing to w with the given prefix.
func New(w *os.File, prefix string) *Logger {
	return &Logger{std: log.New(w, prefix, log.LstdFlags)}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.std.Output(2, "DEBUG "+fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.std.Output(2, "WARN "+fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.std.Output(2, "ERROR "+fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...interface{}) { Default.Debugf(format, args...) }
func Warnf(format string, args ...interface{})  { Default.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { Default.Errorf(format, args...) }
