// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mclog implements the small structured-logging helper
// used across the generator to report the non-fatal conditions
// named in the error handling design: invariant violations,
// rejected events, and unsupported double-dispatch pairs.
// None of these stop a run; they are warnings over an
// otherwise silent hot path.
package mclog

import (
	"io"
	"log"
	"os"
)

// A Logger writes warning and info messages with a fixed prefix.
type Logger struct {
	l *log.Logger
}

// New creates a Logger writing to w, prefixed with name.
func New(w io.Writer, name string) *Logger {
	return &Logger{l: log.New(w, name+": ", log.LstdFlags)}
}

// Default returns a Logger writing to stderr.
func Default(name string) *Logger {
	return New(os.Stderr, name)
}

// Warnf logs a warning-level message.
// Used for the non-fatal conditions of the error handling design:
// status transitions out of order, zero-weight events during burn-in,
// unsupported sampler pairs in IntegrateWith.
func (lg *Logger) Warnf(format string, args ...any) {
	if lg == nil {
		return
	}
	lg.l.Printf("warning: "+format, args...)
}

// Infof logs an informational message, e.g. adaptation summaries.
func (lg *Logger) Infof(format string, args ...any) {
	if lg == nil {
		return
	}
	lg.l.Printf(format, args...)
}
