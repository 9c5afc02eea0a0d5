// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package logging carries loggers through context.Context.
//
// Stages never hold a logger of their own. The entry point attaches loggers
// to a context with AttachLogger, and code down the call chain emits logs with
// Info, Debug or Warning on whatever context it was handed.
package logging

import (
	"sync"
	"time"
)

// Level is the severity of a log. Larger is more important.
type Level int

const (
	// LevelDebug is for details only useful in the full log file.
	LevelDebug Level = iota
	// LevelInfo is for progress messages.
	LevelInfo
	// LevelWarning is for conditions a user should notice even in quiet mode.
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// Logger consumes logs sent via context.Context.
type Logger interface {
	// Log gets called for a log entry.
	Log(level Level, ts time.Time, msg string)
}

// MultiLogger copies logs to several loggers.
type MultiLogger struct {
	mu      sync.Mutex
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger with an initial set of loggers.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

// Log copies a log to every current logger.
func (ml *MultiLogger) Log(level Level, ts time.Time, msg string) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	for _, l := range ml.loggers {
		l.Log(level, ts, msg)
	}
}
