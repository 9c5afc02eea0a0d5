// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z "

// SinkLogger is a Logger that filters logs by level and hands them to a Sink.
type SinkLogger struct {
	level     Level
	timestamp bool
	sink      Sink
}

// NewSinkLogger creates a SinkLogger.
//
// Logs below level are dropped. If timestamp is true, a UTC timestamp heads
// each entry, and warnings are tagged so they stand out in the console.
func NewSinkLogger(level Level, timestamp bool, sink Sink) *SinkLogger {
	return &SinkLogger{level: level, timestamp: timestamp, sink: sink}
}

// Log sends a log to the sink. Multi-line messages, such as compiler or
// generator output, have their continuation lines indented under the header
// so that every entry reads as one block.
func (l *SinkLogger) Log(level Level, ts time.Time, msg string) {
	if level < l.level {
		return
	}
	var header string
	if l.timestamp {
		header = ts.UTC().Format(timestampLayout)
	}
	if level >= LevelWarning {
		header += "WARNING: "
	}
	msg = strings.TrimRight(msg, "\n")
	if header != "" {
		msg = strings.ReplaceAll(msg, "\n", "\n"+strings.Repeat(" ", len(header)))
	}
	l.sink.Log(header + msg)
}

// Sink is a destination of logs, e.g. a log file or the console.
type Sink interface {
	// Log gets called for a log entry.
	Log(msg string)
}

// WriterSink is a Sink that writes one line per log to an io.Writer.
// Writes are synchronized.
type WriterSink struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterSink creates a WriterSink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Log writes msg followed by a newline.
func (s *WriterSink) Log(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, msg)
}
