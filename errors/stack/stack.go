// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package stack captures and formats short stack traces for the errors
// package.
package stack

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	maxDepth = 8       // frames kept per trace
	ellipsis = "\t..." // last line of a truncated trace
)

// Stack is a snapshot of program counters.
type Stack []uintptr

// New captures the current stack. skip=0 makes the caller of New the
// innermost frame.
func New(skip int) Stack {
	pcs := make([]uintptr, maxDepth+1)
	return Stack(pcs[:runtime.Callers(skip+2, pcs)])
}

// String formats s one frame per line, innermost first. Frames in package
// runtime, such as goexit at the bottom of every goroutine, are omitted.
func (s Stack) String() string {
	var lines []string
	frames := runtime.CallersFrames(s)
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "runtime.") {
			lines = append(lines, fmt.Sprintf("\tat %s (%s:%d)", f.Function, filepath.Base(f.File), f.Line))
		}
		if !more {
			break
		}
		if len(lines) >= maxDepth {
			lines = append(lines, ellipsis)
			break
		}
	}
	return strings.Join(lines, "\n")
}
