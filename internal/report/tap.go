// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"

	"jitdiff/errors"
)

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// TAPWriter writes the TAP-like report.
//
// The stream is either a single bail-out line, or a plan line followed by one
// test line per candidate in ordinal order. A failing test line is followed
// by a YAML diagnostic block indented by two spaces. Every call writes and
// flushes its lines before returning. It is safe for concurrent use, though
// callers still need to submit results in order.
type TAPWriter struct {
	mu      sync.Mutex
	w       io.Writer
	planned int // -1 until Plan is called
	next    int
	bailed  bool
}

// NewTAPWriter returns a writer emitting to w.
func NewTAPWriter(w io.Writer) *TAPWriter {
	return &TAPWriter{w: w, planned: -1, next: 1}
}

// Plan writes the plan line announcing n tests.
func (t *TAPWriter) Plan(n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.bailed:
		return errors.New("plan after bail out")
	case t.planned >= 0:
		return errors.New("plan already written")
	}
	t.planned = n
	return t.write(fmt.Sprintf("1..%d\n", n))
}

// Result writes the test line of r. r must be the next ordinal.
func (t *TAPWriter) Result(r *Result) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.planned < 0:
		return errors.New("test line before plan")
	case r.Ordinal != t.next:
		return errors.Errorf("test %d written out of order; want %d", r.Ordinal, t.next)
	case r.Ordinal > t.planned:
		return errors.Errorf("test %d beyond plan 1..%d", r.Ordinal, t.planned)
	}

	var buf bytes.Buffer
	if r.Passed() {
		fmt.Fprintf(&buf, "ok %d - %s\n", r.Ordinal, r.Name)
	} else {
		fmt.Fprintf(&buf, "not ok %d - %s\n", r.Ordinal, r.Name)
		b, err := yaml.Marshal(r)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal diagnostics of test %d", r.Ordinal)
		}
		buf.WriteString("  ---\n")
		for _, line := range strings.SplitAfter(string(b), "\n") {
			if line != "" {
				buf.WriteString("  " + line)
			}
		}
		buf.WriteString("  ...\n")
	}
	t.next++
	return t.write(buf.String())
}

// BailOut writes the bail-out line. It is only legal before the plan.
func (t *TAPWriter) BailOut(msg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.planned >= 0:
		return errors.New("bail out after plan")
	case t.bailed:
		return errors.New("already bailed out")
	}
	t.bailed = true
	// Bail-out reasons are single-line.
	msg = strings.Join(strings.Fields(msg), " ")
	return t.write("Bail out! " + msg + "\n")
}

func (t *TAPWriter) write(s string) error {
	if _, err := io.WriteString(t.w, s); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	if f, ok := t.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, "failed to flush report")
		}
	}
	return nil
}
