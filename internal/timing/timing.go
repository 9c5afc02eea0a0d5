// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package timing records how long each stage of a batch took.
//
// The batch records template compilation, generation and, per candidate,
// compile and per-environment execution stages. The log is written as
// timing.json next to the results.
package timing

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
)

// clk is replaced by a fake clock in unit tests.
var clk = clock.NewClock()

// Log is a tree of timed stages.
type Log struct {
	// Root holds all top-level stages as children. It is never ended and its
	// timestamps are meaningless.
	Root *Stage
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{Root: &Stage{}}
}

// WritePretty writes l as nested JSON arrays of [seconds, name, [children]]:
//
//	[[4.000, "candidate 1", [
//	         [1.000, "compile"],
//	         [3.000, "exec env0"]]],
//	 [0.531, "candidate 2"]]
//
// Only durations and names are kept.
func (l *Log) WritePretty(w io.Writer) error {
	l.Root.mu.Lock()
	defer l.Root.mu.Unlock()

	bw := bufio.NewWriter(w)
	io.WriteString(bw, "[")
	for i, s := range l.Root.Children {
		indent := ""
		if i > 0 {
			indent = " "
		}
		if err := s.writePretty(bw, indent, " ", i == len(l.Root.Children)-1); err != nil {
			return err
		}
	}
	io.WriteString(bw, "]\n")
	return bw.Flush()
}

// Stage is one timed unit of work.
type Stage struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Children  []*Stage  `json:"children,omitempty"`

	mu sync.Mutex // protects EndTime and Children
}

// StartChild starts a child stage of s. It returns nil if s already ended.
func (s *Stage) StartChild(name string) *Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.EndTime.IsZero() {
		return nil
	}
	c := &Stage{Name: name, StartTime: clk.Now()}
	s.Children = append(s.Children, c)
	return c
}

// End ends s and any child still running. It is safe to call on nil.
func (s *Stage) End() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.EndTime.IsZero() {
		return
	}
	for _, c := range s.Children {
		c.End()
	}
	s.EndTime = clk.Now()
}

func (s *Stage) writePretty(w *bufio.Writer, firstIndent, indent string, last bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := json.Marshal(s.Name)
	if err != nil {
		return err
	}
	end := s.EndTime
	if end.IsZero() {
		end = clk.Now()
	}
	fmt.Fprintf(w, "%s[%0.3f, %s", firstIndent, end.Sub(s.StartTime).Seconds(), name)

	if len(s.Children) > 0 {
		io.WriteString(w, ", [\n")
		ci := indent + strings.Repeat(" ", 8)
		for i, c := range s.Children {
			if err := c.writePretty(w, ci, ci, i == len(s.Children)-1); err != nil {
				return err
			}
		}
		io.WriteString(w, "]")
	}
	io.WriteString(w, "]")
	if !last {
		io.WriteString(w, ",\n")
	}
	return nil
}
