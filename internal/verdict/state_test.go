// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package verdict_test

import (
	"testing"

	"jitdiff/internal/verdict"
)

func TestMachineLegalPaths(t *testing.T) {
	for _, path := range [][]verdict.State{
		{verdict.CompileFailed},
		{verdict.Compiled, verdict.Executed, verdict.Passed},
		{verdict.Compiled, verdict.Executed, verdict.Crashed},
		{verdict.Compiled, verdict.Executed, verdict.Diverged},
	} {
		var m verdict.Machine
		if m.State() != verdict.Pending {
			t.Fatalf("Initial state = %v; want Pending", m.State())
		}
		for _, s := range path {
			if err := m.Advance(s); err != nil {
				t.Errorf("Advance along %v: %v", path, err)
			}
		}
		if !m.State().Terminal() {
			t.Errorf("Final state %v of %v is not terminal", m.State(), path)
		}
	}
}

func TestMachineIllegalTransitions(t *testing.T) {
	for _, tc := range []struct {
		prefix []verdict.State
		next   verdict.State
	}{
		{nil, verdict.Executed},
		{nil, verdict.Passed},
		{[]verdict.State{verdict.Compiled}, verdict.Crashed},
		{[]verdict.State{verdict.CompileFailed}, verdict.Compiled},
		{[]verdict.State{verdict.Compiled, verdict.Executed, verdict.Passed}, verdict.Diverged},
	} {
		var m verdict.Machine
		for _, s := range tc.prefix {
			if err := m.Advance(s); err != nil {
				t.Fatal(err)
			}
		}
		before := m.State()
		if err := m.Advance(tc.next); err == nil {
			t.Errorf("Advance(%v) from %v succeeded; want error", tc.next, before)
		}
		if m.State() != before {
			t.Errorf("Failed Advance changed state from %v to %v", before, m.State())
		}
	}
}

func TestStateString(t *testing.T) {
	if got := verdict.Diverged.String(); got != "Diverged" {
		t.Errorf("Diverged.String() = %q", got)
	}
	if got := verdict.State(42).String(); got != "State(42)" {
		t.Errorf("State(42).String() = %q", got)
	}
}
