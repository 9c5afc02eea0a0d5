// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package verdict

import (
	"fmt"

	"jitdiff/errors"
)

// State is the lifecycle position of one candidate.
type State int

// Candidates start Pending. CompileFailed, Passed, Crashed and Diverged are
// terminal.
const (
	Pending State = iota
	Compiled
	CompileFailed
	Executed
	Passed
	Crashed
	Diverged
)

var stateNames = map[State]string{
	Pending:       "Pending",
	Compiled:      "Compiled",
	CompileFailed: "CompileFailed",
	Executed:      "Executed",
	Passed:        "Passed",
	Crashed:       "Crashed",
	Diverged:      "Diverged",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	switch s {
	case CompileFailed, Passed, Crashed, Diverged:
		return true
	}
	return false
}

var transitions = map[State][]State{
	Pending:  {Compiled, CompileFailed},
	Compiled: {Executed},
	Executed: {Passed, Crashed, Diverged},
}

// Machine tracks the state of one candidate and rejects illegal transitions.
// The zero value is in Pending. It is not safe for concurrent use.
type Machine struct {
	state State
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Advance moves to s.
func (m *Machine) Advance(s State) error {
	if m.state.Terminal() {
		return errors.Errorf("%v is terminal; cannot move to %v", m.state, s)
	}
	for _, next := range transitions[m.state] {
		if next == s {
			m.state = s
			return nil
		}
	}
	return errors.Errorf("illegal transition %v -> %v", m.state, s)
}
