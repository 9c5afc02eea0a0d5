// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package verdict classifies the execution records of a candidate.
//
// Crashes take priority over output comparison: if any environment exits
// non-zero, times out or fails to launch, the candidate is Crashed and no
// output is compared. Otherwise the clean environments are partitioned by
// byte-exact standard output; a single class is Passed and several are
// Diverged.
package verdict

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/exp/slices"
	"golang.org/x/sys/unix"

	"jitdiff/internal/candidate"
	"jitdiff/internal/jvm"
	"jitdiff/internal/stage"
)

// Verdict is the terminal classification of a candidate.
type Verdict struct {
	Candidate candidate.Candidate
	State     State
	// Evidence is *CrashEvidence for Crashed, *DivergenceEvidence for
	// Diverged and nil otherwise.
	Evidence Evidence
	// Message is a human-readable summary. It is empty for Passed.
	Message string
}

// OK reports whether the verdict is Passed.
func (v *Verdict) OK() bool { return v.State == Passed }

// Evidence supports a failing verdict. Its implementations are exactly
// *CrashEvidence and *DivergenceEvidence.
type Evidence interface {
	isEvidence()
}

// EnvExit describes one crashed environment.
type EnvExit struct {
	Env      jvm.Environment
	ExitCode int
	TimedOut bool
	// Signal is the name of the signal that killed the JVM, e.g. "SIGABRT".
	Signal string
	// LaunchErr is the launch failure message, if the launcher never ran.
	LaunchErr string
}

// CrashEvidence lists the environments that crashed, in configuration order.
type CrashEvidence struct {
	Envs []EnvExit
}

func (*CrashEvidence) isEvidence() {}

// Group is one equivalence class of identical standard output.
type Group struct {
	// Envs holds the members in configuration order.
	Envs []jvm.Environment
	// Digest is the hex BLAKE2b-256 digest of the shared output.
	Digest string
}

// DivergenceEvidence is the full partition of clean environments, ordered by
// the configuration index of each group's first member.
type DivergenceEvidence struct {
	Groups []Group
}

func (*DivergenceEvidence) isEvidence() {}

// CompileFailedVerdict returns the verdict of a candidate that did not
// compile. msg carries the compiler diagnostics.
func CompileFailedVerdict(c candidate.Candidate, msg string) Verdict {
	return Verdict{Candidate: c, State: CompileFailed, Message: msg}
}

// Classify derives the verdict of a compiled candidate from its execution
// records, one per environment. The order of records does not matter; the
// result only depends on their content.
func Classify(c candidate.Candidate, records []*stage.ExecutionRecord) Verdict {
	recs := append([]*stage.ExecutionRecord(nil), records...)
	slices.SortStableFunc(recs, func(a, b *stage.ExecutionRecord) int {
		return a.Env.Index - b.Env.Index
	})

	var crashed []EnvExit
	var clean []*stage.ExecutionRecord
	for _, r := range recs {
		if !r.Crashed() {
			clean = append(clean, r)
			continue
		}
		ee := EnvExit{Env: r.Env, ExitCode: r.ExitCode, TimedOut: r.TimedOut}
		if r.Signal != 0 {
			ee.Signal = unix.SignalName(r.Signal)
		}
		if r.LaunchErr != nil {
			ee.LaunchErr = r.LaunchErr.Error()
		}
		crashed = append(crashed, ee)
	}

	if len(crashed) > 0 {
		return Verdict{
			Candidate: c,
			State:     Crashed,
			Evidence:  &CrashEvidence{Envs: crashed},
			Message:   crashMessage(crashed),
		}
	}

	groups := partition(clean)
	if len(groups) <= 1 {
		return Verdict{Candidate: c, State: Passed}
	}
	return Verdict{
		Candidate: c,
		State:     Diverged,
		Evidence:  &DivergenceEvidence{Groups: groups},
		Message:   divergenceMessage(groups),
	}
}

// partition groups records by exact stdout equality. Records must be in
// configuration order.
func partition(recs []*stage.ExecutionRecord) []Group {
	type bucket struct {
		group  int
		stdout []byte
	}
	byDigest := make(map[[blake2b.Size256]byte][]bucket)
	var groups []Group
	for _, r := range recs {
		sum := blake2b.Sum256(r.Stdout)
		found := false
		for _, b := range byDigest[sum] {
			if bytes.Equal(b.stdout, r.Stdout) {
				groups[b.group].Envs = append(groups[b.group].Envs, r.Env)
				found = true
				break
			}
		}
		if found {
			continue
		}
		byDigest[sum] = append(byDigest[sum], bucket{group: len(groups), stdout: r.Stdout})
		groups = append(groups, Group{Envs: []jvm.Environment{r.Env}, Digest: hex.EncodeToString(sum[:])})
	}
	return groups
}

func crashMessage(crashed []EnvExit) string {
	parts := make([]string, len(crashed))
	for i, e := range crashed {
		switch {
		case e.LaunchErr != "":
			parts[i] = fmt.Sprintf("%s (launch failed)", e.Env.Name())
		case e.TimedOut:
			parts[i] = fmt.Sprintf("%s (timed out)", e.Env.Name())
		case e.Signal != "":
			parts[i] = fmt.Sprintf("%s (killed by %s)", e.Env.Name(), e.Signal)
		default:
			parts[i] = fmt.Sprintf("%s (exit %d)", e.Env.Name(), e.ExitCode)
		}
	}
	return "Crashed on " + strings.Join(parts, ", ")
}

func divergenceMessage(groups []Group) string {
	parts := make([]string, len(groups))
	for i, g := range groups {
		names := make([]string, len(g.Envs))
		for j, e := range g.Envs {
			names[j] = e.Name()
		}
		parts[i] = "{" + strings.Join(names, ", ") + "}"
	}
	return fmt.Sprintf("Outputs diverged into %d groups: %s", len(groups), strings.Join(parts, " "))
}

// AllPassed reports whether every verdict is Passed. It is true for an empty
// slice.
func AllPassed(vs []Verdict) bool {
	for i := range vs {
		if !vs[i].OK() {
			return false
		}
	}
	return true
}
