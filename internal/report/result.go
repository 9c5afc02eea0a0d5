// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package report emits batch results: the TAP stream on stdout plus the
// result files kept in the template's working directory.
package report

import (
	"time"

	"jitdiff/internal/verdict"
)

// Result is the serialized form of one verdict, shared by the TAP diagnostic
// block and the JSON result files.
type Result struct {
	// RunID identifies the batch that produced the result.
	RunID   string `json:"runId,omitempty" yaml:"-"`
	Ordinal int    `json:"ordinal" yaml:"-"`
	Name    string `json:"name" yaml:"-"`
	Source  string `json:"source" yaml:"-"`
	Verdict string `json:"verdict" yaml:"-"`

	Message string        `json:"message,omitempty" yaml:"message"`
	Crashed []CrashedEnv  `json:"crashed,omitempty" yaml:"crashed,omitempty"`
	Groups  []OutputGroup `json:"groups,omitempty" yaml:"groups,omitempty"`

	Start  time.Time `json:"start" yaml:"-"`
	End    time.Time `json:"end" yaml:"-"`
	OutDir string    `json:"outDir" yaml:"-"`
}

// CrashedEnv is one entry of crash evidence.
type CrashedEnv struct {
	Env         string `json:"env" yaml:"env"`
	ExitCode    int    `json:"exitCode" yaml:"exit_code"`
	TimedOut    bool   `json:"timedOut,omitempty" yaml:"timed_out,omitempty"`
	Signal      string `json:"signal,omitempty" yaml:"signal,omitempty"`
	LaunchError string `json:"launchError,omitempty" yaml:"launch_error,omitempty"`
}

// OutputGroup is one equivalence class of divergence evidence.
type OutputGroup struct {
	Envs   []string `json:"envs" yaml:"envs,flow"`
	Digest string   `json:"digest" yaml:"digest"`
}

// Passed reports whether the result is a pass.
func (r *Result) Passed() bool { return r.Verdict == verdict.Passed.String() }

// NewResult converts v. outDir is the candidate's output directory; start and
// end bound its processing.
func NewResult(v verdict.Verdict, outDir string, start, end time.Time) *Result {
	r := &Result{
		Ordinal: v.Candidate.Ordinal,
		Name:    v.Candidate.ClassName,
		Source:  v.Candidate.Path,
		Verdict: v.State.String(),
		Message: v.Message,
		Start:   start,
		End:     end,
		OutDir:  outDir,
	}
	switch ev := v.Evidence.(type) {
	case *verdict.CrashEvidence:
		for _, e := range ev.Envs {
			r.Crashed = append(r.Crashed, CrashedEnv{
				Env:         e.Env.Name(),
				ExitCode:    e.ExitCode,
				TimedOut:    e.TimedOut,
				Signal:      e.Signal,
				LaunchError: e.LaunchErr,
			})
		}
	case *verdict.DivergenceEvidence:
		for _, g := range ev.Groups {
			og := OutputGroup{Digest: g.Digest}
			for _, e := range g.Envs {
				og.Envs = append(og.Envs, e.Name())
			}
			r.Groups = append(r.Groups, og)
		}
	}
	return r
}
