// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package verdict_test

import (
	"math/rand"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jitdiff/errors"
	"jitdiff/internal/candidate"
	"jitdiff/internal/jvm"
	"jitdiff/internal/procexec"
	"jitdiff/internal/stage"
	"jitdiff/internal/verdict"
)

var cand = candidate.Candidate{Ordinal: 1, Path: "gen/TGen1.java", ClassName: "sanity.TGen1"}

func env(i int) jvm.Environment {
	return jvm.Environment{Index: i, Root: "/jdk"}
}

func rec(i, exit int, stdout string) *stage.ExecutionRecord {
	return &stage.ExecutionRecord{Env: env(i), ExitCode: exit, Stdout: []byte(stdout)}
}

// groupNames flattens divergence evidence into environment names.
func groupNames(v verdict.Verdict) [][]string {
	ev, ok := v.Evidence.(*verdict.DivergenceEvidence)
	if !ok {
		return nil
	}
	var res [][]string
	for _, g := range ev.Groups {
		var names []string
		for _, e := range g.Envs {
			names = append(names, e.Name())
		}
		res = append(res, names)
	}
	return res
}

func crashedIndices(v verdict.Verdict) []int {
	ev, ok := v.Evidence.(*verdict.CrashEvidence)
	if !ok {
		return nil
	}
	var res []int
	for _, e := range ev.Envs {
		res = append(res, e.Env.Index)
	}
	return res
}

func TestClassifyPassed(t *testing.T) {
	v := verdict.Classify(cand, []*stage.ExecutionRecord{rec(0, 0, "42\n"), rec(1, 0, "42\n")})
	if v.State != verdict.Passed || v.Evidence != nil || v.Message != "" {
		t.Errorf("Classify = %+v; want Passed without evidence", v)
	}
	if !v.OK() {
		t.Error("OK() = false for Passed")
	}
}

func TestClassifyCrashed(t *testing.T) {
	v := verdict.Classify(cand, []*stage.ExecutionRecord{rec(0, 1, ""), rec(1, 0, "42\n")})
	if v.State != verdict.Crashed {
		t.Fatalf("State = %v; want Crashed", v.State)
	}
	if diff := cmp.Diff(crashedIndices(v), []int{0}); diff != "" {
		t.Errorf("Crashed set mismatch (-got +want):\n%s", diff)
	}
	if v.Message != "Crashed on env0 (exit 1)" {
		t.Errorf("Message = %q", v.Message)
	}
}

func TestClassifyDiverged(t *testing.T) {
	v := verdict.Classify(cand, []*stage.ExecutionRecord{rec(0, 0, "42\n"), rec(1, 0, "43\n")})
	if v.State != verdict.Diverged {
		t.Fatalf("State = %v; want Diverged", v.State)
	}
	if diff := cmp.Diff(groupNames(v), [][]string{{"env0"}, {"env1"}}); diff != "" {
		t.Errorf("Groups mismatch (-got +want):\n%s", diff)
	}
	ev := v.Evidence.(*verdict.DivergenceEvidence)
	if ev.Groups[0].Digest == ev.Groups[1].Digest || len(ev.Groups[0].Digest) != 64 {
		t.Errorf("Unexpected digests %q, %q", ev.Groups[0].Digest, ev.Groups[1].Digest)
	}
	if v.Message != "Outputs diverged into 2 groups: {env0} {env1}" {
		t.Errorf("Message = %q", v.Message)
	}
}

func TestClassifyCrashOverridesDivergence(t *testing.T) {
	// Clean outputs differ, but a crash elsewhere wins and only the crashed
	// environments are reported.
	v := verdict.Classify(cand, []*stage.ExecutionRecord{
		rec(0, 0, "1\n"),
		rec(1, 134, "1\n"),
		rec(2, 0, "2\n"),
		{Env: env(3), ExitCode: -1, TimedOut: true},
	})
	if v.State != verdict.Crashed {
		t.Fatalf("State = %v; want Crashed", v.State)
	}
	if diff := cmp.Diff(crashedIndices(v), []int{1, 3}); diff != "" {
		t.Errorf("Crashed set mismatch (-got +want):\n%s", diff)
	}
	if v.Message != "Crashed on env1 (exit 134), env3 (timed out)" {
		t.Errorf("Message = %q", v.Message)
	}
}

func TestClassifySignaled(t *testing.T) {
	v := verdict.Classify(cand, []*stage.ExecutionRecord{
		rec(0, 0, "42\n"),
		{Env: env(1), ExitCode: -1, Signal: syscall.SIGABRT},
	})
	if v.State != verdict.Crashed {
		t.Fatalf("State = %v; want Crashed", v.State)
	}
	ev := v.Evidence.(*verdict.CrashEvidence)
	if len(ev.Envs) != 1 || ev.Envs[0].Signal != "SIGABRT" {
		t.Errorf("CrashEvidence = %+v; want env1 killed by SIGABRT", ev)
	}
	if v.Message != "Crashed on env1 (killed by SIGABRT)" {
		t.Errorf("Message = %q", v.Message)
	}
}

func TestClassifyLaunchError(t *testing.T) {
	lerr := &procexec.LaunchError{Path: "/jdk/bin/java", Err: errors.New("fake launch failure")}
	v := verdict.Classify(cand, []*stage.ExecutionRecord{
		rec(0, 0, "42\n"),
		{Env: env(1), ExitCode: -1, LaunchErr: lerr},
	})
	if v.State != verdict.Crashed {
		t.Fatalf("State = %v; want Crashed", v.State)
	}
	ev := v.Evidence.(*verdict.CrashEvidence)
	if len(ev.Envs) != 1 || ev.Envs[0].LaunchErr != lerr.Error() {
		t.Errorf("CrashEvidence = %+v; want launch failure of env1", ev)
	}
}

func TestClassifyPartition(t *testing.T) {
	v := verdict.Classify(cand, []*stage.ExecutionRecord{
		rec(0, 0, "b"),
		rec(1, 0, "a"),
		rec(2, 0, "b"),
		rec(3, 0, ""),
		rec(4, 0, "a"),
		rec(5, 0, ""),
	})
	want := [][]string{{"env0", "env2"}, {"env1", "env4"}, {"env3", "env5"}}
	if diff := cmp.Diff(groupNames(v), want); diff != "" {
		t.Errorf("Groups mismatch (-got +want):\n%s", diff)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	recs := []*stage.ExecutionRecord{
		rec(0, 0, "x"), rec(1, 0, "y"), rec(2, 0, "x"), rec(3, 0, "z"), rec(4, 0, "y"),
	}
	want := verdict.Classify(cand, recs)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]*stage.ExecutionRecord(nil), recs...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if diff := cmp.Diff(verdict.Classify(cand, shuffled), want); diff != "" {
			t.Fatalf("Classify depends on record order (-got +want):\n%s", diff)
		}
	}
}

func TestClassifySingleEnvironment(t *testing.T) {
	if v := verdict.Classify(cand, []*stage.ExecutionRecord{rec(0, 0, "anything")}); v.State != verdict.Passed {
		t.Errorf("State = %v; want Passed", v.State)
	}
	if v := verdict.Classify(cand, []*stage.ExecutionRecord{rec(0, 3, "")}); v.State != verdict.Crashed {
		t.Errorf("State = %v; want Crashed", v.State)
	}
}

func TestCompileFailedVerdict(t *testing.T) {
	v := verdict.CompileFailedVerdict(cand, "Compiling generated program failed")
	if v.State != verdict.CompileFailed || v.Evidence != nil || v.OK() {
		t.Errorf("CompileFailedVerdict = %+v", v)
	}
}

func TestAllPassed(t *testing.T) {
	passed := verdict.Verdict{State: verdict.Passed}
	crashed := verdict.Verdict{State: verdict.Crashed}
	for _, tc := range []struct {
		vs   []verdict.Verdict
		want bool
	}{
		{nil, true},
		{[]verdict.Verdict{passed, passed}, true},
		{[]verdict.Verdict{passed, crashed}, false},
	} {
		if got := verdict.AllPassed(tc.vs); got != tc.want {
			t.Errorf("AllPassed(%v) = %v; want %v", tc.vs, got, tc.want)
		}
	}
}
