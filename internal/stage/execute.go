// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package stage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"jitdiff/errors"
	"jitdiff/internal/candidate"
	"jitdiff/internal/jvm"
	"jitdiff/internal/logging"
	"jitdiff/internal/procexec"
	"jitdiff/internal/timing"
)

// maxLoggedStderr caps how much of a run's stderr is copied into the debug log.
const maxLoggedStderr = 4096

// ExecutionRecord is the result of running one candidate on one environment.
// It is read-only after creation.
type ExecutionRecord struct {
	Env jvm.Environment
	// ExitCode is -1 if the process was killed or never started.
	ExitCode int
	// Signal terminated the JVM on its own; zero otherwise.
	Signal   syscall.Signal
	TimedOut bool
	// StdoutPath holds the full standard output; Stdout is its content.
	StdoutPath string
	Stdout     []byte
	// StderrPath holds the standard error. It is diagnostic only.
	StderrPath string
	Duration   time.Duration
	// LaunchErr is set if the launcher could not be started.
	LaunchErr error
}

// Crashed reports whether the run counts as a crash: a non-zero exit, a
// timeout or a launch failure.
func (r *ExecutionRecord) Crashed() bool {
	return r.ExitCode != 0 || r.TimedOut || r.LaunchErr != nil
}

// Executor runs compiled candidates on runtime environments.
type Executor struct {
	// ClassPath is the runtime class path, usually the harness jar and the
	// build directory.
	ClassPath []string
	// HarnessFlags are passed after the environment options on every run.
	HarnessFlags []string
	// Timeout bounds each java invocation. Zero means no bound.
	Timeout time.Duration
}

// Args returns the launcher argument vector for running className on env with
// crash dumps written to outDir.
func (e *Executor) Args(className string, env jvm.Environment, outDir string) []string {
	args := []string{env.Java(), "-cp", strings.Join(e.ClassPath, ":")}
	args = append(args, env.Options...)
	args = append(args, e.HarnessFlags...)
	args = append(args,
		fmt.Sprintf("-XX:ErrorFile=%s", filepath.Join(outDir, "hs_err_"+env.Name()+"_pid%p.log")),
		fmt.Sprintf("-XX:ReplayDataFile=%s", filepath.Join(outDir, "replay_"+env.Name()+"_pid%p.log")),
		className)
	return args
}

// Execute runs c on env. Standard output goes to <outDir>/<env>.out and
// standard error to <outDir>/<env>.err; outDir must exist.
//
// A non-zero exit or a timeout is a normal record. If the launcher cannot be
// started, the record has LaunchErr set and the *procexec.LaunchError is
// also returned so that callers may log it; the record remains usable.
func (e *Executor) Execute(ctx context.Context, c candidate.Candidate, env jvm.Environment, outDir string) (*ExecutionRecord, error) {
	ctx, st := timing.Start(ctx, "exec_"+env.Name())
	defer st.End()

	rec := &ExecutionRecord{
		Env:        env,
		ExitCode:   -1,
		StdoutPath: filepath.Join(outDir, env.Name()+".out"),
		StderrPath: filepath.Join(outDir, env.Name()+".err"),
	}

	stdout, err := os.Create(rec.StdoutPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create stdout file")
	}
	defer stdout.Close()
	stderr, err := os.Create(rec.StderrPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create stderr file")
	}
	defer stderr.Close()

	res, err := procexec.Run(ctx, &procexec.Cmd{
		Args:    e.Args(c.ClassName, env, outDir),
		Stdout:  stdout,
		Stderr:  stderr,
		Timeout: e.Timeout,
	})
	var lerr *procexec.LaunchError
	if errors.As(err, &lerr) {
		rec.LaunchErr = lerr
		return rec, lerr
	}
	if err != nil {
		return nil, err
	}

	rec.ExitCode = res.ExitCode
	rec.Signal = res.Signal
	rec.TimedOut = res.TimedOut
	rec.Duration = res.Duration

	if err := stdout.Sync(); err != nil {
		return nil, errors.Wrap(err, "failed to flush stdout file")
	}
	if rec.Stdout, err = os.ReadFile(rec.StdoutPath); err != nil {
		return nil, errors.Wrap(err, "failed to read stdout file")
	}

	if rec.Crashed() {
		logging.Infof(ctx, "%s on %s: exit %d, signal %v, timed out %v", c.ClassName, env.Name(), rec.ExitCode, rec.Signal, rec.TimedOut)
		logStderr(ctx, rec.StderrPath)
	}
	return rec, nil
}

func logStderr(ctx context.Context, path string) {
	b, err := os.ReadFile(path)
	if err != nil || len(b) == 0 {
		return
	}
	if len(b) > maxLoggedStderr {
		b = b[:maxLoggedStderr]
	}
	logging.Debugf(ctx, "stderr (%s):\n%s", filepath.Base(path), b)
}
