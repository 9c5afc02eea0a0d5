// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package procexec runs external programs (javac, java, the generator) with
// explicit argument vectors, explicit redirection targets and a bounded
// running time.
//
// No shell is involved: class names and paths are passed as separate argv
// entries, never interpolated into a command string.
package procexec

import (
	"context"
	"io"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"jitdiff/errors"
	"jitdiff/internal/logging"
	"jitdiff/internal/xcontext"
)

// Cmd describes one process invocation.
type Cmd struct {
	// Args holds the program path followed by its arguments.
	Args []string
	// Dir is the working directory. Empty means the current one.
	Dir string
	// Stdout and Stderr receive the process output. nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	// Timeout bounds the running time. Zero means no bound.
	Timeout time.Duration
}

// Result is the outcome of a process that was started.
type Result struct {
	// ExitCode is the process exit status, or -1 if it was killed.
	ExitCode int
	// Signal is the signal that terminated the process on its own, e.g.
	// SIGABRT from a JVM that hit a fatal error. It is zero for normal exits
	// and for processes killed by Run.
	Signal syscall.Signal
	// TimedOut is set if the process was killed for exceeding Cmd.Timeout.
	TimedOut bool
	// Duration is the wall time from start to exit.
	Duration time.Duration
}

// Success reports whether the process exited normally with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// LaunchError is returned when a process could not be started at all, e.g.
// because the binary is missing or not executable.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return "failed to launch " + e.Path + ": " + e.Err.Error()
}

func (e *LaunchError) Unwrap() error { return e.Err }

// errTimeout is the cancellation cause used for Cmd.Timeout.
var errTimeout = errors.New("process timeout reached")

// Run starts cmd and waits for it to exit.
//
// A non-zero exit status is not an error; it is reported in Result. The
// process runs in its own process group, and the whole group is killed when
// the timeout expires or ctx is canceled, so forked helpers do not outlive
// it. Run returns *LaunchError if the process could not be started, and an
// error wrapping ctx.Err() if ctx was canceled before the process exited.
func Run(ctx context.Context, cmd *Cmd) (*Result, error) {
	if len(cmd.Args) == 0 {
		return nil, errors.New("empty command")
	}

	ctx, cancel := xcontext.WithTimeout(ctx, cmd.Timeout, errTimeout)
	defer cancel(context.Canceled)

	c := exec.Command(cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	logging.Debug(ctx, "Running: ", FormatCommand(cmd.Args))
	start := time.Now()
	if err := c.Start(); err != nil {
		return nil, &LaunchError{Path: cmd.Args[0], Err: err}
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- c.Wait() }()

	var killedBy error
	var err error
	select {
	case err = <-waitErr:
	case <-ctx.Done():
		killedBy = ctx.Err()
		unix.Kill(-c.Process.Pid, unix.SIGKILL)
		err = <-waitErr
	}
	res := &Result{ExitCode: 0, Duration: time.Since(start)}

	var ee *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &ee):
		res.ExitCode = ee.ExitCode()
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() && killedBy == nil {
			res.Signal = ws.Signal()
		}
	default:
		// I/O copy failures on non-file writers end up here.
		return nil, errors.Wrapf(err, "failed waiting for %s", cmd.Args[0])
	}

	if killedBy != nil {
		res.ExitCode = -1
		if killedBy == errTimeout {
			res.TimedOut = true
			logging.Debugf(ctx, "Killed %s after %v timeout", cmd.Args[0], cmd.Timeout)
			return res, nil
		}
		return res, errors.Wrapf(killedBy, "%s interrupted", cmd.Args[0])
	}
	return res, nil
}
