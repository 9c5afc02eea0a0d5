// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package stage implements the compile and execute steps applied to each
// candidate.
package stage

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"jitdiff/errors"
	"jitdiff/internal/candidate"
	"jitdiff/internal/generate"
	"jitdiff/internal/logging"
	"jitdiff/internal/procexec"
	"jitdiff/internal/timing"
)

// compileFailedMsg starts the report message of a candidate that did not
// compile.
const compileFailedMsg = "Compiling generated program failed"

// CompileResult is the outcome of compiling one candidate.
type CompileResult struct {
	OK       bool
	ExitCode int
	TimedOut bool
	// Stderr holds the compiler diagnostics.
	Stderr string
	// LaunchErr is set if javac could not be started.
	LaunchErr error
}

// Message summarizes a failed compilation for the report.
func (r *CompileResult) Message() string {
	var detail string
	switch {
	case r.OK:
		return ""
	case r.LaunchErr != nil:
		detail = r.LaunchErr.Error()
	case r.TimedOut:
		detail = "compiler timed out"
	default:
		detail = strings.TrimSpace(r.Stderr)
	}
	if detail == "" {
		return compileFailedMsg
	}
	return compileFailedMsg + ": " + detail
}

// Compiler compiles candidates into a build directory shared by the batch.
// The build directory accumulates class files and is never cleaned between
// candidates. Compile calls are serialized, so a Compiler may be shared by
// concurrent pipelines.
type Compiler struct {
	// Javac is the reference environment's compiler.
	Javac string
	// ClassPath is prepended to BuildDir for every compilation, usually the
	// harness jar.
	ClassPath []string
	BuildDir  string
	// Timeout bounds each javac invocation. Zero means no bound.
	Timeout time.Duration

	mu sync.Mutex
}

// Compile compiles c into the build directory.
//
// Compiler failures, timeouts and launch failures are reported in the result
// and are not errors. An error is returned only if the build directory cannot
// be prepared or ctx is canceled.
func (cp *Compiler) Compile(ctx context.Context, c candidate.Candidate) (*CompileResult, error) {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	ctx, st := timing.Start(ctx, "compile")
	defer st.End()

	if err := os.MkdirAll(cp.BuildDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create build directory")
	}

	classPath := strings.Join(append(append([]string(nil), cp.ClassPath...), cp.BuildDir), ":")
	var stderr bytes.Buffer
	res, err := procexec.Run(ctx, &procexec.Cmd{
		Args:    []string{cp.Javac, "-cp", classPath, c.Path, "-d", cp.BuildDir},
		Stdout:  &stderr,
		Stderr:  &stderr,
		Timeout: cp.Timeout,
	})
	var lerr *procexec.LaunchError
	if errors.As(err, &lerr) {
		logging.Warningf(ctx, "%s: %v", c.ClassName, lerr)
		return &CompileResult{ExitCode: -1, LaunchErr: lerr}, nil
	}
	if err != nil {
		return nil, err
	}

	cr := &CompileResult{
		OK:       res.Success(),
		ExitCode: res.ExitCode,
		TimedOut: res.TimedOut,
		Stderr:   stderr.String(),
	}
	if !cr.OK {
		logging.Warningf(ctx, "%s: compilation failed (exit %d, timed out %v)", c.ClassName, cr.ExitCode, cr.TimedOut)
		if cr.Stderr != "" {
			logging.Debug(ctx, "javac output:\n", cr.Stderr)
		}
	}
	return cr, nil
}

// CompileTemplate compiles the template source src into buildDir before
// generation. Any failure is a *generate.GenerationError, since no candidates
// can be produced without a compiled template.
func CompileTemplate(ctx context.Context, javac, harnessJar, src, buildDir string, timeout time.Duration) error {
	ctx, st := timing.Start(ctx, "compile_template")
	defer st.End()

	if fi, err := os.Stat(src); err != nil || !fi.Mode().IsRegular() {
		return generate.Errorf("File not found: %s", src)
	}
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return &generate.GenerationError{Msg: "Compiling template failed", Cause: err}
	}

	var out bytes.Buffer
	res, err := procexec.Run(ctx, &procexec.Cmd{
		Args:    []string{javac, "-cp", harnessJar, src, "-d", buildDir},
		Stdout:  &out,
		Stderr:  &out,
		Timeout: timeout,
	})
	if err != nil {
		return &generate.GenerationError{Msg: "Compiling template failed", Cause: err}
	}
	if !res.Success() {
		logging.Warning(ctx, "Template compilation output:\n", out.String())
		if res.TimedOut {
			return &generate.GenerationError{Msg: "Compiling template failed", Cause: errors.Errorf("javac timed out after %v", timeout)}
		}
		return &generate.GenerationError{Msg: "Compiling template failed", Cause: errors.Errorf("javac exited with status %d", res.ExitCode)}
	}
	return nil
}
