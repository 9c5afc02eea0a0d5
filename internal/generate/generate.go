// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package generate drives the external program generator that expands a
// template into candidate programs.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"jitdiff/errors"
	"jitdiff/internal/candidate"
	"jitdiff/internal/logging"
	"jitdiff/internal/procexec"
	"jitdiff/internal/timing"
)

// Request describes one generation.
type Request struct {
	// TemplateClass is the fully qualified template class, e.g. "sanity.T".
	TemplateClass string
	// SrcPath is the template source file.
	SrcPath string
	// NumOutputs is the maximum number of programs to generate. The
	// generator may produce fewer if the template's search space is small.
	NumOutputs int
	// NumInvocations is the number of template method invocations used to
	// explore holes.
	NumInvocations int
	// Seed makes generation reproducible. nil lets the generator choose.
	Seed *int64
	// OutputDir receives the generated sources. It is wiped first.
	OutputDir string
	// Suffix is appended to the template's simple name before the index,
	// e.g. "Gen" for TGen1.java.
	Suffix string
}

// Generator produces candidate sources.
type Generator interface {
	// Generate fills req.OutputDir with candidates or returns a
	// *GenerationError.
	Generate(ctx context.Context, req *Request) error
}

// DriverClass is the generator entry point in the harness jar.
const DriverClass = "jattack.driver.Driver"

// JAttack runs the generator shipped in the harness jar as a Java agent.
type JAttack struct {
	// Java is the reference environment's launcher.
	Java string
	// HarnessJar is the generator and harness jar.
	HarnessJar string
	// TemplateClassPath is where the compiled template lives.
	TemplateClassPath string
	// Timeout bounds the generator run. Zero means no bound.
	Timeout time.Duration
}

// Args returns the generator command line for req.
func (j *JAttack) Args(req *Request) []string {
	args := []string{
		j.Java,
		"-javaagent:" + j.HarnessJar,
		"-cp", j.TemplateClassPath,
		DriverClass,
		"--clzName=" + req.TemplateClass,
		fmt.Sprintf("--nOutputs=%d", req.NumOutputs),
		"--srcPath=" + req.SrcPath,
		fmt.Sprintf("--nInvocations=%d", req.NumInvocations),
	}
	if req.Seed != nil {
		args = append(args, fmt.Sprintf("--seed=%d", *req.Seed))
	}
	args = append(args, "--outputDir="+req.OutputDir)
	if req.Suffix != "" {
		args = append(args, "--outputClzNamePostfix="+req.Suffix)
	}
	return args
}

// Generate runs the generator and validates its output.
func (j *JAttack) Generate(ctx context.Context, req *Request) error {
	ctx, st := timing.Start(ctx, "generate")
	defer st.End()

	if err := os.RemoveAll(req.OutputDir); err != nil {
		return &GenerationError{Msg: "Generating from template failed", Cause: err}
	}
	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return &GenerationError{Msg: "Generating from template failed", Cause: err}
	}

	var out bytes.Buffer
	res, err := procexec.Run(ctx, &procexec.Cmd{
		Args:    j.Args(req),
		Stdout:  &out,
		Stderr:  &out,
		Timeout: j.Timeout,
	})
	if err != nil {
		return &GenerationError{Msg: "Generating from template failed", Cause: err}
	}
	if !res.Success() {
		logging.Warning(ctx, "Generator output:\n", out.String())
		cause := errors.Errorf("generator exited with status %d", res.ExitCode)
		if res.TimedOut {
			cause = errors.Errorf("generator timed out after %v", j.Timeout)
		}
		return &GenerationError{Msg: "Generating from template failed", Cause: cause}
	}
	if out.Len() > 0 {
		logging.Debug(ctx, "Generator output:\n", out.String())
	}
	return Validate(req)
}

// Validate checks a generated directory: the no-reachable-hole marker and an
// empty candidate set are both fatal.
func Validate(req *Request) error {
	stem := simpleName(req.TemplateClass)
	if candidate.HasNoHoleMarker(req.OutputDir, stem, req.Suffix) {
		return Errorf("No reachable hole in the template!")
	}
	cands, err := candidate.Enumerate(req.OutputDir, "", stem, req.Suffix)
	if err != nil {
		return &GenerationError{Msg: "Generating from template failed", Cause: err}
	}
	if len(cands) == 0 {
		return Errorf("Generator produced no programs")
	}
	return nil
}

func simpleName(cls string) string {
	return cls[strings.LastIndexByte(cls, '.')+1:]
}
