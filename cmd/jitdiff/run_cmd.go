// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/subcommands"

	"jitdiff/errors"
	"jitdiff/internal/command"
	"jitdiff/internal/logging"
	"jitdiff/internal/run"
	"jitdiff/internal/timing"
	"jitdiff/internal/xcontext"
)

const timingLogName = "timing.json" // file in the template directory containing timing information

// runCmd implements subcommands.Command to support running a batch.
type runCmd struct {
	cfg     *run.MutableConfig
	wrapper runWrapper    // can be set by tests to stub out calls to run package
	stdout  io.Writer     // receives the report
	stderr  io.Writer     // receives the log file location
	timeout time.Duration // overall timeout; 0 if no timeout
}

var _ = subcommands.Command(&runCmd{})

func newRunCmd(stdout, stderr io.Writer) *runCmd {
	return &runCmd{
		cfg:     run.NewMutableConfig(workDirName, defaultJar()),
		wrapper: realRunWrapper{},
		stdout:  stdout,
		stderr:  stderr,
	}
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "generate programs from a template and test them" }
func (*runCmd) Usage() string {
	return `Usage: run [flag]... <template-class>

Description:
    Compiles the template, generates programs from it and runs every program
    on each runtime environment. The first environment compiles everything,
    so its Java version must not be newer than the others'.

    The report is written to stdout in TAP format. Exits with 0 only if every
    program passed on every environment.

Flag:
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.Var(command.NewDurationFlag(time.Second, &r.timeout, 0), "timeout", "batch timeout in seconds (0 disables)")
	r.cfg.SetFlags(f)
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return r.fail(command.NewStatusErrorf(int(subcommands.ExitUsageError), "Missing template class.\n\n%s", r.Usage()))
	}
	r.cfg.TemplateClass = f.Arg(0)
	if err := r.cfg.Validate(); err != nil {
		return r.fail(command.NewStatusErrorf(int(subcommands.ExitUsageError), "Bad arguments: %v", err))
	}

	ctx, cancel := xcontext.WithTimeout(ctx, r.timeout, errors.Errorf("%v: batch timeout reached (%v)", context.DeadlineExceeded, r.timeout))
	defer cancel(context.Canceled)

	tl := timing.NewLog()
	ctx = timing.NewContext(ctx, tl)
	ctx, st := timing.Start(ctx, "batch")

	logDir := run.LogDir(r.cfg.WorkDir)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return r.fail(errors.Wrap(err, "failed to create log directory"))
	}
	logPath := filepath.Join(logDir, fmt.Sprintf("%d.log", time.Now().UnixNano()))
	fullLog, err := os.Create(logPath)
	if err != nil {
		return r.fail(errors.Wrap(err, "failed to create log file"))
	}
	defer fullLog.Close()
	fmt.Fprintln(r.stderr, "See log file:", logPath)

	logger := logging.NewSinkLogger(logging.LevelDebug, true, logging.NewWriterSink(fullLog))
	ctx = logging.AttachLogger(ctx, logger)
	logging.Info(ctx, "Command line: ", strings.Join(os.Args, " "))

	cfg := r.cfg.Freeze()
	layout := run.NewLayout(cfg.WorkDir(), cfg.TemplateClass())

	// Write the timing log after the command finishes.
	defer func() {
		st.End()
		if err := os.MkdirAll(layout.Root, 0755); err != nil {
			logging.Warning(ctx, err)
			return
		}
		f, err := os.Create(layout.ResultPath(timingLogName))
		if err != nil {
			logging.Warning(ctx, err)
			return
		}
		defer f.Close()
		if err := tl.WritePretty(f); err != nil {
			logging.Warning(ctx, err)
		}
	}()

	br, err := r.wrapper.run(ctx, cfg, r.stdout)
	if err != nil {
		logging.Warningf(ctx, "Failed to run batch: %v", err)
		logging.Debugf(ctx, "%+v", err)
		return subcommands.ExitFailure
	}
	if !br.Passed() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// fail writes err to stderr and returns the exit status it carries.
func (r *runCmd) fail(err error) subcommands.ExitStatus {
	return subcommands.ExitStatus(command.WriteError(r.stderr, err))
}
