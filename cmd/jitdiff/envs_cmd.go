// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"jitdiff/internal/jvm"
	"jitdiff/internal/logging"
	"jitdiff/internal/procexec"
	"jitdiff/internal/run"
)

// versionTimeout bounds each "java -version" probe.
const versionTimeout = 30 * time.Second

// envsCmd implements subcommands.Command to validate and list runtime
// environments.
type envsCmd struct {
	cfg    *run.MutableConfig
	stdout io.Writer
}

var _ = subcommands.Command(&envsCmd{})

func newEnvsCmd(stdout io.Writer) *envsCmd {
	return &envsCmd{cfg: run.NewMutableConfig(workDirName, defaultJar()), stdout: stdout}
}

func (*envsCmd) Name() string     { return "envs" }
func (*envsCmd) Synopsis() string { return "validate and list runtime environments" }
func (*envsCmd) Usage() string {
	return `Usage: envs [flag]...

Description:
    Validates the runtime environments selected by -env_config, -java_homes
    or $JAVA_HOME and prints them with the version each one reports.

Flag:
`
}

func (e *envsCmd) SetFlags(f *flag.FlagSet) {
	e.cfg.SetEnvFlags(f)
}

func (e *envsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprint(e.stdout, e.Usage())
		return subcommands.ExitUsageError
	}
	specs, err := e.cfg.Freeze().EnvSpecs()
	if err != nil {
		logging.Warning(ctx, err)
		return subcommands.ExitFailure
	}
	reg, err := jvm.NewRegistry(ctx, specs)
	if err != nil {
		logging.Warning(ctx, err)
		return subcommands.ExitFailure
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 8, 2, ' ', 0)
	for _, env := range reg.Envs() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", env.Name(), env.Root, strings.Join(env.Options, " "), javaVersion(ctx, env))
	}
	if err := tw.Flush(); err != nil {
		logging.Warning(ctx, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// javaVersion returns the first line "java -version" prints for env, or a
// placeholder if it fails.
func javaVersion(ctx context.Context, env jvm.Environment) string {
	var out bytes.Buffer
	args := append([]string{env.Java()}, env.Options...)
	res, err := procexec.Run(ctx, &procexec.Cmd{
		Args:    append(args, "-version"),
		Stdout:  &out,
		Stderr:  &out,
		Timeout: versionTimeout,
	})
	if err != nil || !res.Success() {
		logging.Debugf(ctx, "%s -version failed: %v\n%s", env.Java(), err, out.String())
		return "(unknown version)"
	}
	line, _, _ := strings.Cut(out.String(), "\n")
	return strings.TrimSpace(line)
}
