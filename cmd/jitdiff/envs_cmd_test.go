// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/google/subcommands"

	"jitdiff/testutil"
)

func executeEnvsCmd(t *testing.T, args []string) (subcommands.ExitStatus, string) {
	t.Helper()
	var stdout bytes.Buffer
	cmd := newEnvsCmd(&stdout)
	cmd.cfg.Getenv = func(string) string { return "" }
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	cmd.SetFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cmd.Execute(context.Background(), flags), stdout.String()
}

func TestEnvs(t *testing.T) {
	td := testutil.TempDir(t)
	jdk11 := testutil.FakeJDK(t, td, "jdk11", "", "#!/bin/sh\necho 'openjdk version \"11.0.2\"' >&2\n")
	jdk17 := testutil.FakeJDK(t, td, "jdk17", "", "#!/bin/sh\nexit 1\n")
	if err := testutil.WriteFiles(td, map[string]string{
		"envs.yaml": "environments:\n  - root: " + jdk11 + "\n    options: [-Xint]\n  - root: " + jdk17 + "\n",
	}); err != nil {
		t.Fatal(err)
	}

	status, out := executeEnvsCmd(t, []string{"-env_config=" + td + "/envs.yaml"})
	if status != subcommands.ExitSuccess {
		t.Fatalf("envs returned %v; want %v", status, subcommands.ExitSuccess)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("envs printed %d lines; want 2:\n%s", len(lines), out)
	}
	if f := strings.Fields(lines[0]); len(f) < 4 || f[0] != "env0" || f[1] != jdk11 || f[2] != "-Xint" || !strings.Contains(lines[0], `"11.0.2"`) {
		t.Errorf("Unexpected first line %q", lines[0])
	}
	if f := strings.Fields(lines[1]); f[0] != "env1" || !strings.Contains(lines[1], "(unknown version)") {
		t.Errorf("Unexpected second line %q", lines[1])
	}
}

func TestEnvsInvalid(t *testing.T) {
	td := testutil.TempDir(t)
	if status, _ := executeEnvsCmd(t, []string{"-java_homes=" + td + "/missing"}); status != subcommands.ExitFailure {
		t.Errorf("envs with a missing JDK returned %v; want %v", status, subcommands.ExitFailure)
	}
	if status, _ := executeEnvsCmd(t, nil); status != subcommands.ExitFailure {
		t.Errorf("envs without environments returned %v; want %v", status, subcommands.ExitFailure)
	}
}
