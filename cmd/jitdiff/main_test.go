// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

func TestDoMainVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if status := doMain([]string{"-version"}, &stdout, &stderr); status != 0 {
		t.Errorf("doMain(-version) = %d; want 0", status)
	}
	if got, want := stdout.String(), "jitdiff version "+Version+"\n"; got != want {
		t.Errorf("doMain(-version) printed %q; want %q", got, want)
	}
}

func TestDoMainUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"nosuchcommand"},
		{"-nosuchflag"},
	} {
		var stdout, stderr bytes.Buffer
		if status := doMain(args, &stdout, &stderr); status != int(subcommands.ExitUsageError) {
			t.Errorf("doMain(%v) = %d; want %d", args, status, subcommands.ExitUsageError)
		}
		if stdout.Len() != 0 {
			t.Errorf("doMain(%v) wrote to stdout: %q", args, stdout.String())
		}
	}
}

func TestDoMainCommands(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if status := doMain([]string{"commands"}, &stdout, &stderr); status != 0 {
		t.Fatalf("doMain(commands) = %d; want 0", status)
	}
	for _, name := range []string{"run", "envs"} {
		if !strings.Contains(stderr.String()+stdout.String(), name) {
			t.Errorf("Command %q not listed", name)
		}
	}
}
