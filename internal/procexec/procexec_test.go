// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package procexec_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"jitdiff/errors"
	"jitdiff/internal/procexec"
)

func TestRunCapturesOutputAndStatus(t *testing.T) {
	var stdout, stderr bytes.Buffer
	res, err := procexec.Run(context.Background(), &procexec.Cmd{
		Args:   []string{"/bin/sh", "-c", `echo 42; echo oops >&2; exit 3`},
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatal("Run failed: ", err)
	}
	if res.ExitCode != 3 || res.TimedOut {
		t.Errorf("Run returned exit %d timedOut %v; want 3 false", res.ExitCode, res.TimedOut)
	}
	if res.Success() {
		t.Error("Success() = true for exit status 3")
	}
	if got := stdout.String(); got != "42\n" {
		t.Errorf("stdout = %q; want %q", got, "42\n")
	}
	if got := stderr.String(); got != "oops\n" {
		t.Errorf("stderr = %q; want %q", got, "oops\n")
	}
}

func TestRunToFile(t *testing.T) {
	td := t.TempDir()
	f, err := os.Create(filepath.Join(td, "env0.out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	res, err := procexec.Run(context.Background(), &procexec.Cmd{
		Args:   []string{"/bin/sh", "-c", `printf 'a\nb\n'`},
		Stdout: f,
	})
	if err != nil {
		t.Fatal("Run failed: ", err)
	}
	if !res.Success() {
		t.Errorf("Success() = false; exit %d", res.ExitCode)
	}
	b, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "a\nb\n" {
		t.Errorf("File content = %q; want %q", b, "a\nb\n")
	}
}

func TestRunTimeout(t *testing.T) {
	start := time.Now()
	res, err := procexec.Run(context.Background(), &procexec.Cmd{
		Args:    []string{"/bin/sh", "-c", `sleep 30`},
		Timeout: 200 * time.Millisecond,
	})
	if err != nil {
		t.Fatal("Run failed: ", err)
	}
	if !res.TimedOut || res.ExitCode != -1 || res.Signal != 0 {
		t.Errorf("Run returned exit %d timedOut %v; want -1 true", res.ExitCode, res.TimedOut)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Run took %v; process group was not killed", elapsed)
	}
}

func TestRunSignaled(t *testing.T) {
	res, err := procexec.Run(context.Background(), &procexec.Cmd{
		Args: []string{"/bin/sh", "-c", `kill -ABRT $$`},
	})
	if err != nil {
		t.Fatal("Run failed: ", err)
	}
	if res.Signal != syscall.SIGABRT || res.ExitCode != -1 || res.TimedOut {
		t.Errorf("Run returned exit %d signal %v timedOut %v; want -1 %v false", res.ExitCode, res.Signal, res.TimedOut, syscall.SIGABRT)
	}
	if res.Success() {
		t.Error("Success() = true for a signaled process")
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	res, err := procexec.Run(ctx, &procexec.Cmd{Args: []string{"/bin/sh", "-c", `sleep 30`}})
	if err == nil {
		t.Fatal("Run succeeded after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v; want wrapping context.Canceled", err)
	}
	if res == nil || res.TimedOut {
		t.Errorf("Run result = %+v; want non-timeout result", res)
	}
}

func TestRunLaunchError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "bin", "java")
	_, err := procexec.Run(context.Background(), &procexec.Cmd{Args: []string{missing, "-version"}})
	var le *procexec.LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("Run error = %v; want *LaunchError", err)
	}
	if le.Path != missing {
		t.Errorf("LaunchError.Path = %q; want %q", le.Path, missing)
	}
}

func TestFormatCommand(t *testing.T) {
	got := procexec.FormatCommand([]string{"java", "-cp", "a.jar:build", "-XX:ErrorFile=out/hs_err_env0_pid%p.log", "it's", "=x"})
	const want = `java -cp a.jar:build -XX:ErrorFile=out/hs_err_env0_pid%p.log 'it'"'"'s' '=x'`
	if got != want {
		t.Errorf("FormatCommand() = %q; want %q", got, want)
	}
}
