// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package command

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var selfName = filepath.Base(os.Args[0])

// InstallSignalHandler handles SIGINT and SIGTERM in two steps.
//
// The first signal calls interrupt, which is expected to cancel the batch so
// that no new candidate starts and the report ends early. A second signal
// terminates every child process (compilers and JVMs still running), restores
// the terminal state and exits with status 1.
//
// out receives messages about the signals, typically stderr. The returned
// function uninstalls the handler.
func InstallSignalHandler(out io.Writer, interrupt func(sig os.Signal)) (stop func()) {
	var st *term.State
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		st, _ = term.GetState(fd)
	}

	ch := make(chan os.Signal, 2)
	done := make(chan struct{})
	go func() {
		first := true
		for {
			select {
			case sig := <-ch:
				if first {
					first = false
					fmt.Fprintf(out, "\n%s: Caught %v signal; finishing running candidates (send again to abort)\n", selfName, sig)
					interrupt(sig)
					continue
				}
				fmt.Fprintf(out, "\n%s: Caught %v signal again; aborting\n", selfName, sig)
				terminateChildren(out)
				if st != nil {
					term.Restore(fd, st)
				}
				os.Exit(1)
			case <-done:
				return
			}
		}
	}()
	signal.Notify(ch, unix.SIGINT, unix.SIGTERM)
	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// terminateChildren sends SIGTERM to direct children of this process. JVMs
// are started in their own process groups, so the group of each child is
// signaled as well.
func terminateChildren(out io.Writer) {
	procs, err := process.Processes()
	if err != nil {
		fmt.Fprintf(out, "Failed to list subprocesses: %v\n", err)
		return
	}
	self := int32(os.Getpid())
	for _, p := range procs {
		ppid, err := p.Ppid()
		if err != nil || ppid != self {
			continue
		}
		if err := unix.Kill(-int(p.Pid), unix.SIGTERM); err != nil {
			p.Terminate()
		}
	}
}
