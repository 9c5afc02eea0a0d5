// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package main implements the jitdiff executable, which differential-tests
// Java runtime environments with programs generated from a template.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"jitdiff/errors"
	"jitdiff/internal/command"
	"jitdiff/internal/logging"
	"jitdiff/internal/xcontext"
)

// Version is the version info of this command. It is filled in at link time.
var Version = "<unknown>"

// newLogger returns the console logger. Only warnings reach stderr unless
// verbose is set; the full log goes to a file.
func newLogger(w io.Writer, verbose, logTime bool) logging.Logger {
	level := logging.LevelWarning
	if verbose {
		level = logging.LevelInfo
	}
	return logging.NewSinkLogger(level, logTime, logging.NewWriterSink(w))
}

// doMain implements the main body of the program. It's a separate function so
// that its deferred functions will run before os.Exit makes the program exit
// immediately.
func doMain(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jitdiff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	version := fs.Bool("version", false, "print version and exit")
	verbose := fs.Bool("verbose", false, "log informational messages to stderr")
	logTime := fs.Bool("logtime", false, "include date/time headers in stderr logs")
	if err := fs.Parse(args); err != nil {
		return int(subcommands.ExitUsageError)
	}

	if *version {
		fmt.Fprintf(stdout, "jitdiff version %s\n", Version)
		return 0
	}

	cdr := subcommands.NewCommander(fs, "jitdiff")
	cdr.Output = stderr
	cdr.Error = stderr
	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(cdr.FlagsCommand(), "")
	cdr.Register(cdr.CommandsCommand(), "")
	cdr.Register(newRunCmd(stdout, stderr), "")
	cdr.Register(newEnvsCmd(stdout), "")

	ctx, cancel := xcontext.WithCancel(context.Background())
	defer cancel(context.Canceled)
	ctx = logging.AttachLogger(ctx, newLogger(stderr, *verbose, *logTime))

	stop := command.InstallSignalHandler(stderr, func(sig os.Signal) {
		cancel(errors.Wrapf(context.Canceled, "interrupted by %v", sig))
	})
	defer stop()

	return int(cdr.Execute(ctx))
}

func main() {
	os.Exit(doMain(os.Args[1:], os.Stdout, os.Stderr))
}
