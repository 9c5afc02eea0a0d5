// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package jvm models the Java runtime environments under test.
//
// An environment is a JDK installation root plus the extra options every
// java invocation on it receives, e.g. "-XX:TieredStopAtLevel=1". The first
// configured environment is the reference: it compiles the template and every
// candidate. Callers must make sure its Java version is not newer than any
// other environment's, or class files it emits may not load elsewhere.
package jvm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jitdiff/errors"
	"jitdiff/internal/logging"
)

// Well-known binaries relative to an installation root.
const (
	javacRelPath = "bin/javac"
	javaRelPath  = "bin/java"
)

// EnvSpec is an environment as read from configuration, before validation.
type EnvSpec struct {
	Root    string   `yaml:"root"`
	Options []string `yaml:"options,omitempty"`
}

// Environment is a validated runtime environment. Values are immutable;
// Options must not be modified.
type Environment struct {
	// Index is the position in configuration order, starting at 0.
	Index int
	// Root is the installation root.
	Root string
	// Options are passed to every java invocation on this environment.
	Options []string
}

// Javac returns the path of the compiler binary.
func (e Environment) Javac() string { return filepath.Join(e.Root, javacRelPath) }

// Java returns the path of the launcher binary.
func (e Environment) Java() string { return filepath.Join(e.Root, javaRelPath) }

// Name returns a short stable identifier used in file names and reports.
func (e Environment) Name() string { return fmt.Sprintf("env%d", e.Index) }

func (e Environment) String() string {
	if len(e.Options) == 0 {
		return fmt.Sprintf("%s (%s)", e.Name(), e.Root)
	}
	return fmt.Sprintf("%s (%s %s)", e.Name(), e.Root, strings.Join(e.Options, " "))
}

// ConfigurationError reports an invalid or missing environment configuration.
// It aborts a run before any candidate is touched.
type ConfigurationError struct {
	Msg   string
	Cause error
}

func (e *ConfigurationError) Error() string {
	if e.Cause == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Cause.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

func configErrorf(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// Registry is the validated, ordered set of environments of a run.
type Registry struct {
	envs []Environment
}

// NewRegistry validates specs and returns the registry.
//
// It fails with *ConfigurationError if specs is empty or if any root lacks an
// executable compiler or launcher. A single environment is legal: the run
// then only detects crashes, which is logged as a warning.
func NewRegistry(ctx context.Context, specs []EnvSpec) (*Registry, error) {
	if len(specs) == 0 {
		return nil, configErrorf("no runtime environments configured")
	}
	envs := make([]Environment, len(specs))
	for i, s := range specs {
		if s.Root == "" {
			return nil, configErrorf("environment %d has an empty root", i)
		}
		for _, rel := range []string{javacRelPath, javaRelPath} {
			if err := checkExecutable(filepath.Join(s.Root, rel)); err != nil {
				return nil, &ConfigurationError{Msg: fmt.Sprintf("environment %d (%s)", i, s.Root), Cause: err}
			}
		}
		envs[i] = Environment{
			Index:   i,
			Root:    filepath.Clean(s.Root),
			Options: append([]string(nil), s.Options...),
		}
	}
	reg := &Registry{envs: envs}
	if reg.CrashOnly() {
		logging.Warning(ctx, "Only one runtime environment configured; outputs are not compared, only crashes are detected")
	}
	for _, e := range envs {
		logging.Debug(ctx, "Runtime environment ", e)
	}
	return reg, nil
}

func checkExecutable(p string) error {
	fi, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("missing %s", p)
		}
		return err
	}
	if fi.IsDir() || fi.Mode().Perm()&0111 == 0 {
		return errors.Errorf("%s is not executable", p)
	}
	return nil
}

// Reference returns the environment used for compiling.
func (r *Registry) Reference() Environment { return r.envs[0] }

// Envs returns all environments in configuration order.
func (r *Registry) Envs() []Environment {
	return append([]Environment(nil), r.envs...)
}

// Len returns the number of environments.
func (r *Registry) Len() int { return len(r.envs) }

// CrashOnly reports whether outputs cannot be compared because only one
// environment is configured.
func (r *Registry) CrashOnly() bool { return len(r.envs) == 1 }
