// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package run

import (
	"flag"
	"os"
	"strings"
	"time"

	"jitdiff/errors"
	"jitdiff/internal/command"
	"jitdiff/internal/jvm"
)

// Defaults of the run flags.
const (
	DefaultSuffix         = "Gen"
	DefaultNumOutputs     = 3
	DefaultNumInvocations = 100000

	defaultCompileTimeout = 2 * time.Minute
	defaultExecTimeout    = 5 * time.Minute
	defaultGenTimeout     = 30 * time.Minute
)

// DefaultHarnessFlags are passed to every candidate run so that the harness
// may access java.lang internals reflectively.
var DefaultHarnessFlags = []string{"--add-opens=java.base/java.lang=ALL-UNNAMED"}

// MutableConfig is similar to Config, but its fields are mutable.
// Call Freeze to obtain a Config from MutableConfig.
type MutableConfig struct {
	// See Config for descriptions of these fields.

	WorkDir       string
	TemplateClass string
	SrcPath       string
	HarnessJar    string

	EnvConfig string
	JavaHomes []string
	Getenv    func(string) string

	NumOutputs     int
	NumInvocations int
	Seed           *int64
	Suffix         string
	SkipGenerate   bool

	HarnessFlags []string
	Parallel     int

	CompileTimeout time.Duration
	ExecTimeout    time.Duration
	GenTimeout     time.Duration
}

// Config contains the configuration of one batch.
// All Config values are frozen and cannot be altered after construction.
type Config struct {
	m *MutableConfig
}

// NewMutableConfig returns a MutableConfig with defaults that do not depend on
// flags.
func NewMutableConfig(workDir, harnessJar string) *MutableConfig {
	return &MutableConfig{
		WorkDir:        workDir,
		HarnessJar:     harnessJar,
		Getenv:         os.Getenv,
		NumOutputs:     DefaultNumOutputs,
		NumInvocations: DefaultNumInvocations,
		Suffix:         DefaultSuffix,
		HarnessFlags:   append([]string(nil), DefaultHarnessFlags...),
		Parallel:       1,
	}
}

// SetEnvFlags adds the flags selecting runtime environments to f.
func (c *MutableConfig) SetEnvFlags(f *flag.FlagSet) {
	f.StringVar(&c.EnvConfig, "env_config", "", "YAML file listing runtime environments (overrides -java_homes)")
	f.Var(command.NewListFlag(",", func(v []string) { c.JavaHomes = v }, nil), "java_homes",
		"comma-separated JDK installation roots; the first compiles every program (default $JAVA_HOME)")
}

// SetFlags adds all run flags to f.
func (c *MutableConfig) SetFlags(f *flag.FlagSet) {
	c.SetEnvFlags(f)
	f.StringVar(&c.WorkDir, "work_dir", c.WorkDir, "directory where build, generated and output files are written")
	f.StringVar(&c.HarnessJar, "jar", c.HarnessJar, "harness and generator jar")
	f.StringVar(&c.SrcPath, "src", "", "template source file (default derived from the template class)")
	f.IntVar(&c.NumOutputs, "n_gen", c.NumOutputs, "maximum number of programs to generate")
	f.IntVar(&c.NumInvocations, "n_itrs", c.NumInvocations, "number of template invocations used to explore holes")
	f.Var(command.NewOptionalInt64Flag(&c.Seed), "seed", "random seed for generation")
	f.StringVar(&c.Suffix, "suffix", c.Suffix, "class name suffix of generated programs")
	f.BoolVar(&c.SkipGenerate, "skip_generate", false, "reuse programs already in the gen directory")
	f.Var(command.NewListFlag(",", func(v []string) { c.HarnessFlags = v }, DefaultHarnessFlags), "harness_flags",
		"comma-separated java flags passed to every run")
	f.IntVar(&c.Parallel, "parallel", c.Parallel, "number of programs processed concurrently")
	f.Var(command.NewDurationFlag(time.Second, &c.CompileTimeout, defaultCompileTimeout), "compile_timeout",
		"timeout for each javac invocation in seconds (0 disables)")
	f.Var(command.NewDurationFlag(time.Second, &c.ExecTimeout, defaultExecTimeout), "exec_timeout",
		"timeout for each program run in seconds (0 disables)")
	f.Var(command.NewDurationFlag(time.Second, &c.GenTimeout, defaultGenTimeout), "gen_timeout",
		"timeout for generation in seconds (0 disables)")
}

// Validate checks the configuration for usage errors.
func (c *MutableConfig) Validate() error {
	switch {
	case c.TemplateClass == "":
		return errors.New("no template class given")
	case strings.HasPrefix(c.TemplateClass, ".") || strings.HasSuffix(c.TemplateClass, "."):
		return errors.Errorf("bad template class %q", c.TemplateClass)
	case c.WorkDir == "":
		return errors.New("no working directory given")
	case c.HarnessJar == "":
		return errors.New("no harness jar given")
	case c.NumOutputs <= 0:
		return errors.Errorf("-n_gen must be positive; got %d", c.NumOutputs)
	case c.NumInvocations <= 0:
		return errors.Errorf("-n_itrs must be positive; got %d", c.NumInvocations)
	case c.Parallel <= 0:
		return errors.Errorf("-parallel must be positive; got %d", c.Parallel)
	}
	return nil
}

// Freeze returns a frozen configuration object.
func (c *MutableConfig) Freeze() *Config {
	return &Config{m: c}
}

// WorkDir is the root of all working files.
func (c *Config) WorkDir() string { return c.m.WorkDir }

// TemplateClass is the fully qualified template class, e.g. "sanity.T".
func (c *Config) TemplateClass() string { return c.m.TemplateClass }

// SrcPath is the template source file. It defaults to the class name with
// dots turned into directories, relative to the current directory.
func (c *Config) SrcPath() string {
	if c.m.SrcPath != "" {
		return c.m.SrcPath
	}
	return strings.ReplaceAll(c.m.TemplateClass, ".", "/") + ".java"
}

// HarnessJar is the jar providing the harness runtime and the generator.
func (c *Config) HarnessJar() string { return c.m.HarnessJar }

// NumOutputs is the maximum number of generated programs.
func (c *Config) NumOutputs() int { return c.m.NumOutputs }

// NumInvocations is the generator's exploration budget.
func (c *Config) NumInvocations() int { return c.m.NumInvocations }

// Seed is the generator seed, or nil.
func (c *Config) Seed() *int64 {
	if c.m.Seed == nil {
		return nil
	}
	s := *c.m.Seed
	return &s
}

// Suffix is the class name suffix of generated programs.
func (c *Config) Suffix() string { return c.m.Suffix }

// SkipGenerate reuses an existing gen directory.
func (c *Config) SkipGenerate() bool { return c.m.SkipGenerate }

// HarnessFlags are passed to every candidate run.
func (c *Config) HarnessFlags() []string { return append([]string(nil), c.m.HarnessFlags...) }

// Parallel is the number of candidates processed concurrently.
func (c *Config) Parallel() int { return c.m.Parallel }

// CompileTimeout bounds each javac invocation.
func (c *Config) CompileTimeout() time.Duration { return c.m.CompileTimeout }

// ExecTimeout bounds each candidate run.
func (c *Config) ExecTimeout() time.Duration { return c.m.ExecTimeout }

// GenTimeout bounds generation.
func (c *Config) GenTimeout() time.Duration { return c.m.GenTimeout }

// EnvSpecs resolves the runtime environments: -env_config first, then
// -java_homes, then $JAVA_HOME.
func (c *Config) EnvSpecs() ([]jvm.EnvSpec, error) {
	switch {
	case c.m.EnvConfig != "":
		return jvm.LoadConfig(c.m.EnvConfig)
	case len(c.m.JavaHomes) > 0:
		return jvm.SpecsFromHomes(c.m.JavaHomes), nil
	}
	getenv := c.m.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return jvm.SpecsFromEnv(getenv)
}
