// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package run executes a batch: it generates candidates from a template,
// compiles and runs each one on every runtime environment, classifies the
// outcome and reports it.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jitdiff/errors"
	"jitdiff/internal/candidate"
	"jitdiff/internal/generate"
	"jitdiff/internal/jvm"
	"jitdiff/internal/logging"
	"jitdiff/internal/report"
	"jitdiff/internal/stage"
	"jitdiff/internal/timing"
	"jitdiff/internal/verdict"
	"jitdiff/internal/xcontext"
)

// BatchReport summarizes a batch.
type BatchReport struct {
	RunID string
	// BailOut is the bail-out reason if the batch stopped before the plan.
	BailOut string
	// Planned is the number of candidates in the plan.
	Planned int
	// Verdicts holds the reported verdicts in ordinal order.
	Verdicts []verdict.Verdict
	// Complete is true if every planned candidate was reported.
	Complete bool
}

// Passed reports whether the batch completed and every candidate passed.
func (b *BatchReport) Passed() bool {
	return b.BailOut == "" && b.Complete && verdict.AllPassed(b.Verdicts)
}

// Run runs a batch and writes its report to tap.
//
// Configuration and generation failures are reported as a bail-out line and
// returned as *jvm.ConfigurationError or *generate.GenerationError. Failing
// candidates are not errors. When ctx is canceled no further candidate is
// started; candidates already running finish under their own timeouts and
// the report ends early with BatchReport.Complete unset.
func Run(ctx context.Context, cfg *Config, tap io.Writer) (*BatchReport, error) {
	return runWith(ctx, cfg, tap, nil)
}

// runWith is Run with a replaceable generator, for tests.
func runWith(ctx context.Context, cfg *Config, tap io.Writer, gen generate.Generator) (*BatchReport, error) {
	br := &BatchReport{RunID: uuid.New().String()}
	tw := report.NewTAPWriter(tap)
	logging.Info(ctx, "Run ID ", br.RunID)

	bailOut := func(msg string, err error) (*BatchReport, error) {
		br.BailOut = msg
		logging.Warning(ctx, "Bailing out: ", err)
		if werr := tw.BailOut(msg); werr != nil {
			return br, werr
		}
		return br, err
	}

	start := time.Now()
	reg, err := newRegistry(ctx, cfg)
	if err != nil {
		return bailOut(err.Error(), err)
	}
	layout := NewLayout(cfg.WorkDir(), cfg.TemplateClass())
	cands, err := prepare(ctx, cfg, reg, layout, gen)
	if err != nil {
		var gerr *generate.GenerationError
		if errors.As(err, &gerr) {
			return bailOut(gerr.Msg, err)
		}
		return br, err
	}

	br.Planned = len(cands)
	if err := tw.Plan(len(cands)); err != nil {
		return br, err
	}
	logHostInfo(ctx, cfg.Parallel())
	if left, ok := xcontext.GetContextTimeout(ctx); ok {
		logging.Infof(ctx, "Batch must finish within %v", left.Round(time.Second))
	}

	sw, err := report.NewStreamedWriter(layout.ResultPath(report.StreamedResultsFilename))
	if err != nil {
		return br, errors.Wrap(err, "failed to open streamed results")
	}
	defer sw.Close()

	p := &pipeline{
		total:  len(cands),
		reg:    reg,
		layout: layout,
		compiler: &stage.Compiler{
			Javac:     reg.Reference().Javac(),
			ClassPath: []string{cfg.HarnessJar()},
			BuildDir:  layout.BuildDir(),
			Timeout:   cfg.CompileTimeout(),
		},
		executor: &stage.Executor{
			ClassPath:    []string{cfg.HarnessJar(), layout.BuildDir()},
			HarnessFlags: cfg.HarnessFlags(),
			Timeout:      cfg.ExecTimeout(),
		},
	}

	var results []*report.Result
	emit := func(o *outcome) error {
		o.res.RunID = br.RunID
		if err := tw.Result(o.res); err != nil {
			return err
		}
		if err := sw.Write(o.res); err != nil {
			return errors.Wrap(err, "failed to write streamed results")
		}
		br.Verdicts = append(br.Verdicts, o.v)
		results = append(results, o.res)
		return nil
	}
	runErr := p.runAll(ctx, cands, cfg.Parallel(), emit)

	br.Complete = runErr == nil && len(br.Verdicts) == br.Planned
	if !br.Complete {
		logging.Warningf(ctx, "Batch stopped after %d of %d programs", len(br.Verdicts), br.Planned)
	}
	if err := writeResults(ctx, cfg, reg, layout, br, results, start); err != nil && runErr == nil {
		runErr = err
	}
	return br, runErr
}

func newRegistry(ctx context.Context, cfg *Config) (*jvm.Registry, error) {
	specs, err := cfg.EnvSpecs()
	if err != nil {
		return nil, err
	}
	reg, err := jvm.NewRegistry(ctx, specs)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(cfg.HarnessJar()); err != nil || fi.IsDir() {
		return nil, &jvm.ConfigurationError{Msg: "Harness jar not found: " + cfg.HarnessJar()}
	}
	return reg, nil
}

// prepare compiles the template, generates candidates and enumerates them.
func prepare(ctx context.Context, cfg *Config, reg *jvm.Registry, layout Layout, gen generate.Generator) ([]candidate.Candidate, error) {
	ref := reg.Reference()
	if err := stage.CompileTemplate(ctx, ref.Javac(), cfg.HarnessJar(), cfg.SrcPath(), layout.BuildDir(), cfg.CompileTimeout()); err != nil {
		return nil, err
	}

	pkg, stem := splitClass(cfg.TemplateClass())
	req := &generate.Request{
		TemplateClass:  cfg.TemplateClass(),
		SrcPath:        cfg.SrcPath(),
		NumOutputs:     cfg.NumOutputs(),
		NumInvocations: cfg.NumInvocations(),
		Seed:           cfg.Seed(),
		OutputDir:      layout.GenDir(),
		Suffix:         cfg.Suffix(),
	}
	if cfg.SkipGenerate() {
		logging.Info(ctx, "Reusing programs in ", layout.GenDir())
		if err := generate.Validate(req); err != nil {
			return nil, err
		}
	} else {
		if gen == nil {
			gen = &generate.JAttack{
				Java:              ref.Java(),
				HarnessJar:        cfg.HarnessJar(),
				TemplateClassPath: layout.BuildDir(),
				Timeout:           cfg.GenTimeout(),
			}
		}
		logging.Infof(ctx, "Generating up to %d programs from %s", cfg.NumOutputs(), cfg.TemplateClass())
		if err := gen.Generate(ctx, req); err != nil {
			return nil, err
		}
	}

	cands, err := candidate.Enumerate(layout.GenDir(), pkg, stem, cfg.Suffix())
	if err != nil {
		return nil, &generate.GenerationError{Msg: "Generating from template failed", Cause: err}
	}
	if len(cands) == 0 {
		return nil, generate.Errorf("Generator produced no programs")
	}
	logging.Infof(ctx, "Testing %d programs on %d runtime environments", len(cands), reg.Len())
	return cands, nil
}

func writeResults(ctx context.Context, cfg *Config, reg *jvm.Registry, layout Layout, br *BatchReport, results []*report.Result, start time.Time) error {
	res := &report.Results{
		RunID:     br.RunID,
		Template:  cfg.TemplateClass(),
		Start:     start,
		End:       time.Now(),
		Planned:   br.Planned,
		Complete:  br.Complete,
		CrashOnly: reg.CrashOnly(),
		Results:   results,
	}
	if err := report.WriteResults(layout.ResultPath(report.ResultsFilename), res); err != nil {
		return err
	}
	if err := report.WriteJUnitXML(layout.ResultPath(report.JUnitXMLFilename), cfg.TemplateClass(), results); err != nil {
		return errors.Wrap(err, "failed to write JUnit results")
	}
	if err := report.WriteMetrics(layout.ResultPath(report.MetricsFilename), cfg.TemplateClass(), br.Planned, results, br.Complete); err != nil {
		return err
	}
	report.WriteSummaryToLogs(ctx, res, layout.Root)
	return nil
}

// outcome is the result of processing one candidate.
type outcome struct {
	v   verdict.Verdict
	res *report.Result
}

type pipeline struct {
	total    int // number of planned candidates
	reg      *jvm.Registry
	layout   Layout
	compiler *stage.Compiler
	executor *stage.Executor
}

// runAll processes cands with up to parallel candidates in flight and passes
// outcomes to emit in ordinal order. It stops starting candidates once ctx is
// done and returns after every started candidate has finished.
func (p *pipeline) runAll(ctx context.Context, cands []candidate.Candidate, parallel int, emit func(*outcome) error) error {
	// Each slot receives at most one outcome and is then closed. A slot closed
	// without an outcome marks a candidate that was not processed.
	slots := make([]chan *outcome, len(cands))
	for i := range slots {
		slots[i] = make(chan *outcome, 1)
	}

	lctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(lctx)
	g.SetLimit(parallel)
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, c := range cands {
			if gctx.Err() != nil {
				close(slots[i])
				continue
			}
			g.Go(func() error {
				defer close(slots[i])
				if gctx.Err() != nil {
					return nil
				}
				o, err := p.process(ctx, c)
				if err != nil {
					return err
				}
				slots[i] <- o
				return nil
			})
		}
	}()

	var emitErr error
	for _, s := range slots {
		o, ok := <-s
		if !ok {
			break
		}
		if emitErr = emit(o); emitErr != nil {
			cancel()
			break
		}
	}

	<-launched
	if err := g.Wait(); err != nil {
		return err
	}
	if emitErr != nil {
		return emitErr
	}
	return nil
}

// process compiles c and runs it on every environment in configuration
// order. Processes run under a context detached from ctx's cancellation, so
// a canceled batch lets them finish under their own timeouts.
func (p *pipeline) process(ctx context.Context, c candidate.Candidate) (*outcome, error) {
	ctx, st := timing.Start(ctx, c.ClassName)
	defer st.End()
	ctx = context.WithoutCancel(ctx)
	ctx = logging.SetLogPrefix(ctx, fmt.Sprintf("[%d/%d] ", c.Ordinal, p.total))

	start := time.Now()
	outDir := p.layout.CandidateOutDir(c.ClassName)
	if err := os.RemoveAll(outDir); err != nil {
		return nil, errors.Wrapf(err, "failed to clean %s", outDir)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", outDir)
	}

	v, err := p.classify(ctx, c, outDir)
	if err != nil {
		return nil, err
	}
	logging.Infof(ctx, "%s: %v", c.ClassName, v.State)
	return &outcome{v: v, res: report.NewResult(v, outDir, start, time.Now())}, nil
}

func (p *pipeline) classify(ctx context.Context, c candidate.Candidate, outDir string) (verdict.Verdict, error) {
	var m verdict.Machine

	cr, err := p.compiler.Compile(ctx, c)
	if err != nil {
		return verdict.Verdict{}, err
	}
	if !cr.OK {
		if cr.Stderr != "" {
			if err := os.WriteFile(filepath.Join(outDir, "javac.err"), []byte(cr.Stderr), 0644); err != nil {
				logging.Warning(ctx, "Failed to save compiler output: ", err)
			}
		}
		if err := m.Advance(verdict.CompileFailed); err != nil {
			return verdict.Verdict{}, err
		}
		return verdict.CompileFailedVerdict(c, cr.Message()), nil
	}
	if err := m.Advance(verdict.Compiled); err != nil {
		return verdict.Verdict{}, err
	}

	var recs []*stage.ExecutionRecord
	for _, env := range p.reg.Envs() {
		rec, err := p.executor.Execute(ctx, c, env, outDir)
		if rec == nil {
			return verdict.Verdict{}, err
		}
		if err != nil {
			logging.Warningf(ctx, "%s on %s: %v", c.ClassName, env.Name(), err)
		}
		recs = append(recs, rec)
	}
	if err := m.Advance(verdict.Executed); err != nil {
		return verdict.Verdict{}, err
	}

	v := verdict.Classify(c, recs)
	if err := m.Advance(v.State); err != nil {
		return verdict.Verdict{}, err
	}
	return v, nil
}
