// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"io"

	"jitdiff/internal/run"
)

// runWrapper is a wrapper that allows functions from the run package to be stubbed out for testing.
type runWrapper interface {
	// run calls run.Run.
	run(ctx context.Context, cfg *run.Config, tap io.Writer) (*run.BatchReport, error)
}

// realRunWrapper is a runWrapper implementation that calls the real functions in the run package.
type realRunWrapper struct{}

func (realRunWrapper) run(ctx context.Context, cfg *run.Config, tap io.Writer) (*run.BatchReport, error) {
	return run.Run(ctx, cfg, tap)
}
