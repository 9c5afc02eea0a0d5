// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"io"

	"jitdiff/internal/run"
)

// stubRunWrapper is a stub implementation of runWrapper used for testing.
type stubRunWrapper struct {
	runCfg *run.Config // last config passed to run
	runRes *run.BatchReport
	runErr error
	report string // written to the report stream
}

func (w *stubRunWrapper) run(ctx context.Context, cfg *run.Config, tap io.Writer) (*run.BatchReport, error) {
	w.runCfg = cfg
	io.WriteString(tap, w.report)
	return w.runRes, w.runErr
}
