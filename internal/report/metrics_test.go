// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jitdiff/internal/report"
	"jitdiff/testutil"
)

func TestWriteMetrics(t *testing.T) {
	td := testutil.TempDir(t)
	path := filepath.Join(td, report.MetricsFilename)

	results := []*report.Result{passedResult(1), crashedResult(2), crashedResult(3)}
	if err := report.WriteMetrics(path, "sanity.T", 3, results, true); err != nil {
		t.Fatal("WriteMetrics failed: ", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	for _, want := range []string{
		`jitdiff_candidates_total{template="sanity.T",verdict="Crashed"} 2`,
		`jitdiff_candidates_total{template="sanity.T",verdict="Passed"} 1`,
		`jitdiff_candidates_total{template="sanity.T",verdict="Diverged"} 0`,
		`jitdiff_candidates_planned{template="sanity.T"} 3`,
		`jitdiff_batch_passed{template="sanity.T"} 0`,
		`jitdiff_candidate_duration_seconds_count{template="sanity.T"} 3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Metrics file lacks %q:\n%s", want, out)
		}
	}
}

func TestWriteMetricsAllPassed(t *testing.T) {
	td := testutil.TempDir(t)
	path := filepath.Join(td, report.MetricsFilename)
	if err := report.WriteMetrics(path, "T", 1, []*report.Result{passedResult(1)}, true); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `jitdiff_batch_passed{template="T"} 1`) {
		t.Errorf("Batch not reported as passed:\n%s", b)
	}
}
