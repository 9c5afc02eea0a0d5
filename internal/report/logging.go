// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package report

import (
	"context"
	"fmt"
	"strings"

	"jitdiff/internal/logging"
)

// WriteSummaryToLogs writes a per-candidate PASS/FAIL table for all to the
// logs in ctx. resDir is where result files were saved.
func WriteSummaryToLogs(ctx context.Context, all *Results, resDir string) {
	results := all.Results
	ml := 0
	for _, res := range results {
		if len(res.Name) > ml {
			ml = len(res.Name)
		}
	}

	sep := strings.Repeat("-", 80)
	logging.Info(ctx, sep)

	const (
		passStr = " [ PASS ]"
		failStr = " [ FAIL ] "
	)
	for _, res := range results {
		pn := fmt.Sprintf("%-*s", ml, res.Name)
		if res.Passed() {
			logging.Info(ctx, pn+passStr)
			continue
		}
		lines := strings.Split(strings.TrimSpace(res.Message), "\n")
		logging.Info(ctx, pn+failStr+res.Verdict+": "+lines[0])
		for _, l := range lines[1:] {
			logging.Debug(ctx, strings.Repeat(" ", ml+len(failStr))+l)
		}
	}

	if all.CrashOnly {
		logging.Info(ctx, "")
		logging.Info(ctx, "Only one runtime environment; outputs were not compared")
	}
	if !all.Complete {
		// Make it clear after the individual results that all is not well.
		logging.Info(ctx, "")
		logging.Info(ctx, "Run did not finish successfully; results are incomplete")
	}

	logging.Info(ctx, sep)
	logging.Info(ctx, "Results saved to ", resDir)
}
