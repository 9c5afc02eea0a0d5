// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package run

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"jitdiff/internal/logging"
)

// logHostInfo records the host's load, since timeouts and JIT behavior both
// depend on it. Failures are ignored.
func logHostInfo(ctx context.Context, parallel int) {
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		logging.Debugf(ctx, "Host has %d logical CPUs; processing %d programs concurrently", n, parallel)
		if parallel > n {
			logging.Warningf(ctx, "-parallel %d exceeds the %d logical CPUs; timeouts may trigger spuriously", parallel, n)
		}
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		logging.Debugf(ctx, "Host load average: %.2f %.2f %.2f", avg.Load1, avg.Load5, avg.Load15)
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		logging.Debugf(ctx, "Host memory: %d MiB available of %d MiB", vm.Available>>20, vm.Total>>20)
	}
}
