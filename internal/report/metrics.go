// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package report

import (
	"github.com/prometheus/client_golang/prometheus"

	"jitdiff/errors"
	"jitdiff/internal/verdict"
)

// MetricsFilename is the name of the node-exporter textfile written by
// WriteMetrics.
const MetricsFilename = "jitdiff.prom"

// WriteMetrics writes batch counters to path in the Prometheus text format,
// suitable for the node exporter's textfile collector.
func WriteMetrics(path, template string, planned int, results []*Result, complete bool) error {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"template": template}

	candidates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "jitdiff_candidates_total",
		Help:        "Candidates reported, by verdict.",
		ConstLabels: labels,
	}, []string{"verdict"})
	plannedGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "jitdiff_candidates_planned",
		Help:        "Candidates announced in the plan.",
		ConstLabels: labels,
	})
	passed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "jitdiff_batch_passed",
		Help:        "1 if every planned candidate passed, 0 otherwise.",
		ConstLabels: labels,
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "jitdiff_candidate_duration_seconds",
		Help:        "Time spent compiling and running one candidate on all environments.",
		ConstLabels: labels,
		Buckets:     prometheus.ExponentialBuckets(0.5, 2, 10),
	})
	for _, c := range []prometheus.Collector{candidates, plannedGauge, passed, duration} {
		if err := reg.Register(c); err != nil {
			return errors.Wrap(err, "failed to register metric")
		}
	}

	for _, s := range []verdict.State{verdict.Passed, verdict.CompileFailed, verdict.Crashed, verdict.Diverged} {
		candidates.WithLabelValues(s.String())
	}
	allPassed := complete
	for _, r := range results {
		candidates.WithLabelValues(r.Verdict).Inc()
		duration.Observe(r.End.Sub(r.Start).Seconds())
		if !r.Passed() {
			allPassed = false
		}
	}
	plannedGauge.Set(float64(planned))
	if allPassed {
		passed.Set(1)
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return errors.Wrap(err, "failed to write metrics")
	}
	return nil
}
