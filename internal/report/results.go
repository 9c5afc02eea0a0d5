// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package report

import (
	"encoding/json"
	"os"
	"time"

	"jitdiff/errors"
)

// ResultsFilename is the name of the file written by WriteResults.
const ResultsFilename = "results.json"

// Results is the document stored in ResultsFilename.
type Results struct {
	// RunID identifies the batch. It also appears in the log file.
	RunID    string    `json:"runId"`
	Template string    `json:"template"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	// Planned is the number of candidates announced in the plan.
	Planned int `json:"planned"`
	// Complete is false if the batch was interrupted before every planned
	// candidate was reported.
	Complete bool `json:"complete"`
	// CrashOnly is set if a single environment was configured, so that no
	// outputs were compared.
	CrashOnly bool      `json:"crashOnly,omitempty"`
	Results   []*Result `json:"results"`
}

// WriteResults writes res as indented JSON to path.
func WriteResults(path string, res *Results) error {
	if res.Results == nil {
		res.Results = []*Result{}
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal results")
	}
	if err := os.WriteFile(path, append(b, '\n'), 0644); err != nil {
		return errors.Wrap(err, "failed to write results")
	}
	return nil
}
