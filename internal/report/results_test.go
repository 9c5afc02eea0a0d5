// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package report_test

import (
	"bufio"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"jitdiff/internal/report"
	"jitdiff/testutil"
)

var zeroTime time.Time

func TestStreamedWriter(t *testing.T) {
	td := testutil.TempDir(t)
	path := filepath.Join(td, report.StreamedResultsFilename)

	for i, res := range [][]*report.Result{
		{passedResult(1)},
		{crashedResult(1), divergedResult(2)},
	} {
		// Reopening starts over.
		for _, r := range res {
			r.RunID = fmt.Sprintf("run%d", i)
		}
		sw, err := report.NewStreamedWriter(path)
		if err != nil {
			t.Fatal("NewStreamedWriter failed: ", err)
		}
		for _, r := range res {
			if err := sw.Write(r); err != nil {
				t.Fatal("Write failed: ", err)
			}
		}
		if err := sw.Close(); err != nil {
			t.Fatal(err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var got []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r report.Result
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("Bad line %q: %v", sc.Text(), err)
		}
		got = append(got, r.RunID+" "+r.Verdict)
	}
	if diff := cmp.Diff(got, []string{"run1 Crashed", "run1 Diverged"}); diff != "" {
		t.Errorf("Streamed verdicts mismatch (-got +want):\n%s", diff)
	}
}

func TestWriteResults(t *testing.T) {
	td := testutil.TempDir(t)
	path := filepath.Join(td, report.ResultsFilename)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	in := &report.Results{
		RunID:    "4e0f3a1e-7c1b-4c53-9a43-2f0d7e1c9b10",
		Template: "sanity.T",
		Start:    start,
		End:      start.Add(time.Minute),
		Planned:  3,
		Complete: false,
		Results:  []*report.Result{passedResult(1), crashedResult(2)},
	}
	if err := report.WriteResults(path, in); err != nil {
		t.Fatal("WriteResults failed: ", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got report.Results
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&got, in); diff != "" {
		t.Errorf("Results mismatch (-got +want):\n%s", diff)
	}
}

func TestWriteResultsEmpty(t *testing.T) {
	td := testutil.TempDir(t)
	path := filepath.Join(td, report.ResultsFilename)
	if err := report.WriteResults(path, &report.Results{Template: "T"}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"results": []`) {
		t.Errorf("Empty results not written as an array:\n%s", b)
	}
}

func TestWriteJUnitXML(t *testing.T) {
	td := testutil.TempDir(t)
	path := filepath.Join(td, report.JUnitXMLFilename)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	pass := passedResult(1)
	pass.Start, pass.End = start, start.Add(1500*time.Millisecond)
	crash := crashedResult(2)
	crash.Start, crash.End = start, start.Add(time.Second)
	if err := report.WriteJUnitXML(path, "sanity.T", []*report.Result{pass, crash}); err != nil {
		t.Fatal("WriteJUnitXML failed: ", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Suite struct {
			Name     string `xml:"name,attr"`
			Tests    int    `xml:"tests,attr"`
			Failures int    `xml:"failures,attr"`
			Cases    []struct {
				Name    string `xml:"name,attr"`
				Time    string `xml:"time,attr"`
				Failure *struct {
					Message string `xml:"message,attr"`
					Type    string `xml:"type,attr"`
				} `xml:"failure"`
			} `xml:"testcase"`
		} `xml:"testsuite"`
	}
	if err := xml.Unmarshal(b, &doc); err != nil {
		t.Fatalf("Bad XML: %v\n%s", err, b)
	}
	s := doc.Suite
	if s.Name != "sanity.T" || s.Tests != 2 || s.Failures != 1 || len(s.Cases) != 2 {
		t.Fatalf("Unexpected suite:\n%s", b)
	}
	if s.Cases[0].Failure != nil || s.Cases[0].Time != "1.5" {
		t.Errorf("Unexpected passing case:\n%s", b)
	}
	if f := s.Cases[1].Failure; f == nil || f.Type != "Crashed" || f.Message != "Crashed on env0 (exit 1)" {
		t.Errorf("Unexpected failing case:\n%s", b)
	}
}
