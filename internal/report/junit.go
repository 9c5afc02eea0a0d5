// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// JUnitXMLFilename is a file name to be used with WriteJUnitXML.
const JUnitXMLFilename = "junit.xml"

type testSuites struct {
	XMLName   xml.Name
	TestSuite testSuite `xml:"testsuite"`
}

// testSuite holds every candidate of one template. Compile failures, crashes
// and divergences are all reported as failures.
type testSuite struct {
	Name     string      `xml:"name,attr"`
	TestCase []*testCase `xml:"testcase"`

	Tests    int `xml:"tests,attr"`
	Failures int `xml:"failures,attr"`
}

type testCase struct {
	Name      string `xml:"name,attr"`
	ClassName string `xml:"classname,attr"`
	Status    string `xml:"status,attr"`
	Result    string `xml:"result,attr"`
	Timestamp string `xml:"timestamp,attr"`
	Time      string `xml:"time,attr,omitempty"` // seconds, with a decimal point

	Failure *failure `xml:"failure,omitempty"`
}

type failure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Details string `xml:",cdata"`
}

// WriteJUnitXML saves results to path in the JUnit XML format.
func WriteJUnitXML(path, template string, results []*Result) error {
	suites := testSuites{
		XMLName: xml.Name{Local: "testsuites"},
		TestSuite: testSuite{
			Name:  template,
			Tests: len(results),
		},
	}
	suite := &suites.TestSuite
	for _, r := range results {
		tc := &testCase{
			Name:      r.Name,
			ClassName: template,
			Status:    "run",
			Result:    "completed",
			Timestamp: r.Start.UTC().Format(time.RFC3339),
			// "1.0" rather than "1" for one second.
			Time: fmt.Sprintf("%.1f", r.End.Sub(r.Start).Seconds()),
		}
		if !r.Passed() {
			details, err := yaml.Marshal(r)
			if err != nil {
				return err
			}
			tc.Failure = &failure{
				Message: r.Message,
				Type:    r.Verdict,
				Details: string(details),
			}
			suite.Failures++
		}
		suite.TestCase = append(suite.TestCase, tc)
	}

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
