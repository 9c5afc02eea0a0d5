// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package candidate discovers generated programs and assigns them ordinals.
package candidate

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/exp/slices"

	"jitdiff/errors"
)

// Candidate is one generated program. Values are immutable.
type Candidate struct {
	// Ordinal is the 1-based position in the batch and the TAP test number.
	Ordinal int
	// Path is the source file path.
	Path string
	// ClassName is the fully qualified class name, e.g. "sanity.AGen3".
	ClassName string
}

// Enumerate lists the files named <stem><suffix><digits>.java in dir and
// returns them as candidates in natural order, numbered from 1.
//
// Index 0 is reserved for the generator's no-reachable-hole marker and is
// skipped. An empty directory yields no candidates; a missing one is an error.
func Enumerate(dir, pkg, stem, suffix string) ([]Candidate, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list generated programs")
	}
	re := regexp.MustCompile("^" + regexp.QuoteMeta(stem+suffix) + `(\d+)\.java$`)

	var names []string
	for _, ent := range ents {
		if !ent.Type().IsRegular() {
			continue
		}
		m := re.FindStringSubmatch(ent.Name())
		if m == nil || strings.TrimLeft(m[1], "0") == "" {
			continue
		}
		names = append(names, ent.Name())
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case NaturalLess(a, b):
			return -1
		case NaturalLess(b, a):
			return 1
		default:
			return 0
		}
	})

	cands := make([]Candidate, len(names))
	for i, n := range names {
		cls := strings.TrimSuffix(n, ".java")
		if pkg != "" {
			cls = pkg + "." + cls
		}
		cands[i] = Candidate{
			Ordinal:   i + 1,
			Path:      filepath.Join(dir, n),
			ClassName: cls,
		}
	}
	return cands, nil
}

// HasNoHoleMarker reports whether dir contains <stem><suffix>0.java, which the
// generator writes when the template has no reachable hole.
func HasNoHoleMarker(dir, stem, suffix string) bool {
	_, err := os.Stat(filepath.Join(dir, stem+suffix+"0.java"))
	return err == nil
}
