// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package run

import (
	"path/filepath"
	"strings"
)

// Layout locates the working files of one template:
//
//	<workdir>/<template>/build/                  compiled classes, shared
//	<workdir>/<template>/gen/                    generated sources
//	<workdir>/<template>/output/<candidate>/     per-candidate outputs
//	<workdir>/<template>/results.json etc.       batch results
type Layout struct {
	Root string
}

// NewLayout returns the layout of templateClass under workDir.
func NewLayout(workDir, templateClass string) Layout {
	return Layout{Root: filepath.Join(workDir, templateClass)}
}

// LogDir returns the directory holding full debug logs of all runs.
func LogDir(workDir string) string { return filepath.Join(workDir, "logs") }

// BuildDir holds compiled classes of the template and every candidate.
func (l Layout) BuildDir() string { return filepath.Join(l.Root, "build") }

// GenDir holds generated candidate sources.
func (l Layout) GenDir() string { return filepath.Join(l.Root, "gen") }

// OutputDir holds the per-candidate output directories.
func (l Layout) OutputDir() string { return filepath.Join(l.Root, "output") }

// CandidateOutDir is the output directory of the candidate className.
func (l Layout) CandidateOutDir(className string) string {
	return filepath.Join(l.OutputDir(), className)
}

// ResultPath returns the path of a batch result file.
func (l Layout) ResultPath(name string) string { return filepath.Join(l.Root, name) }

// splitClass splits a fully qualified class name into its package and simple
// name.
func splitClass(cls string) (pkg, simple string) {
	i := strings.LastIndexByte(cls, '.')
	if i < 0 {
		return "", cls
	}
	return cls[:i], cls[i+1:]
}
