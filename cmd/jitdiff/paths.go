// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
)

const (
	// workDirName is the default working directory, relative to the
	// current directory.
	workDirName = ".jitdiff"
	// jarName is the harness jar expected next to the executable.
	jarName = "jattack-all.jar"
)

// defaultJar returns the harness jar installed alongside the executable.
func defaultJar() string {
	exe, err := os.Executable()
	if err != nil {
		return jarName
	}
	return filepath.Join(filepath.Dir(exe), jarName)
}
