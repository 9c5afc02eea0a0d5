// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package testutil

import (
	"path/filepath"
	"testing"
)

// Scripts used by FakeJDK when the caller does not override them.
const (
	// DefaultJavac creates an empty class file for every source argument so
	// that callers can observe what was compiled.
	DefaultJavac = `#!/bin/sh
out=
while [ $# -gt 0 ]; do
  case "$1" in
    -d) out="$2"; shift 2 ;;
    -cp) shift 2 ;;
    *.java) src="$1"; shift ;;
    *) shift ;;
  esac
done
if [ -n "$out" ] && [ -n "$src" ]; then
  mkdir -p "$out"
  base=$(basename "$src" .java)
  : > "$out/$base.class"
fi
exit 0
`
	// DefaultJava prints a fixed line and exits successfully.
	DefaultJava = `#!/bin/sh
echo 42
exit 0
`
)

// FakeJDK lays out an installation root under dir/name whose bin/javac and
// bin/java are the given shell scripts. Empty scripts fall back to
// DefaultJavac and DefaultJava. It returns the root.
func FakeJDK(t *testing.T, dir, name, javac, java string) string {
	t.Helper()
	if javac == "" {
		javac = DefaultJavac
	}
	if java == "" {
		java = DefaultJava
	}
	root := filepath.Join(dir, name)
	if err := WriteScripts(root, map[string]string{
		"bin/javac": javac,
		"bin/java":  java,
	}); err != nil {
		t.Fatal("Failed to write fake JDK: ", err)
	}
	return root
}
