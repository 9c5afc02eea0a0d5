// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package procexec

import (
	"regexp"
	"strings"
)

// plainArg matches arguments that read the same unquoted in a POSIX shell.
// A leading '=' is excluded because zsh expands it.
var plainArg = regexp.MustCompile(`^[-\w@%+:,./][-\w@%+:,./=]*$`)

// quote shell-quotes s unless it is already safe.
func quote(s string) string {
	if plainArg.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// FormatCommand renders argv as a shell command line. It is only used to log
// commands in a form that can be pasted into a shell to reproduce a run.
func FormatCommand(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = quote(a)
	}
	return strings.Join(quoted, " ")
}
