// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package command contains code shared by the jitdiff executable's
// subcommands: flag types, exit statuses and signal handling.
package command

import (
	"fmt"
	"io"

	"jitdiff/errors"
)

// StatusError is an error carrying the exit status the process should use.
type StatusError struct {
	msg    string
	status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v (status %v)", e.msg, e.status)
}

// Status returns e's exit status.
func (e *StatusError) Status() int {
	return e.status
}

// NewStatusErrorf creates a StatusError with a formatted message.
func NewStatusErrorf(status int, format string, args ...interface{}) *StatusError {
	return &StatusError{fmt.Sprintf(format, args...), status}
}

// WriteError writes err to w as a single newline-terminated message and
// returns the exit status to use. A StatusError anywhere in err's chain
// decides the status; otherwise it is 1.
func WriteError(w io.Writer, err error) int {
	msg := err.Error()
	status := 1
	var se *StatusError
	if errors.As(err, &se) {
		status = se.status
		if se == err {
			msg = se.msg
		}
	}
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	io.WriteString(w, msg)
	return status
}
