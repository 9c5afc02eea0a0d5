// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package errors constructs errors that remember where they were created.
//
// Use New or Errorf for fresh errors and Wrap or Wrapf to add context to an
// existing one:
//
//	errors.New("harness jar not found")
//	errors.Wrapf(err, "failed to compile %s", className)
//
// Formatting an error with "%+v" prints the whole chain with the location
// each link was created at. Errors returned by this package unwrap to their
// cause, so Is and As see through them.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"jitdiff/errors/stack"
)

// chained is the error implementation used by this package.
type chained struct {
	msg   string      // message prepended to cause
	stk   stack.Stack // where the error was created
	cause error       // wrapped error; nil for leaf errors
}

func (e *chained) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

// Unwrap returns the wrapped error, if any.
func (e *chained) Unwrap() error {
	return e.cause
}

// Format implements fmt.Formatter. The "%+v" verb prints the chain with
// stack traces.
func (e *chained) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		io.WriteString(s, trace(e))
		return
	}
	io.WriteString(s, e.Error())
}

// trace renders err and all of its causes, one link per paragraph.
func trace(err error) string {
	var links []string
	for err != nil {
		e, ok := err.(*chained)
		if !ok {
			links = append(links, err.Error()+"\n\tat ???")
			break
		}
		links = append(links, fmt.Sprintf("%s\n%v", e.msg, e.stk))
		err = e.cause
	}
	return strings.Join(links, "\n")
}

// New returns an error with msg, recording the caller's location.
func New(msg string) error {
	return &chained{msg: msg, stk: stack.New(1)}
}

// Errorf is like New but formats its message with fmt.Sprintf.
func Errorf(format string, args ...interface{}) error {
	return &chained{msg: fmt.Sprintf(format, args...), stk: stack.New(1)}
}

// Wrap returns an error that prepends msg to cause. A nil cause behaves like
// New.
func Wrap(cause error, msg string) error {
	return &chained{msg: msg, stk: stack.New(1), cause: cause}
}

// Wrapf is like Wrap but formats its message with fmt.Sprintf.
func Wrapf(cause error, format string, args ...interface{}) error {
	return &chained{msg: fmt.Sprintf(format, args...), stk: stack.New(1), cause: cause}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
