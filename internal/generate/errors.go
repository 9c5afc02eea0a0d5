// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package generate

import "fmt"

// GenerationError reports that no candidate set could be produced. The batch
// bails out with Msg before emitting a plan.
type GenerationError struct {
	Msg   string
	Cause error
}

func (e *GenerationError) Error() string {
	if e.Cause == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Cause.Error()
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// Errorf returns a GenerationError with a formatted message and no cause.
func Errorf(format string, args ...interface{}) *GenerationError {
	return &GenerationError{Msg: fmt.Sprintf(format, args...)}
}
