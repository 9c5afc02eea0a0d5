// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package command

import (
	"strconv"
	"strings"
	"time"

	"jitdiff/errors"
)

// DurationFlag implements flag.Value for durations given as plain integers in
// a fixed unit, e.g. "-exec_timeout=120" meaning 120 seconds.
type DurationFlag struct {
	units time.Duration
	dst   *time.Duration
}

// NewDurationFlag returns a DurationFlag that writes to dst, which is set to
// def immediately.
func NewDurationFlag(units time.Duration, dst *time.Duration, def time.Duration) *DurationFlag {
	*dst = def
	return &DurationFlag{units: units, dst: dst}
}

func (f *DurationFlag) String() string {
	if f.dst == nil || f.units == 0 {
		return ""
	}
	return strconv.FormatInt(int64(*f.dst/f.units), 10)
}

// Set parses v as a non-negative integer count of units.
func (f *DurationFlag) Set(v string) error {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	if n < 0 {
		return errors.Errorf("negative duration %d", n)
	}
	*f.dst = time.Duration(n) * f.units
	return nil
}

// ListFlag implements flag.Value for lists separated by sep.
type ListFlag struct {
	sep    string
	assign func([]string)
	def    []string
}

// NewListFlag returns a ListFlag that passes parsed values to assign. assign
// is called with def immediately. Empty items are dropped.
func NewListFlag(sep string, assign func([]string), def []string) *ListFlag {
	assign(def)
	return &ListFlag{sep: sep, assign: assign, def: def}
}

func (f *ListFlag) String() string { return strings.Join(f.def, f.sep) }

// Set splits v and assigns the items.
func (f *ListFlag) Set(v string) error {
	var items []string
	for _, s := range strings.Split(v, f.sep) {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, s)
		}
	}
	f.assign(items)
	return nil
}

// OptionalInt64Flag implements flag.Value for an integer that may be absent.
// The generator's seed uses it: when unset, the generator picks its own.
type OptionalInt64Flag struct {
	dst **int64
}

// NewOptionalInt64Flag returns a flag that stores a pointer to the parsed
// value in dst, leaving it nil when the flag is not given.
func NewOptionalInt64Flag(dst **int64) *OptionalInt64Flag {
	return &OptionalInt64Flag{dst: dst}
}

func (f *OptionalInt64Flag) String() string {
	if f.dst == nil || *f.dst == nil {
		return ""
	}
	return strconv.FormatInt(**f.dst, 10)
}

// Set parses v as a base-10 int64.
func (f *OptionalInt64Flag) Set(v string) error {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	*f.dst = &n
	return nil
}
