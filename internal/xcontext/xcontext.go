// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package xcontext provides contexts that report descriptive errors.
//
// A hung JVM is reported as "exec timeout (2m0s) reached for env1" rather than
// a bare context.DeadlineExceeded, so the reason survives into logs and
// the report.
package xcontext

import (
	"context"
	"sync/atomic"
	"time"

	"code.cloudfoundry.org/clock"
)

// clk is replaced by a fake clock in unit tests.
var clk = clock.NewClock()

// CancelFunc cancels its context with err. Calls after the first have no
// effect. It panics if err is nil. When it returns the context is guaranteed
// to be canceled.
type CancelFunc func(err error)

type ctxImpl struct {
	parent   context.Context
	deadline time.Time
	hasDL    bool
	done     chan struct{}
	req      chan error // capacity 1; first cancellation request wins
	err      atomic.Value
}

func newCtx(parent context.Context, dlErr error, dl time.Time) (context.Context, CancelFunc) {
	c := &ctxImpl{
		parent: parent,
		done:   make(chan struct{}),
		req:    make(chan error, 1),
	}
	c.deadline, c.hasDL = parent.Deadline()
	ownDL := dlErr != nil && (!c.hasDL || dl.Before(c.deadline))
	if ownDL {
		c.deadline, c.hasDL = dl, true
	}

	var early error
	switch {
	case parent.Err() != nil:
		early = parent.Err()
	case ownDL && !dl.After(clk.Now()):
		early = dlErr
	}
	if early != nil {
		c.err.Store(early)
		close(c.done)
		return c, c.cancel
	}

	go func() {
		var expired <-chan time.Time
		if ownDL {
			tm := clk.NewTimer(dl.Sub(clk.Now()))
			defer tm.Stop()
			expired = tm.C()
		}
		var err error
		select {
		case <-parent.Done():
			err = parent.Err()
		case <-expired:
			err = dlErr
		case err = <-c.req:
		}
		c.err.Store(err)
		close(c.done)
	}()
	return c, c.cancel
}

func (c *ctxImpl) Deadline() (time.Time, bool) { return c.deadline, c.hasDL }

func (c *ctxImpl) Done() <-chan struct{} { return c.done }

// Err returns the cancellation error, which need not be context.Canceled or
// context.DeadlineExceeded.
func (c *ctxImpl) Err() error {
	if v := c.err.Load(); v != nil {
		return v.(error)
	}
	return nil
}

func (c *ctxImpl) Value(key interface{}) interface{} { return c.parent.Value(key) }

func (c *ctxImpl) cancel(err error) {
	if err == nil {
		panic("xcontext: cancel called with nil error")
	}
	select {
	case c.req <- err:
	default:
	}
	<-c.done
}

// WithCancel returns a context that can be canceled with arbitrary errors.
func WithCancel(parent context.Context) (context.Context, CancelFunc) {
	return newCtx(parent, nil, time.Time{})
}

// WithDeadline returns a context canceled with err at t. It panics if err is
// nil.
func WithDeadline(parent context.Context, t time.Time, err error) (context.Context, CancelFunc) {
	if err == nil {
		panic("xcontext: WithDeadline called with nil err")
	}
	return newCtx(parent, err, t)
}

// WithTimeout returns a context canceled with err after d. A non-positive d
// means no timeout of its own, matching the "0 disables" convention of the
// timeout flags. It panics if err is nil.
func WithTimeout(parent context.Context, d time.Duration, err error) (context.Context, CancelFunc) {
	if err == nil {
		panic("xcontext: WithTimeout called with nil err")
	}
	if d <= 0 {
		return newCtx(parent, nil, time.Time{})
	}
	return WithDeadline(parent, clk.Now().Add(d), err)
}

// GetContextTimeout returns the time left until ctx's deadline.
func GetContextTimeout(ctx context.Context) (time.Duration, bool) {
	dl, ok := ctx.Deadline()
	if !ok {
		return 0, false
	}
	return dl.Sub(clk.Now()), true
}
