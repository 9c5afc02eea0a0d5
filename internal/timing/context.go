// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package timing

import "context"

type ctxKey int

const (
	logKey ctxKey = iota
	stageKey
)

// NewContext returns a context carrying l with its root as the current stage.
func NewContext(ctx context.Context, l *Log) context.Context {
	ctx = context.WithValue(ctx, logKey, l)
	return context.WithValue(ctx, stageKey, l.Root)
}

// FromContext returns the Log and current Stage attached to ctx.
func FromContext(ctx context.Context) (*Log, *Stage, bool) {
	l, ok := ctx.Value(logKey).(*Log)
	if !ok {
		return nil, nil, false
	}
	s, ok := ctx.Value(stageKey).(*Stage)
	return l, s, ok
}

// Start starts a stage under the current stage of ctx and makes it current in
// the returned context. Without a Log in ctx it returns a nil stage, which is
// safe to End.
//
//	ctx, st := timing.Start(ctx, "compile")
//	defer st.End()
func Start(ctx context.Context, name string) (context.Context, *Stage) {
	_, s, ok := FromContext(ctx)
	if !ok || s == nil {
		return ctx, nil
	}
	c := s.StartChild(name)
	if c == nil {
		return ctx, nil
	}
	return context.WithValue(ctx, stageKey, c), c
}
