package store

import (
	"context"
	"sync/atomic"
)

// InitGate runs a restore function exactly once, on first use.
//
// The first caller to take the gate runs restore and marks the gate
// initialized before releasing it. Callers arriving meanwhile wait, then
// return without restoring again. Restore has no error result: a restore that
// cannot read its state must fall back to defaults, so the gate always opens.
// Restore runs without the caller's cancellation; only waiting for the gate
// honours ctx.
type InitGate struct {
	sem      chan struct{}
	done     atomic.Bool
	restores atomic.Int64
	restore  func(ctx context.Context)
}

// NewInitGate creates a gate around restore.
func NewInitGate(restore func(ctx context.Context)) *InitGate {
	return &InitGate{
		sem:     make(chan struct{}, 1),
		restore: restore,
	}
}

// EnsureInitialized runs restore if no caller has done so yet.
// The only error is ctx.Err() when ctx has ended before the gate is taken or
// while waiting for another caller's restore; the gate itself stays usable.
func (g *InitGate) EnsureInitialized(ctx context.Context) error {
	if g.done.Load() {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-g.sem }()

	if g.done.Load() {
		return nil
	}

	g.restores.Add(1)
	g.restore(context.WithoutCancel(ctx))
	g.done.Store(true)
	return nil
}

// Initialized reports whether restore has completed.
func (g *InitGate) Initialized() bool {
	return g.done.Load()
}

// Restores returns how many times restore has run (0 or 1).
func (g *InitGate) Restores() int64 {
	return g.restores.Load()
}
