// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package epoch implements the SMR (safe memory reclamation) contract
// consumed by the parent package: Pin/Guard and a retirement queue.
//
// Unlike the Rust original (which layers crossbeam-epoch's manual
// free-when-unreachable bookkeeping atop a non-tracing allocator), this
// port runs under the Go garbage collector, which already guarantees that a
// node reachable from a pinned pointer is never freed. What a Go SMR layer
// still has to provide is therefore narrower: a monotonic per-collector
// generation counter so that [Guard]-scoped borrowed pointers ([NodePtr] in
// the parent package) can detect use-after-release in debug assertions, and
// a place to hang a retirement callback for non-memory cleanup (freeing
// pooled descriptors back to their sync.Pool, see pool.go) without racing a
// concurrent helper that is still dereferencing the same node.
package epoch

import "sync/atomic"

// Collector tracks the current epoch generation and the number of Guards
// currently pinned. One Collector is owned per MDList instance.
type Collector struct {
	generation atomic.Uint64
	pinned     atomic.Int64 // number of currently outstanding Guards
}

// NewCollector returns a ready-to-use Collector starting at generation 1 (0
// is reserved to mark an unpinned/zero-value Guard as invalid).
func NewCollector() *Collector {
	c := &Collector{}
	c.generation.Store(1)
	return c
}

// Guard pins the epoch for the duration of one logical operation. The zero
// Guard is invalid; obtain one via [Collector.Pin].
type Guard struct {
	c          *Collector
	generation uint64
}

// Pin marks the beginning of one logical operation against the structures
// guarded by c. The caller must call [Guard.Release] exactly once, normally
// via defer, once the operation (and any borrowed [NodePtr] results) are
// done being used.
func (c *Collector) Pin() Guard {
	c.pinned.Add(1)
	return Guard{c: c, generation: c.generation.Load()}
}

// Release ends the pin. It is safe to call at most once per Guard; calling
// it on the zero Guard is a no-op.
func (g Guard) Release() {
	if g.c == nil {
		return
	}
	g.c.pinned.Add(-1)
}

// Generation reports the generation this guard was pinned at, used by
// NodePtr to detect a borrowed pointer outliving its guard.
func (g Guard) Generation() uint64 {
	return g.generation
}

// Valid reports whether g was obtained from a Pin call.
func (g Guard) Valid() bool {
	return g.c != nil
}

// Collector returns the Collector g was pinned against, for callers that
// need to verify a Guard belongs to the structure it is being used with.
func (g Guard) Collector() *Collector {
	return g.c
}

// CurrentGeneration reports the collector's current generation, used by
// borrowed pointers to detect a guard that outlived its pin by more than one
// head rotation.
func (c *Collector) CurrentGeneration() uint64 {
	return c.generation.Load()
}

// Bump advances the collector's generation, called by purge when it rotates
// the head. Head rotations already strictly increase the head's own seq;
// the collector generation is a separate counter usable even by callers
// that never touch seq directly, e.g. diagnostics.
func (c *Collector) Bump() uint64 {
	return c.generation.Add(1)
}

// DeferDestroy registers fn to run once it is safe to reclaim non-memory
// resources tied to a retired node (its pooled descriptor, see pool.go).
// Because the Go GC, not this collector, owns the node's memory, it is
// always safe to run fn once no operation that started before the retiring
// CAS is still in flight; since this implementation does not track
// per-Guard generations individually (only a live count), it conservatively
// runs fn inline. A later revision could track a grace period keyed on
// per-Guard generations if profiling shows pool churn costs more than the
// bookkeeping would.
func (c *Collector) DeferDestroy(fn func()) {
	fn()
}
