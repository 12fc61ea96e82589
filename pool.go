// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package mdqueue

import (
	"sync"
	"sync/atomic"
)

// descPool is a type-safe wrapper around sync.Pool specialized for *Desc[V]
// instances. Descriptors are allocated on nearly every Insert and freed the
// moment their owning node's pending field is CAS'd back to null, so
// pooling them avoids allocator churn under heavy insert contention.
type descPool[V any] struct {
	sync.Pool

	totalAllocated atomic.Int64
	currentLive    atomic.Int64
}

func newDescPool[V any]() *descPool[V] {
	p := &descPool[V]{}
	p.New = func() any {
		p.totalAllocated.Add(1)
		return new(Desc[V])
	}
	return p
}

func (p *descPool[V]) get(curr *Node[V], dp, dc int) *Desc[V] {
	if p == nil {
		return &Desc[V]{curr: curr, dp: dp, dc: dc}
	}
	p.currentLive.Add(1)
	d := p.Pool.Get().(*Desc[V])
	d.curr, d.dp, d.dc = curr, dp, dc
	return d
}

func (p *descPool[V]) put(d *Desc[V]) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1)
	d.curr, d.dp, d.dc = nil, 0, 0
	p.Pool.Put(d)
}

// Stats returns the number of currently live (checked-out) descriptors and
// the total ever allocated by this pool.
func (p *descPool[V]) Stats() (live, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}
