// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package mdqueue

import "github.com/gaissmai/mdqueue/internal/epoch"

// Guard pins the epoch for the duration of one logical operation against an
// MDList. Obtain one with [MDList.Pin] and call [Guard.Release] (typically
// via defer) once done, including once any [NodePtr] it produced is no
// longer needed.
//
// See internal/epoch for why this narrows a crossbeam-epoch-style SMR
// contract rather than reimplementing it verbatim: Go's garbage collector
// already covers the memory-safety half of it.
type Guard struct {
	inner epoch.Guard
}

// Release ends the pin. Safe to call once; safe to call on the zero Guard.
func (g Guard) Release() {
	g.inner.Release()
}

// Pin pins the epoch of m for the duration of one logical operation.
func (m *MDList[V]) Pin() Guard {
	return Guard{inner: m.collector.Pin()}
}

// NodePtr is a borrowed pointer into an MDList, valid only until the Guard
// that produced it is released. Since Go cannot enforce that lifetime at
// compile time the way a borrow checker would, NodePtr checks it cheaply
// at run time instead.
type NodePtr[V any] struct {
	node       *Node[V]
	generation uint64
	collector  *epoch.Collector
}

func newNodePtr[V any](n *Node[V], g Guard, c *epoch.Collector) NodePtr[V] {
	return NodePtr[V]{node: n, generation: g.inner.Generation(), collector: c}
}

// IsZero reports whether p is the zero NodePtr (e.g. delete_min on an empty
// queue).
func (p NodePtr[V]) IsZero() bool {
	return p.node == nil
}

// Key returns the key of the borrowed node. Panics if p is zero.
func (p NodePtr[V]) Key() uint64 {
	p.checkLive()
	return p.node.Key
}

// Value returns the payload of the borrowed node and whether it has been
// logically deleted. Panics if p is zero.
func (p NodePtr[V]) Value() (val V, deleted bool) {
	p.checkLive()
	return p.node.Value()
}

// checkLive panics if p was never populated, or (best-effort, see
// internal/epoch) if the collector has moved past the generation p was
// borrowed at by more than one rotation, which would mean the caller held
// onto a NodePtr well past releasing its Guard.
func (p NodePtr[V]) checkLive() {
	if p.node == nil {
		panic("mdqueue: use of zero NodePtr")
	}
	if p.collector != nil && p.collector.CurrentGeneration()-p.generation > 1 {
		panic("mdqueue: use of NodePtr after its Guard was released")
	}
}
