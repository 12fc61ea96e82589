// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package mdqueue

import "sync/atomic"

// childSlot is the immutable snapshot stored behind a childPtr: a child
// node reference plus the adopt/purge marks on that reference. A CAS on a
// childPtr always supplies the exact *childSlot previously obtained from
// Load as the expected value, giving the same "Shared<'g, Node>" snapshot
// semantics the Rust original gets from crossbeam's tagged Shared pointer,
// without needing unsafe pointer-bit tagging on the Go side.
type childSlot[V any] struct {
	next *Node[V]
	tag  tag
}

// childPtr is one of a Node's D dimension pointers.
type childPtr[V any] struct {
	v atomic.Pointer[childSlot[V]]
}

func newChildSlot[V any](next *Node[V], t tag) *childSlot[V] {
	return &childSlot[V]{next: next, tag: t}
}

// load returns the current slot (for use as the CAS "old" value) along with
// its decoded fields.
func (c *childPtr[V]) load() (slot *childSlot[V], next *Node[V], t tag) {
	slot = c.v.Load()
	if slot == nil {
		return nil, nil, 0
	}
	return slot, slot.next, slot.tag
}

// store unconditionally publishes (next, t), used only during node
// construction before the node is reachable by any other goroutine.
func (c *childPtr[V]) store(next *Node[V], t tag) {
	c.v.Store(newChildSlot(next, t))
}

// compareAndSwap attempts to replace old with a newly minted slot holding
// (next, t). old must be the exact pointer previously returned by load (or
// nil if the slot has never been stored to).
func (c *childPtr[V]) compareAndSwap(old *childSlot[V], next *Node[V], t tag) bool {
	return c.v.CompareAndSwap(old, newChildSlot(next, t))
}

// valueSlot is the immutable snapshot behind Node.val: the payload plus the
// FDEL mark. delete_min install a new slot with del=true to logically
// delete a node without touching its topology.
type valueSlot[V any] struct {
	val V
	del bool
}

// Desc is the pending-insertion descriptor left on a newly linked node:
// the node was linked at pivot dimension dp, and curr is the successor it
// took the place of, whose coordinates matched the new node's through
// depth dc. Before the owning node can be
// considered fully linked, curr's children over dimensions [dp, dc) must
// be adopted into it — see helpFinishInsert. dc itself is never part of
// that range: the owning node's own child[dc] already points at curr, and
// adoption must never touch that slot or curr becomes unreachable.
type Desc[V any] struct {
	curr *Node[V]
	dp   int
	dc   int
}

// Node is one element of the MDList. Key and Coord are immutable after
// publication; seq is only compared on head nodes, for stack-version
// checks in rewindStack.
type Node[V any] struct {
	Key   uint64
	Coord []uint32
	seq   uint32

	child   []childPtr[V]
	val     atomic.Pointer[valueSlot[V]]
	pending atomic.Pointer[Desc[V]]

	// purged links a retired head (or purge pivot) to its replacement so
	// rewindStack can trace a head rotation chain.
	purged atomic.Pointer[Node[V]]
}

func newNode[V any](key uint64, coordv []uint32, seq uint32, dimension int) *Node[V] {
	return &Node[V]{
		Key:   key,
		Coord: coordv,
		seq:   seq,
		child: make([]childPtr[V], dimension),
	}
}

// isHead reports whether n has no value installed. That holds for a
// sentinel head node (key 0, all-zero coord) and also for the pivot copies
// purge creates, which carry a key but no value. Used by purge to
// special-case the entry point.
func (n *Node[V]) isHead() bool {
	return n.val.Load() == nil
}

// Value returns the payload stored in n and whether it has been logically
// deleted by delete_min.
func (n *Node[V]) Value() (val V, deleted bool) {
	s := n.val.Load()
	if s == nil {
		var zero V
		return zero, false
	}
	return s.val, s.del
}

// helpFinishInsert is the adoption loop run by the inserter itself right
// after linking, and by any later traversal that finds n.pending non-nil.
// dp/dc only decide whether this caller helps at all: it helps when
// [dp, dc] overlaps the descriptor's [desc.dp, desc.dc], and then it adopts
// the whole [desc.dp, desc.dc) range, whichever dimension it was
// traversing. A caller whose range does not overlap leaves the descriptor
// for the next helper that visits n.
func (m *MDList[V]) helpFinishInsert(n *Node[V], dp, dc int) {
	if n == nil {
		return
	}

	descPtr := n.pending.Load()
	if descPtr == nil {
		return
	}

	if dc < descPtr.dp || dp > descPtr.dc {
		return
	}

	curr := descPtr.curr
	if curr == nil {
		return
	}

	// Strictly less than descPtr.dc: the owning node's child[dc] already
	// links to curr itself, set at insertion time, and must survive this
	// loop untouched or curr would be orphaned.
	for i := descPtr.dp; i < descPtr.dc; i++ {
		slot, child, t := curr.child[i].load()
		for !t.invalid() {
			if curr.child[i].compareAndSwap(slot, child, t|tagAdopt) {
				break
			}
			slot, child, t = curr.child[i].load()
		}

		// curr.child[i] now definitely carries tagAdopt (ours or a racing
		// helper's); child is the clean next-pointer underneath the mark.
		nSlot, _, _ := n.child[i].load()
		if nSlot == nil {
			n.child[i].compareAndSwap(nil, child, 0)
			m.metrics.IncAdoptionHelp()
		}
	}

	if n.pending.CompareAndSwap(descPtr, nil) {
		m.collector.DeferDestroy(func() { m.descPool.put(descPtr) })
	}
}
