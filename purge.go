// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package mdqueue

// purge compacts the dimension-0 prefix ending at prg (the most recently
// consumed node at the time maybePurge fired) by installing a fresh head
// that routes directly around it, dimension by dimension. hd is the head
// snapshot maybePurge observed; if the head has already moved on, purge is
// a silent no-op (another goroutine's purge, or a head rotation from
// elsewhere, already did this work).
//
// Unless purge returns early for a stale head, both hd and prg end this
// call with a live .purged link, which
// rewindStack follows to catch up a stale Stack snapshot across a head
// rotation rather than rediscovering it by re-walking from scratch.
func (m *MDList[V]) purge(hd, prg *Node[V]) {
	if m.head.Load() != hd {
		return
	}

	prgCopy := newNode[V](prg.Key, prg.Coord, prg.seq, m.dimension)
	hdNew := newNode[V](0, m.space.Of(0), hd.seq+1, m.dimension)

	d, pnt := 0, hd
	for d < m.dimension {
		next, ok := m.locatePivot(pnt, prg, d)
		if !ok {
			// pnt.child[d] was already claimed by a racing adoption or
			// purge at this dimension; restart the whole splice.
			pnt, d = hd, 0
			continue
		}
		pnt = next

		_, child, _ := pnt.child[d].load()
		if pnt.isHead() {
			// No live prefix to compact in this dimension: hd already
			// pointed at-or-past prg, so the new head can inherit the
			// pointer directly and prgCopy doesn't need this slot.
			hdNew.child[d].store(child, 0)
			prgCopy.child[d].store(nil, tagPurge)
		} else {
			// pnt is the first node at or beyond prg's coordinate in
			// dimension d: route the new head through prgCopy, which takes
			// over pnt's old successor.
			prgCopy.child[d].store(child, 0)
			hdNew.child[d].store(prgCopy, 0)
		}
		d++
	}

	// Retire hd and prg in favor of the new topology. Any goroutine still
	// holding a Stack pinned at hd follows these links in rewindStack
	// rather than rediscovering the rotation by re-walking from scratch.
	hd.purged.Store(prg)
	prg.purged.Store(hdNew)

	m.head.CompareAndSwap(hd, hdNew)
	m.collector.Bump()
}

// locatePivot advances pnt along dimension d, starting from hd, until it
// reaches the node at or beyond prg's coordinate in that dimension, then
// claims pnt.child[d] for the purge by tagging it FPRG. Returns false
// (caller must restart from hd) if the slot was already claimed by a
// concurrent adoption or purge first.
func (m *MDList[V]) locatePivot(pnt, prg *Node[V], d int) (p *Node[V], ok bool) {
	for prg.Coord[d] > pnt.Coord[d] {
		m.helpFinishInsert(pnt, d, d)
		_, child, _ := pnt.child[d].load()
		if child == nil {
			return pnt, false
		}
		pnt = child
	}

	for {
		slot, child, t := pnt.child[d].load()
		if t.invalid() {
			return pnt, false
		}
		if pnt.child[d].compareAndSwap(slot, child, t|tagPurge) {
			break
		}
	}

	return pnt, true
}
