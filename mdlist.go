// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package mdqueue

import (
	"sort"
	"sync/atomic"

	"github.com/gaissmai/mdqueue/internal/coord"
	"github.com/gaissmai/mdqueue/internal/epoch"
	"github.com/gaissmai/mdqueue/internal/metrics"
)

// MDList is a lock-free concurrent priority queue over a multi-dimensional
// linked list. The zero value is not usable; construct with [New].
//
// MDList must not be copied after first use.
type MDList[V any] struct {
	dimension int
	space     coord.Space

	head      atomic.Pointer[Node[V]]
	stack     sharedStack[V]
	seq       atomic.Uint32
	collector *epoch.Collector
	descPool  *descPool[V]
	metrics   *metrics.Set
	logger    Logger

	purging     atomic.Bool
	purgeEvery  uint64 // FDEL-prefix count that triggers a purge attempt
	deletedHint atomic.Uint64
}

// Option configures an MDList at construction.
type Option[V any] func(*MDList[V])

// WithMetrics attaches a Prometheus instrument set (see internal/metrics);
// nil is valid and disables instrumentation.
func WithMetrics[V any](set *metrics.Set) Option[V] {
	return func(m *MDList[V]) { m.metrics = set }
}

// WithLogger attaches a diagnostic [Logger]; nil is replaced by a no-op.
func WithLogger[V any](l Logger) Option[V] {
	return func(m *MDList[V]) {
		if l == nil {
			l = noopLogger{}
		}
		m.logger = l
	}
}

// WithPurgeEvery overrides how many successful DeleteMin calls (nodes
// marked FDEL, in any dimension) pass between purge attempts: DeleteMin
// attempts a purge on every n-th one. Zero disables
// automatic purging; callers may still invoke purge indirectly by tuning
// this low in latency-insensitive batch workloads.
func WithPurgeEvery[V any](n uint64) Option[V] {
	return func(m *MDList[V]) { m.purgeEvery = n }
}

const defaultPurgeEvery = 4096

// New constructs an MDList for keys in [0, rng) using dimension forward
// pointers per node. The coordinate basis is derived so that
// basis^dimension >= rng. Panics if dimension < 1 or rng < 1: an invalid
// configuration is a construction-time bug, not a runtime condition to
// recover from.
func New[V any](dimension int, rng uint64, opts ...Option[V]) *MDList[V] {
	space := coord.NewSpace(dimension, rng)

	m := &MDList[V]{
		dimension:  dimension,
		space:      space,
		collector:  epoch.NewCollector(),
		descPool:   newDescPool[V](),
		logger:     noopLogger{},
		purgeEvery: defaultPurgeEvery,
	}

	head := newNode[V](0, space.Of(0), 0, dimension)
	m.head.Store(head)
	m.stack.store(NewStack[V](dimension, head))
	m.seq.Store(1)

	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MDList[V]) nextSeq() uint32 {
	return m.seq.Add(1)
}

// HeadPtr returns the current head sentinel, for tests and for
// constructing working [Stack]s.
func (m *MDList[V]) HeadPtr(g Guard) NodePtr[V] {
	return newNodePtr(m.head.Load(), g, m.collector)
}

// locatePredecessor walks dimension by dimension from head, descending
// while the current node's coordinate in that dimension is behind the
// target, helping any pending insert met along the way. Returns the pivot
// (pred, dp) where the new node links, and the match depth dc at which it
// diverges from curr: Insert links the new node's own child[dc] to curr, so
// curr stays reachable through it rather than being replaced outright.
func (m *MDList[V]) locatePredecessor(coordv []uint32, working *Stack[V]) (pred, curr *Node[V], dp, dc int) {
	curr = m.head.Load()
	dc = 0
	dp = 0

dims:
	for dc < m.dimension {
		for curr != nil && curr.Coord[dc] < coordv[dc] {
			pred = curr
			dp = dc
			m.helpFinishInsert(curr, dc, dc)
			_, next, _ := curr.child[dc].load()
			curr = next
		}

		if curr == nil {
			break
		}

		switch {
		case curr.Coord[dc] > coordv[dc]:
			// curr's coordinate already exceeds the target at this
			// dimension: dc is the true divergence depth, so stop right
			// here rather than forcing dc past it. Leaving dc unchanged is
			// what lets Insert link the new node's child[dc] to curr.
			break dims
		case curr.Coord[dc] == coordv[dc]:
			working.Del[dc] = curr
			if dc == m.dimension-1 {
				// Every dimension has matched: curr carries the exact same
				// coordinate as the key being inserted. There is no deeper
				// dimension left to narrow into, so the tie is broken by
				// chaining through curr's own last-dimension pointer
				// instead of descending into it.
				pred = curr
				dp = dc
				m.helpFinishInsert(curr, dc, dc)
				_, next, _ := curr.child[dc].load()
				curr = next
			} else {
				dc++
			}
		default:
			pred = curr
			dp = dc
			m.helpFinishInsert(curr, dc, dc)
			_, next, _ := curr.child[dc].load()
			curr = next
		}
	}

	if dp > m.dimension-1 {
		dp = m.dimension - 1
	}
	return pred, curr, dp, dc
}

// Insert adds key/value to the queue. Value ownership transfers to the
// queue; it transfers onward to the caller of a successful DeleteMin that
// returns this node.
func (m *MDList[V]) Insert(key uint64, value V) {
	g := m.Pin()
	defer g.Release()

	coordv := m.space.Of(key)
	seq := m.nextSeq()
	n := newNode[V](key, coordv, seq, m.dimension)
	n.val.Store(&valueSlot[V]{val: value})

	for {
		working := NewStack[V](m.dimension, m.head.Load())
		pred, curr, dp, dc := m.locatePredecessor(coordv, working)

		if dp < dc {
			d := m.descPool.get(curr, dp, dc)
			n.pending.Store(d)
		} else {
			n.pending.Store(nil)
		}
		if dc < m.dimension {
			n.child[dc].store(curr, 0)
		}

		var predSlot *childSlot[V]
		var predExpected *Node[V]
		var predTag tag
		if pred == nil {
			pred = m.head.Load()
		}
		predSlot, predExpected, predTag = pred.child[dp].load()
		if predExpected != curr || predTag.invalid() {
			m.metrics.IncCASRetry()
			continue
		}
		if !pred.child[dp].compareAndSwap(predSlot, n, 0) {
			m.metrics.IncCASRetry()
			continue
		}

		m.helpFinishInsert(n, dp, dc)
		m.rewindStack(key, dp, pred)
		m.metrics.IncInsert()
		m.metrics.AddLiveNodes(1)
		return
	}
}

// DeleteMin returns the logically smallest live node, or the zero NodePtr
// if the queue is empty.
//
// A chain walk restricted to dimension 0 only finds every node when
// dimension 0 alone happens to carry every node in key order. That stops
// being true the moment two keys share a dimension-0 digit: the second
// insert's pivot then lands on a deeper dimension, and that node is only
// reachable by descending through the first one's higher-dimension child.
// A traversal restricted to child[0] would permanently miss it. DeleteMin
// instead walks the full D-ary topology reachable from head (every live
// node is reachable from head by construction) and picks the smallest key
// among everything it finds; see DESIGN.md for the full writeup of why
// this traverses more than a single dimension.
//
// working is advisory: its Del slots seed the walk (in addition to head,
// which is always seeded, so correctness never depends on working being
// accurate) and are refreshed to the winning node on success, so a
// goroutine reusing the same *Stack across repeated DeleteMin calls avoids
// re-discovering the same already-drained prefix every time.
func (m *MDList[V]) DeleteMin(working *Stack[V], g Guard) NodePtr[V] {
	switch c := g.inner.Collector(); {
	case c == nil:
		panicf("DeleteMin called with an unpinned Guard (use MDList.Pin)")
	case c != m.collector:
		panicf("DeleteMin called with a Guard from a different MDList")
	}

	head := m.head.Load()

	seeds := make([]*Node[V], 0, m.dimension+1)
	seeds = append(seeds, head)
	if working != nil && working.Head == head {
		seeds = append(seeds, working.Del...)
	}

	visited := make(map[*Node[V]]bool, len(seeds))
	frontier := make([]*Node[V], 0, len(seeds))
	for _, s := range seeds {
		if s != nil && !visited[s] {
			visited[s] = true
			frontier = append(frontier, s)
		}
	}

	var live []*Node[V]
	for len(frontier) > 0 {
		n := frontier[0]
		frontier = frontier[1:]

		for d := 0; d < m.dimension; d++ {
			m.helpFinishInsert(n, d, d)
			_, next, t := n.child[d].load()
			if next == nil || t.invalid() || visited[next] {
				continue
			}
			visited[next] = true
			frontier = append(frontier, next)
			if _, deleted := next.Value(); !deleted {
				live = append(live, next)
			}
		}
	}

	sort.Slice(live, func(i, j int) bool { return live[i].Key < live[j].Key })

	for _, n := range live {
		old := n.val.Load()
		if old == nil || old.del {
			continue
		}
		newSlot := &valueSlot[V]{val: old.val, del: true}
		if !n.val.CompareAndSwap(old, newSlot) {
			continue
		}

		m.metrics.IncDeleteMin(true)
		m.metrics.AddLiveNodes(-1)
		if working != nil {
			working.Head = head
			for i := range working.Del {
				working.Del[i] = n
			}
		}
		m.maybePurge(head, n)
		return newNodePtr(n, g, m.collector)
	}

	m.metrics.IncDeleteMin(false)
	return NodePtr[V]{}
}

// maybePurge triggers purge each time the count of successful DeleteMin
// calls reaches a multiple of purgeEvery.
// Guarded by the single-entry m.purging flag; concurrent or failed
// entrants simply skip it — purging is idempotent, so skipping here just
// defers the compaction to the next call that wins the flag.
func (m *MDList[V]) maybePurge(head, pivot *Node[V]) {
	if m.purgeEvery == 0 {
		return
	}
	n := m.deletedHint.Add(1)
	if n%m.purgeEvery != 0 {
		return
	}
	if !m.purging.CompareAndSwap(false, true) {
		m.metrics.IncPurgeSkippedBusy()
		m.logger.Debugf("mdqueue: purge skipped, already in progress")
		return
	}
	defer m.purging.Store(false)

	m.purge(head, pivot)
	m.metrics.IncPurge()
	m.logger.Infof("mdqueue: purged prefix up to key %d", pivot.Key)
}
