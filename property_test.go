// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package mdqueue

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// P1: draining after a batch of distinct-key inserts yields keys in
// monotone non-decreasing order.
func TestPropertyDrainIsMonotone(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		const rng = 1 << 16
		q := New[int](4, rng)

		n := rapid.IntRange(0, 200).Draw(rt, "n")
		seen := map[uint64]bool{}
		for i := 0; i < n; i++ {
			key := rapid.Uint64Range(0, rng-1).Filter(func(k uint64) bool {
				return !seen[k]
			}).Draw(rt, "key")
			seen[key] = true
			q.Insert(key, i)
		}

		var last uint64
		first := true
		stack := NewStack[int](4, nil)
		for {
			g := q.Pin()
			ptr := q.DeleteMin(stack, g)
			if ptr.IsZero() {
				g.Release()
				break
			}
			k := ptr.Key()
			g.Release()
			if !first {
				require.LessOrEqual(rt, last, k)
			}
			last, first = k, false
		}
	})
}

// P2/P6: every inserted value is eventually accounted for by exactly one of
// {still in the queue, returned by DeleteMin} — never both, never neither.
func TestPropertyEveryInsertAccountedFor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		const rng = 1 << 14
		q := New[int](3, rng)

		n := rapid.IntRange(1, 100).Draw(rt, "n")
		drains := rapid.IntRange(0, n).Draw(rt, "drains")

		inserted := map[uint64]bool{}
		for i := 0; i < n; i++ {
			key := rapid.Uint64Range(0, rng-1).Filter(func(k uint64) bool {
				return !inserted[k]
			}).Draw(rt, "key")
			inserted[key] = true
			q.Insert(key, i)
		}

		returned := map[uint64]bool{}
		stack := NewStack[int](3, nil)
		for i := 0; i < drains; i++ {
			g := q.Pin()
			ptr := q.DeleteMin(stack, g)
			if ptr.IsZero() {
				g.Release()
				break
			}
			k := ptr.Key()
			require.False(rt, returned[k], "key %d returned twice", k)
			returned[k] = true
			g.Release()
		}

		for k := range returned {
			require.True(rt, inserted[k])
		}

		remaining := drainAll(t, q)
		for _, r := range remaining {
			require.True(rt, inserted[r.Key], "key %d still queued but never inserted", r.Key)
			require.False(rt, returned[r.Key], "key %d both returned and still queued", r.Key)
		}
		require.Equal(rt, n, len(returned)+len(remaining))
	})
}

// P5 end to end: a key inserted into an MDList comes back unchanged, with
// its value, through NodePtr.Key after the key -> coordinate -> topology
// round trip. Bijectivity and order preservation of coord.Space.Of are
// covered directly in internal/coord.
func TestPropertyCoordRoundTripViaInsert(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		const rng = 1 << 12
		q := New[int](4, rng)

		key := rapid.Uint64Range(0, rng-1).Draw(rt, "key")
		q.Insert(key, 7)

		g := q.Pin()
		ptr := q.DeleteMin(NewStack[int](4, nil), g)
		defer g.Release()

		require.False(rt, ptr.IsZero())
		require.Equal(rt, key, ptr.Key())
		v, _ := ptr.Value()
		require.Equal(rt, 7, v)
	})
}
