// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package mdqueue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Scenario 6: single producer, single consumer; the consumed multiset must
// equal the produced multiset, within a bounded wall-clock budget.
func TestScenarioProducerConsumer(t *testing.T) {
	const n = 1000
	q := New[int](4, 4096)

	produced := make(map[uint64]int, n)
	var mu sync.Mutex

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for i := range n {
			key := uint64(i)
			val := i % 256
			mu.Lock()
			produced[key] = val
			mu.Unlock()
			q.Insert(key, val)
		}
		return nil
	})

	consumed := make(map[uint64]int, n)
	g.Go(func() error {
		stack := NewStack[int](q.dimension, nil)
		for len(consumed) < n {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			guard := q.Pin()
			ptr := q.DeleteMin(stack, guard)
			if ptr.IsZero() {
				guard.Release()
				time.Sleep(time.Microsecond * 50)
				continue
			}
			v, _ := ptr.Value()
			consumed[ptr.Key()] = v
			guard.Release()
		}
		return nil
	})

	require.NoError(t, g.Wait())
	require.Equal(t, produced, consumed)
}

// Scenario 7: four threads each insert a disjoint key range, interleaving a
// DeleteMin every 5 inserts; every consumed key plus every remaining key
// must partition the full inserted key set.
func TestScenarioMixedFourThreads(t *testing.T) {
	const threads = 4
	const perThread = 250
	q := New[int](4, threads*1000+perThread)

	var mu sync.Mutex
	consumedKeys := map[uint64]bool{}

	var wg sync.WaitGroup
	for th := range threads {
		wg.Add(1)
		go func(th int) {
			defer wg.Done()
			stack := NewStack[int](q.dimension, nil)
			for i := range perThread {
				key := uint64(th*1000 + i)
				q.Insert(key, th)

				if (i+1)%5 == 0 {
					guard := q.Pin()
					ptr := q.DeleteMin(stack, guard)
					if !ptr.IsZero() {
						mu.Lock()
						consumedKeys[ptr.Key()] = true
						mu.Unlock()
					}
					guard.Release()
				}
			}
		}(th)
	}
	wg.Wait()

	remaining := drainAll(t, q)
	remainingKeys := map[uint64]bool{}
	for _, r := range remaining {
		require.False(t, consumedKeys[r.Key], "key %d drained twice", r.Key)
		remainingKeys[r.Key] = true
	}

	total := threads * perThread
	require.Equal(t, total, len(consumedKeys)+len(remainingKeys))

	for th := range threads {
		for i := range perThread {
			key := uint64(th*1000 + i)
			require.True(t, consumedKeys[key] || remainingKeys[key], "key %d lost", key)
		}
	}
}
