// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package coord

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSpacePanicsOnInvalidConfig(t *testing.T) {
	require.Panics(t, func() { NewSpace(0, 100) })
	require.Panics(t, func() { NewSpace(4, 0) })
}

func TestOfIsOrderPreserving(t *testing.T) {
	s := NewSpace(4, 10_000)

	var prev []uint32
	for key := uint64(0); key < 5000; key += 37 {
		c := s.Of(key)
		require.Len(t, c, 4)
		if prev != nil {
			require.Equal(t, -1, Compare(prev, c), "key %d should order before its successor", key)
		}
		prev = c
	}
}

func TestOfIsBijectiveWithinRange(t *testing.T) {
	s := NewSpace(3, 2000)

	seen := make(map[string]uint64)
	for key := uint64(0); key < 2000; key++ {
		c := s.Of(key)
		k := coordKey(c)
		if other, ok := seen[k]; ok {
			t.Fatalf("keys %d and %d collide on coordinate %v", other, key, c)
		}
		seen[k] = key
	}
}

func TestCompareOrdersLexicographically(t *testing.T) {
	require.Equal(t, 0, Compare([]uint32{1, 2, 3}, []uint32{1, 2, 3}))
	require.Equal(t, -1, Compare([]uint32{1, 2, 3}, []uint32{1, 2, 4}))
	require.Equal(t, 1, Compare([]uint32{1, 3, 0}, []uint32{1, 2, 9}))
}

func coordKey(c []uint32) string {
	b := make([]byte, 0, len(c)*5)
	for _, d := range c {
		b = append(b, byte(d), byte(d>>8), byte(d>>16), byte(d>>24), '|')
	}
	return string(b)
}
