// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package mdqueue

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a read-only rendering of the dimension-0 chain to w, one
// `key:coord:seq[:DEL]` line per node, for eyeballing topology during
// development. It never blocks and never mutates state, but it only sees
// what dimension 0 reaches directly; a node whose pivot landed on a deeper
// dimension (see DeleteMin's doc comment) is not listed here even though
// DeleteMin can still reach it.
func (m *MDList[V]) Dump(w io.Writer) error {
	curr := m.head.Load()
	if _, err := fmt.Fprintf(w, "head seq=%d\n", curr.seq); err != nil {
		return err
	}

	for {
		_, next, t := curr.child[0].load()
		if next == nil || t.invalid() {
			break
		}
		curr = next

		val, deleted := curr.Value()
		marker := ""
		if deleted {
			marker = ":DEL"
		}
		if _, err := fmt.Fprintf(w, "%d:%v:%d%s = %v\n", curr.Key, curr.Coord, curr.seq, marker, val); err != nil {
			return err
		}
	}
	return nil
}

// DumpString renders [MDList.Dump] to a string, for use in tests.
func (m *MDList[V]) DumpString() string {
	w := new(strings.Builder)
	if err := m.Dump(w); err != nil {
		panic(err)
	}
	return w.String()
}
