// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package mdqueue provides a lock-free concurrent priority queue built atop
// a multi-dimensional linked list (MDList).
//
// Keys are non-negative integers drawn from a bounded range [0, R). Each key
// is mapped to a D-digit base-B coordinate vector, order-preserving under
// the lexicographic order of the vector. The MDList indexes nodes along D
// forward-pointer dimensions so that concurrent insert and delete-min
// operations can make progress without mutual exclusion: contended inserts
// help each other finish linking a node's remaining dimensions via a
// per-node pending-adoption descriptor, and delete-min races only on a
// single-word CAS per node.
//
// Insert and DeleteMin never block and never return an error; the only
// error-shaped conditions are precondition violations, which panic: a
// dimension or range of zero at construction, and a DeleteMin call with an
// unpinned Guard or one pinned against a different MDList.
//
// Operations take a [Guard] obtained from [MDList.Pin], tying any [NodePtr] they
// return to the lifetime of that guard. A [Stack] memoises the deletion
// frontier to cut down repeated traversal cost for DeleteMin callers that
// reuse it across calls from the same goroutine.
package mdqueue
