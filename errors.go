// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package mdqueue

import "fmt"

// No MDList operation returns an error: Insert/DeleteMin never fail under
// correct usage. What remains are invalid-usage bugs, reported as panics
// rather than a bespoke error type hierarchy. panicf, a plain
// fmt.Errorf-wrapped panic, reports DeleteMin's unpinned/foreign Guard
// checks; invalid construction parameters panic inside coord.NewSpace.

func panicf(format string, args ...any) {
	panic(fmt.Errorf("mdqueue: "+format, args...))
}
