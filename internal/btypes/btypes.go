// Package btypes holds the canonical element-type constraints shared by
// the bitonic package and its compute backends.
package btypes

import "golang.org/x/exp/constraints"

// Element is the set of element types a compute device can represent
// directly. Device buffers and kernel arguments are limited to these
// exact types; named types with matching underlying types are not
// accepted because buffer transfer relies on exact slice assertions.
type Element interface {
	int32 | uint32 | int64 | uint64 | float32 | float64
}

// Ordered is the constraint for host-only sorting, where any ordered
// type (including strings) is acceptable.
type Ordered = constraints.Ordered
