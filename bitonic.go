// Package bitonic sorts power-of-two-length sequences with a bitonic
// sorting network.
//
// Three interchangeable backends implement the same contract: a
// sequential in-process engine, a naive accelerator engine issuing one
// launch per network step, and a tile-local accelerator engine sorting
// fixed-size tiles in on-chip scratch memory with a single launch.
package bitonic

import (
	"math/bits"
	"time"
)

// ProfilingInfo reports the timing of one Sort call.
type ProfilingInfo struct {
	// Wall is the elapsed wall-clock duration of the whole call,
	// including any host/device transfers.
	Wall time.Duration
	// Pure is the device-measured duration between the start of the
	// first and the end of the last device operation. Pure <= Wall.
	// For the sequential engine Pure equals Wall.
	Pure time.Duration
}

// Sorter is the contract every backend implements: sort seq in place
// into non-decreasing order. A non-nil info is populated exactly once
// per successful call; a nil info is ignored.
//
// The sequence length must be a power of two and at least 2, otherwise
// Sort fails with ErrInvalidLength before mutating anything.
type Sorter[T Ordered] interface {
	Sort(seq []T, info *ProfilingInfo) error
}

// checkLength validates the sequence-length precondition shared by all
// backends.
func checkLength(n int) error {
	if n < 2 || bits.OnesCount(uint(n)) != 1 {
		return ErrInvalidLength
	}
	return nil
}

// stageCount returns log2(n) for a power-of-two n, the number of stages
// in the network.
func stageCount(n int) int {
	return bits.TrailingZeros(uint(n))
}
