package bitonic

import "time"

// SequentialSorter runs the bitonic network directly over host memory,
// single-threaded and fully deterministic. It accepts any ordered
// element type, not just device-representable ones.
type SequentialSorter[T Ordered] struct{}

// NewSequentialSorter returns the sequential backend.
func NewSequentialSorter[T Ordered]() *SequentialSorter[T] {
	return &SequentialSorter[T]{}
}

// Sort sorts seq in place. There is no separate device phase, so the
// reported pure duration equals the wall duration.
func (s *SequentialSorter[T]) Sort(seq []T, info *ProfilingInfo) error {
	if err := checkLength(len(seq)); err != nil {
		return err
	}
	start := time.Now()
	sequentialSort(seq)
	elapsed := time.Since(start)
	if info != nil {
		info.Wall = elapsed
		info.Pure = elapsed
	}
	return nil
}

// sequentialSort iterates stages ascending and steps descending within
// each stage. Each (stage, step) pass partitions the sequence into
// parts of 2^(step+1) elements; within a part, offset i pairs with the
// mirror position when step == stage (the pass that closes a bitonic
// merge) and with the stride position half a part away otherwise.
func sequentialSort[T Ordered](seq []T) {
	n := len(seq)
	stages := stageCount(n)
	for stage := 0; stage < stages; stage++ {
		for step := stage; step >= 0; step-- {
			partLen := 1 << (step + 1)
			half := partLen >> 1
			for base := 0; base < n; base += partLen {
				for i := 0; i < half; i++ {
					j := i + half
					if step == stage {
						j = partLen - i - 1
					}
					if seq[base+i] > seq[base+j] {
						seq[base+i], seq[base+j] = seq[base+j], seq[base+i]
					}
				}
			}
		}
	}
}
