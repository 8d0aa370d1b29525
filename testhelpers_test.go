package bitonic

import (
	"math/rand"
	"sort"
	"testing"
)

// Shared test helper functions used across multiple test files

func randomInt32s(rnd *rand.Rand, n int) []int32 {
	seq := make([]int32, n)
	for i := range seq {
		seq[i] = int32(rnd.Intn(2*n)) - int32(n)
	}
	return seq
}

func assertNonDecreasing[T Ordered](t *testing.T, seq []T) {
	t.Helper()

	for i := 1; i < len(seq); i++ {
		if seq[i-1] > seq[i] {
			t.Fatalf("seq[%d] = %v > seq[%d] = %v, not non-decreasing", i-1, seq[i-1], i, seq[i])
		}
	}
}

func assertPermutation[T Ordered](t *testing.T, got, want []T) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(want))
	}
	g := append([]T(nil), got...)
	w := append([]T(nil), want...)
	sort.Slice(g, func(i, j int) bool { return g[i] < g[j] })
	sort.Slice(w, func(i, j int) bool { return w[i] < w[j] })
	for i := range g {
		if g[i] != w[i] {
			t.Fatalf("not a permutation of the input: multiset differs at %d: got %v want %v", i, g[i], w[i])
		}
	}
}

func assertSliceEqual[T comparable](t *testing.T, got, want []T) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("slices differ at %d: got %v want %v", i, got[i], want[i])
		}
	}
}

// sortedReference returns an ascending copy of seq via the standard
// library, as an independent oracle.
func sortedReference[T Ordered](seq []T) []T {
	out := append([]T(nil), seq...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
