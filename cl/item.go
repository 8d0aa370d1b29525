package cl

import "sync"

// Item is the per-work-item view a KernelFunc receives: its position in
// the global and local iteration spaces, group-shared scratch memory,
// and the group barrier.
type Item struct {
	global int
	local  int
	group  int
	size   int
	state  *groupState
}

// GlobalID returns the work-item's index in the global range.
func (it *Item) GlobalID() int { return it.global }

// LocalID returns the work-item's index within its group.
func (it *Item) LocalID() int { return it.local }

// GroupID returns the index of the work-item's group.
func (it *Item) GroupID() int { return it.group }

// GroupSize returns the number of work-items in the group.
func (it *Item) GroupSize() int { return it.size }

// Shared returns the group's scratch value, calling alloc exactly once
// per group to create it. All items of a group observe the same value.
func (it *Item) Shared(alloc func() any) any {
	it.state.once.Do(func() {
		it.state.shared = alloc()
	})
	return it.state.shared
}

// Barrier blocks until every work-item of the group has reached it.
// Writes made before the barrier are visible to all group members after
// it, matching a device-side local-memory fence.
func (it *Item) Barrier() {
	it.state.barrier.await()
}

type groupState struct {
	once    sync.Once
	shared  any
	barrier *barrier
}

// runGroups executes fn for every work-item of the range. Groups of one
// run inline; larger groups run their items as goroutines so barriers
// can hold the whole group in lockstep. Distinct groups touch disjoint
// data by construction and may run concurrently.
func runGroups(fn KernelFunc, global, local int, args []any) {
	groups := global / local
	if local == 1 {
		for g := 0; g < groups; g++ {
			st := &groupState{barrier: newBarrier(1)}
			fn(&Item{global: g, local: 0, group: g, size: 1, state: st}, args)
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(groups)
	for g := 0; g < groups; g++ {
		go func(g int) {
			defer wg.Done()
			runGroup(fn, g, local, args)
		}(g)
	}
	wg.Wait()
}

func runGroup(fn KernelFunc, group, size int, args []any) {
	st := &groupState{barrier: newBarrier(size)}
	var wg sync.WaitGroup
	wg.Add(size)
	for l := 0; l < size; l++ {
		go func(l int) {
			defer wg.Done()
			fn(&Item{
				global: group*size + l,
				local:  l,
				group:  group,
				size:   size,
				state:  st,
			}, args)
		}(l)
	}
	wg.Wait()
}

// barrier is a reusable cyclic barrier for one work-group.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	size    int
	arrived int
	gen     int
}

func newBarrier(size int) *barrier {
	b := &barrier{size: size}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *barrier) await() {
	if b.size < 2 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	gen := b.gen
	b.arrived++
	if b.arrived == b.size {
		b.arrived = 0
		b.gen++
		b.cond.Broadcast()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
}
