package bitonic

import (
	"math/bits"
	"time"

	"github.com/pkg/errors"

	"github.com/cwbudde/algo-bitonic/cl"
	"github.com/cwbudde/algo-bitonic/internal/clc"
)

const localKernelEntry = "local_presort"

// localKernelText sorts one tile per work-group entirely in on-chip
// scratch memory. Each group loads its tile, runs every compare-
// exchange round whose part fits inside the tile, and writes the tile
// back. Scratch indices are local, but the direction is derived from
// the global position so the tiles of a longer sequence are laid out as
// one consistent bitonic sequence. Every round ends with a full group
// barrier: scratch writes of one round must be visible to all partners
// before the next round reads them.
const localKernelText = `
__kernel void local_presort(__global TYPE *buff, int stage_begin, int stage_end) {
  int gi = get_global_id(0);
  int li = get_local_id(0);
  __local TYPE segment[SEGMENT_SIZE];
  segment[li] = buff[gi];
  barrier(CLK_LOCAL_MEM_FENCE);
  for (int stage = stage_begin; stage < stage_end; ++stage) {
    for (int step = stage; step >= 0; --step) {
      int part_len = 1 << (step + 1);
      int half_len = part_len >> 1;
      int part_n = li / part_len;
      bool increasing = ((gi >> (stage + 1)) & 1) == 0;
      if (li < part_n * part_len + half_len) {
        int j = li + half_len;
        if (((segment[li] > segment[j]) && increasing) ||
            ((segment[li] < segment[j]) && !increasing)) {
          TYPE tmp = segment[li];
          segment[li] = segment[j];
          segment[j] = tmp;
        }
      }
      barrier(CLK_LOCAL_MEM_FENCE);
    }
  }
  buff[gi] = segment[li];
}
`

// localKernelFunc is the host-executable form of localKernelText. The
// two must stay in lockstep.
func localKernelFunc[T Element]() cl.KernelFunc {
	return func(it *cl.Item, args []any) {
		buff := args[0].([]T)
		begin := int(args[1].(int32))
		end := int(args[2].(int32))

		gi := it.GlobalID()
		li := it.LocalID()
		segment := it.Shared(func() any {
			return make([]T, it.GroupSize())
		}).([]T)
		segment[li] = buff[gi]
		it.Barrier()
		for stage := begin; stage < end; stage++ {
			for step := stage; step >= 0; step-- {
				partLen := 1 << (step + 1)
				half := partLen >> 1
				partN := li / partLen
				increasing := (gi>>(stage+1))&1 == 0
				if li < partN*partLen+half {
					j := li + half
					if (segment[li] > segment[j] && increasing) || (segment[li] < segment[j] && !increasing) {
						segment[li], segment[j] = segment[j], segment[li]
					}
				}
				it.Barrier()
			}
		}
		buff[gi] = segment[li]
	}
}

// LocalSorter sorts fixed-width tiles in on-chip scratch memory with a
// single launch covering the min(log2(tile), log2(n)) leading network
// stages. Sequences no longer than one tile come back fully sorted.
// Longer sequences come back with every tile independently sorted in
// its bitonic layout direction (even-numbered tiles ascending, odd
// descending) and no ordering across tile boundaries: the cross-tile
// merge launches a full sort would need are not issued by this design.
//
// Instances are not safe for concurrent Sort calls.
type LocalSorter[T Element] struct {
	session *session
	program cl.Program
	kernel  cl.Kernel
	tile    int
}

// NewLocalSorter builds the tile-local accelerator backend. The tile
// width is baked into the generated kernel source alongside the element
// type and must be a power of two and at least 2.
func NewLocalSorter[T Element](tileWidth int, opts DeviceOptions) (*LocalSorter[T], error) {
	if tileWidth < 2 || bits.OnesCount(uint(tileWidth)) != 1 {
		return nil, ErrInvalidTileWidth
	}
	s, err := newSession(opts)
	if err != nil {
		return nil, err
	}
	src := cl.Source{
		Text: clc.Render(localKernelText,
			clc.Define("TYPE", cl.DTypeOf[T]().CName()),
			clc.Define("SEGMENT_SIZE", tileWidth)),
		Entries: map[string]cl.KernelFunc{
			localKernelEntry: localKernelFunc[T](),
		},
	}
	program, err := s.ctx.BuildProgram(src)
	if err != nil {
		_ = s.close()
		return nil, errors.Wrap(err, "building local bitonic program")
	}
	kernel, err := program.Kernel(localKernelEntry)
	if err != nil {
		_ = program.Close()
		_ = s.close()
		return nil, err
	}
	return &LocalSorter[T]{session: s, program: program, kernel: kernel, tile: tileWidth}, nil
}

// TileWidth returns the configured tile width.
func (s *LocalSorter[T]) TileWidth() int {
	return s.tile
}

// Device describes the compute device this sorter runs on.
func (s *LocalSorter[T]) Device() cl.DeviceInfo {
	return s.session.device
}

// Sort runs the single tile-local launch over seq. The pure duration is
// that launch's own device span.
func (s *LocalSorter[T]) Sort(seq []T, info *ProfilingInfo) error {
	n := len(seq)
	if err := checkLength(n); err != nil {
		return err
	}
	wallStart := time.Now()
	group := s.tile
	if n < group {
		group = n
	}
	span, err := runOn(s.session, seq, func(buf cl.Buffer) (eventSpan, error) {
		var chain eventSpan
		r := cl.Range{Global: n, Local: group}
		ev, err := s.kernel.Launch(s.session.queue, r, buf, int32(0), int32(stageCount(group)))
		if err != nil {
			return eventSpan{}, err
		}
		chain.push(ev)
		return chain, nil
	})
	if err != nil {
		return err
	}
	return fillProfile(info, wallStart, span)
}

// Close releases the compiled program and device resources.
func (s *LocalSorter[T]) Close() error {
	var first error
	if s.program != nil {
		first = s.program.Close()
		s.program = nil
	}
	if s.session != nil {
		if err := s.session.close(); err != nil && first == nil {
			first = err
		}
		s.session = nil
	}
	return first
}
