package bitonic

import (
	"time"

	"github.com/pkg/errors"

	"github.com/cwbudde/algo-bitonic/cl"
	"github.com/cwbudde/algo-bitonic/internal/clc"
)

const naiveKernelEntry = "naive_bitonic"

// naiveKernelText performs exactly one (stage, step) compare-exchange
// pass over the whole sequence, one work-item per position. Items in
// the lower half of their 2^(step+1)-element part swap with the partner
// half a part away when the pair is out of order for the part's
// direction; the direction alternates between ascending and descending
// across 2^(stage+1)-element blocks.
const naiveKernelText = `
__kernel void naive_bitonic(__global TYPE *buff, int stage, int step) {
  int i = get_global_id(0);
  int part_len = 1 << (step + 1);
  int half_len = part_len >> 1;
  int part_n = i / part_len;
  bool increasing = ((i >> (stage + 1)) & 1) == 0;
  if (i < part_n * part_len + half_len) {
    int j = i + half_len;
    if (((buff[i] > buff[j]) && increasing) ||
        ((buff[i] < buff[j]) && !increasing)) {
      TYPE tmp = buff[i];
      buff[i] = buff[j];
      buff[j] = tmp;
    }
  }
}
`

// naiveKernelFunc is the host-executable form of naiveKernelText. The
// two must stay in lockstep.
func naiveKernelFunc[T Element]() cl.KernelFunc {
	return func(it *cl.Item, args []any) {
		buff := args[0].([]T)
		stage := int(args[1].(int32))
		step := int(args[2].(int32))

		i := it.GlobalID()
		partLen := 1 << (step + 1)
		half := partLen >> 1
		partN := i / partLen
		increasing := (i>>(stage+1))&1 == 0
		if i < partN*partLen+half {
			j := i + half
			if (buff[i] > buff[j] && increasing) || (buff[i] < buff[j] && !increasing) {
				buff[i], buff[j] = buff[j], buff[i]
			}
		}
	}
}

// NaiveSorter offloads the network one (stage, step) launch at a time,
// stages*(stages+1)/2 launches per call, each depending on completion
// of the previous one so the device observes a strict total order. The
// kernel source is generated with the element type baked in and
// compiled once at construction; the program is reused by every call.
//
// Instances are not safe for concurrent Sort calls.
type NaiveSorter[T Element] struct {
	session *session
	program cl.Program
	kernel  cl.Kernel
}

// NewNaiveSorter builds the naive accelerator backend. Construction
// fails when no backend satisfies the options or the program cannot be
// built.
func NewNaiveSorter[T Element](opts DeviceOptions) (*NaiveSorter[T], error) {
	s, err := newSession(opts)
	if err != nil {
		return nil, err
	}
	src := cl.Source{
		Text: clc.Render(naiveKernelText,
			clc.Define("TYPE", cl.DTypeOf[T]().CName())),
		Entries: map[string]cl.KernelFunc{
			naiveKernelEntry: naiveKernelFunc[T](),
		},
	}
	program, err := s.ctx.BuildProgram(src)
	if err != nil {
		_ = s.close()
		return nil, errors.Wrap(err, "building naive bitonic program")
	}
	kernel, err := program.Kernel(naiveKernelEntry)
	if err != nil {
		_ = program.Close()
		_ = s.close()
		return nil, err
	}
	return &NaiveSorter[T]{session: s, program: program, kernel: kernel}, nil
}

// Device describes the compute device this sorter runs on.
func (s *NaiveSorter[T]) Device() cl.DeviceInfo {
	return s.session.device
}

// Sort sorts seq in place on the device.
func (s *NaiveSorter[T]) Sort(seq []T, info *ProfilingInfo) error {
	n := len(seq)
	if err := checkLength(n); err != nil {
		return err
	}
	wallStart := time.Now()
	stages := stageCount(n)
	span, err := runOn(s.session, seq, func(buf cl.Buffer) (eventSpan, error) {
		var chain eventSpan
		for stage := 0; stage < stages; stage++ {
			for step := stage; step >= 0; step-- {
				r := cl.Range{Global: n}
				if chain.last != nil {
					r.Wait = []cl.Event{chain.last}
				}
				ev, err := s.kernel.Launch(s.session.queue, r, buf, int32(stage), int32(step))
				if err != nil {
					return eventSpan{}, err
				}
				chain.push(ev)
			}
		}
		return chain, nil
	})
	if err != nil {
		return err
	}
	return fillProfile(info, wallStart, span)
}

// Close releases the compiled program and device resources.
func (s *NaiveSorter[T]) Close() error {
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
