package cl

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/cwbudde/algo-bitonic/internal/btypes"
	"github.com/cwbudde/algo-bitonic/internal/hostcpu"
)

// HostBackend executes kernels in-process. It implements the full
// launch model — work-groups, group-shared scratch memory, barriers and
// per-launch profiling timestamps — so code written against the device
// abstraction behaves the same whether or not a real accelerator is
// present. It is always available and registers itself at package load.
type HostBackend struct {
	device   DeviceInfo
	launches atomic.Int64
}

func init() {
	Register(NewHostBackend())
}

// NewHostBackend returns a host backend with its own launch counter.
// The registered instance is shared; tests that count launches should
// create their own.
func NewHostBackend() *HostBackend {
	features := hostcpu.Detect()
	return &HostBackend{
		device: DeviceInfo{
			Name:     "Host CPU",
			Vendor:   features.Architecture,
			Driver:   runtime.Version(),
			Features: features.List(),
		},
	}
}

func (b *HostBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        "host",
		Description: "in-process kernel execution on the host CPU",
		Platform:    Version{Major: 3, Minor: 0},
	}
}

func (b *HostBackend) Available() bool {
	return true
}

func (b *HostBackend) NewContext() (Context, error) {
	return &hostContext{backend: b}, nil
}

// Launches reports how many kernel launches have been submitted through
// this backend instance.
func (b *HostBackend) Launches() int64 {
	return b.launches.Load()
}

type hostContext struct {
	backend *HostBackend
}

func (c *hostContext) Device() DeviceInfo {
	return c.backend.device
}

func (c *hostContext) NewQueue(props QueueProps) (Queue, error) {
	return &hostQueue{profiling: props.Profiling}, nil
}

func (c *hostContext) NewBuffer(dt DType, n int) (Buffer, error) {
	if n < 0 {
		return nil, ErrLengthMismatch
	}
	var data any
	switch dt {
	case Int32:
		data = make([]int32, n)
	case Uint32:
		data = make([]uint32, n)
	case Int64:
		data = make([]int64, n)
	case Uint64:
		data = make([]uint64, n)
	case Float32:
		data = make([]float32, n)
	case Float64:
		data = make([]float64, n)
	default:
		return nil, ErrTypeMismatch
	}
	return &hostBuffer{dtype: dt, n: n, data: data}, nil
}

func (c *hostContext) BuildProgram(src Source) (Program, error) {
	if len(src.Entries) == 0 {
		return nil, errors.Wrap(ErrBuildFailure, "source carries no host entry points")
	}
	if klog.V(2).Enabled() {
		klog.Infof("cl: building host program:\n%s", src.Text)
	}
	entries := make(map[string]KernelFunc, len(src.Entries))
	for name, fn := range src.Entries {
		if fn == nil {
			return nil, errors.Wrapf(ErrBuildFailure, "entry point %q is nil", name)
		}
		entries[name] = fn
	}
	return &hostProgram{backend: c.backend, entries: entries}, nil
}

func (c *hostContext) Close() error {
	return nil
}

// hostQueue is trivially in-order: launches run to completion when they
// are submitted, so Finish has nothing to wait for.
type hostQueue struct {
	profiling bool
}

func (q *hostQueue) Finish() error { return nil }
func (q *hostQueue) Close() error  { return nil }

type hostBuffer struct {
	dtype DType
	n     int
	data  any
}

func (b *hostBuffer) Len() int     { return b.n }
func (b *hostBuffer) DType() DType { return b.dtype }

func (b *hostBuffer) Upload(src any) error {
	switch dst := b.data.(type) {
	case []int32:
		return copyIn(dst, src)
	case []uint32:
		return copyIn(dst, src)
	case []int64:
		return copyIn(dst, src)
	case []uint64:
		return copyIn(dst, src)
	case []float32:
		return copyIn(dst, src)
	case []float64:
		return copyIn(dst, src)
	}
	return ErrTypeMismatch
}

func (b *hostBuffer) Download(dst any) error {
	switch src := b.data.(type) {
	case []int32:
		return copyOut(dst, src)
	case []uint32:
		return copyOut(dst, src)
	case []int64:
		return copyOut(dst, src)
	case []uint64:
		return copyOut(dst, src)
	case []float32:
		return copyOut(dst, src)
	case []float64:
		return copyOut(dst, src)
	}
	return ErrTypeMismatch
}

func (b *hostBuffer) Close() error {
	b.data = nil
	b.n = 0
	return nil
}

func copyIn[T btypes.Element](dst []T, src any) error {
	s, ok := src.([]T)
	if !ok {
		return ErrTypeMismatch
	}
	if len(s) < len(dst) {
		return ErrLengthMismatch
	}
	copy(dst, s[:len(dst)])
	return nil
}

func copyOut[T btypes.Element](dst any, src []T) error {
	d, ok := dst.([]T)
	if !ok {
		return ErrTypeMismatch
	}
	if len(d) < len(src) {
		return ErrLengthMismatch
	}
	copy(d[:len(src)], src)
	return nil
}

type hostProgram struct {
	backend *HostBackend
	entries map[string]KernelFunc
}

func (p *hostProgram) Kernel(entry string) (Kernel, error) {
	fn, ok := p.entries[entry]
	if !ok {
		return nil, errors.Wrapf(ErrNoKernel, "entry %q", entry)
	}
	return &hostKernel{backend: p.backend, fn: fn}, nil
}

func (p *hostProgram) Close() error {
	p.entries = nil
	return nil
}

type hostKernel struct {
	backend *HostBackend
	fn      KernelFunc
}

// Launch runs the kernel to completion before returning. Dependencies
// in r.Wait are honored by waiting on them first; since the host queue
// is in-order and synchronous they are always already complete.
func (k *hostKernel) Launch(q Queue, r Range, args ...any) (Event, error) {
	hq, ok := q.(*hostQueue)
	if !ok {
		return nil, ErrForeignObject
	}
	if r.Global <= 0 || r.Local < 0 {
		return nil, ErrInvalidRange
	}
	local := r.Local
	if local == 0 {
		local = 1
	}
	if r.Global%local != 0 {
		return nil, ErrInvalidRange
	}
	for _, ev := range r.Wait {
		if ev == nil {
			continue
		}
		if _, ok := ev.(*hostEvent); !ok {
			return nil, ErrForeignObject
		}
		if err := ev.Wait(); err != nil {
			return nil, err
		}
	}
	resolved := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case *hostBuffer:
			resolved[i] = v.data
		case Buffer:
			return nil, ErrForeignObject
		default:
			resolved[i] = a
		}
	}

	k.backend.launches.Add(1)
	start := time.Now()
	runGroups(k.fn, r.Global, local, resolved)
	end := time.Now()

	return &hostEvent{span: Span{Start: start, End: end}, profiled: hq.profiling}, nil
}

type hostEvent struct {
	span     Span
	profiled bool
}

func (e *hostEvent) Wait() error { return nil }

func (e *hostEvent) Profile() (Span, error) {
	if !e.profiled {
		return Span{}, ErrNoProfiling
	}
	return e.span, nil
}
