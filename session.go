package bitonic

import (
	"time"

	"github.com/pkg/errors"

	"github.com/cwbudde/algo-bitonic/cl"
)

// DefaultMinVersion is the minimum platform version an automatically
// selected backend must satisfy.
var DefaultMinVersion = cl.Version{Major: 2, Minor: 2}

// DeviceOptions configures the accelerator-backed sorters.
type DeviceOptions struct {
	// Backend pins the sorter to a specific backend. When nil, the
	// registered backend satisfying MinVersion is selected.
	Backend cl.Backend

	// MinVersion overrides DefaultMinVersion for backend selection.
	// Ignored when Backend is set.
	MinVersion cl.Version
}

// session bundles the per-instance device state shared by the
// accelerator sorters: one context and one profiling command queue.
// Concurrent Sort calls on one session are not safe.
type session struct {
	ctx    cl.Context
	queue  cl.Queue
	device cl.DeviceInfo
}

func newSession(opts DeviceOptions) (*session, error) {
	backend := opts.Backend
	if backend == nil {
		min := opts.MinVersion
		if min == (cl.Version{}) {
			min = DefaultMinVersion
		}
		var err error
		backend, err = cl.Select(min)
		if err != nil {
			return nil, err
		}
	}
	if !backend.Available() {
		return nil, cl.ErrBackendUnavailable
	}
	ctx, err := backend.NewContext()
	if err != nil {
		return nil, errors.Wrap(err, "creating device context")
	}
	queue, err := ctx.NewQueue(cl.QueueProps{Profiling: true})
	if err != nil {
		_ = ctx.Close()
		return nil, errors.Wrap(err, "creating command queue")
	}
	return &session{ctx: ctx, queue: queue, device: ctx.Device()}, nil
}

func (s *session) close() error {
	var first error
	if s.queue != nil {
		first = s.queue.Close()
		s.queue = nil
	}
	if s.ctx != nil {
		if err := s.ctx.Close(); err != nil && first == nil {
			first = err
		}
		s.ctx = nil
	}
	return first
}

// eventSpan accumulates the first and last events of a launch chain.
// The device-side window between them is the pure duration; the events
// in between only exist to express completion ordering.
type eventSpan struct {
	first, last cl.Event
}

func (sp *eventSpan) push(ev cl.Event) {
	if sp.first == nil {
		sp.first = ev
	}
	sp.last = ev
}

func (sp eventSpan) pure() (time.Duration, error) {
	head, err := sp.first.Profile()
	if err != nil {
		return 0, err
	}
	tail, err := sp.last.Profile()
	if err != nil {
		return 0, err
	}
	return tail.End.Sub(head.Start), nil
}

// runOn is the sole host/device transfer point for the accelerator
// sorters: it stages seq into a fresh device buffer, lets enqueue
// submit launches against that buffer, blocks until the final event
// completes, and copies the buffer back into seq. The buffer lives for
// exactly one call.
func runOn[T Element](s *session, seq []T, enqueue func(buf cl.Buffer) (eventSpan, error)) (eventSpan, error) {
	buf, err := s.ctx.NewBuffer(cl.DTypeOf[T](), len(seq))
	if err != nil {
		return eventSpan{}, errors.Wrap(err, "allocating device buffer")
	}
	defer buf.Close()
	if err := buf.Upload(seq); err != nil {
		return eventSpan{}, errors.Wrap(err, "copying sequence to device")
	}
	span, err := enqueue(buf)
	if err != nil {
		return eventSpan{}, err
	}
	if span.last != nil {
		if err := span.last.Wait(); err != nil {
			return eventSpan{}, errors.Wrap(err, "waiting for device completion")
		}
	}
	if err := buf.Download(seq); err != nil {
		return eventSpan{}, errors.Wrap(err, "copying sequence from device")
	}
	return span, nil
}

// fillProfile populates info from the wall-clock start of the call and
// the launch chain's device span.
func fillProfile(info *ProfilingInfo, wallStart time.Time, span eventSpan) error {
	if info == nil {
		return nil
	}
	pure, err := span.pure()
	if err != nil {
		return err
	}
	info.Wall = time.Since(wallStart)
	info.Pure = pure
	return nil
}
