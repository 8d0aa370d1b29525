package cl

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Version identifies a backend platform version.
type Version struct {
	Major, Minor int
}

// AtLeast reports whether v satisfies the minimum version min.
func (v Version) AtLeast(min Version) bool {
	if v.Major != min.Major {
		return v.Major > min.Major
	}
	return v.Minor >= min.Minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// BackendInfo describes a backend implementation.
type BackendInfo struct {
	Name        string
	Description string
	Platform    Version
}

// DeviceInfo describes the compute device behind a context.
type DeviceInfo struct {
	Name     string
	Vendor   string
	Driver   string
	Features []string
}

// Backend is implemented by compute backends. It is responsible for
// availability reporting and context creation.
type Backend interface {
	Info() BackendInfo
	Available() bool
	NewContext() (Context, error)
}

// Context is a backend-specific execution context tied to a device.
// It owns program compilation and buffer allocation.
type Context interface {
	Device() DeviceInfo
	NewQueue(props QueueProps) (Queue, error)
	NewBuffer(dt DType, n int) (Buffer, error)
	BuildProgram(src Source) (Program, error)
	Close() error
}

// QueueProps configures command-queue creation.
type QueueProps struct {
	// Profiling enables per-launch device timestamps on events.
	Profiling bool
}

// Queue is an in-order command queue.
type Queue interface {
	// Finish blocks until every submitted operation has completed.
	Finish() error
	Close() error
}

// Buffer is a device-memory region holding a fixed number of elements
// of one DType.
type Buffer interface {
	Len() int
	DType() DType
	// Upload copies from host to device. src must be a slice of the
	// buffer's element type with at least Len elements.
	Upload(src any) error
	// Download copies from device to host into dst.
	Download(dst any) error
	Close() error
}

// Source is a compute program in two equivalent forms: kernel source
// text for devices that compile source, and host-executable entry
// points for the in-process backend. Both are generated together by the
// code that owns the kernel.
type Source struct {
	Text    string
	Entries map[string]KernelFunc
}

// KernelFunc is the host-executable form of a kernel entry point. It is
// invoked once per work-item; buffer arguments arrive as their backing
// slices.
type KernelFunc func(it *Item, args []any)

// Program is a compiled program, immutable once built.
type Program interface {
	Kernel(entry string) (Kernel, error)
	Close() error
}

// Range describes the iteration space of one launch.
type Range struct {
	// Global is the total number of work-items.
	Global int
	// Local is the work-group size. Local must divide Global; zero
	// lets the backend choose (the host backend uses size-1 groups,
	// so kernels relying on group barriers must set Local).
	Local int
	// Wait lists events that must complete before the launch runs.
	Wait []Event
}

// Kernel is an entry point of a compiled program.
type Kernel interface {
	Launch(q Queue, r Range, args ...any) (Event, error)
}

// Span is the device-side execution window of one launch.
type Span struct {
	Start, End time.Time
}

// Event tracks one submitted operation.
type Event interface {
	// Wait blocks until the operation has completed.
	Wait() error
	// Profile returns the device timestamps of the operation. It
	// fails unless the queue was created with profiling enabled.
	Profile() (Span, error)
}

var (
	registryMu sync.RWMutex
	registry   []Backend
)

// Register adds a backend to the selection registry. Backends register
// during package initialization or explicitly (device stubs).
func Register(b Backend) {
	registryMu.Lock()
	registry = append(registry, b)
	registryMu.Unlock()
}

// Backends returns the registered backends in registration order.
func Backends() []Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Backend, len(registry))
	copy(out, registry)
	return out
}

// Select returns the first available registered backend whose platform
// version satisfies min.
func Select(min Version) (Backend, error) {
	for _, b := range Backends() {
		if !b.Available() {
			continue
		}
		info := b.Info()
		if !info.Platform.AtLeast(min) {
			continue
		}
		klog.V(1).Infof("cl: selected backend %q (platform %s)", info.Name, info.Platform)
		return b, nil
	}
	return nil, errors.Wrapf(ErrNoBackend, "no available backend with platform >= %s", min)
}
