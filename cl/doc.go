// Package cl provides a minimal compute-device abstraction for
// offloading data-parallel kernels.
//
// The package defines backend-neutral interfaces for contexts, command
// queues, device buffers, compiled programs and launch events, plus a
// registry from which a backend satisfying a minimum platform version
// can be selected. A host backend that executes kernels in-process is
// always registered; device backends (e.g. OpenCL) register themselves
// behind build tags.
package cl
