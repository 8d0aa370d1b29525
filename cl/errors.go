package cl

import "errors"

var (
	// ErrNoBackend is returned when no registered backend satisfies a
	// selection request.
	ErrNoBackend = errors.New("cl: no suitable backend registered")

	// ErrBackendUnavailable is returned when a backend is registered
	// but cannot run on the current system.
	ErrBackendUnavailable = errors.New("cl: backend unavailable")

	// ErrBuildFailure is returned when a program cannot be built.
	ErrBuildFailure = errors.New("cl: program build failed")

	// ErrNoKernel is returned when a program has no entry point with
	// the requested name.
	ErrNoKernel = errors.New("cl: no such kernel entry point")

	// ErrTypeMismatch is returned when a host slice does not match a
	// buffer's element type.
	ErrTypeMismatch = errors.New("cl: element type mismatch")

	// ErrLengthMismatch is returned when a host slice is shorter than
	// the buffer it is copied to or from.
	ErrLengthMismatch = errors.New("cl: slice length mismatch")

	// ErrInvalidRange is returned for launch ranges whose work-group
	// size does not divide the global size, or that are empty.
	ErrInvalidRange = errors.New("cl: invalid launch range")

	// ErrNoProfiling is returned by Event.Profile when the command
	// queue was created without profiling.
	ErrNoProfiling = errors.New("cl: queue created without profiling")

	// ErrForeignObject is returned when a queue, buffer or event from
	// another backend is passed to a launch.
	ErrForeignObject = errors.New("cl: object belongs to another backend")
)
