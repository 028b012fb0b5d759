package shmchannel

import "errors"

// Public API errors - stable contract for callers.
var (
	// ErrUnavailable indicates shared memory is not supported on this
	// platform. Callers must fall back to direct byte passing.
	ErrUnavailable = errors.New("shmchannel: shared memory unavailable on this platform")

	// ErrSizeExceeded indicates Publish was called with more bytes than
	// the segment can hold.
	ErrSizeExceeded = errors.New("shmchannel: payload exceeds segment size")

	// ErrDestroyed indicates an operation on a segment that has already
	// been destroyed.
	ErrDestroyed = errors.New("shmchannel: segment already destroyed")
)

// Create allocates a named shared memory segment of the given size and
// returns its owning handle.
//
// The name must be unique per process lifetime; receivers in other
// execution contexts attach to it with Attach(name, size).
//
// Returns ErrUnavailable when the platform has no shared memory support.
func Create(name string, size int) (*Segment, error) {
	return create(name, size)
}

// Attach opens an existing segment read-only.
//
// The returned View borrows the segment: it can read but never destroy.
// Callers must Detach() when done. Attaching to a segment that does not
// exist (or was destroyed) returns an error.
func Attach(name string, size int) (*View, error) {
	return attach(name, size)
}
