package geom

import "errors"

// Error kinds shared by the clipping and discretization packages. Callers
// wrap them with context via fmt.Errorf and test with errors.Is.
var (
	// ErrPrecondition reports an input the algorithms refuse to work on:
	// a non-convex clip boundary, a degenerate ring, a primitive with
	// non-positive dimensions.
	ErrPrecondition = errors.New("geometry precondition violated")

	// ErrInvalidResolution reports a sample grid too coarse along an axis.
	ErrInvalidResolution = errors.New("invalid resolution")

	// ErrIndexOutOfRange reports connectivity that references a point
	// outside the assembled point array.
	ErrIndexOutOfRange = errors.New("connectivity index out of range")

	// ErrDomain reports a parametric evaluation outside [0,1].
	ErrDomain = errors.New("parameter outside normalized domain")

	// ErrInconsistent reports a classification that contradicts the
	// computed geometry, e.g. an edge classified as crossing a clip line
	// that does not intersect it.
	ErrInconsistent = errors.New("inconsistent geometry")
)
