package geom

import "errors"

// Precondition failures shared by the kernel packages. Callers match them
// with errors.Is; packages wrap them with positional context.
var (
	// ErrDegenerateEdge is returned when an edge has zero length, which
	// happens when a contour repeats a point consecutively.
	ErrDegenerateEdge = errors.New("degenerate edge: zero-length edge")

	// ErrDegenerateBisector is returned when the two unit edge vectors at a
	// vertex are anti-parallel and the bisector has no direction.
	ErrDegenerateBisector = errors.New("degenerate bisector: incident edges are anti-parallel")

	// ErrLengthMismatch is returned when two index-aligned point sequences
	// differ in length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrTooFewPoints is returned for contours with fewer than three points.
	ErrTooFewPoints = errors.New("contour needs at least 3 points")
)
