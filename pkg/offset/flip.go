package offset

import (
	"fmt"

	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/geom"
)

// HasFlipped reports whether any edge of shifted points the opposite way
// from the matching edge of original.
//
// Edge i runs from vertex i to vertex i-1. The edge counts as flipped when
// the per-axis product of the original and offset edge vectors is negative
// on either axis. Offset edges of zero length carry no direction and are
// skipped.
//
// This is a coarse axis-wise heuristic, not a self-intersection test. It
// catches gross over-shrinking, can miss subtler self-intersections, and
// can report a flip for a legitimate offset of a sharp vertex whose edge
// rotates across an axis. Treat a true result as advice to retry with a
// smaller step.
//
// The contours must be index-aligned; a length mismatch fails with
// geom.ErrLengthMismatch.
func HasFlipped(original, shifted contour.Contour) (bool, error) {
	if len(original) != len(shifted) {
		return false, fmt.Errorf("offset: %w: original has %d points, offset has %d",
			geom.ErrLengthMismatch, len(original), len(shifted))
	}
	for i := range original {
		if edgeFlipped(original.At(i-1).Sub(original[i]), shifted.At(i-1).Sub(shifted[i])) {
			return true, nil
		}
	}
	return false, nil
}

// FlippedEdges returns the indices of every flipped edge, using the same
// rule as HasFlipped.
func FlippedEdges(original, shifted contour.Contour) ([]int, error) {
	if len(original) != len(shifted) {
		return nil, fmt.Errorf("offset: %w: original has %d points, offset has %d",
			geom.ErrLengthMismatch, len(original), len(shifted))
	}
	var idx []int
	for i := range original {
		if edgeFlipped(original.At(i-1).Sub(original[i]), shifted.At(i-1).Sub(shifted[i])) {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

func edgeFlipped(e, f geom.Vec2) bool {
	if f.IsZero() {
		return false
	}
	return e.X*f.X < 0 || e.Y*f.Y < 0
}
