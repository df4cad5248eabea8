// Package skeleton models the straight-skeleton collaborator as a
// capability interface, so the exact skeleton computed elsewhere and the
// bisector approximation can be swapped or compared.
package skeleton

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/geom"
)

// LeafScale converts the source-to-leaf distance of an arc into the inset
// distance reported for it.
const LeafScale = 0.707106781186

// Arc is one skeleton node: a source point reached at Height, connected to
// each of its sinks.
type Arc struct {
	Source geom.Vec2   `json:"source"`
	Height float64     `json:"height"`
	Sinks  []geom.Vec2 `json:"sinks"`
}

func (a Arc) String() string {
	return fmt.Sprintf("Arc(source=%v, height=%g, sinks=%v)", a.Source, a.Height, a.Sinks)
}

// Computer computes the skeleton of an outline with optional holes.
type Computer interface {
	ComputeSkeleton(ctx context.Context, outline contour.Contour, holes []contour.Contour) ([]Arc, error)
}

// ComputerFunc adapts a plain function to the Computer interface.
type ComputerFunc func(ctx context.Context, outline contour.Contour, holes []contour.Contour) ([]Arc, error)

// ComputeSkeleton calls f.
func (f ComputerFunc) ComputeSkeleton(ctx context.Context, outline contour.Contour, holes []contour.Contour) ([]Arc, error) {
	return f(ctx, outline, holes)
}

// ErrHolesUnsupported is returned by computers that only handle a bare
// outline.
var ErrHolesUnsupported = errors.New("skeleton: holes are not supported")

// IsLeaf reports whether sink is a vertex of the outline.
func IsLeaf(sink geom.Vec2, outline contour.Contour) bool {
	return outline.Contains(sink, 1e-9)
}

// MinLeaf returns the smallest scaled source-to-leaf distance over all
// arcs, and false when no arc reaches an outline vertex.
func MinLeaf(arcs []Arc, outline contour.Contour) (float64, bool) {
	min := math.Inf(1)
	found := false
	for _, a := range arcs {
		for _, s := range a.Sinks {
			if !IsLeaf(s, outline) {
				continue
			}
			d := a.Source.Distance(s) * LeafScale
			if d < min {
				min = d
			}
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return min, true
}
