package kernel

import (
	"fmt"
	"math"

	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/geom"
)

// Face is a planar polygon given as indices into Prism.Vertices.
type Face []int

// Prism is the closed solid joining a base ring to a top ring of the same
// length. Vertices holds the base ring followed by the top ring. Faces
// holds the bottom ring, the top ring and one quad per ring edge.
type Prism struct {
	Vertices []geom.Vec3
	Faces    []Face
	Color    string
}

var _ Solid = (*Prism)(nil)

// RingSize returns the number of vertices in each ring.
func (p *Prism) RingSize() int {
	return len(p.Vertices) / 2
}

// Base returns the bottom ring.
func (p *Prism) Base() []geom.Vec3 {
	return p.Vertices[:p.RingSize()]
}

// Top returns the top ring.
func (p *Prism) Top() []geom.Vec3 {
	return p.Vertices[p.RingSize():]
}

// FacePoints resolves the vertex indices of face i.
func (p *Prism) FacePoints(i int) []geom.Vec3 {
	f := p.Faces[i]
	pts := make([]geom.Vec3, len(f))
	for j, idx := range f {
		pts[j] = p.Vertices[idx]
	}
	return pts
}

// BoundingBox returns the axis-aligned bounding box.
func (p *Prism) BoundingBox() (min, max [3]float64) {
	min = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range p.Vertices {
		min[0], max[0] = math.Min(min[0], v.X), math.Max(max[0], v.X)
		min[1], max[1] = math.Min(min[1], v.Y), math.Max(max[1], v.Y)
		min[2], max[2] = math.Min(min[2], v.Z), math.Max(max[2], v.Z)
	}
	return min, max
}

// Translate returns a copy of p moved by d. Faces are shared.
func (p *Prism) Translate(d geom.Vec3) *Prism {
	out := &Prism{
		Vertices: make([]geom.Vec3, len(p.Vertices)),
		Faces:    p.Faces,
		Color:    p.Color,
	}
	for i, v := range p.Vertices {
		out.Vertices[i] = v.Add(d)
	}
	return out
}

// BuildSolid constructs the prism joining base to top. The rings must have
// the same length and index correspondence. The solid has N+2 faces for
// N-vertex rings: bottom ring, top ring, and for each i the quad
// (base[i], base[i+1], top[i+1], top[i]).
//
// The rings are assumed to be planar polygons of the same winding. Quads
// are not checked for degeneracy: a flipped top ring yields a
// self-intersecting solid without any diagnostic.
func BuildSolid(base, top []geom.Vec3, color string) (*Prism, error) {
	if len(base) != len(top) {
		return nil, fmt.Errorf("kernel: build solid: %w: base ring has %d points, top ring has %d",
			geom.ErrLengthMismatch, len(base), len(top))
	}
	n := len(base)
	if n < 3 {
		return nil, fmt.Errorf("kernel: build solid: %w (got %d)", geom.ErrTooFewPoints, n)
	}

	vertices := make([]geom.Vec3, 0, 2*n)
	vertices = append(vertices, base...)
	vertices = append(vertices, top...)

	bottom := make(Face, n)
	upper := make(Face, n)
	for i := 0; i < n; i++ {
		bottom[i] = i
		upper[i] = n + i
	}

	faces := make([]Face, 0, n+2)
	faces = append(faces, bottom, upper)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		faces = append(faces, Face{i, j, n + j, n + i})
	}

	return &Prism{Vertices: vertices, Faces: faces, Color: color}, nil
}

// Lift places every point of c at height z.
func Lift(c contour.Contour, z float64) []geom.Vec3 {
	out := make([]geom.Vec3, len(c))
	for i, p := range c {
		out[i] = p.Lift(z)
	}
	return out
}
