package contour

import (
	"math"

	"github.com/chazu/polyshrink/pkg/geom"
)

// Contour is an ordered, implicitly closed sequence of points: the last
// point connects back to the first. A well-formed contour has at least
// three points and no explicit closing duplicate.
type Contour []geom.Vec2

// Len returns the number of vertices.
func (c Contour) Len() int {
	return len(c)
}

// At returns the vertex at index i, wrapping around in both directions.
func (c Contour) At(i int) geom.Vec2 {
	n := len(c)
	return c[((i%n)+n)%n]
}

// Edge returns the endpoints of edge i, running from vertex i to i+1.
func (c Contour) Edge(i int) (geom.Vec2, geom.Vec2) {
	return c.At(i), c.At(i + 1)
}

// Clone returns a copy that shares no storage with c.
func (c Contour) Clone() Contour {
	if c == nil {
		return nil
	}
	out := make(Contour, len(c))
	copy(out, c)
	return out
}

// SignedArea returns the shoelace area. Positive for counter-clockwise
// winding, negative for clockwise.
func (c Contour) SignedArea() float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return area / 2
}

// Area returns the unsigned area.
func (c Contour) Area() float64 {
	return math.Abs(c.SignedArea())
}

// IsCounterClockwise reports whether the vertices wind counter-clockwise.
func (c Contour) IsCounterClockwise() bool {
	return c.SignedArea() > 0
}

// Reverse returns the contour with its vertex order inverted.
func (c Contour) Reverse() Contour {
	n := len(c)
	rev := make(Contour, n)
	for i, v := range c {
		rev[n-1-i] = v
	}
	return rev
}

// EnsureCCW returns c unchanged if it winds counter-clockwise, otherwise
// its reversal.
func (c Contour) EnsureCCW() Contour {
	if c.SignedArea() < 0 {
		return c.Reverse()
	}
	return c
}

// Perimeter returns the total edge length.
func (c Contour) Perimeter() float64 {
	total := 0.0
	for i := range c {
		a, b := c.Edge(i)
		total += a.Distance(b)
	}
	return total
}

// Bounds returns the axis-aligned bounding box. Both corners are zero for
// an empty contour.
func (c Contour) Bounds() (min, max geom.Vec2) {
	if len(c) == 0 {
		return geom.Vec2{}, geom.Vec2{}
	}
	min, max = c[0], c[0]
	for _, p := range c[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Translate returns c moved by d.
func (c Contour) Translate(d geom.Vec2) Contour {
	out := make(Contour, len(c))
	for i, p := range c {
		out[i] = p.Add(d)
	}
	return out
}

// Contains reports whether v is one of the contour's vertices, within tol.
func (c Contour) Contains(v geom.Vec2, tol float64) bool {
	for _, p := range c {
		if p.ApproxEqual(v, tol) {
			return true
		}
	}
	return false
}
