// Package kernel defines the abstract solid-building interface and the
// prism Solid Builder. Implementations (faceted, sdfx) turn a base contour
// and its offset copy into a renderable solid behind this interface, so
// the exact face construction and the SDF loft can be swapped freely.
package kernel

import "github.com/chazu/polyshrink/pkg/contour"

// Solid is an opaque handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract solid-building interface.
type Kernel interface {
	// Loft joins base, lying at z=0, to top, lying at z=height. The two
	// contours are index-aligned; color is passed through to the mesh.
	Loft(base, top contour.Contour, height float64, color string) (Solid, error)

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid

	// ToMesh converts a solid to a flat triangle mesh.
	ToMesh(s Solid) (*Mesh, error)
}
