// Package faceted implements kernel.Kernel with exact prism faces: the
// base and top contours become the bottom and top rings of a
// kernel.Prism and the mesh is produced by triangulating its faces.
package faceted

import (
	"fmt"

	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/geom"
	"github.com/chazu/polyshrink/pkg/kernel"
	"github.com/chazu/polyshrink/pkg/tessellate"
)

// Compile-time interface check.
var _ kernel.Kernel = (*FacetedKernel)(nil)

// FacetedKernel implements kernel.Kernel using kernel.BuildSolid.
type FacetedKernel struct{}

// New returns a new FacetedKernel.
func New() *FacetedKernel {
	return &FacetedKernel{}
}

// unwrap extracts the prism from a kernel.Solid.
func unwrap(s kernel.Solid) (*kernel.Prism, error) {
	p, ok := s.(*kernel.Prism)
	if !ok {
		return nil, fmt.Errorf("faceted: unsupported solid type %T", s)
	}
	return p, nil
}

// Loft builds the prism joining base at z=0 to top at z=height.
func (k *FacetedKernel) Loft(base, top contour.Contour, height float64, color string) (kernel.Solid, error) {
	return kernel.BuildSolid(kernel.Lift(base, 0), kernel.Lift(top, height), color)
}

// Translate moves a prism by (x, y, z). Solids from other kernels are
// returned unchanged.
func (k *FacetedKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	p, err := unwrap(s)
	if err != nil {
		return s
	}
	return p.Translate(geom.Vec3{X: x, Y: y, Z: z})
}

// ToMesh triangulates the prism faces.
func (k *FacetedKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	p, err := unwrap(s)
	if err != nil {
		return nil, err
	}
	return tessellate.Triangulate(p)
}
