// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Lofts are built from two
// 2D polygon SDFs and meshed with marching cubes, which rounds the result
// to the sampling grid; use the faceted kernel for exact faces.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/geom"
	"github.com/chazu/polyshrink/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s     sdf.SDF3
	color string
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel with the default mesh resolution.
func New() *SdfxKernel {
	return &SdfxKernel{cells: defaultMeshCells}
}

// NewWithCells returns a kernel that meshes with the given number of
// marching cubes cells along the longest bounding box axis.
func NewWithCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// unwrap extracts the underlying sdfx solid from a kernel.Solid.
func unwrap(s kernel.Solid) (*sdfxSolid, error) {
	w, ok := s.(*sdfxSolid)
	if !ok {
		return nil, fmt.Errorf("sdfx: unsupported solid type %T", s)
	}
	return w, nil
}

func toV2(c contour.Contour) []v2.Vec {
	out := make([]v2.Vec, len(c))
	for i, p := range c {
		out[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	return out
}

// Loft blends the polygon SDF of base into the polygon SDF of top over
// height. sdf.Loft3D centers the solid on z=0, so it is shifted up by half
// the height to put the base at the origin plane.
func (k *SdfxKernel) Loft(base, top contour.Contour, height float64, color string) (kernel.Solid, error) {
	if len(base) != len(top) {
		return nil, fmt.Errorf("sdfx: loft: %w: base has %d points, top has %d",
			geom.ErrLengthMismatch, len(base), len(top))
	}
	if len(base) < 3 {
		return nil, fmt.Errorf("sdfx: loft: %w (got %d)", geom.ErrTooFewPoints, len(base))
	}

	base, top = taper(base, top), taper(top, base)

	s0, err := sdf.Polygon2D(toV2(base))
	if err != nil {
		return nil, fmt.Errorf("sdfx: base polygon: %w", err)
	}
	s1, err := sdf.Polygon2D(toV2(top))
	if err != nil {
		return nil, fmt.Errorf("sdfx: top polygon: %w", err)
	}

	s, err := sdf.Loft3D(s0, s1, height, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: loft: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{Z: height / 2})
	return &sdfxSolid{s: sdf.Transform3D(s, m), color: color}, nil
}

// apexScale is how far a collapsed ring is pulled back toward its partner.
const apexScale = 1e-2

// taper returns ring unchanged unless it has collapsed to (nearly) a point
// or a segment, which leaves sdf.Polygon2D with zero length edges and an
// empty mesh. A collapsed ring is moved a small fraction of the way toward
// other so the loft ends in a small cap instead.
func taper(ring, other contour.Contour) contour.Contour {
	if ring.Area() > 1e-9*other.Area() {
		return ring
	}
	out := make(contour.Contour, len(ring))
	for i, p := range ring {
		out[i] = p.Add(other[i].Sub(p).Scale(apexScale))
	}
	return out
}

// Translate moves a solid by (x, y, z). Solids from other kernels are
// returned unchanged.
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	w, err := unwrap(s)
	if err != nil {
		return s
	}
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return &sdfxSolid{s: sdf.Transform3D(w.s, m), color: w.color}
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	w, err := unwrap(s)
	if err != nil {
		return nil, err
	}

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(w.s, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		Color:    w.color,
	}, nil
}
