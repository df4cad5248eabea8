// Package tessellate turns prism solids into triangle meshes and stacks
// successive offset contours into tiers, one mesh per tier. Ring faces
// are triangulated with earcut because offset contours of a concave
// polygon stay concave.
package tessellate

import (
	"fmt"

	"github.com/rclancey/earcut"

	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/geom"
	"github.com/chazu/polyshrink/pkg/kernel"
)

// Tier is one layer of a stacked solid: base is lofted to top over height.
type Tier struct {
	Name   string
	Base   contour.Contour
	Top    contour.Contour
	Height float64
	Color  string
}

// Tessellate lofts every tier with the given kernel, stacking each tier on
// top of the previous one, and produces one mesh per tier. It never
// mutates the tiers.
func Tessellate(tiers []Tier, k kernel.Kernel) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	z := 0.0

	for i, tier := range tiers {
		name := tier.Name
		if name == "" {
			name = fmt.Sprintf("tier-%d", i)
		}

		solid, err := k.Loft(tier.Base, tier.Top, tier.Height, tier.Color)
		if err != nil {
			return nil, fmt.Errorf("tessellate: loft failed for %s: %w", name, err)
		}
		if z != 0 {
			solid = k.Translate(solid, 0, 0, z)
		}

		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", name, err)
		}
		mesh.PartName = name
		if mesh.Color == "" {
			mesh.Color = tier.Color
		}
		meshes = append(meshes, mesh)
		z += tier.Height
	}

	return meshes, nil
}

// TiersFromSequence builds one tier per consecutive pair in
// src, seq[0], seq[1], ... Each tier is tierHeight tall and cycles through
// palette for its color.
func TiersFromSequence(src contour.Contour, seq []contour.Contour, tierHeight float64, palette []string) []Tier {
	tiers := make([]Tier, 0, len(seq))
	prev := src
	for i, next := range seq {
		t := Tier{
			Name:   fmt.Sprintf("tier-%d", i),
			Base:   prev,
			Top:    next,
			Height: tierHeight,
		}
		if len(palette) > 0 {
			t.Color = palette[i%len(palette)]
		}
		tiers = append(tiers, t)
		prev = next
	}
	return tiers
}

// Triangulate converts a prism into a flat-shaded triangle mesh. The bottom
// ring faces down, the top ring faces up and each side quad is split along
// its (0, 2) diagonal. Triangles of zero area, as produced by a collapsed
// top ring, are dropped.
func Triangulate(p *kernel.Prism) (*kernel.Mesh, error) {
	mesh := &kernel.Mesh{Color: p.Color}

	if err := addRing(mesh, p.Base(), false); err != nil {
		return nil, fmt.Errorf("tessellate: bottom face: %w", err)
	}
	if err := addRing(mesh, p.Top(), true); err != nil {
		return nil, fmt.Errorf("tessellate: top face: %w", err)
	}

	for i, f := range p.Faces {
		if i < 2 {
			continue
		}
		pts := p.FacePoints(i)
		switch {
		case len(f) == 4:
			addTriangle(mesh, pts[0], pts[1], pts[2])
			addTriangle(mesh, pts[0], pts[2], pts[3])
		default:
			return nil, fmt.Errorf("tessellate: face %d has %d vertices, want 4", i, len(f))
		}
	}

	return mesh, nil
}

// addRing triangulates a horizontal ring with earcut and orients every
// triangle so its normal points up (or down).
func addRing(mesh *kernel.Mesh, ring []geom.Vec3, up bool) error {
	coords := make([]float64, 0, len(ring)*2)
	for _, v := range ring {
		coords = append(coords, v.X, v.Y)
	}

	indices, err := earcut.Earcut(coords, nil, 2)
	if err != nil {
		return fmt.Errorf("earcut: %w", err)
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("earcut returned %d indices, not a multiple of 3", len(indices))
	}

	for t := 0; t < len(indices); t += 3 {
		a, b, c := ring[indices[t]], ring[indices[t+1]], ring[indices[t+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		if (n.Z > 0) != up {
			b, c = c, b
		}
		addTriangle(mesh, a, b, c)
	}
	return nil
}

func addTriangle(mesh *kernel.Mesh, a, b, c geom.Vec3) {
	n, err := b.Sub(a).Cross(c.Sub(a)).Normalize()
	if err != nil {
		return
	}
	mesh.AddTriangle(
		[3]float64{a.X, a.Y, a.Z},
		[3]float64{b.X, b.Y, b.Z},
		[3]float64{c.X, c.Y, c.Z},
		[3]float64{n.X, n.Y, n.Z},
	)
}
