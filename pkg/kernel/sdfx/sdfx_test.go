package sdfx

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/geom"
	"github.com/chazu/polyshrink/pkg/offset"
)

// testCells keeps marching cubes fast in tests.
const testCells = 64

func square(side float64) contour.Contour {
	return contour.Contour{{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side}}
}

func TestLoftSquare(t *testing.T) {
	k := NewWithCells(testCells)
	top, err := offset.Contour(square(100), 10)
	if err != nil {
		t.Fatalf("offset failed: %v", err)
	}

	s, err := k.Loft(square(100), top, 50, "#9B59B6")
	if err != nil {
		t.Fatalf("Loft failed: %v", err)
	}
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}
	if mesh.Color != "#9B59B6" {
		t.Errorf("Color = %q, want #9B59B6", mesh.Color)
	}
	t.Logf("loft triangle count: %d", triCount)
}

func TestLoftSitsOnOriginPlane(t *testing.T) {
	k := NewWithCells(testCells)
	s, err := k.Loft(square(10), square(10), 20, "")
	if err != nil {
		t.Fatalf("Loft failed: %v", err)
	}
	min, max := s.BoundingBox()
	if math.Abs(min[2]) > 1e-6 {
		t.Errorf("min Z = %f, want 0", min[2])
	}
	if math.Abs(max[2]-20) > 1e-6 {
		t.Errorf("max Z = %f, want 20", max[2])
	}
}

func TestTranslate(t *testing.T) {
	k := NewWithCells(testCells)
	s, err := k.Loft(square(10), square(10), 10, "")
	if err != nil {
		t.Fatalf("Loft failed: %v", err)
	}
	moved := k.Translate(s, 5, 0, 10)
	min, _ := moved.BoundingBox()
	if math.Abs(min[0]-5) > 1e-6 || math.Abs(min[2]-10) > 1e-6 {
		t.Errorf("translated min = %v, want x=5 z=10", min)
	}
}

func TestLoftLengthMismatch(t *testing.T) {
	k := New()
	_, err := k.Loft(square(10), square(10)[:3], 10, "")
	if !errors.Is(err, geom.ErrLengthMismatch) {
		t.Errorf("Loft() error = %v, want ErrLengthMismatch", err)
	}
}

func TestNewWithCellsDefault(t *testing.T) {
	if k := NewWithCells(0); k.cells != defaultMeshCells {
		t.Errorf("cells = %d, want %d", k.cells, defaultMeshCells)
	}
}

func TestLoftCollapsedTop(t *testing.T) {
	k := NewWithCells(testCells)
	// A 10x10 square offset by 5 collapses every vertex onto the center.
	top, err := offset.Contour(square(10), 5)
	if err != nil {
		t.Fatalf("offset failed: %v", err)
	}
	for _, p := range top {
		if !p.ApproxEqual(geom.Vec2{X: 5, Y: 5}, 1e-9) {
			t.Fatalf("expected a collapsed top ring, got %v", top)
		}
	}

	s, err := k.Loft(square(10), top, 10, "")
	if err != nil {
		t.Fatalf("Loft failed: %v", err)
	}
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("collapsed top produced an empty mesh")
	}
	_, max := s.BoundingBox()
	if math.Abs(max[2]-10) > 1e-6 {
		t.Errorf("max Z = %f, want 10", max[2])
	}
}

func TestTaper(t *testing.T) {
	apex := contour.Contour{{X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}}

	got := taper(apex, square(10))
	if got.Area() <= 0 {
		t.Fatalf("tapered ring has no area: %v", got)
	}
	want := geom.Vec2{X: 5 - 5*apexScale, Y: 5 - 5*apexScale}
	if !got[0].ApproxEqual(want, 1e-12) {
		t.Errorf("got[0] = %v, want %v", got[0], want)
	}

	// Rings with area pass through untouched.
	base := square(10)
	kept := taper(base, apex)
	for i := range base {
		if kept[i] != base[i] {
			t.Errorf("kept[%d] = %v, want %v", i, kept[i], base[i])
		}
	}
}
