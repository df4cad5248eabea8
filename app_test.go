package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/polyshrink/pkg/config"
	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/geom"
	"github.com/chazu/polyshrink/pkg/skeleton"
)

const squareScript = `(outline (pt 0 0) (pt 10 0) (pt 10 10) (pt 0 10))`

// testApp returns an App with the default configuration and the given step.
func testApp(step float64) *App {
	cfg := config.Default()
	cfg.Step = step
	return NewApp(cfg, nil)
}

// TestE2ESquareFile exercises the full pipeline: polygon file → offset →
// flip check → solid → mesh → skeleton.
func TestE2ESquareFile(t *testing.T) {
	app := testApp(10)

	in, diags, err := app.LoadFile("examples/square.poly")
	if err != nil {
		t.Fatalf("failed to read square.poly: %v", err)
	}
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if in.Outline[0] != (geom.Vec2{X: 50, Y: 50}) {
		t.Fatalf("expected margin-shifted first vertex (50, 50), got %v", in.Outline[0])
	}

	result := app.Run(context.Background(), in)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("error %s: %s", e.Code, e.Message)
		}
		t.FailNow()
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
	if result.Flipped {
		t.Error("square offset by 10 should not flip")
	}
	if result.Offset[0] != (geom.Vec2{X: 60, Y: 60}) {
		t.Errorf("offset[0] = %v, want (60, 60)", result.Offset[0])
	}

	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	m := result.Meshes[0]
	if m.PartName != "solid" {
		t.Errorf("expected part name 'solid', got %q", m.PartName)
	}
	// 2 bottom + 2 top + 4 quads of 2 triangles.
	if len(m.Indices) != 12*3 {
		t.Errorf("expected 12 triangles, got %d", len(m.Indices)/3)
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals/vertices length mismatch: %d vs %d", len(m.Normals), len(m.Vertices))
	}
	if m.Color != config.Default().Color {
		t.Errorf("expected configured color, got %q", m.Color)
	}

	if !result.HasLeaf {
		t.Fatal("expected a leaf arc")
	}
	if math.Abs(result.MinLeaf-10) > 1e-6 {
		t.Errorf("min leaf = %g, want 10", result.MinLeaf)
	}
}

// TestE2EHexagonScript checks that script overrides win over the config.
func TestE2EHexagonScript(t *testing.T) {
	app := testApp(10)

	in, diags, err := app.LoadFile("examples/hexagon.lisp")
	if err != nil {
		t.Fatalf("failed to read hexagon.lisp: %v", err)
	}
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	result := app.Run(context.Background(), in)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Step != 5 {
		t.Errorf("step = %g, want 5 from the script", result.Step)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	m := result.Meshes[0]
	if m.Color != "#E67E22" {
		t.Errorf("color = %q, want #E67E22", m.Color)
	}
	// 4 + 4 ring triangles, 6 quads of 2.
	if len(m.Indices)/3 != 20 {
		t.Errorf("expected 20 triangles, got %d", len(m.Indices)/3)
	}
	maxZ := float32(0)
	for i := 2; i < len(m.Vertices); i += 3 {
		if m.Vertices[i] > maxZ {
			maxZ = m.Vertices[i]
		}
	}
	if maxZ != 40 {
		t.Errorf("max z = %g, want height 40", maxZ)
	}
}

// TestE2EHolesReachSkeletonOnly checks that holes are reported to the
// skeleton collaborator but never block the offset.
func TestE2EHolesReachSkeletonOnly(t *testing.T) {
	app := testApp(10)

	in, _, err := app.LoadFile("examples/lshape.poly")
	if err != nil {
		t.Fatalf("failed to read lshape.poly: %v", err)
	}
	if len(in.Holes) != 1 {
		t.Fatalf("expected 1 hole, got %d", len(in.Holes))
	}

	result := app.Run(context.Background(), in)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Errorf("expected 1 mesh, got %d", len(result.Meshes))
	}
	found := false
	for _, w := range result.Warnings {
		if w.Code == codeSkeleton {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a %s warning, got %v", codeSkeleton, result.Warnings)
	}
	if result.HasLeaf {
		t.Error("expected no skeleton arcs when holes are unsupported")
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := testApp(1)
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := testApp(1)
	result := app.Evaluate("(outline (pt 0 0)")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if result.Errors[0].Code != codeEval {
		t.Errorf("expected code %s, got %s", codeEval, result.Errors[0].Code)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2EFlipIsWarning ensures an over-large step still produces a solid
// and reports the flip as a warning.
func TestE2EFlipIsWarning(t *testing.T) {
	app := testApp(6)
	result := app.Evaluate(squareScript)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if !result.Flipped {
		t.Fatal("expected square offset by 6 to flip")
	}
	if len(result.Warnings) == 0 || result.Warnings[0].Code != codeFlipped {
		t.Errorf("expected %s warning, got %v", codeFlipped, result.Warnings)
	}
	if len(result.Meshes) != 1 {
		t.Errorf("expected 1 mesh, got %d", len(result.Meshes))
	}
}

// TestE2EAutoReduce ensures the step is halved until the offset is safe.
func TestE2EAutoReduce(t *testing.T) {
	cfg := config.Default()
	cfg.Step = 8
	cfg.AutoReduce = true
	app := NewApp(cfg, nil)

	result := app.Evaluate(squareScript)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Flipped {
		t.Error("auto-reduced offset should not flip")
	}
	if result.Step != 4 {
		t.Errorf("step = %g, want 4", result.Step)
	}
}

// TestE2EVerboseTiers ensures verbose mode lofts one tier per shrink step.
func TestE2EVerboseTiers(t *testing.T) {
	app := testApp(1)
	app.Verbose = true

	result := app.Evaluate(squareScript)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Shrink) != 5 {
		t.Fatalf("expected 5 shrink contours, got %d", len(result.Shrink))
	}
	if len(result.Meshes) != 5 {
		t.Fatalf("expected 5 tier meshes, got %d", len(result.Meshes))
	}
	for i, m := range result.Meshes {
		if m.Color != colorPalette[i] {
			t.Errorf("tier %d color = %q, want %q", i, m.Color, colorPalette[i])
		}
	}
	// The drawing shows every intermediate contour.
	if got := len(result.Drawing().Offsets); got != 5 {
		t.Errorf("expected 5 drawn offsets, got %d", got)
	}
}

// TestE2ECustomSkeleton ensures an injected skeleton collaborator is used.
func TestE2ECustomSkeleton(t *testing.T) {
	app := testApp(1)
	app.SetSkeleton(skeleton.ComputerFunc(func(ctx context.Context, outline contour.Contour, holes []contour.Contour) ([]skeleton.Arc, error) {
		return []skeleton.Arc{{
			Source: geom.Vec2{X: 3, Y: 4},
			Height: 5,
			Sinks:  []geom.Vec2{outline[0]},
		}}, nil
	}))

	result := app.Evaluate(squareScript)
	if len(result.Arcs) != 1 {
		t.Fatalf("expected 1 arc, got %d", len(result.Arcs))
	}
	if !result.HasLeaf {
		t.Fatal("expected a leaf")
	}
	if math.Abs(result.MinLeaf-5*skeleton.LeafScale) > 1e-9 {
		t.Errorf("min leaf = %g, want %g", result.MinLeaf, 5*skeleton.LeafScale)
	}
}

// TestE2ESdfxKernel ensures the SDF backend produces a mesh for the same
// pipeline.
func TestE2ESdfxKernel(t *testing.T) {
	cfg := config.Default()
	cfg.Step = 1
	cfg.Kernel = config.KernelSdfx
	cfg.MeshCells = 40
	app := NewApp(cfg, nil)

	result := app.Evaluate(squareScript)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if len(result.Meshes[0].Indices) == 0 {
		t.Error("expected sdfx mesh to have triangles")
	}
}

func TestWriteJSON(t *testing.T) {
	app := testApp(1)
	result := app.Evaluate(squareScript)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, result); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded struct {
		Meshes  []MeshData   `json:"meshes"`
		Offset  []geom.Vec2  `json:"offset"`
		Step    float64      `json:"step"`
		Errors  []Diagnostic `json:"errors"`
		MinLeaf float64      `json:"minLeaf"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Meshes) != 1 || len(decoded.Offset) != 4 || decoded.Step != 1 {
		t.Errorf("unexpected decoded result: %+v", decoded)
	}
}

func TestWriteDrawing(t *testing.T) {
	app := testApp(1)
	result := app.Evaluate(squareScript)
	dir := t.TempDir()

	for _, name := range []string{"out.svg", "out.png"} {
		path := filepath.Join(dir, name)
		if err := WriteDrawing(path, result); err != nil {
			t.Fatalf("WriteDrawing(%s): %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	if err := WriteDrawing(filepath.Join(dir, "out.gif"), result); err == nil {
		t.Error("expected error for unsupported drawing format")
	}
}
