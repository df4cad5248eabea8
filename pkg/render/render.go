// Package render draws contours, offset contours and skeleton arcs onto a
// 2D canvas. Coordinates are used as pixels with y growing downward.
package render

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/skeleton"
)

// canvasPadding is added to the largest coordinate on each axis.
const canvasPadding = 100

// Colors used for each kind of stroke.
const (
	ContourColor = "#000000"
	OffsetColor  = "#2ECC71"
	LeafColor    = "#0000FF"
	ArcColor     = "#FF0000"
)

// Scene is everything a renderer draws.
type Scene struct {
	// Contours are the source outline and holes.
	Contours []contour.Contour
	// Offsets are drawn after the contours, innermost last.
	Offsets []contour.Contour
	// Arcs are skeleton arcs; arcs ending on Outline vertices are leaves.
	Arcs    []skeleton.Arc
	Outline contour.Contour
	// Width and Height default to CanvasSize when zero.
	Width, Height int
}

// Renderer writes a drawing of a scene.
type Renderer interface {
	Render(w io.Writer, s Scene) error
}

// CanvasSize returns a canvas just large enough for every contour plus
// padding.
func CanvasSize(contours ...contour.Contour) (width, height int) {
	maxX, maxY := 0.0, 0.0
	for _, c := range contours {
		_, max := c.Bounds()
		maxX = math.Max(maxX, max.X)
		maxY = math.Max(maxY, max.Y)
	}
	return int(maxX + canvasPadding), int(maxY + canvasPadding)
}

func (s Scene) size() (int, int) {
	if s.Width > 0 && s.Height > 0 {
		return s.Width, s.Height
	}
	return CanvasSize(s.Contours...)
}

func (s Scene) arcColor(a skeleton.Arc, sinkIdx int) string {
	if skeleton.IsLeaf(a.Sinks[sinkIdx], s.Outline) {
		return LeafColor
	}
	return ArcColor
}

// ForPath picks a renderer from the file extension of path.
func ForPath(path string) (Renderer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return SVG{}, nil
	case ".png":
		return PNG{}, nil
	default:
		return nil, fmt.Errorf("render: no renderer for %q (want .svg or .png)", path)
	}
}
