package render

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"

	"github.com/chazu/polyshrink/pkg/contour"
)

// PNG renders scenes as raster images.
type PNG struct{}

// Render draws s and encodes it as PNG to w.
func (PNG) Render(w io.Writer, s Scene) error {
	width, height := s.size()
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetLineWidth(1)

	for _, c := range s.Contours {
		strokeContour(dc, c, ContourColor)
	}
	for _, c := range s.Offsets {
		strokeContour(dc, c, OffsetColor)
	}
	for _, a := range s.Arcs {
		for i, sink := range a.Sinks {
			dc.DrawLine(a.Source.X, a.Source.Y, sink.X, sink.Y)
			dc.SetHexColor(s.arcColor(a, i))
			dc.Stroke()
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render: png: %w", err)
	}
	return nil
}

func strokeContour(dc *gg.Context, c contour.Contour, color string) {
	if len(c) == 0 {
		return
	}
	dc.MoveTo(c[0].X, c[0].Y)
	for _, p := range c[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
	dc.SetHexColor(color)
	dc.Stroke()
}
