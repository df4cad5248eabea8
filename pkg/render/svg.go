package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/chazu/polyshrink/pkg/contour"
)

// SVG renders scenes as SVG documents.
type SVG struct{}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// Render writes s as an SVG document to w.
func (SVG) Render(w io.Writer, s Scene) error {
	ew := &errWriter{w: w}
	width, height := s.size()

	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")

	for _, c := range s.Contours {
		svgPolygon(canvas, c, ContourColor)
	}
	for _, c := range s.Offsets {
		svgPolygon(canvas, c, OffsetColor)
	}
	for _, a := range s.Arcs {
		for i, sink := range a.Sinks {
			canvas.Line(px(a.Source.X), px(a.Source.Y), px(sink.X), px(sink.Y),
				fmt.Sprintf("stroke:%s;stroke-width:1", s.arcColor(a, i)))
		}
	}

	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("render: svg: %w", ew.err)
	}
	return nil
}

func svgPolygon(canvas *svg.SVG, c contour.Contour, color string) {
	if len(c) == 0 {
		return
	}
	xs := make([]int, len(c))
	ys := make([]int, len(c))
	for i, p := range c {
		xs[i], ys[i] = px(p.X), px(p.Y)
	}
	canvas.Polygon(xs, ys, fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", color))
}

func px(f float64) int {
	return int(math.Round(f))
}
