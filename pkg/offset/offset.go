package offset

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/geom"
)

// VertexError reports a precondition failure at a specific vertex.
// Unwrap yields geom.ErrDegenerateEdge or geom.ErrDegenerateBisector.
type VertexError struct {
	Index int
	Point geom.Vec2
	Err   error
}

func (e *VertexError) Error() string {
	return fmt.Sprintf("vertex %d %v: %v", e.Index, e.Point, e.Err)
}

func (e *VertexError) Unwrap() error {
	return e.Err
}

// Contour returns a new contour in which every vertex of p is displaced by
// step along its internal angle bisector. Output index i is the image of
// input index i.
//
// The bisector is the unnormalized sum of the two unit edge vectors, so the
// displacement grows with the sharpness of the vertex: a right angle moves
// by step*sqrt(2). When the turn at a vertex is clockwise the displacement
// is negated so that, for a counter-clockwise contour, every vertex moves
// toward the interior. A negative step offsets outward.
//
// Zero-length incident edges fail with geom.ErrDegenerateEdge and straight
// runs (anti-parallel edges) with geom.ErrDegenerateBisector, both wrapped
// in a *VertexError. The step is never clamped; use HasFlipped to check it.
func Contour(p contour.Contour, step float64, opts ...Option) (contour.Contour, error) {
	if len(p) < 3 {
		return nil, fmt.Errorf("offset: %w (got %d)", geom.ErrTooFewPoints, len(p))
	}
	o := newOptions(opts)

	out := make(contour.Contour, len(p))
	var err error
	if o.workers > 1 && len(p) > o.workers {
		err = displaceParallel(p, step, out, o)
	} else {
		err = displaceRange(p, step, out, 0, len(p), o.logger)
	}
	if err != nil {
		return nil, err
	}

	o.logger.Debug("contour offset", slog.Int("vertices", len(p)), slog.Float64("step", step))
	return out, nil
}

// Displacement returns the offset vector for vertex i of p, without adding
// it to the vertex.
func Displacement(p contour.Contour, i int, step float64) (geom.Vec2, error) {
	prevPt, cur, nextPt := p.At(i-1), p.At(i), p.At(i+1)

	prev, err := prevPt.Sub(cur).Normalize()
	if err != nil {
		return geom.Vec2{}, &VertexError{Index: i, Point: cur, Err: geom.ErrDegenerateEdge}
	}
	next, err := nextPt.Sub(cur).Normalize()
	if err != nil {
		return geom.Vec2{}, &VertexError{Index: i, Point: cur, Err: geom.ErrDegenerateEdge}
	}

	bisector := prev.Add(next)
	if bisector.Len() < BisectorEpsilon {
		return geom.Vec2{}, &VertexError{Index: i, Point: cur, Err: geom.ErrDegenerateBisector}
	}

	d := bisector.Scale(step)
	if !geom.NotClockwise(prevPt, cur, nextPt) {
		d = d.Neg()
	}
	return d, nil
}

// displaceRange fills out[lo:hi]. It stops at the first failing vertex.
func displaceRange(p contour.Contour, step float64, out contour.Contour, lo, hi int, log *slog.Logger) error {
	for i := lo; i < hi; i++ {
		d, err := Displacement(p, i, step)
		if err != nil {
			return fmt.Errorf("offset: %w", err)
		}
		out[i] = p[i].Add(d)
		log.Debug("vertex displaced",
			slog.Int("index", i),
			slog.String("from", p[i].String()),
			slog.String("to", out[i].String()))
	}
	return nil
}

// displaceParallel splits the vertex range into contiguous chunks. When
// several chunks fail, the error from the lowest vertex index wins so the
// result does not depend on scheduling.
func displaceParallel(p contour.Contour, step float64, out contour.Contour, o options) error {
	n := len(p)
	chunk := (n + o.workers - 1) / o.workers
	errs := make([]error, o.workers)

	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		lo := w * chunk
		if lo >= n {
			break
		}
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			errs[w] = displaceRange(p, step, out, lo, hi, o.logger)
		}(w, lo, hi)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
