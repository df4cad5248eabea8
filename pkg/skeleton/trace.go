package skeleton

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/geom"
	"github.com/chazu/polyshrink/pkg/offset"
)

// mergeTolerance is the distance below which arc sources at the same
// height are treated as one node.
const mergeTolerance = 1e-9

// BisectorTrace approximates the skeleton by shrinking the outline in
// fixed steps and recording the path of every vertex. Each arc runs from
// a vertex's displaced position back to where it was one step earlier;
// vertices that meet at the same point share one arc.
type BisectorTrace struct {
	Step    float64
	MaxIter int
	Logger  *slog.Logger
}

var _ Computer = (*BisectorTrace)(nil)

// ComputeSkeleton traces the outline. Holes are rejected with
// ErrHolesUnsupported.
func (b *BisectorTrace) ComputeSkeleton(ctx context.Context, outline contour.Contour, holes []contour.Contour) ([]Arc, error) {
	if len(holes) > 0 {
		return nil, ErrHolesUnsupported
	}
	if b.Step <= 0 {
		return nil, fmt.Errorf("skeleton: step must be positive, got %g", b.Step)
	}

	var opts []offset.Option
	if b.Logger != nil {
		opts = append(opts, offset.WithLogger(b.Logger))
	}
	seq, err := offset.Shrink(outline, b.Step, b.MaxIter, opts...)
	if err != nil {
		return nil, fmt.Errorf("skeleton: trace: %w", err)
	}

	var arcs []Arc
	prev := outline
	for k, cur := range seq.Contours {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		height := b.Step * float64(k+1)
		arcs = append(arcs, mergeArcs(prev, cur, height)...)
		prev = cur
	}
	return arcs, nil
}

// mergeArcs creates one arc per distinct point of cur, collecting the
// matching points of prev as sinks.
func mergeArcs(prev, cur contour.Contour, height float64) []Arc {
	var arcs []Arc
	for i, src := range cur {
		merged := false
		for j := range arcs {
			if arcs[j].Source.ApproxEqual(src, mergeTolerance) {
				arcs[j].Sinks = appendUnique(arcs[j].Sinks, prev[i])
				merged = true
				break
			}
		}
		if !merged {
			arcs = append(arcs, Arc{Source: src, Height: height, Sinks: []geom.Vec2{prev[i]}})
		}
	}
	return arcs
}

func appendUnique(pts []geom.Vec2, p geom.Vec2) []geom.Vec2 {
	for _, q := range pts {
		if q.ApproxEqual(p, mergeTolerance) {
			return pts
		}
	}
	return append(pts, p)
}
