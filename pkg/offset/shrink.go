package offset

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/chazu/polyshrink/pkg/contour"
)

// StopReason explains why Shrink stopped iterating.
type StopReason int

const (
	StopMaxIter    StopReason = iota // iteration budget exhausted
	StopFlipped                      // the next offset would flip an edge
	StopDegenerate                   // the next offset hit a degenerate vertex
)

func (r StopReason) String() string {
	switch r {
	case StopMaxIter:
		return "max-iterations"
	case StopFlipped:
		return "flipped"
	case StopDegenerate:
		return "degenerate"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// Sequence is the result of Shrink: successive offsets of the source
// contour, innermost last, none of them flipped.
type Sequence struct {
	Contours []contour.Contour
	Stop     StopReason
}

// Last returns the innermost contour, or nil if no offset succeeded.
func (s Sequence) Last() contour.Contour {
	if len(s.Contours) == 0 {
		return nil
	}
	return s.Contours[len(s.Contours)-1]
}

// Shrink offsets p by step repeatedly, each iteration starting from the
// previous result. It stops before the first offset that flips relative
// to its predecessor, before the first degenerate offset, or after maxIter
// iterations.
//
// An error is returned only when p itself cannot be offset.
func Shrink(p contour.Contour, step float64, maxIter int, opts ...Option) (Sequence, error) {
	o := newOptions(opts)
	var seq Sequence

	cur := p
	for i := 0; i < maxIter; i++ {
		next, err := Contour(cur, step, opts...)
		if err != nil {
			if i == 0 {
				return Sequence{}, err
			}
			o.logger.Debug("shrink stopped", slog.Int("iteration", i), slog.Any("err", err))
			seq.Stop = StopDegenerate
			return seq, nil
		}
		flipped, err := HasFlipped(cur, next)
		if err != nil {
			return Sequence{}, err
		}
		if flipped {
			o.logger.Info("shrink stopped at flip", slog.Int("iteration", i))
			seq.Stop = StopFlipped
			return seq, nil
		}
		seq.Contours = append(seq.Contours, next)
		cur = next
	}
	seq.Stop = StopMaxIter
	return seq, nil
}

// ErrNoSafeStep is returned by SafeStep when even the smallest allowed step
// flips the contour.
var ErrNoSafeStep = errors.New("offset: no step above the minimum avoids a flip")

// SafeStep offsets p by step and, while the result flips, halves the step
// and retries. It returns the offset contour and the step that produced
// it. Steps are never reduced below minStep in magnitude.
func SafeStep(p contour.Contour, step, minStep float64, opts ...Option) (contour.Contour, float64, error) {
	o := newOptions(opts)
	if minStep <= 0 {
		return nil, 0, fmt.Errorf("offset: minimum step must be positive, got %g", minStep)
	}

	for s := step; math.Abs(s) >= minStep; s /= 2 {
		q, err := Contour(p, s, opts...)
		if err != nil {
			return nil, 0, err
		}
		flipped, err := HasFlipped(p, q)
		if err != nil {
			return nil, 0, err
		}
		if !flipped {
			return q, s, nil
		}
		o.logger.Info("offset flipped, halving step", slog.Float64("step", s))
	}
	return nil, 0, fmt.Errorf("%w (step %g, minimum %g)", ErrNoSafeStep, step, minStep)
}
