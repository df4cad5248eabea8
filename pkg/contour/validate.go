package contour

import (
	"fmt"

	"github.com/chazu/polyshrink/pkg/geom"
)

// Severity indicates whether a validation finding blocks the offset kernel
// or is merely informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks offsetting
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Validation codes.
const (
	CodeTooFewPoints   = "TOO_FEW_POINTS"
	CodeNonFinite      = "NON_FINITE"
	CodeDuplicatePoint = "DUPLICATE_POINT"
	CodeClosingPoint   = "EXPLICIT_CLOSING_POINT"
	CodeClockwise      = "CLOCKWISE"
	CodeCollinear      = "COLLINEAR"
	CodeZeroArea       = "ZERO_AREA"
)

// vertexLevel marks findings that apply to the whole contour.
const vertexLevel = -1

// ValidationError describes a single validation finding.
type ValidationError struct {
	Code     string
	Index    int // vertex index, or -1 for contour-level findings
	Message  string
	Severity Severity
}

func (e ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s at vertex %d: %s", e.Severity, e.Code, e.Index, e.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Err returns the first blocking error, or nil.
func (r ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Validate runs the structural tier (blocking errors) followed by the
// geometric tier (warnings). It never mutates c.
func Validate(c Contour) ValidationResult {
	var result ValidationResult

	result.Errors = append(result.Errors, validateStructure(c)...)
	if len(result.Errors) > 0 {
		// Geometric checks assume a structurally sound contour.
		return result
	}
	result.Warnings = append(result.Warnings, validateGeometry(c)...)
	return result
}

// ---------------------------------------------------------------------------
// Tier 1: Structural validation
// ---------------------------------------------------------------------------

func validateStructure(c Contour) []ValidationError {
	var errs []ValidationError

	if len(c) < 3 {
		errs = append(errs, ValidationError{
			Code:     CodeTooFewPoints,
			Index:    vertexLevel,
			Message:  fmt.Sprintf("contour has %d points, need at least 3", len(c)),
			Severity: SeverityError,
		})
		return errs
	}

	for i, p := range c {
		if !p.IsFinite() {
			errs = append(errs, ValidationError{
				Code:     CodeNonFinite,
				Index:    i,
				Message:  fmt.Sprintf("coordinate %v is not finite", p),
				Severity: SeverityError,
			})
		}
	}

	last := len(c) - 1
	for i := 0; i < last; i++ {
		if c[i] == c[i+1] {
			errs = append(errs, ValidationError{
				Code:     CodeDuplicatePoint,
				Index:    i + 1,
				Message:  fmt.Sprintf("point %v repeats the previous vertex", c[i+1]),
				Severity: SeverityError,
			})
		}
	}
	if c[last] == c[0] {
		errs = append(errs, ValidationError{
			Code:     CodeClosingPoint,
			Index:    last,
			Message:  "contour is implicitly closed; drop the repeated first point",
			Severity: SeverityError,
		})
	}

	return errs
}

// ---------------------------------------------------------------------------
// Tier 2: Geometric validation (warnings)
// ---------------------------------------------------------------------------

func validateGeometry(c Contour) []ValidationError {
	var warnings []ValidationError

	area := c.SignedArea()
	switch {
	case area == 0:
		warnings = append(warnings, ValidationError{
			Code:     CodeZeroArea,
			Index:    vertexLevel,
			Message:  "contour encloses no area",
			Severity: SeverityWarning,
		})
	case area < 0:
		warnings = append(warnings, ValidationError{
			Code:     CodeClockwise,
			Index:    vertexLevel,
			Message:  fmt.Sprintf("contour winds clockwise (signed area %.4f); offsets will point outward", area),
			Severity: SeverityWarning,
		})
	}

	for i := range c {
		prev, cur, next := c.At(i-1), c[i], c.At(i+1)
		if geom.Orient(prev, cur, next) != 0 {
			continue
		}
		// Collinear straight-through vertices have anti-parallel edges.
		if prev.Sub(cur).Dot(next.Sub(cur)) < 0 {
			warnings = append(warnings, ValidationError{
				Code:     CodeCollinear,
				Index:    i,
				Message:  "vertex lies on a straight run; its bisector is undefined",
				Severity: SeverityWarning,
			})
		}
	}

	return warnings
}
