package engine

import "github.com/chazu/polyshrink/pkg/contour"

// Scene is what a script describes: an outline with optional holes and
// optional overrides for the run parameters.
type Scene struct {
	Outline contour.Contour
	Holes   []contour.Contour
	// Step and Height are nil unless the script set them.
	Step   *float64
	Height *float64
	// Color is the solid color, empty unless set.
	Color string
}

// IsEmpty reports whether the script defined no outline.
func (s *Scene) IsEmpty() bool {
	return s == nil || len(s.Outline) == 0
}
