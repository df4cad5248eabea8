// Package contour defines the closed polygon contour used throughout
// polyshrink and the validation tiers that run before a contour reaches
// the offset kernel.
package contour
