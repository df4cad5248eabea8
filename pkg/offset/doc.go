// Package offset implements the bisector offset engine and the flip
// detector.
//
// Contour displaces every vertex of a closed contour along the sum of the
// unit vectors of its two incident edges. This approximates one step of a
// straight skeleton without modelling edge-collapse events: each vertex
// only looks at its two neighbours. HasFlipped is the companion diagnostic
// that tells a caller the step was too large for the local geometry.
package offset
