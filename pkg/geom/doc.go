// Package geom provides the small vector value types used by the
// polyshrink geometry kernel, together with the orientation predicate
// that classifies vertex turns.
//
// Vectors are plain values: every operation returns a new vector and
// nothing is mutated in place.
package geom
