package geom

// Orient returns twice the signed area of the triangle a, b, c.
// Positive for a counter-clockwise turn, negative for clockwise and zero
// when the points are collinear.
func Orient(a, b, c Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// NotClockwise reports whether the turn a -> b -> c is not strictly
// clockwise. Collinear points count as not clockwise.
func NotClockwise(a, b, c Vec2) bool {
	return Orient(a, b, c) >= 0
}
