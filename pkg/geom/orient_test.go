package geom

import "testing"

func TestNotClockwise(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Vec2
		want    bool
	}{
		{"counter-clockwise", Vec2{0, 0}, Vec2{1, 0}, Vec2{1, 1}, true},
		{"clockwise", Vec2{0, 0}, Vec2{1, 0}, Vec2{1, -1}, false},
		{"collinear forward", Vec2{0, 0}, Vec2{1, 0}, Vec2{2, 0}, true},
		{"collinear backtrack", Vec2{0, 0}, Vec2{2, 0}, Vec2{1, 0}, true},
		{"coincident", Vec2{3, 3}, Vec2{3, 3}, Vec2{3, 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NotClockwise(tt.a, tt.b, tt.c); got != tt.want {
				t.Errorf("NotClockwise(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.c, got, tt.want)
			}
		})
	}
}

func TestNotClockwiseReversal(t *testing.T) {
	triples := [][3]Vec2{
		{{0, 0}, {4, 1}, {2, 5}},
		{{-1, -1}, {3, 2}, {0, 7}},
		{{10, 0}, {10, 10}, {0, 10}},
		{{0.5, 0.25}, {0.75, 0.1}, {-3, 2}},
	}
	for _, p := range triples {
		fwd := NotClockwise(p[0], p[1], p[2])
		rev := NotClockwise(p[2], p[1], p[0])
		if fwd == rev {
			t.Errorf("reversing %v did not flip the result (both %v)", p, fwd)
		}
	}

	// Exact collinearity returns true in both directions.
	a, b, c := Vec2{0, 0}, Vec2{1, 1}, Vec2{3, 3}
	if !NotClockwise(a, b, c) || !NotClockwise(c, b, a) {
		t.Error("collinear points must be not clockwise in both directions")
	}
}

func TestNotClockwiseCyclicRelabel(t *testing.T) {
	a, b, c := Vec2{0, 0}, Vec2{5, 1}, Vec2{2, 4}
	want := NotClockwise(a, b, c)
	if NotClockwise(b, c, a) != want || NotClockwise(c, a, b) != want {
		t.Error("cyclic relabeling preserving direction changed the result")
	}
}

func TestOrientMagnitude(t *testing.T) {
	// Twice the area of the unit right triangle.
	if got := Orient(Vec2{0, 0}, Vec2{1, 0}, Vec2{0, 1}); got != 1 {
		t.Errorf("Orient = %v, want 1", got)
	}
}
