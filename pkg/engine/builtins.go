package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/geom"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: regular-polygon -> regular_polygon
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a geom.Vec2 produced by (pt x y).
type sexpPoint struct {
	p geom.Vec2
}

func (s *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pt %g %g)", s.p.X, s.p.Y)
}
func (s *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpContour wraps a contour built by outline, hole or a shape builtin.
type sexpContour struct {
	c contour.Contour
}

func (s *sexpContour) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("<contour %d points>", len(s.c))
}
func (s *sexpContour) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toPoints flattens builtin arguments into a point list. Points, contours
// and (nested) lists or arrays of them are accepted.
func toPoints(args []zygo.Sexp) ([]geom.Vec2, error) {
	var pts []geom.Vec2
	for _, a := range args {
		switch v := a.(type) {
		case *sexpPoint:
			pts = append(pts, v.p)
		case *sexpContour:
			pts = append(pts, v.c...)
		default:
			items, err := sexpListToSlice(a)
			if err != nil {
				return nil, fmt.Errorf("expected point, contour or list of points, got %T (%s)", a, a.SexpString(nil))
			}
			sub, err := toPoints(items)
			if err != nil {
				return nil, err
			}
			pts = append(pts, sub...)
		}
	}
	return pts, nil
}

// toPoint extracts a geom.Vec2 from a sexpPoint.
func toPoint(s zygo.Sexp) (geom.Vec2, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geom.Vec2{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// toContour builds a contour from builtin arguments, rejecting anything
// with fewer than three points.
func toContour(args []zygo.Sexp) (contour.Contour, error) {
	pts, err := toPoints(args)
	if err != nil {
		return nil, err
	}
	if len(pts) < 3 {
		return nil, fmt.Errorf("%w: got %d", geom.ErrTooFewPoints, len(pts))
	}
	return contour.Contour(pts), nil
}

// toFinite extracts a finite float64.
func toFinite(s zygo.Sexp) (float64, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("expected finite number, got %v", f)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene builtins into a zygomys environment.
// The builtins record into the provided Scene during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, scene *Scene) {

	// -----------------------------------------------------------------------
	// (pt 10 20)
	// -----------------------------------------------------------------------
	env.AddFunction("pt", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("pt: expected 2 arguments (x y), got %d", len(args))
		}
		x, err := toFinite(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: x: %w", err)
		}
		y, err := toFinite(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: y: %w", err)
		}
		return &sexpPoint{p: geom.Vec2{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (outline (pt 0 0) (pt 10 0) (pt 10 10))
	// -----------------------------------------------------------------------
	env.AddFunction("outline", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if scene.Outline != nil {
			return zygo.SexpNull, fmt.Errorf("outline: already defined")
		}
		c, err := toContour(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("outline: %w", err)
		}
		scene.Outline = c
		return &sexpContour{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (hole (pt 2 2) (pt 2 4) (pt 4 4))
	// -----------------------------------------------------------------------
	env.AddFunction("hole", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		c, err := toContour(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hole: %w", err)
		}
		scene.Holes = append(scene.Holes, c)
		return &sexpContour{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon (pt 0 0) (pt 10 0) (pt 10 10))
	// Builds a contour value without adding it to the scene.
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		c, err := toContour(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}
		return &sexpContour{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (regular-polygon :sides 6 :radius 10 :center (pt 0 0) :rotation 0)
	// -----------------------------------------------------------------------
	env.AddFunction("regular_polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sides := 0
		radius := 0.0
		rotation := 0.0
		var center geom.Vec2

		if v, ok := pa.kw["sides"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("regular-polygon: sides: %w", err)
			}
			sides = int(f)
		}
		if sides < 3 {
			return zygo.SexpNull, fmt.Errorf("regular-polygon: sides must be at least 3, got %d", sides)
		}
		if v, ok := pa.kw["radius"]; ok {
			f, err := toFinite(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("regular-polygon: radius: %w", err)
			}
			radius = f
		}
		if radius <= 0 {
			return zygo.SexpNull, fmt.Errorf("regular-polygon: radius must be positive, got %g", radius)
		}
		if v, ok := pa.kw["center"]; ok {
			p, err := toPoint(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("regular-polygon: center: %w", err)
			}
			center = p
		}
		if v, ok := pa.kw["rotation"]; ok {
			f, err := toFinite(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("regular-polygon: rotation: %w", err)
			}
			rotation = f * math.Pi / 180
		}

		c := make(contour.Contour, sides)
		for i := range c {
			a := rotation + 2*math.Pi*float64(i)/float64(sides)
			c[i] = geom.Vec2{
				X: center.X + radius*math.Cos(a),
				Y: center.Y + radius*math.Sin(a),
			}
		}
		return &sexpContour{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (reverse contour)
	// -----------------------------------------------------------------------
	env.AddFunction("reverse", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("reverse: expected 1 argument, got %d", len(args))
		}
		src, ok := args[0].(*sexpContour)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("reverse: expected contour, got %T", args[0])
		}
		return &sexpContour{c: src.c.Reverse()}, nil
	})

	// -----------------------------------------------------------------------
	// (step 2.5)
	// -----------------------------------------------------------------------
	env.AddFunction("step", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("step: expected 1 argument, got %d", len(args))
		}
		f, err := toFinite(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("step: %w", err)
		}
		scene.Step = &f
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (height 30)
	// -----------------------------------------------------------------------
	env.AddFunction("height", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("height: expected 1 argument, got %d", len(args))
		}
		f, err := toFinite(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("height: %w", err)
		}
		if f <= 0 {
			return zygo.SexpNull, fmt.Errorf("height: must be positive, got %g", f)
		}
		scene.Height = &f
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (color "#d9a066")
	// -----------------------------------------------------------------------
	env.AddFunction("color", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("color: expected 1 argument, got %d", len(args))
		}
		c, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("color: %w", err)
		}
		scene.Color = c
		return args[0], nil
	})
}
