// Package polyfile reads the plain-text polygon description format: one
// "x, y" vertex per line, listed counter-clockwise. Lines starting with
// '#' are comments and a trailing "# ..." on a vertex line is ignored.
// A line starting with '-' ends the current contour; the first contour is
// the outline and every later one is a hole.
package polyfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/geom"
)

// DefaultMargin is added to both coordinates of every vertex so drawings
// keep a border around the polygon.
const DefaultMargin = 50.0

// ErrNoOutline is returned when the input contains no vertices before the
// first separator.
var ErrNoOutline = errors.New("polyfile: no outline vertices")

// ParseError reports a malformed line.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("polyfile: line %d: expected \"x, y\", got %q", e.Line, e.Text)
}

// Options controls how vertices are read.
type Options struct {
	// Margin is added to x and y of every vertex.
	Margin float64
	// Reverse inverts the vertex order of every contour.
	Reverse bool
}

// Polygon is an outline with optional holes.
type Polygon struct {
	Outline contour.Contour
	Holes   []contour.Contour
}

var vertexLine = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*,\s*(\d+(?:\.\d+)?)\s*(?:#.*)?$`)

// Parse reads a polygon description from r.
func Parse(r io.Reader, opts Options) (Polygon, error) {
	var contours []contour.Contour
	var cur contour.Contour

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "-") {
			contours = append(contours, cur)
			cur = nil
			continue
		}

		m := vertexLine.FindStringSubmatch(line)
		if m == nil {
			return Polygon{}, &ParseError{Line: lineNo, Text: line}
		}
		x, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Polygon{}, &ParseError{Line: lineNo, Text: line}
		}
		y, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return Polygon{}, &ParseError{Line: lineNo, Text: line}
		}

		p := geom.Vec2{X: x + opts.Margin, Y: y + opts.Margin}
		if opts.Reverse {
			cur = append(contour.Contour{p}, cur...)
		} else {
			cur = append(cur, p)
		}
	}
	if err := sc.Err(); err != nil {
		return Polygon{}, fmt.Errorf("polyfile: read: %w", err)
	}
	contours = append(contours, cur)

	if len(contours[0]) == 0 {
		return Polygon{}, ErrNoOutline
	}
	poly := Polygon{Outline: contours[0]}
	for _, h := range contours[1:] {
		if len(h) > 0 {
			poly.Holes = append(poly.Holes, h)
		}
	}
	return poly, nil
}

// ReadFile parses the polygon file at path. A path of "-" reads standard
// input.
func ReadFile(path string, opts Options) (Polygon, error) {
	if path == "-" {
		return Parse(os.Stdin, opts)
	}
	f, err := os.Open(path)
	if err != nil {
		return Polygon{}, fmt.Errorf("polyfile: %w", err)
	}
	defer f.Close()
	return Parse(f, opts)
}
