package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/polyshrink/pkg/config"
	"github.com/chazu/polyshrink/pkg/contour"
	"github.com/chazu/polyshrink/pkg/engine"
	"github.com/chazu/polyshrink/pkg/kernel"
	"github.com/chazu/polyshrink/pkg/kernel/faceted"
	"github.com/chazu/polyshrink/pkg/kernel/sdfx"
	"github.com/chazu/polyshrink/pkg/offset"
	"github.com/chazu/polyshrink/pkg/polyfile"
	"github.com/chazu/polyshrink/pkg/render"
	"github.com/chazu/polyshrink/pkg/skeleton"
	"github.com/chazu/polyshrink/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to tiers.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Diagnostic codes produced by the pipeline itself.
const (
	codeEval     = "EVAL"
	codeOffset   = "OFFSET"
	codeFlipped  = "FLIPPED"
	codeSolid    = "SOLID"
	codeSkeleton = "SKELETON"
)

// App runs the offset pipeline: input contour, offset, flip check, solid,
// meshes and skeleton arcs.
type App struct {
	// Verbose lofts every step of the shrink sequence as its own tier
	// instead of a single base-to-offset solid.
	Verbose bool

	config   config.Config
	engine   *engine.Engine
	kernel   kernel.Kernel
	skeleton skeleton.Computer
	logger   *slog.Logger
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices []float32  `json:"vertices"`
	Normals  []float32  `json:"normals"`
	Indices  []uint32   `json:"indices"`
	PartName string     `json:"partName"`
	Color    string     `json:"color"`
	Min      [3]float32 `json:"min"`
	Max      [3]float32 `json:"max"`
}

// Diagnostic is a JSON-serializable error or warning.
type Diagnostic struct {
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	Code    string `json:"code,omitempty"`
	Vertex  int    `json:"vertex"` // -1 when not tied to a vertex
	Message string `json:"message"`
}

// Input is one contour to process together with optional per-input
// overrides of the configured step, height and color.
type Input struct {
	Outline contour.Contour
	Holes   []contour.Contour
	Step    *float64
	Height  *float64
	Color   string
}

// Result is everything a run produced.
type Result struct {
	Meshes   []MeshData   `json:"meshes"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`

	Outline contour.Contour   `json:"outline,omitempty"`
	Holes   []contour.Contour `json:"holes,omitempty"`
	Offset  contour.Contour   `json:"offset,omitempty"`
	// Shrink holds the intermediate contours in verbose mode.
	Shrink  []contour.Contour `json:"shrink,omitempty"`
	Step    float64           `json:"step"`
	Flipped bool              `json:"flipped"`

	Arcs    []skeleton.Arc `json:"-"`
	MinLeaf float64        `json:"minLeaf"`
	HasLeaf bool           `json:"hasLeaf"`
}

// newResult returns a Result whose slices encode as [] rather than null.
func newResult() Result {
	return Result{
		Meshes:   []MeshData{},
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}
}

func (r *Result) fail(code string, err error) {
	r.Errors = append(r.Errors, Diagnostic{Code: code, Vertex: -1, Message: err.Error()})
}

func (r *Result) warn(code string, msg string) {
	r.Warnings = append(r.Warnings, Diagnostic{Code: code, Vertex: -1, Message: msg})
}

// NewApp creates an App for cfg. A nil logger disables logging.
func NewApp(cfg config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var k kernel.Kernel = faceted.New()
	if cfg.Kernel == config.KernelSdfx {
		k = sdfx.NewWithCells(cfg.MeshCells)
	}
	return &App{
		config: cfg,
		engine: engine.NewEngine(),
		kernel: k,
		logger: logger,
	}
}

// SetSkeleton replaces the skeleton collaborator. By default a
// skeleton.BisectorTrace using the run's step is used.
func (a *App) SetSkeleton(c skeleton.Computer) {
	a.skeleton = c
}

// isScript reports whether path names a scene script rather than a
// polygon file.
func isScript(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lisp", ".zy":
		return true
	}
	return false
}

// LoadFile reads a polygon file or a scene script. Script evaluation
// errors come back as diagnostics; I/O and parse failures as an error.
func (a *App) LoadFile(path string) (Input, []Diagnostic, error) {
	if !isScript(path) {
		poly, err := polyfile.ReadFile(path, polyfile.Options{
			Margin:  a.config.Margin,
			Reverse: a.config.Reverse,
		})
		if err != nil {
			return Input{}, nil, err
		}
		return Input{Outline: poly.Outline, Holes: poly.Holes}, nil, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return Input{}, nil, err
	}
	in, diags := a.evaluateScript(string(source))
	return in, diags, nil
}

// evaluateScript turns scene script source into an Input.
func (a *App) evaluateScript(source string) (Input, []Diagnostic) {
	scene, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.logger.Error("evaluate fatal error", slog.Any("error", err))
		return Input{}, []Diagnostic{{Code: codeEval, Vertex: -1, Message: err.Error()}}
	}
	if len(evalErrs) > 0 {
		diags := make([]Diagnostic, 0, len(evalErrs))
		for _, e := range evalErrs {
			diags = append(diags, Diagnostic{
				Line:    e.Line,
				Col:     e.Col,
				Code:    codeEval,
				Vertex:  -1,
				Message: e.Message,
			})
		}
		return Input{}, diags
	}
	return Input{
		Outline: scene.Outline,
		Holes:   scene.Holes,
		Step:    scene.Step,
		Height:  scene.Height,
		Color:   scene.Color,
	}, nil
}

// Evaluate takes scene script source and runs the pipeline on it.
func (a *App) Evaluate(source string) Result {
	in, diags := a.evaluateScript(source)
	if len(diags) > 0 {
		result := newResult()
		result.Errors = append(result.Errors, diags...)
		return result
	}
	return a.Run(context.Background(), in)
}

// Run processes one input. Problems are reported in Result.Errors and
// Result.Warnings; a flipped offset is a warning, not an error.
func (a *App) Run(ctx context.Context, in Input) Result {
	result := newResult()
	if len(in.Outline) == 0 {
		return result
	}
	outline := in.Outline.Clone()
	if a.config.Normalize && len(outline) >= 3 && !outline.IsCounterClockwise() {
		a.logger.Info("reversing clockwise outline")
		outline = outline.EnsureCCW()
	}
	result.Outline = outline
	result.Holes = in.Holes
	a.logger.Debug("outline",
		slog.Int("vertices", len(outline)),
		slog.Float64("area", outline.Area()),
		slog.Float64("perimeter", outline.Perimeter()),
	)

	step := a.config.Step
	if in.Step != nil {
		step = *in.Step
	}
	height := a.config.Height
	if in.Height != nil {
		height = *in.Height
	}
	color := a.config.Color
	if in.Color != "" {
		color = in.Color
	}
	result.Step = step

	// Step 1: Validate the outline and holes.
	vr := contour.Validate(outline)
	for _, e := range vr.Errors {
		result.Errors = append(result.Errors, Diagnostic{Code: e.Code, Vertex: e.Index, Message: e.Message})
	}
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, Diagnostic{Code: w.Code, Vertex: w.Index, Message: w.Message})
	}
	for i, h := range in.Holes {
		hr := contour.Validate(h)
		for _, e := range append(hr.Errors, hr.Warnings...) {
			// Holes conventionally wind clockwise.
			if e.Code == contour.CodeClockwise {
				continue
			}
			result.warn(e.Code, fmt.Sprintf("hole %d: %s", i, e.Message))
		}
	}
	if !vr.OK() {
		return result
	}

	// Step 2: Offset and check for a flip.
	opts := []offset.Option{offset.WithLogger(a.logger)}
	var (
		shifted contour.Contour
		err     error
	)
	if a.config.AutoReduce {
		var safe float64
		shifted, safe, err = offset.SafeStep(outline, step, a.config.MinStep, opts...)
		if err == nil {
			step = safe
			result.Step = safe
		}
	} else {
		shifted, err = offset.Contour(outline, step, opts...)
	}
	if errors.Is(err, offset.ErrNoSafeStep) {
		// Fall back to the requested step; the flip is reported below.
		shifted, err = offset.Contour(outline, step, opts...)
	}
	if err != nil {
		result.fail(codeOffset, err)
		return result
	}
	result.Offset = shifted

	flipped, err := offset.FlippedEdges(outline, shifted)
	if err != nil {
		result.fail(codeOffset, err)
		return result
	}
	if len(flipped) > 0 {
		result.Flipped = true
		result.warn(codeFlipped, fmt.Sprintf("offset by %g flipped at vertices %v", result.Step, flipped))
		a.logger.Warn("offset flipped", slog.Float64("step", result.Step), slog.Any("vertices", flipped))
	}

	// Step 3: Build the solid (or stacked tiers) and tessellate.
	tiers := []tessellate.Tier{{
		Name:   "solid",
		Base:   outline,
		Top:    shifted,
		Height: height,
		Color:  color,
	}}
	if a.Verbose {
		seq, err := offset.Shrink(outline, step, a.config.Iterations, opts...)
		if err != nil {
			result.fail(codeOffset, err)
			return result
		}
		a.logger.Info("shrink sequence", slog.Int("contours", len(seq.Contours)), slog.String("stop", seq.Stop.String()))
		if len(seq.Contours) > 0 {
			result.Shrink = seq.Contours
			tiers = tessellate.TiersFromSequence(outline, seq.Contours, height/float64(len(seq.Contours)), colorPalette)
		}
	}

	meshes, err := tessellate.Tessellate(tiers, a.kernel)
	if err != nil {
		a.logger.Error("tessellate error", slog.Any("error", err))
		result.fail(codeSolid, fmt.Errorf("tessellation failed: %w", err))
		return result
	}
	for i, m := range meshes {
		c := m.Color
		if c == "" {
			c = colorPalette[i%len(colorPalette)]
		}
		if m.IsEmpty() {
			result.warn(codeSolid, fmt.Sprintf("%s has no triangles", m.PartName))
		}
		lo, hi := m.Bounds()
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    c,
			Min:      lo,
			Max:      hi,
		})
	}

	// Step 4: Skeleton arcs and the minimum leaf distance.
	sk := a.skeleton
	if sk == nil {
		if step == 0 {
			return result
		}
		sk = &skeleton.BisectorTrace{Step: math.Abs(step), MaxIter: a.config.Iterations, Logger: a.logger}
	}
	arcs, err := sk.ComputeSkeleton(ctx, outline, in.Holes)
	if err != nil {
		result.warn(codeSkeleton, err.Error())
		return result
	}
	result.Arcs = arcs
	result.MinLeaf, result.HasLeaf = skeleton.MinLeaf(arcs, outline)
	return result
}

// Drawing builds the render scene for a result.
func (r Result) Drawing() render.Scene {
	scene := render.Scene{
		Arcs:    r.Arcs,
		Outline: r.Outline,
	}
	if len(r.Outline) > 0 {
		scene.Contours = append(scene.Contours, r.Outline)
	}
	scene.Contours = append(scene.Contours, r.Holes...)
	if len(r.Shrink) > 0 {
		scene.Offsets = r.Shrink
	} else if len(r.Offset) > 0 {
		scene.Offsets = []contour.Contour{r.Offset}
	}
	return scene
}

// WriteDrawing renders r to path, choosing the format by extension.
func WriteDrawing(path string, r Result) error {
	rd, err := render.ForPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := rd.Render(f, r.Drawing()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
