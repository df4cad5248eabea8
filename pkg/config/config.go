// Package config loads polyshrink run settings from a TOML file. Every
// field has a default so an empty or missing file is valid.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Kernel names accepted in Config.Kernel.
const (
	KernelFaceted = "faceted"
	KernelSdfx    = "sdfx"
)

// Config holds the parameters of one visualization run.
type Config struct {
	// Step is the bisector offset distance.
	Step float64 `toml:"step"`
	// MinStep bounds automatic step reduction after a flip.
	MinStep float64 `toml:"min_step"`
	// AutoReduce halves the step until the offset no longer flips.
	AutoReduce bool `toml:"auto_reduce"`
	// Height is the extrusion height of the solid.
	Height float64 `toml:"height"`
	// Margin is added to every coordinate read from a polygon file.
	Margin float64 `toml:"margin"`
	// Reverse inverts vertex order when reading polygon files.
	Reverse bool `toml:"reverse"`
	// Normalize reverses clockwise outlines before offsetting.
	Normalize bool `toml:"normalize"`
	// Iterations caps the shrink sequence in verbose mode.
	Iterations int `toml:"iterations"`
	// Kernel selects the solid backend: "faceted" or "sdfx".
	Kernel string `toml:"kernel"`
	// MeshCells is the marching cubes resolution for the sdfx kernel.
	MeshCells int `toml:"mesh_cells"`
	// Color is the face color of the solid.
	Color string `toml:"color"`
	// LogLevel is one of DEBUG, INFO, WARNING, ERROR.
	LogLevel string `toml:"log_level"`
	// Output holds the optional output paths.
	Output Output `toml:"output"`
}

// Output lists where results are written. Empty paths are skipped.
type Output struct {
	// Drawing is an .svg or .png file of the 2D result.
	Drawing string `toml:"drawing"`
	// Mesh is a JSON file with the triangle meshes.
	Mesh string `toml:"mesh"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Step:       10,
		MinStep:    0.01,
		Height:     20,
		Margin:     50,
		Iterations: 100,
		Kernel:     KernelFaceted,
		MeshCells:  200,
		Color:      "#4A90D9",
		LogLevel:   "WARNING",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges and names.
func (c Config) Validate() error {
	var errs []error
	if c.Height <= 0 {
		errs = append(errs, fmt.Errorf("height must be positive, got %g", c.Height))
	}
	if c.AutoReduce && c.MinStep <= 0 {
		errs = append(errs, fmt.Errorf("min_step must be positive with auto_reduce, got %g", c.MinStep))
	}
	if c.Iterations < 0 {
		errs = append(errs, fmt.Errorf("iterations must not be negative, got %d", c.Iterations))
	}
	switch c.Kernel {
	case KernelFaceted, KernelSdfx:
	default:
		errs = append(errs, fmt.Errorf("unknown kernel %q", c.Kernel))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

// Marshal encodes c as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
