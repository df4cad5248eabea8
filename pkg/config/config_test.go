package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "polyshrink.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
step = 2.5
height = 40
kernel = "sdfx"
reverse = true

[output]
drawing = "out.svg"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Step)
	assert.Equal(t, 40.0, cfg.Height)
	assert.Equal(t, KernelSdfx, cfg.Kernel)
	assert.True(t, cfg.Reverse)
	assert.Equal(t, "out.svg", cfg.Output.Drawing)
	// Untouched fields keep their defaults.
	assert.Equal(t, Default().Margin, cfg.Margin)
	assert.Equal(t, Default().Color, cfg.Color)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad syntax", "step = = 1"},
		{"bad kernel", `kernel = "cgal"`},
		{"zero height", "height = 0"},
		{"bad log level", `log_level = "TRACE"`},
		{"auto reduce without min", "auto_reduce = true\nmin_step = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Output.Mesh = "mesh.json"
	data, err := cfg.Marshal()
	require.NoError(t, err)

	got, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
