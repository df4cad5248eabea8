package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunPrintConfigShorthands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"long reverse", []string{"-reverse"}, []string{"reverse = true"}},
		{"short reverse", []string{"-r"}, []string{"reverse = true"}},
		{"double dash short", []string{"--r", "--normalize"}, []string{"reverse = true", "normalize = true"}},
		{"defaults", nil, []string{"reverse = false", "normalize = false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			args := append([]string{"-config", "", "-print-config"}, tt.args...)
			if err := run(args, &out); err != nil {
				t.Fatalf("run: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestRunVerboseShorthand(t *testing.T) {
	for _, flagName := range []string{"-verbose", "-v", "--v"} {
		t.Run(flagName, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.json")
			var out bytes.Buffer
			args := []string{"-config", "", flagName, "-mesh", path, "examples/square.poly"}
			if err := run(args, &out); err != nil {
				t.Fatalf("run: %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read mesh output: %v", err)
			}
			var decoded struct {
				Meshes []MeshData `json:"meshes"`
			}
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(decoded.Meshes) < 2 {
				t.Errorf("expected one mesh per shrink tier, got %d", len(decoded.Meshes))
			}
			if !strings.Contains(out.String(), "min leaf:") {
				t.Errorf("expected min leaf on stdout, got %q", out.String())
			}
		})
	}
}

func TestRunMissingInput(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-config", ""}, &out); err == nil {
		t.Error("expected an error without an input file")
	}
}
