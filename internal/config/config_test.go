package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"lysithea/internal/config"
	"lysithea/pkg/interpreter"
	"lysithea/pkg/stdlib"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.VM.StackSize != interpreter.DefaultStackSize || cfg.VM.CallStackSize != interpreter.DefaultCallStackSize {
		t.Errorf("unexpected default sizes: %+v", cfg.VM)
	}
	if !slices.Equal(cfg.Libraries, stdlib.Names()) {
		t.Errorf("expected every library, got %v", cfg.Libraries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "lysithea.toml", `
libraries = ["math", "misc"]

[vm]
stack-size = 128
max-steps = 1000

[log]
no-color = true
`},
		{"yaml", "lysithea.yaml", `
libraries: [math, misc]
vm:
  stack-size: 128
  max-steps: 1000
log:
  no-color: true
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, dir, tt.file, tt.content)
			cfg, err := config.Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.VM.StackSize != 128 || cfg.VM.MaxSteps != 1000 {
				t.Errorf("unexpected vm section: %+v", cfg.VM)
			}
			if cfg.VM.CallStackSize != interpreter.DefaultCallStackSize {
				t.Errorf("expected default call stack size, got %d", cfg.VM.CallStackSize)
			}
			if !cfg.Log.NoColor {
				t.Error("expected no-color")
			}
			if !slices.Equal(cfg.Libraries, []string{"math", "misc"}) {
				t.Errorf("unexpected libraries %v", cfg.Libraries)
			}
			if cfg.Path != path {
				t.Errorf("expected path %s, got %s", path, cfg.Path)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"stack size", "a.toml", "[vm]\nstack-size = 0\n", config.ErrInvalid},
		{"negative steps", "b.yaml", "vm:\n  max-steps: -1\n", config.ErrInvalid},
		{"unknown library", "c.toml", `libraries = ["net"]`, stdlib.ErrUnknownLibrary},
		{"format", "d.json", "{}", config.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(write(t, dir, tt.file, tt.content))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := config.Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected missing file error, got %v", err)
	}
	if _, err := config.Load(write(t, dir, "broken.toml", "[vm\n")); err == nil {
		t.Error("expected parse error")
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.FindAndLoad(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" {
		t.Errorf("expected defaults, got config from %s", cfg.Path)
	}

	path := write(t, root, "lysithea.toml", "[vm]\ncall-stack-size = 8\n")
	found, err := config.Find(nested)
	if err != nil {
		t.Fatal(err)
	}
	if found != path {
		t.Errorf("expected %s, got %s", path, found)
	}

	cfg, err = config.FindAndLoad(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.VM.CallStackSize != 8 {
		t.Errorf("expected call stack size 8, got %d", cfg.VM.CallStackSize)
	}
}
