package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want Config
	}{
		{"empty", "", Config{Mode: ModeRISCV}},
		{"koopa", "mode: koopa\n", Config{Mode: ModeKoopa}},
		{"alias", "mode: ir\nverbose: true\n", Config{Mode: ModeKoopa, Verbose: true}},
		{"asm alias", "mode: asm\n", Config{Mode: ModeRISCV}},
		{"max steps", "max_steps: 100\n", Config{Mode: ModeRISCV, MaxSteps: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"bad mode", "mode: arm64\n", ErrInvalidMode},
		{"empty mode", "mode: \"\"\n", ErrInvalidMode},
		{"unknown key", "optimize: true\n", nil},
		{"wrong type", "verbose: [1]\n", nil},
		{"negative steps", "max_steps: -1\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFilename)
	if err := os.WriteFile(path, []byte("mode: koopa\nverbose: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeKoopa || !cfg.Verbose {
		t.Errorf("got %+v", cfg)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOptional(filepath.Join(dir, DefaultFilename))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want default", cfg)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("mode: x86\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptional(bad); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"koopa": ModeKoopa, "ir": ModeKoopa, "riscv": ModeRISCV, "asm": ModeRISCV} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("RISCV"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("mode names are case sensitive, got %v", err)
	}
}
