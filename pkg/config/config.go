// Package config loads the driver's YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFilename is read from the working directory when present
const DefaultFilename = ".sysyc.yaml"

// ErrInvalidMode is returned for an unknown output mode
var ErrInvalidMode = errors.New("invalid mode")

// Mode selects the compiler output
type Mode string

const (
	ModeKoopa Mode = "koopa"
	ModeRISCV Mode = "riscv"
)

// modeAliases maps accepted spellings to modes
var modeAliases = map[string]Mode{
	"koopa": ModeKoopa,
	"ir":    ModeKoopa,
	"riscv": ModeRISCV,
	"asm":   ModeRISCV,
}

// ParseMode resolves a mode name or alias.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeAliases[s]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w %q (want koopa or riscv)", ErrInvalidMode, s)
}

// Config holds driver defaults. Command-line flags take precedence.
type Config struct {
	Mode     Mode `yaml:"mode"`
	Verbose  bool `yaml:"verbose"`
	MaxSteps int  `yaml:"max_steps,omitempty"` // instruction budget for --run
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{Mode: ModeRISCV}
}

// Validate checks field values and normalizes mode aliases.
func (c *Config) Validate() error {
	m, err := ParseMode(string(c.Mode))
	if err != nil {
		return err
	}
	c.Mode = m
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", c.MaxSteps)
	}
	return nil
}

// Parse decodes a configuration document on top of Default. Unknown keys are errors.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields Default.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}
