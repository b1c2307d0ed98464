// Package config loads the lysithea.toml or lysithea.yaml runner configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"lysithea/pkg/interpreter"
	"lysithea/pkg/stdlib"
)

// FileNames are searched in order by Find.
var FileNames = []string{"lysithea.toml", "lysithea.yaml", "lysithea.yml"}

var ErrInvalid = errors.New("invalid config")

type Config struct {
	VM        VM       `toml:"vm" yaml:"vm"`
	Log       Log      `toml:"log" yaml:"log"`
	Libraries []string `toml:"libraries" yaml:"libraries"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// VM sizes the virtual machine.
type VM struct {
	StackSize     int  `toml:"stack-size" yaml:"stack-size"`
	CallStackSize int  `toml:"call-stack-size" yaml:"call-stack-size"`
	MaxSteps      int  `toml:"max-steps" yaml:"max-steps"`
	Debug         bool `toml:"debug" yaml:"debug"`
}

type Log struct {
	Verbose bool `toml:"verbose" yaml:"verbose"`
	NoColor bool `toml:"no-color" yaml:"no-color"`
}

func Default() *Config {
	return &Config{
		VM: VM{
			StackSize:     interpreter.DefaultStackSize,
			CallStackSize: interpreter.DefaultCallStackSize,
		},
		Libraries: stdlib.Names(),
	}
}

// Load reads a config file, choosing the decoder by extension. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg := Default()
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalid, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from dir looking for a config file. It returns an empty path if none exists.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// FindAndLoad loads the nearest config above dir, or the defaults when there is none.
func FindAndLoad(dir string) (*Config, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) Validate() error {
	if c.VM.StackSize <= 0 {
		return fmt.Errorf("%w: stack-size must be positive, got %d", ErrInvalid, c.VM.StackSize)
	}
	if c.VM.CallStackSize <= 0 {
		return fmt.Errorf("%w: call-stack-size must be positive, got %d", ErrInvalid, c.VM.CallStackSize)
	}
	if c.VM.MaxSteps < 0 {
		return fmt.Errorf("%w: max-steps cannot be negative, got %d", ErrInvalid, c.VM.MaxSteps)
	}

	names := stdlib.Names()
	for _, lib := range c.Libraries {
		if !slices.Contains(names, lib) {
			return fmt.Errorf("%w: %w: %s", ErrInvalid, stdlib.ErrUnknownLibrary, lib)
		}
	}
	return nil
}

// Options turns the VM section into virtual machine options.
func (c *Config) Options() []interpreter.Option {
	opts := []interpreter.Option{
		interpreter.WithStackSize(c.VM.StackSize),
		interpreter.WithCallStackSize(c.VM.CallStackSize),
		interpreter.WithDebug(c.VM.Debug),
	}
	if c.VM.MaxSteps > 0 {
		opts = append(opts, interpreter.WithMaxSteps(c.VM.MaxSteps))
	}
	return opts
}
