package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"lysithea/internal/config"
	"lysithea/internal/logger"
	"lysithea/pkg/assembler"
	"lysithea/pkg/color"
	"lysithea/pkg/interpreter"
	"lysithea/pkg/stdlib"
)

var ErrNoInput = errors.New("no input file provided")

type Runner struct {
	Help        bool   // Show help message
	Verbose     bool   // Enable debug logging
	NoColor     bool   // Disable colored output
	Debug       bool   // Log every executed instruction
	Disassemble bool   // Print the assembled code before running
	Interactive bool   // Start the REPL
	ConfigPath  string // Explicit config file, otherwise searched for
	StackSize   int    // Overrides the configured operand stack size when positive
	MaxSteps    int    // Overrides the configured step limit when positive
	SourceFile  string // Path to the script

	Stdout io.Writer
	Stderr io.Writer
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

// LoadConfig reads the config file and applies command line overrides on top.
func (r *Runner) LoadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case r.ConfigPath != "":
		cfg, err = config.Load(r.ConfigPath)
	case r.SourceFile != "":
		cfg, err = config.FindAndLoad(filepath.Dir(r.SourceFile))
	default:
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return nil, err
	}

	if r.StackSize > 0 {
		cfg.VM.StackSize = r.StackSize
	}
	if r.MaxSteps > 0 {
		cfg.VM.MaxSteps = r.MaxSteps
	}
	cfg.VM.Debug = cfg.VM.Debug || r.Debug
	cfg.Log.Verbose = cfg.Log.Verbose || r.Verbose
	cfg.Log.NoColor = cfg.Log.NoColor || r.NoColor

	if cfg.Path != "" {
		log.Debug("Loaded config", "path", cfg.Path)
	}
	return cfg, cfg.Validate()
}

// Run loads the config, then either runs SourceFile or starts the REPL.
func (r *Runner) Run() error {
	cfg, err := r.LoadConfig()
	if err != nil {
		return err
	}

	if cfg.Log.Verbose != r.Verbose || cfg.Log.NoColor != r.NoColor {
		logger.Init(cfg.Log.Verbose, cfg.Log.NoColor)
	}
	if cfg.Log.NoColor {
		color.EnableColor(false)
	}

	if r.Interactive {
		return r.REPL(cfg)
	}
	if r.SourceFile == "" {
		return ErrNoInput
	}
	return r.RunFile(cfg)
}

// RunFile compiles and executes SourceFile.
func (r *Runner) RunFile(cfg *config.Config) error {
	log.Info("Processing file", "file", r.SourceFile)

	input, err := os.ReadFile(r.SourceFile)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", r.SourceFile, err)
	}

	_, err = r.Execute(cfg, r.SourceFile, string(input))
	return err
}

// Execute compiles src and runs it on a fresh virtual machine.
func (r *Runner) Execute(cfg *config.Config, name, src string) (*interpreter.VirtualMachine, error) {
	asm, err := NewAssembler(cfg)
	if err != nil {
		return nil, err
	}

	script, err := asm.ParseFromText(name, src)
	if err != nil {
		return nil, err
	}

	if r.Disassemble {
		fmt.Fprintln(r.stdout(), color.GreenText("=== Assembly ==="))
		Disassemble(r.stdout(), script.Code)
		fmt.Fprintln(r.stdout(), color.GreenText("=== Program Output ==="))
	}

	vm := NewVirtualMachine(cfg, asm, r.stdout())
	err = vm.Execute(script)
	log.Debug("Finished", "source", name, "function", vm.CurrentFunction().Name, "pc", vm.PC(), "steps", vm.Steps())
	return vm, err
}

// NewAssembler creates an assembler whose builtin scope holds the configured libraries.
func NewAssembler(cfg *config.Config) (*assembler.Assembler, error) {
	asm := assembler.New()
	if err := stdlib.AddToScope(asm.BuiltinScope, cfg.Libraries...); err != nil {
		return nil, err
	}
	return asm, nil
}

func NewVirtualMachine(cfg *config.Config, asm *assembler.Assembler, out io.Writer) *interpreter.VirtualMachine {
	opts := append(cfg.Options(),
		interpreter.WithWriter(out),
		interpreter.WithBuiltinScope(asm.BuiltinScope))
	return interpreter.NewVirtualMachine(opts...)
}
