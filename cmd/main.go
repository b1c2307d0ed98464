package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"lysithea/internal/logger"
	"lysithea/internal/runner"
	"lysithea/pkg/assembler"
	"lysithea/pkg/color"
	"lysithea/pkg/interpreter"
)

// Main entry point for the lysithea runner.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.Debug, "d", false, "Log every executed instruction")
	flag.BoolVar(&options.Disassemble, "S", false, "Print the assembled code before running")
	flag.BoolVar(&options.Interactive, "i", false, "Start an interactive session")
	flag.StringVar(&options.ConfigPath, "c", "", "Config file (default: nearest lysithea.toml or lysithea.yaml)")
	flag.IntVar(&options.StackSize, "s", 0, "Operand stack size")
	flag.IntVar(&options.MaxSteps, "m", 0, "Stop after this many instructions")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <file>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) > 0 {
		options.SourceFile = args[0]
	} else if color.IsTerminal(os.Stdin) {
		options.Interactive = true
	}

	err := options.Run()
	if errors.Is(err, runner.ErrNoInput) {
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	var (
		compileErr *assembler.CompileError
		rtErr      *interpreter.RuntimeError
	)
	if errors.As(err, &compileErr) || errors.As(err, &rtErr) {
		fmt.Fprintln(os.Stderr, runner.FormatError(err))
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Run failed", "error", err)
	}
}
