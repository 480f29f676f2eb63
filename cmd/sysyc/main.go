package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/raymyers/sysyc/pkg/asm"
	"github.com/raymyers/sysyc/pkg/asmgen"
	"github.com/raymyers/sysyc/pkg/ast"
	"github.com/raymyers/sysyc/pkg/config"
	"github.com/raymyers/sysyc/pkg/irgen"
	"github.com/raymyers/sysyc/pkg/koopa"
	"github.com/raymyers/sysyc/pkg/parser"
	"github.com/raymyers/sysyc/pkg/rvsim"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "0.1.0"

// ErrNoInput is returned when no source file is named
var ErrNoInput = errors.New("no input file")

// ErrConflictingModes is returned when more than one output mode is requested
var ErrConflictingModes = errors.New("at most one of --koopa, --riscv, --dparse and --run may be given")

// Flags
var (
	koopaMode  bool
	riscvMode  bool
	dParse     bool
	runMode    bool
	verbose    bool
	outputPath string
	configPath string
)

// flagAliases maps alternative flag names to their canonical names
var flagAliases = map[string]string{
	"ir":  "koopa",
	"asm": "riscv",
}

// singleDashFlags are long flags also accepted with one dash, as in "sysyc -koopa in.c"
var singleDashFlags = []string{"koopa", "riscv", "ir", "asm", "dparse", "run", "verbose", "config"}

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	cmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// normalizeFlags converts single-dash long flags to double-dash format
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") {
			continue
		}
		name, value, hasValue := strings.Cut(arg[1:], "=")
		for _, f := range singleDashFlags {
			if name == f {
				result[i] = "--" + name
				if hasValue {
					result[i] += "=" + value
				}
				break
			}
		}
	}
	return result
}

func aliasNormalize(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

// resetFlags restores flag defaults between tests
func resetFlags() {
	koopaMode = false
	riscvMode = false
	dParse = false
	runMode = false
	verbose = false
	outputPath = ""
	configPath = ""
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sysyc [flags] <file>",
		Short: "A compiler for a subset of SysY",
		Long: `sysyc compiles a single-function SysY program to Koopa IR or to
RV32IM assembly.

Output goes to the file named by -o, or to stdout.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintf(errOut, "sysyc: %v\n", ErrNoInput)
				return ErrNoInput
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				fmt.Fprintf(errOut, "sysyc: %v\n", err)
				return err
			}
			setupLogging(errOut, verbose || cfg.Verbose)

			filename := args[0]
			if err := compile(filename, cfg, out); err != nil {
				fmt.Fprintf(errOut, "sysyc: %s: %v\n", filename, err)
				return err
			}
			return nil
		},
	}

	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.Flags()
	flags.SetNormalizeFunc(aliasNormalize)
	flags.BoolVar(&koopaMode, "koopa", false, "Emit Koopa IR (alias --ir)")
	flags.BoolVar(&riscvMode, "riscv", false, "Emit RISC-V assembly (alias --asm)")
	flags.BoolVar(&dParse, "dparse", false, "Dump the parsed program as source")
	flags.BoolVar(&runMode, "run", false, "Compile, simulate and print the value returned by main")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log pipeline stages to stderr")
	flags.StringVarP(&outputPath, "output", "o", "", "Write output to `file` instead of stdout")
	flags.StringVar(&configPath, "config", "", "Read defaults from `file` (default "+config.DefaultFilename+" when present)")

	return cmd
}

// loadConfig reads the explicit --config file, or the default one when it exists.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.Load(configPath)
	}
	return config.LoadOptional(config.DefaultFilename)
}

func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// action is what a single invocation produces
type action int

const (
	actionKoopa action = iota
	actionRISCV
	actionParse
	actionRun
)

func selectAction(cfg config.Config) (action, error) {
	var picked []action
	if koopaMode {
		picked = append(picked, actionKoopa)
	}
	if riscvMode {
		picked = append(picked, actionRISCV)
	}
	if dParse {
		picked = append(picked, actionParse)
	}
	if runMode {
		picked = append(picked, actionRun)
	}
	switch len(picked) {
	case 0:
		if cfg.Mode == config.ModeKoopa {
			return actionKoopa, nil
		}
		return actionRISCV, nil
	case 1:
		return picked[0], nil
	}
	return 0, ErrConflictingModes
}

// compile runs the pipeline into a buffer and writes it only when every stage succeeded.
func compile(filename string, cfg config.Config, out io.Writer) error {
	act, err := selectAction(cfg)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch act {
	case actionParse:
		err = doParse(string(src), &buf)
	case actionKoopa:
		err = doKoopa(string(src), &buf)
	case actionRISCV:
		err = doRISCV(string(src), &buf)
	case actionRun:
		err = doRun(string(src), cfg.MaxSteps, &buf)
	}
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err = buf.WriteTo(out)
		return err
	}
	return os.WriteFile(outputPath, buf.Bytes(), 0o644)
}

func doParse(src string, out io.Writer) error {
	cu, err := parser.Parse(src)
	if err != nil {
		return err
	}
	ast.NewPrinter(out).PrintCompUnit(cu)
	return nil
}

func lower(src string) (*koopa.Program, error) {
	cu, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	slog.Debug("parsed", "items", len(cu.FuncDef.Block.Items))
	return irgen.Build(cu)
}

func doKoopa(src string, out io.Writer) error {
	prog, err := lower(src)
	if err != nil {
		return err
	}
	koopa.NewPrinter(out).PrintProgram(prog)
	return nil
}

func assemble(src string) (string, error) {
	prog, err := lower(src)
	if err != nil {
		return "", err
	}
	asmProg, err := asmgen.Generate(prog)
	if err != nil {
		return "", err
	}
	return asmProg.String(), nil
}

func doRISCV(src string, out io.Writer) error {
	text, err := assemble(src)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, text)
	return err
}

func doRun(src string, maxSteps int, out io.Writer) error {
	text, err := assemble(src)
	if err != nil {
		return err
	}
	prog, err := rvsim.Assemble(text)
	if err != nil {
		return err
	}
	cpu := rvsim.NewCPU(prog, rvsim.DefaultMemSize)
	if maxSteps > 0 {
		cpu.MaxSteps = maxSteps
	}
	if err := cpu.RunFrom("main"); err != nil {
		return err
	}
	slog.Debug("simulated", "steps", cpu.Steps)
	fmt.Fprintln(out, cpu.Regs[asm.A0])
	return nil
}
