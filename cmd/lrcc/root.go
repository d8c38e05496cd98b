package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/lrcc/lr"
	"github.com/npillmayer/lrcc/lr/compiler"
	"github.com/npillmayer/lrcc/lr/ebnfload"
	"github.com/npillmayer/lrcc/lr/normalize"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	start     *string
	shiftBias *bool
	maxPasses *int
	ext       *[]string
	trace     *string
}{}

var rootCmd = &cobra.Command{
	Use:   "lrcc",
	Short: "Compile EBNF grammars into LR(1) parse tables",
	Long: `lrcc normalizes a grammar (removing left recursion, duplicate and
unproductive rules), constructs the LR(1) automaton and assembles the parse
table. Grammar conflicts are reported with state, symbol and both actions.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setTraceLevel,
}

var traceKeys = []string{"lrcc.lr", "lrcc.normalize", "lrcc.scanner", "lrcc.driver"}

func init() {
	flags := rootCmd.PersistentFlags()
	rootFlags.start = flags.StringP("start", "s", "", "start production (default: first production in file)")
	rootFlags.shiftBias = flags.Bool("shift-bias", false, "resolve dangling-else conflicts to shift")
	rootFlags.maxPasses = flags.Int("max-passes", 0, "ceiling for normalization passes (default 64)")
	rootFlags.ext = flags.StringSlice("ext", nil, "extension precepts to run, e.g. InlineTails")
	rootFlags.trace = flags.String("trace", "Error", "trace level [Debug|Info|Error]")
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevel(cmd *cobra.Command, args []string) error {
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	return nil
}

// readSource reads a grammar file, or stdin for "-".
func readSource(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	src, err := io.ReadAll(r)
	return string(src), err
}

// loadGrammar parses EBNF source. The start production is taken from the
// --start flag, or is the first production of the source.
func loadGrammar(path, src string) (*lr.Grammar, error) {
	start := *rootFlags.start
	if start == "" {
		if start = firstProduction(src); start == "" {
			return nil, fmt.Errorf("%s: no production found", path)
		}
	}
	return ebnfload.Load(path, strings.NewReader(src), start)
}

// firstProduction returns the name of the first production in EBNF source.
func firstProduction(src string) string {
	for _, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, "="); i > 0 {
			if name := strings.TrimSpace(line[:i]); name != "" && !strings.ContainsAny(name, " \t\"") {
				return name
			}
		}
	}
	return ""
}

// compilerOptions translates command line flags.
func compilerOptions() ([]compiler.Option, error) {
	opts := []compiler.Option{compiler.ShiftBias(*rootFlags.shiftBias)}
	if *rootFlags.maxPasses > 0 {
		opts = append(opts, compiler.MaxPasses(*rootFlags.maxPasses))
	}
	var ext []normalize.Precept
	for _, name := range *rootFlags.ext {
		p, ok := normalize.PreceptByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown precept %q", name)
		}
		ext = append(ext, p)
	}
	if len(ext) > 0 {
		opts = append(opts, compiler.Extensions(ext...))
	}
	return opts, nil
}

// compileFile loads and compiles a grammar file.
func compileFile(path string) (*compiler.Result, error) {
	src, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return compileSource(path, src)
}

// compileSource compiles EBNF source. Conflicts are reported, but do not
// suppress the result.
func compileSource(path, src string) (*compiler.Result, error) {
	g, err := loadGrammar(path, src)
	if err != nil {
		return nil, err
	}
	opts, err := compilerOptions()
	if err != nil {
		return nil, err
	}
	res, err := compiler.Compile(g, opts...)
	if conflicts := lr.Conflicts(err); len(conflicts) > 0 {
		reportConflicts(conflicts)
		return res, nil
	}
	return res, err
}

func reportConflicts(conflicts []*lr.ConflictError) {
	for _, c := range conflicts {
		pterm.Error.Println(c.Error())
	}
	pterm.Warning.Printf("grammar has %d conflicts\n", len(conflicts))
}
