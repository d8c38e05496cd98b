package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/cnf/structhash"
	"github.com/npillmayer/lrcc/lr/compiler"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var shellFlags = struct {
	init *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "shell [grammar.ebnf]",
		Short: "Interactive mode",
		Long: `shell starts an interactive session. A grammar is loaded once and may then
be inspected and used for parsing. Type 'help' for a list of commands.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShell,
	}
	shellFlags.init = cmd.Flags().String("init", "", "file with commands to run before interactive mode")
	rootCmd.AddCommand(cmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	repl, err := readline.New("lrcc> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	sh := &Shell{
		repl:  repl,
		cache: make(map[string]*compiler.Result),
	}
	pterm.Info.Println("Welcome to lrcc. Quit with <ctrl>D or 'quit'")
	if len(args) > 0 {
		if err := sh.load(args[0]); err != nil {
			pterm.Error.Println(err.Error())
		}
	}
	sh.loadInitFile(*shellFlags.init)
	sh.REPL()
	return nil
}

// Shell is the state of an interactive session.
type Shell struct {
	repl   *readline.Instance
	path   string // grammar file
	source string // EBNF text of grammar file
	res    *compiler.Result
	cache  map[string]*compiler.Result
}

// cacheKey identifies a compilation. Compiling is repeated only if the
// source or one of the flags influencing the result has changed.
type cacheKey struct {
	Source    string
	Start     string
	ShiftBias bool
	MaxPasses int
	Ext       []string
}

func (sh *Shell) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("unable to open init file: %s", filename)
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := sh.Eval(line); err != nil {
			tracer().Errorf("init file line %d: %v", lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("error while reading init file: %v", err)
	}
}

// REPL reads and executes commands until EOF or 'quit'.
func (sh *Shell) REPL() {
	for {
		line, err := sh.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := sh.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Println("Good bye!")
}

const shellHelp = `load <file>            load and compile a grammar
reload                 re-read the grammar file
grammar                show the normalized grammar
first                  show FIRST sets
states                 show the LR(1) automaton
table                  show the parse table
log                    show normalization and table construction diagnostics
parse <input>          recognize input
set shift-bias on|off  resolve dangling-else conflicts to shift
set max-passes <n>     ceiling for normalization passes
set ext <p1,p2,...>    extension precepts (empty for none)
set start <name>       start production
trace <level>          set trace level [Debug|Info|Error]
quit                   leave the shell`

// Eval executes a single command line. It returns true if the session
// should end.
func (sh *Shell) Eval(line string) (bool, error) {
	cmd, arg := line, ""
	if i := strings.IndexAny(line, " \t"); i > 0 {
		cmd, arg = line[:i], strings.TrimSpace(line[i+1:])
	}
	tracer().Debugf("shell command %q, arg %q", cmd, arg)
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		pterm.Println(shellHelp)
		return false, nil
	case "load":
		if arg == "" {
			return false, fmt.Errorf("usage: load <file>")
		}
		return false, sh.load(arg)
	case "reload":
		if sh.path == "" {
			return false, fmt.Errorf("no grammar loaded")
		}
		return false, sh.load(sh.path)
	case "set":
		return false, sh.set(arg)
	case "trace":
		*rootFlags.trace = arg
		return false, setTraceLevel(nil, nil)
	}
	if sh.res == nil {
		return false, fmt.Errorf("no grammar loaded")
	}
	switch cmd {
	case "grammar":
		pterm.Println(sh.res.Grammar.String())
	case "first":
		showFirst(sh.res)
	case "states":
		pterm.Println(sh.res.CFSM.String())
	case "table":
		showTable(sh.res)
	case "log":
		for _, e := range sh.res.Log.Entries() {
			pterm.Println(e.String())
		}
	case "parse":
		return false, parseInput(sh.res.Table, sh.res.Grammar, arg)
	default:
		return false, fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
	return false, nil
}

func (sh *Shell) load(path string) error {
	src, err := readSource(path)
	if err != nil {
		return err
	}
	sh.path, sh.source = path, src
	return sh.compile()
}

// compile compiles the current source with the current flags, unless an
// identical compilation is cached.
func (sh *Shell) compile() error {
	if sh.path == "" {
		return nil
	}
	key, err := structhash.Hash(cacheKey{
		Source:    sh.source,
		Start:     *rootFlags.start,
		ShiftBias: *rootFlags.shiftBias,
		MaxPasses: *rootFlags.maxPasses,
		Ext:       *rootFlags.ext,
	}, 1)
	if err != nil {
		return err
	}
	if res, ok := sh.cache[key]; ok {
		tracer().Infof("using cached compilation of %s", sh.path)
		sh.res = res
		return nil
	}
	res, err := compileSource(sh.path, sh.source)
	if err != nil {
		return err
	}
	sh.cache[key] = res
	sh.res = res
	pterm.Info.Printf("%s: %d terms, %d states\n", sh.path, len(res.Grammar.Terms()), len(res.CFSM.States()))
	return nil
}

func (sh *Shell) set(arg string) error {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return fmt.Errorf("usage: set <option> <value>")
	}
	value := ""
	if len(fields) > 1 {
		value = fields[1]
	}
	switch fields[0] {
	case "shift-bias":
		*rootFlags.shiftBias = value == "on" || value == "true"
	case "max-passes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max-passes: %w", err)
		}
		*rootFlags.maxPasses = n
	case "ext":
		var ext []string
		if value != "" {
			ext = strings.Split(value, ",")
		}
		*rootFlags.ext = ext
	case "start":
		*rootFlags.start = value
	default:
		return fmt.Errorf("unknown option %q", fields[0])
	}
	return sh.compile()
}

// tracer traces with key 'lrcc.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrcc.lr")
}
