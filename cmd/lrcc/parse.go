package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/npillmayer/lrcc"
	"github.com/npillmayer/lrcc/lr"
	"github.com/npillmayer/lrcc/lr/driver"
	"github.com/npillmayer/lrcc/lr/scanner"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar.ebnf> <input>",
		Short:   "Recognize input with the parse table of a grammar",
		Example: `  lrcc parse expr.ebnf "1 + (2 + 3)"`,
		Args:    cobra.ExactArgs(2),
		RunE:    runParse,
	}
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	res, err := compileFile(args[0])
	if err != nil {
		return err
	}
	return parseInput(res.Table, res.Grammar, args[1])
}

// parseInput runs the table-driven parser and prints the reductions as a
// tree, innermost reductions first.
func parseInput(table *lr.Table, g *lr.Grammar, input string) error {
	var ll pterm.LeveledList
	hook := func(r *lr.Rule, span lrcc.Span) {
		ll = append(ll, pterm.LeveledListItem{Level: 1, Text: fmt.Sprintf("%v  %v", r, span)})
	}
	p := driver.NewParser(table, driver.OnReduce(hook))
	sc := scanner.GoTokenizer("input", strings.NewReader(input), scanner.Keywords(keywords(g)...))
	accepted, err := p.Parse(sc)
	if err != nil {
		return err
	}
	if !accepted {
		return fmt.Errorf("input not accepted")
	}
	ll = append(pterm.LeveledList{{Level: 0, Text: "reductions"}}, ll...)
	pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
	pterm.Success.Println("input accepted")
	return nil
}

// keywords returns the terminals of g which look like identifiers and are
// not one of the classes the Go tokenizer reports.
func keywords(g *lr.Grammar) []string {
	classes := map[string]bool{
		scanner.Ident: true, scanner.Int: true, scanner.Float: true,
		scanner.String: true, scanner.Char: true, scanner.Comment: true,
	}
	var kw []string
	for _, tok := range g.Tokens() {
		name := tok.Name()
		if classes[name] || !isIdentifier(name) {
			continue
		}
		kw = append(kw, name)
	}
	return kw
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !(unicode.IsLetter(r) || r == '_' || i > 0 && unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
