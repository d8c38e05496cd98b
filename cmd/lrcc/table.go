package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/lrcc/lr"
	"github.com/npillmayer/lrcc/lr/compiler"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tableFlags = struct {
	html *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "table <grammar.ebnf>",
		Short:   "Show the parse table of a grammar",
		Example: `  lrcc table expr.ebnf --html table.html`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTable,
	}
	tableFlags.html = cmd.Flags().String("html", "", "write the table as HTML to a file")
	rootCmd.AddCommand(cmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	res, err := compileFile(args[0])
	if err != nil {
		return err
	}
	if *tableFlags.html != "" {
		f, err := os.Create(*tableFlags.html)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := lr.TableAsHTML(res.Table, f); err != nil {
			return err
		}
		pterm.Info.Printf("wrote table with %d states to %s\n", res.Table.StateCount(), *tableFlags.html)
		return nil
	}
	showTable(res)
	return nil
}

func showTable(res *compiler.Result) {
	pterm.DefaultTable.WithHasHeader().WithData(tableData(res.Table)).Render()
	for _, r := range res.Grammar.Rules() {
		pterm.Printf("r%d: %v\n", r.ID(), r)
	}
}

// tableData lays out a parse table with one row per state.
func tableData(t *lr.Table) pterm.TableData {
	header := append([]string{""}, t.Symbols()...)
	data := pterm.TableData{header}
	for i := 0; i < t.StateCount(); i++ {
		row := []string{fmt.Sprintf("%d", i)}
		for _, sym := range t.Symbols() {
			row = append(row, cell(t.Entries(i, sym)))
		}
		data = append(data, row)
	}
	return data
}

func cell(entries []lr.Entry) string {
	short := func(e lr.Entry) string {
		switch e.Kind {
		case lr.ShiftAction:
			return fmt.Sprintf("s%d", e.State)
		case lr.GotoAction:
			return fmt.Sprintf("%d", e.State)
		case lr.ReduceAction:
			return fmt.Sprintf("r%d", e.Rule.ID())
		case lr.AcceptAction:
			return "acc"
		}
		return ""
	}
	switch len(entries) {
	case 0:
		return ""
	case 1:
		return short(entries[0])
	}
	return short(entries[0]) + "/" + short(entries[1])
}
