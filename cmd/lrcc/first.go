package main

import (
	"strings"

	"github.com/npillmayer/lrcc/lr/compiler"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "first <grammar.ebnf>",
		Short:   "Show the normalized grammar and its FIRST sets",
		Example: `  lrcc first expr.ebnf --start Expr`,
		Args:    cobra.ExactArgs(1),
		RunE:    runFirst,
	}
	rootCmd.AddCommand(cmd)
}

func runFirst(cmd *cobra.Command, args []string) error {
	res, err := compileFile(args[0])
	if err != nil {
		return err
	}
	showFirst(res)
	return nil
}

func showFirst(res *compiler.Result) {
	pterm.DefaultSection.Println("Grammar")
	pterm.Println(res.Grammar.String())
	pterm.DefaultSection.Println("FIRST sets")
	pterm.DefaultTable.WithHasHeader().WithData(firstTable(res.Analysis.String())).Render()
}

// firstTable splits the lines of an analysis dump ("E'0: {+} λ") into columns.
func firstTable(dump string) pterm.TableData {
	data := pterm.TableData{{"Term", "FIRST", "λ"}}
	for _, line := range strings.Split(strings.TrimSpace(dump), "\n") {
		i := strings.Index(line, ": {")
		j := strings.LastIndex(line, "}")
		if i < 0 || j < i {
			continue
		}
		lambda := ""
		if strings.HasSuffix(line, "λ") {
			lambda = "λ"
		}
		data = append(data, []string{line[:i], line[i+3 : j], lambda})
	}
	return data
}
