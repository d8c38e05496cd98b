package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statesFlags = struct {
	dot *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "states <grammar.ebnf>",
		Short:   "Show the LR(1) automaton of a grammar",
		Example: `  lrcc states expr.ebnf --dot cfsm.dot`,
		Args:    cobra.ExactArgs(1),
		RunE:    runStates,
	}
	statesFlags.dot = cmd.Flags().String("dot", "", "write the automaton in Graphviz format to a file")
	rootCmd.AddCommand(cmd)
}

func runStates(cmd *cobra.Command, args []string) error {
	res, err := compileFile(args[0])
	if err != nil {
		return err
	}
	if *statesFlags.dot != "" {
		f, err := os.Create(*statesFlags.dot)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := res.CFSM.ToGraphViz(f); err != nil {
			return err
		}
		pterm.Info.Printf("wrote %d states to %s\n", len(res.CFSM.States()), *statesFlags.dot)
		return nil
	}
	pterm.Println(res.CFSM.String())
	return nil
}
