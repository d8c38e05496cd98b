/*
Package lr implements a compiler for LR(1) parse tables.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of terms (non-terminals), tokens (terminals) and prompts
(zero-width markers for semantic actions). Grammars may contain lambda-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a").End()     // S  →  A a
    b.LHS("A").N("B").N("D").End()     // A  →  B D
    b.LHS("B").T("b").End()            // B  →  b
    b.LHS("B").Epsilon()               // B  →  λ
    b.LHS("D").T("d").P("gotD").End()  // D  →  d @gotD
    b.LHS("D").Epsilon()               // D  →  λ
    g, err := b.Grammar()

The first LHS becomes the start term, unless the builder is told otherwise.

Static Grammar Analysis

An Analyzer computes FIRST sets, lambda-derivability and left-recursion
cycles. Results are cached and refreshed lazily; after modifying a grammar,
clients have to call Invalidate.

    ga := lr.Analysis(g)
    fmt.Println(ga)

    // Output:
    S: {a b d}
    A: {b d} λ
    B: {b} λ
    D: {d} λ

Parser Construction

Grammars usually are normalized first (see package lr/normalize). Using
grammar analysis as input, an LR(1) automaton (CFSM) is constructed and
flattened into a parse table. The CFSM will not be thrown away,
but is made available to the client.  This is intended
for debugging purposes, but may be useful for error recovery, too.
It can be exported to Graphviz's Dot-format.

Example:

    lrgen := lr.NewTableGenerator(ga)  // ga is an Analyzer, see above
    if err := lrgen.CreateTables(); err != nil {
        for _, c := range lr.Conflicts(err) { … }
    }
    table := lrgen.Table()

Concurrency

Nothing in this package is safe for concurrent use. Grammars are mutated in
place by rewrites and by table construction (augmentation).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrcc.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrcc.lr")
}
