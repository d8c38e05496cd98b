/*
Package normalize rewrites context-free grammars into a form suitable for
LR(1) table construction.

Normalization is a pipeline of precepts. A precept inspects a grammar,
possibly rewrites it, and reports whether it changed anything. The
normalizer runs all precepts in order, repeatedly, until a complete pass
leaves the grammar unchanged:

    n := normalize.New(normalize.MaxPasses(20))
    g2, log, err := n.Normalize(g)   // g stays untouched

The default precepts remove unused terms, unproductive rules, duplicate
rules and terms, and left recursion (direct and indirect). For example

    E → E + T | T
    T → n

is normalized to

    E → T E'0
    T → n
    E'0 → λ | + T E'0

Extension precepts, which bias the automaton towards shift actions, may be
appended with WithExtensions.

Normalization has to reach a fixed point within a maximum number of passes
(configuration key "lr.normalize.max-passes", default 64). If it does not,
or if a pass re-creates a grammar seen before, Normalize returns a
NonConvergenceError.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package normalize

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrcc.normalize'.
func tracer() tracing.Trace {
	return tracing.Select("lrcc.normalize")
}
