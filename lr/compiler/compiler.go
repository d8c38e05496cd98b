/*
Package compiler runs the complete grammar compilation pipeline:
normalization, analysis, construction of the LR(1) automaton and assembly
of the parse table.

    res, err := compiler.Compile(g, compiler.ShiftBias(true))
    if conflicts := lr.Conflicts(err); len(conflicts) > 0 {
        fmt.Println(res.CFSM)    // result is usable for diagnostics
    }

The input grammar is never modified.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package compiler

import (
	"fmt"

	"github.com/npillmayer/lrcc/lr"
	"github.com/npillmayer/lrcc/lr/normalize"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrcc.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrcc.lr")
}

// Result holds all artifacts of a compilation. Grammar is the normalized
// and augmented copy of the input grammar.
type Result struct {
	Grammar  *lr.Grammar
	Analysis *lr.Analyzer
	CFSM     *lr.CFSM
	Table    *lr.Table
	Log      *lr.Log
}

type config struct {
	normalizeOpts []normalize.Option
	tableOpts     []lr.TableOption
	skipNormalize bool
}

// Option configures a compilation.
type Option func(*config)

// ShiftBias is passed on to the table generator, see lr.ShiftBias.
func ShiftBias(b bool) Option {
	return func(c *config) {
		c.tableOpts = append(c.tableOpts, lr.ShiftBias(b))
	}
}

// MaxPasses is passed on to the normalizer, see normalize.MaxPasses.
func MaxPasses(n int) Option {
	return func(c *config) {
		c.normalizeOpts = append(c.normalizeOpts, normalize.MaxPasses(n))
	}
}

// Extensions adds extension precepts to normalization.
func Extensions(precepts ...normalize.Precept) Option {
	return func(c *config) {
		c.normalizeOpts = append(c.normalizeOpts, normalize.WithExtensions(precepts...))
	}
}

// SkipNormalization compiles a copy of the grammar as is.
func SkipNormalization() Option {
	return func(c *config) {
		c.skipNormalize = true
	}
}

// Compile compiles grammar g into a parse table.
//
// For grammar conflicts the error wraps one lr.ConflictError per conflict,
// and the result is returned alongside, with colliding table cells holding
// both entries. For all other errors the result holds what has been
// computed so far.
func Compile(g *lr.Grammar, opts ...Option) (*Result, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	res := &Result{Log: lr.NewLog()}
	if cfg.skipNormalize {
		res.Grammar = g.Copy()
	} else {
		n := normalize.New(append(cfg.normalizeOpts, normalize.WithLog(res.Log))...)
		ng, _, err := n.Normalize(g)
		res.Grammar = ng
		if err != nil {
			return res, err
		}
	}
	res.Analysis = lr.Analysis(res.Grammar)
	lrgen := lr.NewTableGenerator(res.Analysis, append(cfg.tableOpts, lr.WithLog(res.Log))...)
	dfa, err := lrgen.CFSM()
	if err != nil {
		return res, fmt.Errorf("compiling grammar %q: %w", g.Name, err)
	}
	res.CFSM = dfa
	err = lrgen.CreateTables()
	res.Table = lrgen.Table()
	tracer().Infof("compiled grammar %q: %d states, %d conflicts",
		g.Name, len(dfa.States()), len(lr.Conflicts(err)))
	return res, err
}
