/*
Package ebnfload creates grammars from EBNF text, as understood by package
golang.org/x/exp/ebnf:

    Expr   = Term { ( "+" | "-" ) Term } .
    Term   = Factor { ( "*" | "/" ) Factor } .
    Factor = number | "(" Expr ")" .

Productions with an upper-case name become terms. Lower-case names are
lexical productions and become tokens, whether they are defined in the text
or not; their definitions are left to the scanner. Quoted literals become
tokens named by their text.

Groups, options and repetitions are replaced by generated terms:

    ( α | β )   ⇒   A'n → α | β
    [ α ]       ⇒   A'n → λ | α
    { α }       ⇒   A'n → λ | α A'n

where A is the production they occur in. Character ranges are not supported.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ebnfload

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/scanner"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/lrcc/lr"
	"github.com/npillmayer/schuko/tracing"
	"go.uber.org/multierr"
	"golang.org/x/exp/ebnf"
)

// tracer traces with key 'lrcc.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrcc.lr")
}

// Load reads an EBNF grammar from r. Filename is used for error positions and
// as the grammar's name. The start production has to have an upper-case name.
func Load(filename string, r io.Reader, start string) (*lr.Grammar, error) {
	productions, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	if !isTerm(start) {
		return nil, fmt.Errorf("start production %q has to have an upper-case name", start)
	}
	if productions[start] == nil {
		return nil, fmt.Errorf("%s: no production for start term %q", filename, start)
	}
	l := &loader{
		g:           lr.NewGrammar(filename),
		productions: productions,
	}
	l.g.SetStart(l.g.Term(start))
	names := make([]string, 0, len(productions))
	for name := range productions {
		if isTerm(name) && name != start {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range append([]string{start}, names...) {
		t := l.g.Term(name)
		for _, alt := range l.alternatives(name, productions[name].Expr) {
			t.AddRule(alt...)
		}
	}
	if l.errors != nil {
		return nil, l.errors
	}
	tracer().Infof("loaded grammar %q with %d terms", filename, len(l.g.Terms()))
	return l.g, nil
}

type loader struct {
	g           *lr.Grammar
	productions ebnf.Grammar
	errors      error
}

func (l *loader) errorf(pos scanner.Position, format string, args ...interface{}) {
	l.errors = multierr.Append(l.errors, fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...)))
}

// alternatives converts expr into a list of right hand sides. Generated
// terms are named after production base.
func (l *loader) alternatives(base string, expr ebnf.Expression) [][]lr.Item {
	switch x := expr.(type) {
	case nil:
		return [][]lr.Item{{}}
	case ebnf.Alternative:
		var alts [][]lr.Item
		for _, e := range x {
			alts = append(alts, l.alternatives(base, e)...)
		}
		return alts
	case ebnf.Sequence:
		items := make([]lr.Item, 0, len(x))
		for _, e := range x {
			if item := l.item(base, e); item != nil {
				items = append(items, item)
			}
		}
		return [][]lr.Item{items}
	}
	if item := l.item(base, expr); item != nil {
		return [][]lr.Item{{item}}
	}
	return [][]lr.Item{{}}
}

// item converts a single factor. Composite factors become generated terms.
func (l *loader) item(base string, expr ebnf.Expression) lr.Item {
	switch x := expr.(type) {
	case *ebnf.Name:
		if strings.HasPrefix(x.String, "$") {
			l.errorf(x.Pos(), "name %q is reserved", x.String)
			return nil
		}
		if !isTerm(x.String) {
			return l.g.Token(x.String)
		}
		if l.productions[x.String] == nil {
			l.errorf(x.Pos(), "undefined production %q", x.String)
			return nil
		}
		return l.g.Term(x.String)
	case *ebnf.Token:
		if strings.HasPrefix(x.String, "$") {
			l.errorf(x.Pos(), "literal %q is reserved", x.String)
			return nil
		}
		return l.g.Token(x.String)
	case *ebnf.Group:
		gen := l.g.GenerateTerm(base)
		for _, alt := range l.alternatives(base, x.Body) {
			gen.AddRule(alt...)
		}
		return gen
	case *ebnf.Option:
		gen := l.g.GenerateTerm(base)
		gen.AddRule()
		for _, alt := range l.alternatives(base, x.Body) {
			gen.AddRule(alt...)
		}
		return gen
	case *ebnf.Repetition:
		gen := l.g.GenerateTerm(base)
		gen.AddRule()
		for _, alt := range l.alternatives(base, x.Body) {
			gen.AddRule(append(alt, gen)...)
		}
		return gen
	case ebnf.Alternative, ebnf.Sequence:
		gen := l.g.GenerateTerm(base)
		for _, alt := range l.alternatives(base, x) {
			gen.AddRule(alt...)
		}
		return gen
	case *ebnf.Range:
		l.errorf(x.Pos(), "character ranges are not supported")
		return nil
	}
	l.errorf(expr.Pos(), "unsupported expression %T", expr)
	return nil
}

func isTerm(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
