/*
Package driver provides a table-driven LR(1) recognizer. Clients have to use
the tools of package lr (or lr/compiler) to prepare a parse table. The
driver utilizes this table to create a right derivation for a given input,
provided through a scanner interface.

Usage

    res, err := compiler.Compile(g)
    if err != nil { … }
    p := driver.NewParser(res.Table)
    accepted, err := p.Parse(scanner.GoTokenizer("input", strings.NewReader("((a))")))

The driver relies on the primary entry of every table cell. Tables with
conflicts may be used, but will silently prefer the entry written first.

Clients may observe reductions with a hook, e.g. for printing a derivation
or building a tree:

    p := driver.NewParser(table, driver.OnReduce(func(r *lr.Rule, span lrcc.Span) {
        fmt.Println(r)
    }))

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package driver

import (
	"fmt"
	"strings"

	"github.com/npillmayer/lrcc"
	"github.com/npillmayer/lrcc/lr"
	"github.com/npillmayer/lrcc/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrcc.driver'.
func tracer() tracing.Trace {
	return tracing.Select("lrcc.driver")
}

// Parser is a table-driven LR(1) parser. Create and initialize one with
// driver.NewParser(...)
type Parser struct {
	table    *lr.Table
	stack    []stackitem // parser stack
	onReduce func(*lr.Rule, lrcc.Span)
}

// We store pairs of state-IDs and symbol names on the parse stack.
type stackitem struct {
	state int       // ID of a CFSM state
	sym   string    // name of a grammar symbol (terminal or non-terminal)
	span  lrcc.Span // input span over which this symbol reaches
}

// Option configures a Parser.
type Option func(*Parser)

// OnReduce sets a hook, called for every reduction with the rule and the
// input span it covers.
func OnReduce(hook func(*lr.Rule, lrcc.Span)) Option {
	return func(p *Parser) {
		p.onReduce = hook
	}
}

// NewParser creates a parser for a parse table.
func NewParser(table *lr.Table, opts ...Option) *Parser {
	parser := &Parser{
		table: table,
		stack: make([]stackitem, 0, 512),
	}
	for _, opt := range opts {
		opt(parser)
	}
	return parser
}

// SyntaxError is reported for a token the table has no action for.
type SyntaxError struct {
	State    int
	Token    lrcc.Token
	Expected []string // terminals with an action in State
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in state %d at %s %q %v, expected one of: %s",
		e.State, e.Token.Name(), e.Token.Lexeme(), e.Token.Span(), strings.Join(e.Expected, " "))
}

// Parse starts a new parse, beginning in state 0, with a scanner tokenizing
// the input. The parser returns true if the input string has been accepted.
func (p *Parser) Parse(scan scanner.Tokenizer) (bool, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if p.table == nil {
		tracer().Errorf("LR(1)-parser not initialized")
		return false, fmt.Errorf("LR(1)-parser not initialized")
	}
	p.stack = append(p.stack[:0], stackitem{state: 0}) // push S0
	token := scan.NextToken()
	for {
		tracer().Debugf("got token %s/%q from scanner", token.Name(), token.Lexeme())
		tos := p.stack[len(p.stack)-1]
		action, ok := p.table.Action(tos.state, token.Name())
		if !ok {
			return false, &SyntaxError{State: tos.state, Token: token, Expected: p.expected(tos.state)}
		}
		tracer().Debugf("action(%d,%s)=%s", tos.state, token.Name(), action)
		switch action.Kind {
		case lr.AcceptAction:
			return true, nil
		case lr.ShiftAction:
			p.stack = append(p.stack, stackitem{action.State, token.Name(), token.Span()})
			token = scan.NextToken()
		case lr.ReduceAction:
			next, handlespan, err := p.reduce(action.Rule)
			if err != nil {
				return false, err
			}
			if handlespan.IsNull() { // resulted from an epsilon production
				pos := token.Span().From() // epsilon was just before lookahead
				handlespan = lrcc.Span{pos, pos}
			}
			if p.onReduce != nil {
				p.onReduce(action.Rule, handlespan)
			}
			tracer().Debugf("reduced to next state = %d", next)
			p.stack = append(p.stack, stackitem{next, action.Rule.Term().Name(), handlespan})
		default:
			return false, fmt.Errorf("unexpected table entry %s in state %d", action, tos.state)
		}
	}
}

// reduce performs a reduce action for a rule
//
//    LHS → X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn should be represented on the stack as states
//
//    [TOS]  Sn(Xn, span_n) ... S1(X1, span1)  ...
//
func (p *Parser) reduce(rule *lr.Rule) (int, lrcc.Span, error) {
	tracer().Infof("reduce %v", rule)
	handle := rule.BasicItems()
	var handlespan lrcc.Span
	for i := len(handle) - 1; i >= 0; i-- {
		tos := p.stack[len(p.stack)-1]
		if tos.sym != handle[i].Name() {
			return 0, handlespan, &lr.InternalError{
				Op:  "reduce",
				Msg: fmt.Sprintf("expected %v on top of stack, got %s", handle[i], tos.sym),
			}
		}
		handlespan = tos.span.Extend(handlespan)
		p.stack = p.stack[:len(p.stack)-1] // pop TOS
	}
	lhs := rule.Term().Name()
	state := p.stack[len(p.stack)-1].state
	next, ok := p.table.Action(state, lhs)
	if !ok || next.Kind != lr.GotoAction {
		return 0, handlespan, &lr.InternalError{
			Op:  "reduce",
			Msg: fmt.Sprintf("no goto for %s in state %d", lhs, state),
		}
	}
	return next.State, handlespan, nil
}

// expected lists the terminals with an action in state.
func (p *Parser) expected(state int) []string {
	var exp []string
	for _, sym := range p.table.Symbols() {
		if e, ok := p.table.Action(state, sym); ok && e.Kind != lr.GotoAction {
			exp = append(exp, sym)
		}
	}
	return exp
}
