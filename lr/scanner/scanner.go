/*
Package scanner defines an interface for scanners to be used with parsers of package lr.

Parse tables are indexed by terminal names, thus tokens report the grammar's
terminal name for what they have scanned. Two default scanner implementations
are provided: (1) a thin wrapper over the Go std lib 'text/scanner', and
(2) an adapter for lexmachine.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/npillmayer/lrcc"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrcc.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lrcc.scanner")
}

// Terminal names the Go tokenizer reports for classes of tokens.
const (
	Ident   = "ident"
	Int     = "int"
	Float   = "float"
	String  = "string"
	Char    = "char"
	Comment = "comment"
)

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() lrcc.Token
	SetErrorHandler(func(error))
}

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune        // last token this scanner has produced
	Error        func(error) // error handler
	unifyStrings bool        // convert single chars to strings
	keywords     map[string]bool
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
//
// Identifiers are reported as "ident", unless declared as keywords, which are
// reported by their own text, as are operators and punctuation. Numbers,
// strings and characters are reported as "int", "float", "string" and "char".
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{keywords: make(map[string]bool)}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(fmt.Errorf("%s: %s", s.Position, msg))
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() lrcc.Token {
	t.lastToken = t.Scan()
	if t.unifyStrings &&
		(t.lastToken == scanner.RawString || t.lastToken == scanner.Char) {
		t.lastToken = scanner.String
	}
	span := lrcc.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)}
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
		return MakeDefaultToken(lrcc.EOF, "", lrcc.Span{span.To(), span.To()})
	}
	lexeme := t.TokenText()
	return MakeDefaultToken(t.terminalName(lexeme), lexeme, span)
}

func (t *DefaultTokenizer) terminalName(lexeme string) string {
	switch t.lastToken {
	case scanner.Ident:
		if t.keywords[lexeme] {
			return lexeme
		}
		return Ident
	case scanner.Int:
		return Int
	case scanner.Float:
		return Float
	case scanner.String, scanner.RawString:
		return String
	case scanner.Char:
		return Char
	case scanner.Comment:
		return Comment
	}
	return lexeme
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the Go
// tokenizer as well as the LexMachine scanner.
type DefaultToken struct {
	name   string
	lexeme string
	Val    interface{}
	span   lrcc.Span
}

var _ lrcc.Token = DefaultToken{}

// MakeDefaultToken creates a token for terminal name.
func MakeDefaultToken(name string, lexeme string, span lrcc.Span) DefaultToken {
	return DefaultToken{
		name:   name,
		lexeme: lexeme,
		span:   span,
	}
}

// Name returns the terminal name of the token.
func (t DefaultToken) Name() string {
	return t.name
}

// Value returns Val.
func (t DefaultToken) Value() interface{} {
	return t.Val
}

// Lexeme returns the input text of the token.
func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

// Span returns the input position of the token.
func (t DefaultToken) Span() lrcc.Span {
	return t.span
}

func (t DefaultToken) String() string {
	if t.name == t.lexeme {
		return fmt.Sprintf("%q", t.name)
	}
	return fmt.Sprintf("%s(%q)", t.name, t.lexeme)
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenier.
type Option func(p *DefaultTokenizer)

// SkipComments set or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}

// Keywords declares identifiers to be reported by their own text.
func Keywords(words ...string) Option {
	return func(t *DefaultTokenizer) {
		for _, w := range words {
			t.keywords[w] = true
		}
	}
}
