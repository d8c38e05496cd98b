package lrcc

import "fmt"

// EOF is the reserved terminal name for end of input. Scanners have to report
// it when input is exhausted, and parse tables carry the accept action under it.
const EOF = "$EOF"

// --- A general purpose interface for tokens --------------------------------

// Tokens represent input tokens. They are usually produced by a scanner and
// reflect terminals in a language.
//
// An example would be a token for a floating point numer:
//
//    Name   = "float"     // terminal name as used in the grammar
//    Lexeme = "3.1316"    // lexeme how it appreared in the input stream
//    Value  = 3.1416      // is a float64 value
//    Span   = 67…73       // occured from position 67 in the input stream
//
// Parse tables are indexed by Token.Name().
type Token interface {
	Name() string
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. For every
// terminal and non-terminal, a parser will track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for the zero span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering s and other. Null spans are ignored.
func (s Span) Extend(other Span) Span {
	if s.IsNull() {
		return other
	}
	if other.IsNull() {
		return s
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

// String formats a span as (x…y).
func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
