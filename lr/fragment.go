package lr

import (
	"fmt"
	"strconv"
	"strings"
)

// Fragment is a dotted rule together with its lookahead tokens:
//
//     E → T • E'0  [$EOF +]
//
// The dot position is an index into the rule's basic items (prompts are not
// counted). Fragments are values and never change after creation.
type Fragment struct {
	rule       *Rule
	index      int
	lookaheads []*TokenItem // sorted by name
}

// StartFragment creates a fragment with the dot at the start of rule r.
func StartFragment(r *Rule, lookaheads []*TokenItem) Fragment {
	return Fragment{rule: r, index: 0, lookaheads: lookaheads}
}

// Rule returns the fragment's rule.
func (f Fragment) Rule() *Rule { return f.rule }

// Index returns the dot position.
func (f Fragment) Index() int { return f.index }

// Lookaheads returns the lookahead tokens, sorted by name.
func (f Fragment) Lookaheads() []*TokenItem { return f.lookaheads }

// AtEnd is true if the dot is behind the last basic item.
func (f Fragment) AtEnd() bool {
	return f.index >= len(f.rule.basic)
}

// Next returns the item after the dot, or nil.
func (f Fragment) Next() Item {
	if f.AtEnd() {
		return nil
	}
	return f.rule.basic[f.index]
}

// Advance returns the fragment with the dot moved one item to the right.
func (f Fragment) Advance() Fragment {
	return Fragment{rule: f.rule, index: f.index + 1, lookaheads: f.lookaheads}
}

// Equal is true if rule, index and lookahead sequence are equal.
func (f Fragment) Equal(other Fragment) bool {
	if f.rule != other.rule || f.index != other.index || len(f.lookaheads) != len(other.lookaheads) {
		return false
	}
	for i, la := range f.lookaheads {
		if la != other.lookaheads[i] {
			return false
		}
	}
	return true
}

// key is a map key with the same equality as Equal.
func (f Fragment) key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(f.rule.id))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(f.index))
	for _, la := range f.lookaheads {
		b.WriteByte(' ')
		b.WriteString(la.name)
	}
	return b.String()
}

func (f Fragment) String() string {
	var b strings.Builder
	b.WriteString(f.rule.term.name)
	b.WriteString(" →")
	for i, item := range f.rule.basic {
		if i == f.index {
			b.WriteString(" •")
		}
		b.WriteByte(' ')
		b.WriteString(item.String())
	}
	if f.AtEnd() {
		b.WriteString(" •")
	}
	names := make([]string, len(f.lookaheads))
	for i, la := range f.lookaheads {
		names[i] = la.name
	}
	fmt.Fprintf(&b, "  [%s]", strings.Join(names, " "))
	return b.String()
}
