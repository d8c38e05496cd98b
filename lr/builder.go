package lr

import (
	"fmt"
	"strings"
)

// GrammarBuilder is a helper for constructing grammars in code.
//
//     b := lr.NewGrammarBuilder("Signed Variables Grammar")
//     b.LHS("Var").N("Sign").T("id").End()  // Var  →  Sign id
//     b.LHS("Sign").T("+").End()            // Sign →  +
//     b.LHS("Sign").T("-").End()            // Sign →  -
//     b.LHS("Sign").Epsilon()               // Sign →  λ
//     g, err := b.Grammar()
//
type GrammarBuilder struct {
	g      *Grammar
	start  string
	errors []string
	kinds  map[string]string // name -> "term" | "token"
}

// RuleBuilder collects the items of a single rule. Finish with End() or Epsilon().
type RuleBuilder struct {
	b     *GrammarBuilder
	lhs   *Term
	items []Item
}

// NewGrammarBuilder creates a builder for a new grammar.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		g:     NewGrammar(name),
		kinds: make(map[string]string),
	}
}

// LHS starts a new rule for term name.
func (b *GrammarBuilder) LHS(name string) *RuleBuilder {
	b.checkName(name, "term")
	if b.start == "" {
		b.start = name
	}
	return &RuleBuilder{b: b, lhs: b.g.Term(name)}
}

// Start sets the start term. Default is the LHS of the first rule.
func (b *GrammarBuilder) Start(name string) *GrammarBuilder {
	b.checkName(name, "term")
	b.start = name
	return b
}

// ErrorToken sets the name of the error terminal.
func (b *GrammarBuilder) ErrorToken(name string) *GrammarBuilder {
	b.checkName(name, "token")
	b.g.SetErrorToken(name)
	return b
}

func (b *GrammarBuilder) checkName(name, kind string) {
	if name == "" {
		b.errors = append(b.errors, fmt.Sprintf("empty %s name", kind))
		return
	}
	if strings.HasPrefix(name, "$") {
		b.errors = append(b.errors, fmt.Sprintf("name %q is reserved", name))
		return
	}
	if k, ok := b.kinds[name]; ok && k != kind {
		b.errors = append(b.errors, fmt.Sprintf("%q used as %s and as %s", name, k, kind))
		return
	}
	b.kinds[name] = kind
}

// Grammar returns the grammar built so far.
func (b *GrammarBuilder) Grammar() (*Grammar, error) {
	if b.start == "" {
		b.errors = append(b.errors, "grammar has no rules")
	} else {
		b.g.SetStart(b.g.Term(b.start))
	}
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("grammar %q: %s", b.g.Name, strings.Join(b.errors, "; "))
	}
	return b.g, nil
}

// N appends a term to the rule.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.b.checkName(name, "term")
	rb.items = append(rb.items, rb.b.g.Term(name))
	return rb
}

// T appends a token to the rule.
func (rb *RuleBuilder) T(name string) *RuleBuilder {
	rb.b.checkName(name, "token")
	rb.items = append(rb.items, rb.b.g.Token(name))
	return rb
}

// P appends a prompt to the rule.
func (rb *RuleBuilder) P(name string) *RuleBuilder {
	if name == "" {
		rb.b.errors = append(rb.b.errors, "empty prompt name")
	}
	rb.items = append(rb.items, rb.b.g.Prompt(name))
	return rb
}

// End finishes the rule and adds it to its term.
func (rb *RuleBuilder) End() *Rule {
	return rb.lhs.AddRule(rb.items...)
}

// Epsilon finishes the rule. Any items collected so far must be prompts.
func (rb *RuleBuilder) Epsilon() *Rule {
	for _, item := range rb.items {
		if IsBasic(item) {
			rb.b.errors = append(rb.b.errors,
				fmt.Sprintf("epsilon rule for %s contains item %s", rb.lhs.name, item))
		}
	}
	return rb.lhs.AddRule(rb.items...)
}
