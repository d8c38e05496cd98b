package lr

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/cnf/structhash"
	"github.com/npillmayer/lrcc"
)

// Reserved names. Clients may not use names starting with '$'.
const (
	EOFToken  = lrcc.EOF // end of input
	StartTerm = "$Start" // LHS of the augmented start rule
)

// === Items =================================================================

// Item is a grammar symbol as it occurs on the right hand side of a rule.
// It is one of *Term, *TokenItem or *Prompt.
type Item interface {
	Name() string
	String() string
	isItem()
}

// TokenItem is a terminal symbol, identified by name. TokenItems are interned
// per grammar, thus two TokenItems of a grammar are equal iff they are identical.
type TokenItem struct {
	name string
}

// Name returns the terminal's name.
func (tok *TokenItem) Name() string { return tok.name }

func (tok *TokenItem) String() string { return tok.name }

func (tok *TokenItem) isItem() {}

// Prompt is a zero-width marker for a semantic action. Prompts are kept in the
// rules at their position, but are invisible to analysis and to the LR(1)
// construction.
type Prompt struct {
	name string
}

// Name returns the prompt's name.
func (p *Prompt) Name() string { return p.name }

func (p *Prompt) String() string { return "@" + p.name }

func (p *Prompt) isItem() {}

// IsBasic is true for items relevant for parsing, i.e. terms and tokens.
func IsBasic(item Item) bool {
	_, isPrompt := item.(*Prompt)
	return !isPrompt
}

// itemRank orders kinds of items: prompts < tokens < terms.
func itemRank(item Item) int {
	switch item.(type) {
	case *Prompt:
		return 0
	case *TokenItem:
		return 1
	}
	return 2
}

// compareItems imposes a total order on items: by kind, then by name.
func compareItems(a, b Item) int {
	if ra, rb := itemRank(a), itemRank(b); ra != rb {
		return ra - rb
	}
	return strings.Compare(a.Name(), b.Name())
}

// === Terms =================================================================

// Term is a non-terminal. It owns an ordered list of rules, its alternatives.
type Term struct {
	name      string
	serial    int // creation order within the grammar
	g         *Grammar
	rules     []*Rule
	generated bool
}

// Name returns the term's name.
func (t *Term) Name() string { return t.name }

func (t *Term) String() string { return t.name }

func (t *Term) isItem() {}

// Serial returns the creation number of t within its grammar.
func (t *Term) Serial() int { return t.serial }

// Grammar returns the grammar owning t.
func (t *Term) Grammar() *Grammar { return t.g }

// IsGenerated is true for terms created by a grammar rewrite.
func (t *Term) IsGenerated() bool { return t.generated }

// Rules returns the alternatives of t. The slice is a copy, rules are not.
func (t *Term) Rules() []*Rule {
	return append([]*Rule(nil), t.rules...)
}

// RuleCount returns the number of alternatives of t.
func (t *Term) RuleCount() int { return len(t.rules) }

// AddRule appends a new alternative to t. All items have to be interned in
// t's grammar.
func (t *Term) AddRule(items ...Item) *Rule {
	r := &Rule{term: t, id: t.g.nextRuleID()}
	r.SetItems(items...)
	t.rules = append(t.rules, r)
	return r
}

// RemoveRule deletes rule r from t. Returns false if r is not a rule of t.
func (t *Term) RemoveRule(r *Rule) bool {
	for i, rule := range t.rules {
		if rule == r {
			t.rules = append(t.rules[:i], t.rules[i+1:]...)
			return true
		}
	}
	return false
}

// SetRules replaces the alternatives of t. Every rule has to belong to t.
func (t *Term) SetRules(rules []*Rule) {
	for _, r := range rules {
		if r.term != t {
			panic(fmt.Sprintf("rule %v does not belong to term %s", r, t.name))
		}
	}
	t.rules = append(t.rules[:0:0], rules...)
}

// === Rules =================================================================

// Rule is a production of a term, i.e. an ordered sequence of items.
type Rule struct {
	id    int // unique within grammar
	term  *Term
	items []Item
	basic []Item // items without prompts
}

// ID returns a number unique for r within its grammar.
func (r *Rule) ID() int { return r.id }

// Term returns the left hand side of r.
func (r *Rule) Term() *Term { return r.term }

// Items returns the right hand side of r, including prompts. The returned
// slice must not be modified.
func (r *Rule) Items() []Item { return r.items }

// BasicItems returns the right hand side of r without prompts. The returned
// slice must not be modified.
func (r *Rule) BasicItems() []Item { return r.basic }

// Len is the number of basic items.
func (r *Rule) Len() int { return len(r.basic) }

// SetItems replaces the right hand side of r.
func (r *Rule) SetItems(items ...Item) {
	r.items = append(make([]Item, 0, len(items)), items...)
	r.basic = make([]Item, 0, len(items))
	for _, item := range items {
		if IsBasic(item) {
			r.basic = append(r.basic, item)
		}
	}
}

// IsLambda is true if r derives the empty string directly.
func (r *Rule) IsLambda() bool { return len(r.basic) == 0 }

// IsDirectlyRecursive is true if r's term occurs in r's items.
func (r *Rule) IsDirectlyRecursive() bool {
	for _, item := range r.basic {
		if item == Item(r.term) {
			return true
		}
	}
	return false
}

// Equal compares the right hand sides of two rules, including prompts.
func (r *Rule) Equal(other *Rule) bool {
	return r.Compare(other) == 0
}

// Compare orders rules by comparing their items positionally. A rule which is
// a prefix of another one is ordered first.
func (r *Rule) Compare(other *Rule) int {
	for i := 0; i < len(r.items) && i < len(other.items); i++ {
		if c := compareItems(r.items[i], other.items[i]); c != 0 {
			return c
		}
	}
	return len(r.items) - len(other.items)
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s → %s", r.term.name, itemsString(r.items))
}

func itemsString(items []Item) string {
	if len(items) == 0 {
		return "λ"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item.String())
	}
	return b.String()
}

// === Grammar ===============================================================

// Grammar is a context-free grammar. It is the sole owner of its terms; rules
// reference terms, tokens and prompts of the same grammar only.
type Grammar struct {
	Name       string
	terms      []*Term
	termsByID  map[string]*Term
	tokens     map[string]*TokenItem
	prompts    map[string]*Prompt
	start      *Term
	errorToken string
	counters   map[string]int // suffix counters for generated terms, per base name
	termSerial int
	ruleSerial int
}

// NewGrammar creates an empty grammar.
func NewGrammar(name string) *Grammar {
	return &Grammar{
		Name:      name,
		termsByID: make(map[string]*Term),
		tokens:    make(map[string]*TokenItem),
		prompts:   make(map[string]*Prompt),
		counters:  make(map[string]int),
	}
}

func (g *Grammar) nextRuleID() int {
	g.ruleSerial++
	return g.ruleSerial
}

// Term returns the term with the given name, creating it if necessary.
func (g *Grammar) Term(name string) *Term {
	if t, ok := g.termsByID[name]; ok {
		return t
	}
	g.termSerial++
	t := &Term{name: name, serial: g.termSerial, g: g}
	g.terms = append(g.terms, t)
	g.termsByID[name] = t
	return t
}

// FindTerm returns the term with the given name, or nil.
func (g *Grammar) FindTerm(name string) *Term {
	return g.termsByID[name]
}

// Token returns the interned terminal with the given name.
func (g *Grammar) Token(name string) *TokenItem {
	if tok, ok := g.tokens[name]; ok {
		return tok
	}
	tok := &TokenItem{name: name}
	g.tokens[name] = tok
	return tok
}

// FindToken returns the terminal with the given name, or nil.
func (g *Grammar) FindToken(name string) *TokenItem {
	return g.tokens[name]
}

// Prompt returns the interned prompt with the given name.
func (g *Grammar) Prompt(name string) *Prompt {
	if p, ok := g.prompts[name]; ok {
		return p
	}
	p := &Prompt{name: name}
	g.prompts[name] = p
	return p
}

// SetStart sets the start term.
func (g *Grammar) SetStart(t *Term) {
	g.start = t
}

// Start returns the start term, or nil.
func (g *Grammar) Start() *Term {
	return g.start
}

// SetErrorToken sets the name of the terminal a scanner will emit on lexical errors.
func (g *Grammar) SetErrorToken(name string) {
	g.errorToken = name
}

// ErrorToken returns the name of the error terminal, if any.
func (g *Grammar) ErrorToken() string {
	return g.errorToken
}

// Terms returns all terms in creation order.
func (g *Grammar) Terms() []*Term {
	return append([]*Term(nil), g.terms...)
}

// Tokens returns all terminals, sorted by name.
func (g *Grammar) Tokens() []*TokenItem {
	toks := make([]*TokenItem, 0, len(g.tokens))
	for _, tok := range g.tokens {
		toks = append(toks, tok)
	}
	sort.Slice(toks, func(i, j int) bool { return toks[i].name < toks[j].name })
	return toks
}

// Rules returns all rules of all terms, in term order.
func (g *Grammar) Rules() []*Rule {
	var rules []*Rule
	for _, t := range g.terms {
		rules = append(rules, t.rules...)
	}
	return rules
}

// EachTerm calls f for every term, in creation order.
func (g *Grammar) EachTerm(f func(t *Term)) {
	for _, t := range g.Terms() {
		f(t)
	}
}

// RemoveTerm deletes t from the grammar. References to t in rules are not
// touched, clients have to take care of them.
func (g *Grammar) RemoveTerm(t *Term) {
	for i, term := range g.terms {
		if term == t {
			g.terms = append(g.terms[:i], g.terms[i+1:]...)
			delete(g.termsByID, t.name)
			if g.start == t {
				g.start = nil
			}
			return
		}
	}
}

// Substitute replaces every occurence of item old in any rule with item new.
// It returns the number of replacements.
func (g *Grammar) Substitute(old, new Item) int {
	cnt := 0
	for _, r := range g.Rules() {
		changed := false
		items := append([]Item(nil), r.items...)
		for i, item := range items {
			if item == old {
				items[i] = new
				changed = true
				cnt++
			}
		}
		if changed {
			r.SetItems(items...)
		}
	}
	return cnt
}

// GenerateTerm creates a fresh term named after base. Suffixes are counted per
// base name: A'0, A'1, …
func (g *Grammar) GenerateTerm(base string) *Term {
	for {
		n := g.counters[base]
		g.counters[base] = n + 1
		name := fmt.Sprintf("%s'%d", base, n)
		if _, exists := g.termsByID[name]; !exists {
			t := g.Term(name)
			t.generated = true
			return t
		}
	}
}

// CopyTerm creates a generated term with copies of all rules of t.
func (g *Grammar) CopyTerm(t *Term) *Term {
	c := g.GenerateTerm(t.name)
	for _, r := range t.rules {
		c.AddRule(r.items...)
	}
	return c
}

// Augment adds the rule
//
//     $Start → S $EOF
//
// for start term S, if not already present, and returns it.
func (g *Grammar) Augment() (*Rule, error) {
	if g.start == nil {
		return nil, fmt.Errorf("grammar %q has no start term", g.Name)
	}
	if g.start.name == StartTerm {
		if len(g.start.rules) == 1 {
			return g.start.rules[0], nil
		}
		return nil, fmt.Errorf("augmented start term of grammar %q is malformed", g.Name)
	}
	if t := g.FindTerm(StartTerm); t != nil {
		g.RemoveTerm(t)
	}
	s := g.Term(StartTerm)
	s.generated = true
	r := s.AddRule(g.start, g.Token(EOFToken))
	g.start = s
	return r, nil
}

// Copy creates a deep copy of g. Rule IDs, term serials and generator counters
// are preserved, thus copies evolve independently but comparably.
func (g *Grammar) Copy() *Grammar {
	c := NewGrammar(g.Name)
	c.errorToken = g.errorToken
	c.termSerial = g.termSerial
	c.ruleSerial = g.ruleSerial
	for k, v := range g.counters {
		c.counters[k] = v
	}
	termMap := make(map[*Term]*Term, len(g.terms))
	for _, t := range g.terms {
		ct := &Term{name: t.name, serial: t.serial, g: c, generated: t.generated}
		c.terms = append(c.terms, ct)
		c.termsByID[ct.name] = ct
		termMap[t] = ct
	}
	for name := range g.tokens {
		c.Token(name)
	}
	for name := range g.prompts {
		c.Prompt(name)
	}
	for _, t := range g.terms {
		ct := termMap[t]
		for _, r := range t.rules {
			items := make([]Item, len(r.items))
			for i, item := range r.items {
				switch it := item.(type) {
				case *Term:
					if mapped, ok := termMap[it]; ok {
						items[i] = mapped
					} else { // dangling reference, re-create by name
						items[i] = c.Term(it.name)
					}
				case *TokenItem:
					items[i] = c.Token(it.name)
				case *Prompt:
					items[i] = c.Prompt(it.name)
				}
			}
			cr := &Rule{term: ct, id: r.id}
			cr.SetItems(items...)
			ct.rules = append(ct.rules, cr)
		}
	}
	if g.start != nil {
		c.start = termMap[g.start]
	}
	return c
}

// grammarShape is a plain snapshot of a grammar's structure, suitable for hashing.
type grammarShape struct {
	Start string
	Terms []termShape
}

type termShape struct {
	Name  string
	Rules [][]string
}

// Fingerprint returns a hash over the structure of g: start term, terms in
// order and their rules. Two grammars with equal fingerprints are structurally
// identical (up to hash collisions).
func (g *Grammar) Fingerprint() string {
	shape := grammarShape{}
	if g.start != nil {
		shape.Start = g.start.name
	}
	for _, t := range g.terms {
		ts := termShape{Name: t.name}
		for _, r := range t.rules {
			rhs := make([]string, len(r.items))
			for i, item := range r.items {
				rhs[i] = fmt.Sprintf("%d:%s", itemRank(item), item.Name())
			}
			ts.Rules = append(ts.Rules, rhs)
		}
		shape.Terms = append(shape.Terms, ts)
	}
	h, err := structhash.Hash(shape, 1)
	if err != nil { // cannot happen for plain structs
		panic(fmt.Sprintf("cannot hash grammar: %v", err))
	}
	return h
}

// String lists one line per term, alternatives separated by '|'.
func (g *Grammar) String() string {
	var b bytes.Buffer
	for _, t := range g.terms {
		b.WriteString(t.name)
		b.WriteString(" →")
		for i, r := range t.rules {
			if i > 0 {
				b.WriteString(" |")
			}
			b.WriteByte(' ')
			b.WriteString(itemsString(r.items))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Dump is a debugging helper, writing all rules to the tracer.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s ---------------------------", g.Name)
	if g.start != nil {
		tracer().Debugf("start = %s", g.start.name)
	}
	for i, r := range g.Rules() {
		tracer().Debugf("%3d: %s", i, r)
	}
	tracer().Debugf("-----------------------------------------")
}
