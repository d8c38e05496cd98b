package lr

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// === Term Data =============================================================

// TermData holds the analysis results for a single term. All sets only grow
// during a refresh, which makes the refresh a monotone fixed point.
type TermData struct {
	term       *Term
	first      *treeset.Set // of *TokenItem, sorted by name
	hasLambda  bool
	children   *treeset.Set // of *TermData: left-corner successors
	dependents *treeset.Set // of *TermData: transitive left-corner successors
	ancestors  *treeset.Set // of *TermData: inverse of dependents
	dirty      bool
}

func tokenComparator(a, b interface{}) int {
	return utils.StringComparator(a.(*TokenItem).name, b.(*TokenItem).name)
}

func termDataComparator(a, b interface{}) int {
	return utils.IntComparator(a.(*TermData).term.serial, b.(*TermData).term.serial)
}

func newTermData(t *Term) *TermData {
	return &TermData{
		term:       t,
		first:      treeset.NewWith(tokenComparator),
		children:   treeset.NewWith(termDataComparator),
		dependents: treeset.NewWith(termDataComparator),
		ancestors:  treeset.NewWith(termDataComparator),
		dirty:      true,
	}
}

// Term returns the term this data belongs to.
func (td *TermData) Term() *Term { return td.term }

// HasLambda is true if the term derives the empty string.
func (td *TermData) HasLambda() bool { return td.hasLambda }

// First returns the FIRST set of the term, sorted by name.
func (td *TermData) First() []*TokenItem {
	return tokensOf(td.first)
}

// Children returns the terms directly reachable at a left corner.
func (td *TermData) Children() []*Term { return termsOf(td.children) }

// Dependents returns the terms transitively reachable at a left corner.
func (td *TermData) Dependents() []*Term { return termsOf(td.dependents) }

// Ancestors returns the terms which have this term as a dependent.
func (td *TermData) Ancestors() []*Term { return termsOf(td.ancestors) }

func tokensOf(set *treeset.Set) []*TokenItem {
	toks := make([]*TokenItem, 0, set.Size())
	for _, v := range set.Values() {
		toks = append(toks, v.(*TokenItem))
	}
	return toks
}

func termsOf(set *treeset.Set) []*Term {
	terms := make([]*Term, 0, set.Size())
	for _, v := range set.Values() {
		terms = append(terms, v.(*TermData).term)
	}
	return terms
}

// addFirst merges tokens into the FIRST set.
func (td *TermData) addFirst(toks ...interface{}) bool {
	before := td.first.Size()
	td.first.Add(toks...)
	return td.first.Size() > before
}

// join registers child as a left-corner successor of td, propagating FIRST
// tokens and the dependency relation transitively.
func (td *TermData) join(child *TermData) bool {
	changed := false
	if !td.children.Contains(child) {
		td.children.Add(child)
		changed = true
	}
	if td.addFirst(child.first.Values()...) {
		changed = true
	}
	deps := append([]interface{}{child}, child.dependents.Values()...)
	for _, x := range deps {
		dep := x.(*TermData)
		if !td.dependents.Contains(dep) {
			td.dependents.Add(dep)
			dep.ancestors.Add(td)
			changed = true
		}
	}
	return changed
}

// === Analyzer ==============================================================

// Analyzer computes FIRST sets, lambda-derivability and left-recursion for
// the terms of a grammar. Results are cached; the cache is refreshed lazily
// on the first query after Invalidate.
type Analyzer struct {
	g     *Grammar
	data  map[*Term]*TermData
	stale bool
}

// Analysis creates an analyzer for grammar g.
func Analysis(g *Grammar) *Analyzer {
	return &Analyzer{g: g, stale: true}
}

// Grammar returns the grammar under analysis.
func (ga *Analyzer) Grammar() *Grammar {
	return ga.g
}

// Invalidate marks the cache as stale. Clients have to call it after
// modifying the grammar.
func (ga *Analyzer) Invalidate() {
	ga.stale = true
}

// Refresh recomputes the analysis if the cache is stale.
func (ga *Analyzer) Refresh() {
	if !ga.stale {
		return
	}
	ga.data = make(map[*Term]*TermData, len(ga.g.terms))
	order := make([]*TermData, 0, len(ga.g.terms))
	for _, t := range ga.g.terms {
		td := newTermData(t)
		ga.data[t] = td
		order = append(order, td)
	}
	rounds := 0
	for changed := true; changed; rounds++ {
		changed = false
		for _, td := range order {
			if ga.propagate(td) {
				changed = true
			}
		}
	}
	tracer().Debugf("analysis of %q settled after %d rounds", ga.g.Name, rounds)
	ga.stale = false
}

// propagate scans the left corners of all rules of td's term. If anything
// changed, all ancestors are marked dirty.
func (ga *Analyzer) propagate(td *TermData) bool {
	if !td.dirty {
		return false
	}
	td.dirty = false
	changed := false
	for _, r := range td.term.rules {
		reachedEnd := true
		for _, item := range r.basic {
			if tok, ok := item.(*TokenItem); ok {
				if td.addFirst(tok) {
					changed = true
				}
				reachedEnd = false
				break
			}
			child := ga.termData(item.(*Term))
			if child == nil { // dangling term reference
				reachedEnd = false
				break
			}
			if td.join(child) {
				changed = true
			}
			if !child.hasLambda {
				reachedEnd = false
				break
			}
		}
		if reachedEnd && !td.hasLambda {
			td.hasLambda = true
			changed = true
		}
	}
	if changed {
		td.dirty = true // re-scan: td may be its own child
		for _, x := range td.ancestors.Values() {
			x.(*TermData).dirty = true
		}
	}
	return changed
}

func (ga *Analyzer) termData(t *Term) *TermData {
	return ga.data[t]
}

// TermData returns the analysis data for term t, or nil if t is not part of
// the grammar.
func (ga *Analyzer) TermData(t *Term) *TermData {
	ga.Refresh()
	return ga.data[t]
}

// HasLambda is true if term t derives the empty string.
func (ga *Analyzer) HasLambda(t *Term) bool {
	if td := ga.TermData(t); td != nil {
		return td.hasLambda
	}
	return false
}

// First returns FIRST(t), sorted by name.
func (ga *Analyzer) First(t *Term) []*TokenItem {
	if td := ga.TermData(t); td != nil {
		return td.First()
	}
	return nil
}

// IsLeftRecursive is true if t derives a string starting with t.
func (ga *Analyzer) IsLeftRecursive(t *Term) bool {
	if td := ga.TermData(t); td != nil {
		return td.dependents.Contains(td)
	}
	return false
}

// Firsts adds the FIRST tokens of item to out and returns true if item
// admits lambda. Prompts add nothing and admit lambda.
func (ga *Analyzer) Firsts(item Item, out *treeset.Set) bool {
	switch it := item.(type) {
	case *TokenItem:
		out.Add(it)
		return false
	case *Term:
		td := ga.TermData(it)
		if td == nil {
			return false
		}
		out.Add(td.first.Values()...)
		return td.hasLambda
	}
	return true
}

// NewTokenSet creates an empty set of tokens, ordered by name.
func NewTokenSet() *treeset.Set {
	return treeset.NewWith(tokenComparator)
}

// ClosureLookaheads computes the lookahead tokens for the closure items
// generated from a fragment of rule r with dot at basic item index:
// FIRST of the items after index, plus parent lookaheads if all of these
// items derive lambda. The result is sorted by name.
func (ga *Analyzer) ClosureLookaheads(r *Rule, index int, parent []*TokenItem) []*TokenItem {
	la := NewTokenSet()
	allLambda := true
	for i := index + 1; i < len(r.basic); i++ {
		if !ga.Firsts(r.basic[i], la) {
			allLambda = false
			break
		}
	}
	if allLambda {
		for _, tok := range parent {
			la.Add(tok)
		}
	}
	return tokensOf(la)
}

// FindFirstLeftRecursionPath returns the first left-recursion cycle of the
// grammar, starting with the recursive term. Returns nil if the grammar is
// free of left recursion.
//
// For A → B a, B → C b, C → D c, D → A d the path is [A B C D].
func (ga *Analyzer) FindFirstLeftRecursionPath() ([]*Term, error) {
	recursive := ga.LeftRecursiveTerms()
	if len(recursive) == 0 {
		return nil, nil
	}
	path := ga.LeftRecursionPath(recursive[0], nil)
	if path == nil {
		return nil, &InternalError{
			Op:  "left recursion path",
			Msg: fmt.Sprintf("no cycle leads back to %s", recursive[0]),
		}
	}
	return path, nil
}

// LeftRecursiveTerms returns all left-recursive terms in grammar order.
func (ga *Analyzer) LeftRecursiveTerms() []*Term {
	ga.Refresh()
	var terms []*Term
	for _, t := range ga.g.terms {
		if td := ga.data[t]; td.dependents.Contains(td) {
			terms = append(terms, t)
		}
	}
	return terms
}

// LeftRecursionPath returns a shortest left-recursion cycle through t,
// starting with t. If follow is not nil, the search only uses left-corner
// edges for which follow(from, to) holds. Returns nil if there is no such
// cycle.
func (ga *Analyzer) LeftRecursionPath(t *Term, follow func(from, to *Term) bool) []*Term {
	ga.Refresh()
	target := ga.data[t]
	if target == nil || !target.dependents.Contains(target) {
		return nil
	}
	// breadth-first over terms which lead back to target
	pred := map[*TermData]*TermData{target: nil}
	queue := []*TermData{target}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, x := range cur.children.Values() {
			c := x.(*TermData)
			if follow != nil && !follow(cur.term, c.term) {
				continue
			}
			if c == target {
				return cycle(pred, cur)
			}
			if _, seen := pred[c]; seen || !c.dependents.Contains(target) {
				continue
			}
			pred[c] = cur
			queue = append(queue, c)
		}
	}
	return nil
}

// cycle follows predecessor links from last back to the start of the search.
func cycle(pred map[*TermData]*TermData, last *TermData) []*Term {
	var path []*Term
	for td := last; td != nil; td = pred[td] {
		path = append(path, td.term)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// String lists FIRST sets, one line per term, with a lambda marker for
// lambda-derivable terms:
//
//     E: {( n}
//     E'0: {+} λ
//
func (ga *Analyzer) String() string {
	ga.Refresh()
	var b strings.Builder
	for _, t := range ga.g.terms {
		td := ga.data[t]
		names := make([]string, 0, td.first.Size())
		for _, tok := range td.First() {
			names = append(names, tok.name)
		}
		fmt.Fprintf(&b, "%s: {%s}", t.name, strings.Join(names, " "))
		if td.hasLambda {
			b.WriteString(" λ")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
