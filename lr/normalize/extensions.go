package normalize

import (
	"strings"

	"github.com/npillmayer/lrcc/lr"
)

// Extension precepts. They are not run by default; each of them trades a
// reduce boundary for a larger rule, which removes some shift/reduce
// conflicts without changing the language.
var (
	InlineSingleUseTerms      = Precept{Name: "InlineSingleUseTerms", Apply: inlineSingleUseTerms}
	InlineTails               = Precept{Name: "InlineTails", Apply: inlineTails}
	RemoveMonoproductiveTerms = Precept{Name: "RemoveMonoproductiveTerms", Apply: removeMonoproductiveTerms}
	RemoveLambdaChildConflict = Precept{Name: "RemoveLambdaChildConflict", Apply: removeLambdaChildConflict}
)

// Extensions returns all extension precepts.
func Extensions() []Precept {
	return []Precept{
		InlineSingleUseTerms,
		InlineTails,
		RemoveMonoproductiveTerms,
		RemoveLambdaChildConflict,
	}
}

// --- Inlining --------------------------------------------------------------

// inlineSingleUseTerms splices a term with a single rule into the one rule
// using it. The start term and self-referencing terms are never inlined.
func inlineSingleUseTerms(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error) {
	changed := false
	for _, t := range g.Terms() {
		if t == g.Start() || t.RuleCount() != 1 || uses(g, t) != 1 {
			continue
		}
		body := t.Rules()[0]
		if body.IsDirectlyRecursive() {
			continue
		}
		r, at := findUse(g, t)
		if r == nil || r.Term() == t {
			continue
		}
		items := r.Items()
		r.SetItems(concat(items[:at], body.Items(), items[at+1:])...)
		g.RemoveTerm(t)
		log.Noticef("InlineSingleUseTerms", "inlined %s into %v", t, r)
		changed = true
	}
	return changed, nil
}

// findUse returns the first rule using t, and the position of t in its items.
func findUse(g *lr.Grammar, t *lr.Term) (*lr.Rule, int) {
	for _, r := range g.Rules() {
		for i, item := range r.Items() {
			if item == lr.Item(t) {
				return r, i
			}
		}
	}
	return nil, -1
}

// removeMonoproductiveTerms replaces a term whose only rule is a single item
// (or λ) by that item (or by nothing) wherever it is used. Rules carrying
// prompts are left alone, as are the start term and self-references.
func removeMonoproductiveTerms(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error) {
	changed := false
	for _, t := range g.Terms() {
		if t == g.Start() || t.RuleCount() != 1 {
			continue
		}
		body := t.Rules()[0]
		if len(body.Items()) != body.Len() || body.Len() > 1 {
			continue
		}
		if body.Len() == 1 {
			item := body.BasicItems()[0]
			if item == lr.Item(t) {
				continue
			}
			n := g.Substitute(t, item)
			log.Noticef("RemoveMonoproductiveTerms", "replaced %d uses of %s by %s", n, t, item)
		} else {
			n := dropUses(g, t)
			log.Noticef("RemoveMonoproductiveTerms", "removed %d uses of lambda term %s", n, t)
		}
		g.RemoveTerm(t)
		changed = true
	}
	return changed, nil
}

func dropUses(g *lr.Grammar, t *lr.Term) int {
	n := 0
	for _, r := range g.Rules() {
		items := make([]lr.Item, 0, len(r.Items()))
		for _, item := range r.Items() {
			if item == lr.Item(t) {
				n++
				continue
			}
			items = append(items, item)
		}
		if len(items) != len(r.Items()) {
			r.SetItems(items...)
		}
	}
	return n
}

// --- Tail absorption -------------------------------------------------------

// inlineTails looks for a rule X → α B γ where some rule of B ends in a
// lambda-derivable term L with FIRST(L) ∩ FIRST(γ) ≠ ∅. The tail γ is moved
// into B's rules, so that deciding between L and γ no longer requires a
// reduction of B:
//
//     X → α B'0,  B'0 → β γ  (for every B → β)
//
// B is copied if it has other uses. One rule is rewritten per call.
func inlineTails(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error) {
	for _, r := range g.Rules() {
		items := r.Items()
		for at, item := range items {
			B, ok := item.(*lr.Term)
			if !ok || B == r.Term() || B.RuleCount() == 0 {
				continue
			}
			tail := items[at+1:]
			if !hasBasic(tail) || !endsInConflictingLambda(ga, B, tail) {
				continue
			}
			target := absorbTail(g, r, at, len(items))
			log.Noticef("InlineTails", "moved tail %s into %s", itemsString(tail), target)
			return true, nil
		}
	}
	return false, nil
}

func endsInConflictingLambda(ga *lr.Analyzer, B *lr.Term, tail []lr.Item) bool {
	follow := lr.NewTokenSet()
	for _, item := range tail {
		if !ga.Firsts(item, follow) {
			break
		}
	}
	for _, rb := range B.Rules() {
		basic := rb.BasicItems()
		if len(basic) == 0 {
			continue
		}
		L, ok := basic[len(basic)-1].(*lr.Term)
		if !ok || !ga.HasLambda(L) {
			continue
		}
		for _, tok := range ga.First(L) {
			if follow.Contains(tok) {
				return true
			}
		}
	}
	return false
}

// removeLambdaChildConflict looks for a rule X → α L p… t γ where L derives λ,
// t is a token in FIRST(L) and p… are prompts. The prompts and t are moved
// into L's rules:
//
//     X → α L'0 γ,  L'0 → β p… t  (for every L → β)
//
// L is copied if it has other uses. One rule is rewritten per call.
func removeLambdaChildConflict(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error) {
	for _, r := range g.Rules() {
		items := r.Items()
		for at, item := range items {
			L, ok := item.(*lr.Term)
			if !ok || L == r.Term() || !ga.HasLambda(L) {
				continue
			}
			j := at + 1
			for j < len(items) && !lr.IsBasic(items[j]) {
				j++
			}
			if j == len(items) {
				continue
			}
			tok, ok := items[j].(*lr.TokenItem)
			if !ok || !inFirst(ga, L, tok) {
				continue
			}
			target := absorbTail(g, r, at, j+1)
			log.Noticef("RemoveLambdaChildConflict", "moved %s into %s", tok, target)
			return true, nil
		}
	}
	return false, nil
}

func inFirst(ga *lr.Analyzer, t *lr.Term, tok *lr.TokenItem) bool {
	for _, f := range ga.First(t) {
		if f == tok {
			return true
		}
	}
	return false
}

// absorbTail rewrites r = X → α B τ ω, with B at position at and τ being
// items (at, end), into X → α B' ω, where B' has the rules of B with τ
// appended. B' is B itself if r holds the only use of B, a copy otherwise.
func absorbTail(g *lr.Grammar, r *lr.Rule, at, end int) *lr.Term {
	items := r.Items()
	B := items[at].(*lr.Term)
	target := B
	// any second use would see the appended tail, so copy from two uses on
	if uses(g, B) > 1 {
		target = g.CopyTerm(B)
	}
	tail := append([]lr.Item(nil), items[at+1:end]...)
	for _, rb := range target.Rules() {
		rb.SetItems(concat(rb.Items(), tail)...)
	}
	r.SetItems(concat(items[:at], []lr.Item{target}, items[end:])...)
	return target
}

func itemsString(items []lr.Item) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.String()
	}
	return strings.Join(names, " ")
}
