package normalize

import (
	"sort"

	"github.com/npillmayer/lrcc/lr"
)

// Default precepts, in the order they are run. Later precepts rely on the
// earlier ones.
var (
	RemoveUnusedTerms       = Precept{Name: "RemoveUnusedTerms", Apply: removeUnusedTerms}
	RemoveUnproductiveRules = Precept{Name: "RemoveUnproductiveRules", Apply: removeUnproductiveRules}
	SortRules               = Precept{Name: "SortRules", Apply: sortRules}
	RemoveDuplicateRules    = Precept{Name: "RemoveDuplicateRules", Apply: removeDuplicateRules}
	RemoveDuplicateTerms    = Precept{Name: "RemoveDuplicateTerms", Apply: removeDuplicateTerms}
	RemoveLeftRecursion     = Precept{Name: "RemoveLeftRecursion", Apply: removeLeftRecursion}
)

// DefaultPrecepts returns the list of precepts a Normalizer runs by default.
func DefaultPrecepts() []Precept {
	return []Precept{
		RemoveUnusedTerms,
		RemoveUnproductiveRules,
		SortRules,
		RemoveDuplicateRules,
		RemoveDuplicateTerms,
		RemoveLeftRecursion,
	}
}

// PreceptByName finds a default or extension precept.
func PreceptByName(name string) (Precept, bool) {
	for _, p := range append(DefaultPrecepts(), Extensions()...) {
		if p.Name == name {
			return p, true
		}
	}
	return Precept{}, false
}

// --- Reachability ----------------------------------------------------------

func removeUnusedTerms(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error) {
	start := g.Start()
	if start == nil {
		log.Warningf("RemoveUnusedTerms", "grammar %q has no start term", g.Name)
		return false, nil
	}
	reached := map[*lr.Term]bool{start: true}
	work := []*lr.Term{start}
	for len(work) > 0 {
		t := work[len(work)-1]
		work = work[:len(work)-1]
		for _, r := range t.Rules() {
			for _, item := range r.BasicItems() {
				if u, ok := item.(*lr.Term); ok && !reached[u] {
					reached[u] = true
					work = append(work, u)
				}
			}
		}
	}
	changed := false
	for _, t := range g.Terms() {
		if !reached[t] {
			g.RemoveTerm(t)
			log.Noticef("RemoveUnusedTerms", "removed unreachable term %s", t)
			changed = true
		}
	}
	return changed, nil
}

// --- Productivity ----------------------------------------------------------

func removeUnproductiveRules(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error) {
	productive := make(map[*lr.Term]bool)
	terms := g.Terms()
	for grown := true; grown; {
		grown = false
		for _, t := range terms {
			if productive[t] {
				continue
			}
			for _, r := range t.Rules() {
				if isProductive(r, productive) {
					productive[t] = true
					grown = true
					break
				}
			}
		}
	}
	changed := false
	for _, t := range terms {
		for _, r := range t.Rules() {
			if !isProductive(r, productive) {
				t.RemoveRule(r)
				log.Noticef("RemoveUnproductiveRules", "removed unproductive rule %v", r)
				changed = true
			}
		}
	}
	if start := g.Start(); start != nil && !productive[start] {
		log.Errorf("RemoveUnproductiveRules", "start term %s derives no string of tokens", start)
	}
	return changed, nil
}

// isProductive is true if all basic items of r are tokens or productive terms.
func isProductive(r *lr.Rule, productive map[*lr.Term]bool) bool {
	for _, item := range r.BasicItems() {
		if t, ok := item.(*lr.Term); ok && !productive[t] {
			return false
		}
	}
	return true
}

// --- Canonical order -------------------------------------------------------

func sortRules(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error) {
	changed := false
	for _, t := range g.Terms() {
		rules := t.Rules()
		sorted := t.Rules()
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Compare(sorted[j]) < 0
		})
		for i := range rules {
			if rules[i] != sorted[i] {
				t.SetRules(sorted)
				changed = true
				break
			}
		}
	}
	return changed, nil
}

func removeDuplicateRules(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error) {
	changed := false
	for _, t := range g.Terms() {
		rules := t.Rules()
		for i := 1; i < len(rules); i++ {
			if rules[i].Equal(rules[i-1]) {
				t.RemoveRule(rules[i])
				log.Noticef("RemoveDuplicateRules", "removed duplicate rule %v", rules[i])
				changed = true
			}
		}
	}
	return changed, nil
}

// --- Duplicate terms -------------------------------------------------------

func removeDuplicateTerms(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error) {
	changed := false
	for {
		keep, drop := findDuplicateTerms(g)
		if keep == nil {
			return changed, nil
		}
		n := g.Substitute(drop, keep)
		g.RemoveTerm(drop)
		log.Noticef("RemoveDuplicateTerms", "merged %s into %s (%d references)", drop, keep, n)
		changed = true
	}
}

// findDuplicateTerms returns the first pair of equivalent terms. The start
// term is always kept.
func findDuplicateTerms(g *lr.Grammar) (keep, drop *lr.Term) {
	terms := g.Terms()
	for i, a := range terms {
		if a.RuleCount() == 0 {
			continue
		}
		for _, b := range terms[i+1:] {
			if equivalentTerms(a, b) {
				if g.Start() == b {
					return b, a
				}
				return a, b
			}
		}
	}
	return nil, nil
}

// equivalentTerms is true if the rules of a and b match one to one, with a
// and b treated as the same item.
func equivalentTerms(a, b *lr.Term) bool {
	if a.RuleCount() != b.RuleCount() {
		return false
	}
	matched := make([]bool, b.RuleCount())
	brules := b.Rules()
	for _, ra := range a.Rules() {
		found := false
		for j, rb := range brules {
			if !matched[j] && sameModulo(ra.Items(), rb.Items(), a, b) {
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sameModulo(x, y []lr.Item, a, b *lr.Term) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] == y[i] {
			continue
		}
		if (x[i] == lr.Item(a) || x[i] == lr.Item(b)) && (y[i] == lr.Item(a) || y[i] == lr.Item(b)) {
			continue
		}
		return false
	}
	return true
}

// --- Helpers ---------------------------------------------------------------

// leading returns the first basic item of r and its position within r's
// items, or (nil, -1) for lambda rules.
func leading(r *lr.Rule) (lr.Item, int) {
	for i, item := range r.Items() {
		if lr.IsBasic(item) {
			return item, i
		}
	}
	return nil, -1
}

// concat joins item slices into a fresh slice.
func concat(parts ...[]lr.Item) []lr.Item {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	items := make([]lr.Item, 0, n)
	for _, p := range parts {
		items = append(items, p...)
	}
	return items
}

// uses counts the occurrences of t on right hand sides.
func uses(g *lr.Grammar, t *lr.Term) int {
	n := 0
	for _, r := range g.Rules() {
		for _, item := range r.BasicItems() {
			if item == lr.Item(t) {
				n++
			}
		}
	}
	return n
}
