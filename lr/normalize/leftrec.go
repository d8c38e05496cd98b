package normalize

import (
	"fmt"
	"strings"

	"github.com/npillmayer/lrcc/lr"
)

// removeLeftRecursion eliminates the shortest left-recursion cycle made of
// plain edges, i.e. rules starting with the next term of the cycle. An
// indirect cycle A → B …, B → C …, C → A … is first turned into direct
// recursion of A by substituting B and C at the left end of A's rules.
// Direct recursion is then replaced by right recursion on a generated term:
//
//     A → A α | β     ⇒     A → β A'0,  A'0 → λ | α A'0
//
// Terms which are left recursive only through lambda-derivable prefixes are
// reported and skipped.
func removeLeftRecursion(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error) {
	var path []*lr.Term
	for _, A := range ga.LeftRecursiveTerms() {
		p := ga.LeftRecursionPath(A, startsWith)
		if p == nil {
			warnOnce(log, "RemoveLeftRecursion", fmt.Sprintf(
				"left recursion %s is hidden behind lambda-derivable items",
				pathString(ga.LeftRecursionPath(A, nil))))
			continue
		}
		if path == nil || len(p) < len(path) {
			path = p
		}
	}
	if path == nil {
		return false, nil
	}
	A := path[0]
	if len(path) > 1 {
		log.Noticef("RemoveLeftRecursion", "indirect left recursion %s", pathString(path))
		for _, B := range path[1:] {
			inlineLeading(A, B)
		}
	}
	if !eliminateDirectRecursion(g, A, log) {
		return false, &lr.InternalError{
			Op:  "RemoveLeftRecursion",
			Msg: "no directly recursive rule after substitution along " + pathString(path),
		}
	}
	return true, nil
}

// startsWith is true if from has a rule whose first basic item is to.
func startsWith(from, to *lr.Term) bool {
	for _, r := range from.Rules() {
		if first, _ := leading(r); first == lr.Item(to) {
			return true
		}
	}
	return false
}

// warnOnce keeps repeated passes from logging the same warning again.
func warnOnce(log *lr.Log, source, msg string) {
	if !log.Contains(lr.Warning, source, msg) {
		log.Warningf(source, "%s", msg)
	}
}

// inlineLeading replaces every rule A → B γ by rules A → β γ, one for each
// rule B → β. Rule order is kept.
func inlineLeading(A, B *lr.Term) {
	var rules []*lr.Rule
	for _, r := range A.Rules() {
		first, at := leading(r)
		if first != lr.Item(B) {
			rules = append(rules, r)
			continue
		}
		items := r.Items()
		for _, rb := range B.Rules() {
			rules = append(rules, A.AddRule(concat(items[:at], rb.Items(), items[at+1:])...))
		}
	}
	A.SetRules(rules)
}

// eliminateDirectRecursion returns false if A has no rule starting with A.
func eliminateDirectRecursion(g *lr.Grammar, A *lr.Term, log *lr.Log) bool {
	var recursive, others []*lr.Rule
	for _, r := range A.Rules() {
		if first, _ := leading(r); first == lr.Item(A) {
			recursive = append(recursive, r)
		} else {
			others = append(others, r)
		}
	}
	if len(recursive) == 0 {
		return false
	}
	A1 := g.GenerateTerm(A.Name())
	A1.AddRule()
	for _, r := range recursive {
		_, at := leading(r)
		items := r.Items()
		alpha := concat(items[:at], items[at+1:])
		if !hasBasic(alpha) {
			log.Noticef("RemoveLeftRecursion", "dropped cyclic rule %v", r)
			continue
		}
		A1.AddRule(concat(alpha, []lr.Item{A1})...)
	}
	for _, r := range others {
		r.SetItems(concat(r.Items(), []lr.Item{A1})...)
	}
	A.SetRules(others)
	if len(others) == 0 {
		log.Warningf("RemoveLeftRecursion", "%s has no alternative without left recursion", A)
	}
	log.Noticef("RemoveLeftRecursion", "removed left recursion of %s with %s", A, A1)
	return true
}

func hasBasic(items []lr.Item) bool {
	for _, item := range items {
		if lr.IsBasic(item) {
			return true
		}
	}
	return false
}

func pathString(path []*lr.Term) string {
	names := make([]string, len(path))
	for i, t := range path {
		names[i] = t.Name()
	}
	return "[" + strings.Join(names, " ") + "]"
}
