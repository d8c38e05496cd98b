package lr

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func makeExprGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("G")
	b.LHS("E").N("E").T("+").N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").T("(").N("E").T(")").End()
	b.LHS("T").T("n").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	if g.Start() == nil || g.Start().Name() != "E" {
		t.Errorf("expected start term E, is %v", g.Start())
	}
	expected := "E → E + T | T\nT → ( E ) | n\n"
	if g.String() != expected {
		t.Errorf("expected grammar\n%s, got\n%s", expected, g.String())
	}
	if len(g.Rules()) != 4 {
		t.Errorf("expected 4 rules, have %d", len(g.Rules()))
	}
	if g.FindToken("+") == nil || g.FindToken("E") != nil {
		t.Errorf("tokens and terms mixed up")
	}
}

func TestBuilderErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Bad")
	b.LHS("A").T("A").End()
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected error for name used as term and as token")
	}
	b = NewGrammarBuilder("Reserved")
	b.LHS("A").T("$x").End()
	if _, err := b.Grammar(); err == nil || !strings.Contains(err.Error(), "reserved") {
		t.Errorf("expected error for reserved name, got %v", err)
	}
	b = NewGrammarBuilder("Epsilon")
	b.LHS("A").T("a").Epsilon()
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected error for epsilon rule with items")
	}
	if _, err := NewGrammarBuilder("Empty").Grammar(); err == nil {
		t.Errorf("expected error for empty grammar")
	}
}

func TestPrompts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("P")
	r := b.LHS("A").P("enter").T("a").P("leave").End()
	b.LHS("B").P("empty").Epsilon()
	if _, err := b.Grammar(); err != nil {
		t.Fatal(err)
	}
	if len(r.Items()) != 3 || r.Len() != 1 {
		t.Errorf("expected 3 items, 1 of them basic; have %d/%d", len(r.Items()), r.Len())
	}
	if r.String() != "A → @enter a @leave" {
		t.Errorf("unexpected rule format: %s", r)
	}
}

func TestRuleOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := NewGrammar("O")
	A := g.Term("A")
	withTerm := A.AddRule(g.Term("B"))
	withToken := A.AddRule(g.Token("b"))
	withPrompt := A.AddRule(g.Prompt("p"), g.Token("b"))
	lambda := A.AddRule()
	if !(lambda.Compare(withPrompt) < 0 && withPrompt.Compare(withToken) < 0 && withToken.Compare(withTerm) < 0) {
		t.Errorf("expected order λ < prompt < token < term")
	}
	if !withToken.Equal(A.AddRule(g.Token("b"))) {
		t.Errorf("expected equal rules to be equal")
	}
}

func TestGenerateTerm(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := NewGrammar("Gen")
	g.Term("E")
	g.Term("E'1") // taken by client
	if n := g.GenerateTerm("E").Name(); n != "E'0" {
		t.Errorf("expected E'0, got %s", n)
	}
	e2 := g.GenerateTerm("E")
	if e2.Name() != "E'2" || !e2.IsGenerated() {
		t.Errorf("expected generated term E'2, got %s", e2)
	}
	if n := g.GenerateTerm("T").Name(); n != "T'0" {
		t.Errorf("expected counters per base name, got %s", n)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	c := g.Copy()
	if c.Fingerprint() != g.Fingerprint() {
		t.Fatalf("expected copy to have the same fingerprint")
	}
	if c.String() != g.String() {
		t.Errorf("expected copy to print like original")
	}
	if c.Start() == g.Start() || c.Start().Name() != "E" {
		t.Errorf("expected start term of copy to be a fresh E")
	}
	c.FindTerm("T").AddRule(c.Token("x"))
	c.GenerateTerm("E")
	if c.Fingerprint() == g.Fingerprint() {
		t.Errorf("expected fingerprints to differ after modification of copy")
	}
	if g.FindTerm("T").RuleCount() != 2 || g.FindToken("x") != nil {
		t.Errorf("modification of copy leaked into original")
	}
	if n := g.GenerateTerm("E").Name(); n != "E'0" {
		t.Errorf("expected original counter untouched, got %s", n)
	}
	for _, r := range c.Rules() {
		for _, item := range r.Items() {
			if term, ok := item.(*Term); ok && term.Grammar() != c {
				t.Errorf("rule %v of copy references term of original", r)
			}
		}
	}
}

func TestSubstitute(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	n := g.Substitute(g.FindTerm("T"), g.Token("n"))
	if n != 2 {
		t.Errorf("expected 2 substitutions, have %d", n)
	}
	if g.FindTerm("E").Rules()[0].String() != "E → E + n" {
		t.Errorf("unexpected rule after substitution: %v", g.FindTerm("E").Rules()[0])
	}
}

func TestAugment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	r, err := g.Augment()
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "$Start → E $EOF" {
		t.Errorf("unexpected start rule %v", r)
	}
	if g.Start().Name() != StartTerm {
		t.Errorf("expected start term to be %s", StartTerm)
	}
	r2, err := g.Augment()
	if err != nil || r2 != r {
		t.Errorf("expected augmenting twice to be a no-op")
	}
}
