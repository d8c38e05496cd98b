package normalize

import (
	"errors"
	"testing"

	"github.com/npillmayer/lrcc/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func build(t *testing.T, rules func(b *lr.GrammarBuilder)) *lr.Grammar {
	b := lr.NewGrammarBuilder("G")
	rules(b)
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// E → E + T | T
// T → ( E ) | n
func exprGrammar(t *testing.T) *lr.Grammar {
	return build(t, func(b *lr.GrammarBuilder) {
		b.LHS("E").N("E").T("+").N("T").End()
		b.LHS("E").N("T").End()
		b.LHS("T").T("(").N("E").T(")").End()
		b.LHS("T").T("n").End()
	})
}

func normalize(t *testing.T, g *lr.Grammar, opts ...Option) (*lr.Grammar, *lr.Log) {
	t.Helper()
	ng, log, err := New(opts...).Normalize(g)
	if err != nil {
		t.Fatalf("normalization failed: %v\n%s", err, log)
	}
	return ng, log
}

func expectGrammar(t *testing.T, g *lr.Grammar, expected string) {
	t.Helper()
	if g.String() != expected {
		t.Errorf("expected grammar\n%s\ngot\n%s", expected, g.String())
	}
}

func TestDirectLeftRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	original := g.String()
	ng, log := normalize(t, g)
	expectGrammar(t, ng, "E → T E'0\nT → ( E ) | n\nE'0 → λ | + T E'0\n")
	if g.String() != original {
		t.Errorf("input grammar has been modified")
	}
	if !ng.FindTerm("E'0").IsGenerated() {
		t.Errorf("expected E'0 to be marked as generated")
	}
	if log.Count(lr.Notice) == 0 {
		t.Errorf("expected notices about the rewrite")
	}
	path, _ := lr.Analysis(ng).FindFirstLeftRecursionPath()
	if len(path) != 0 {
		t.Errorf("expected no left recursion, found %v", path)
	}
}

func TestIndirectLeftRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := build(t, func(b *lr.GrammarBuilder) {
		b.LHS("A").N("B").T("a").End()
		b.LHS("B").N("A").T("b").End()
		b.LHS("B").T("c").End()
	})
	ng, _ := normalize(t, g)
	expectGrammar(t, ng, "A → c a A'0\nA'0 → λ | b a A'0\n")
}

func TestLongIndirectLeftRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := build(t, func(b *lr.GrammarBuilder) {
		b.LHS("A").N("B").T("a").End()
		b.LHS("A").N("E").T("a").End()
		b.LHS("B").N("C").T("b").End()
		b.LHS("C").N("D").T("c").End()
		b.LHS("D").N("A").T("d").End()
		b.LHS("E").T("e").End()
	})
	ng, _ := normalize(t, g)
	expectGrammar(t, ng, "A → E a A'0\nE → e\nA'0 → λ | d c b a A'0\n")
	if err := lr.NewTableGenerator(lr.Analysis(ng)).CreateTables(); err != nil {
		t.Errorf("expected conflict-free table, got %v", err)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	ng, _ := normalize(t, exprGrammar(t))
	again, log := normalize(t, ng)
	if again.Fingerprint() != ng.Fingerprint() {
		t.Errorf("expected normalized grammar to be a fixed point, got\n%s", again)
	}
	if log.Count(lr.Notice) != 0 {
		t.Errorf("expected no rewrites, got\n%s", log)
	}
}

func TestRemoveDuplicateTerms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := build(t, func(b *lr.GrammarBuilder) {
		b.LHS("S").N("A").End()
		b.LHS("S").N("B").T("x").End()
		b.LHS("A").T("a").End()
		b.LHS("B").T("a").End()
	})
	ng, _ := normalize(t, g)
	expectGrammar(t, ng, "S → A | A x\nA → a\n")
}

func TestRemoveUselessTerms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := build(t, func(b *lr.GrammarBuilder) {
		b.LHS("S").T("a").End()
		b.LHS("S").N("U").End()
		b.LHS("U").N("U").T("u").End() // unproductive
		b.LHS("V").T("v").End()        // unreachable
	})
	ng, log := normalize(t, g)
	expectGrammar(t, ng, "S → a\n")
	if log.Count(lr.Error) != 0 {
		t.Errorf("expected no errors, got\n%s", log)
	}
}

func TestRemoveDuplicateRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := build(t, func(b *lr.GrammarBuilder) {
		b.LHS("S").T("b").End()
		b.LHS("S").T("a").End()
		b.LHS("S").T("b").End()
	})
	ng, _ := normalize(t, g)
	expectGrammar(t, ng, "S → a | b\n")
}

func TestHiddenLeftRecursionIsReported(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := build(t, func(b *lr.GrammarBuilder) {
		b.LHS("A").N("N").N("A").T("x").End()
		b.LHS("A").T("y").End()
		b.LHS("N").T("n").End()
		b.LHS("N").Epsilon()
	})
	ng, log := normalize(t, g)
	expectGrammar(t, ng, "A → y | N A x\nN → λ | n\n")
	if log.Count(lr.Warning) != 1 {
		t.Errorf("expected a single warning about hidden left recursion, got\n%s", log)
	}
}

func TestNestedLeftRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := build(t, func(b *lr.GrammarBuilder) {
		b.LHS("A").N("B").T("x").End()
		b.LHS("A").T("a").End()
		b.LHS("B").N("C").T("y").End()
		b.LHS("B").N("D").T("z").End()
		b.LHS("C").N("B").T("w").End()
		b.LHS("D").N("A").T("v").End()
	})
	ng, _ := normalize(t, g)
	expectGrammar(t, ng, "A → a A'0\nB'0 → λ | w y B'0\nA'0 → λ | v z B'0 x A'0\n")
	if path, err := lr.Analysis(ng).FindFirstLeftRecursionPath(); err != nil || path != nil {
		t.Errorf("expected no left recursion left, got %v, %v", path, err)
	}
}

func TestHiddenRecursionDoesNotBlockOthers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := build(t, func(b *lr.GrammarBuilder) {
		b.LHS("S").N("H").N("E").End()
		b.LHS("H").N("L").N("H").T("h").End()
		b.LHS("H").T("k").End()
		b.LHS("L").T("l").End()
		b.LHS("L").Epsilon()
		b.LHS("E").N("E").T("+").T("n").End()
		b.LHS("E").T("n").End()
	})
	ng, log := normalize(t, g)
	expectGrammar(t, ng, "S → H E\nH → k | L H h\nE → n E'0\nL → λ | l\nE'0 → λ | + n E'0\n")
	if lr.Analysis(ng).IsLeftRecursive(ng.FindTerm("E")) {
		t.Errorf("expected left recursion of E to be removed")
	}
	if log.Count(lr.Warning) != 1 {
		t.Errorf("expected a single warning for H, got\n%s", log)
	}
}

func TestPlainCycleBesideHiddenRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g := build(t, func(b *lr.GrammarBuilder) {
		b.LHS("A").N("L").N("A").T("x").End()
		b.LHS("A").N("B").T("y").End()
		b.LHS("B").N("A").T("z").End()
		b.LHS("L").T("l").End()
		b.LHS("L").Epsilon()
	})
	ng, log := normalize(t, g)
	expectGrammar(t, ng, "A → L A x A'0\nL → λ | l\nA'0 → λ | z y A'0\n")
	if log.Count(lr.Warning) != 1 {
		t.Errorf("expected the remaining hidden recursion to be reported once, got\n%s", log)
	}
}

func TestPassCeiling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	_, _, err := New(MaxPasses(1)).Normalize(exprGrammar(t))
	var nc *NonConvergenceError
	if !errors.As(err, &nc) {
		t.Fatalf("expected NonConvergenceError, got %v", err)
	}
	if nc.Oscillating || nc.Passes != 1 {
		t.Errorf("expected ceiling after 1 pass, got %v", nc)
	}
	found := false
	for _, name := range nc.Firing {
		found = found || name == "RemoveLeftRecursion"
	}
	if !found {
		t.Errorf("expected RemoveLeftRecursion to be reported as firing, got %v", nc.Firing)
	}
}

func TestOscillation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	flip := Precept{
		Name: "Flip",
		Apply: func(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error) {
			S, z := g.Start(), g.Token("z")
			for _, r := range S.Rules() {
				if len(r.Items()) == 1 && r.Items()[0] == lr.Item(z) {
					S.RemoveRule(r)
					return true, nil
				}
			}
			S.AddRule(z)
			return true, nil
		},
	}
	g := build(t, func(b *lr.GrammarBuilder) {
		b.LHS("S").T("a").End()
	})
	_, _, err := New(Precepts(flip)).Normalize(g)
	var nc *NonConvergenceError
	if !errors.As(err, &nc) {
		t.Fatalf("expected NonConvergenceError, got %v", err)
	}
	if !nc.Oscillating || nc.Passes != 2 {
		t.Errorf("expected oscillation to be detected in pass 2, got %v", nc)
	}
}

func TestPreceptError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	boom := errors.New("boom")
	failing := Precept{
		Name: "Failing",
		Apply: func(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error) {
			return false, boom
		},
	}
	ng, log, err := New(WithExtensions(failing)).Normalize(exprGrammar(t))
	if !errors.Is(err, boom) {
		t.Errorf("expected precept error to be wrapped, got %v", err)
	}
	if ng == nil || log.Count(lr.Error) != 1 {
		t.Errorf("expected partial result and one logged error")
	}
}

func TestPreceptByName(t *testing.T) {
	if p, ok := PreceptByName("InlineTails"); !ok || p.Name != "InlineTails" {
		t.Errorf("expected to find extension precept InlineTails")
	}
	if _, ok := PreceptByName("SortRules"); !ok {
		t.Errorf("expected to find default precept SortRules")
	}
	if _, ok := PreceptByName("NoSuchPrecept"); ok {
		t.Errorf("expected unknown precept not to be found")
	}
}
