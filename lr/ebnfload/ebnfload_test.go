package ebnfload

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const exprGrammar = `
Expr = Term { "+" Term } .
Term = "(" Expr ")" | int .
`

func TestLoadExpressionGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	g, err := Load("expr.ebnf", strings.NewReader(exprGrammar), "Expr")
	if err != nil {
		t.Fatal(err)
	}
	expected := "Expr → Term Expr'0\nTerm → ( Expr ) | int\nExpr'0 → λ | + Term Expr'0\n"
	if g.String() != expected {
		t.Errorf("expected grammar\n%s\ngot\n%s", expected, g.String())
	}
	if g.Start().Name() != "Expr" {
		t.Errorf("expected start term Expr, got %s", g.Start())
	}
	if !g.FindTerm("Expr'0").IsGenerated() {
		t.Errorf("expected Expr'0 to be a generated term")
	}
}

func TestLoadOptionAndGroup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	src := `Decl = [ "var" ] ident ( "=" | ":=" ) int .`
	g, err := Load("decl.ebnf", strings.NewReader(src), "Decl")
	if err != nil {
		t.Fatal(err)
	}
	expected := "Decl → Decl'0 ident Decl'1 int\nDecl'0 → λ | var\nDecl'1 → = | :=\n"
	if g.String() != expected {
		t.Errorf("expected grammar\n%s\ngot\n%s", expected, g.String())
	}
}

func TestLoadErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	for i, x := range []struct {
		src, start, msg string
	}{
		{`Letter = "a" … "z" .`, "Letter", "ranges"},
		{`S = Undefined .`, "S", "undefined production"},
		{`S = "a" .`, "T", "no production"},
		{`S = "a" .`, "s", "upper-case"},
		{`S = "a" `, "S", "expected"},
	} {
		_, err := Load("bad.ebnf", strings.NewReader(x.src), x.start)
		if err == nil {
			t.Errorf("test %d: expected error containing %q", i, x.msg)
		} else if !strings.Contains(err.Error(), x.msg) {
			t.Errorf("test %d: expected error containing %q, got %v", i, x.msg, err)
		}
	}
}
