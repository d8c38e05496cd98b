package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/lrcc/lr/compiler"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const exprEBNF = `
Expr = Term { "+" Term } .
Term = "(" Expr ")" | int | "let" ident .
`

func TestFirstProduction(t *testing.T) {
	if p := firstProduction(exprEBNF); p != "Expr" {
		t.Errorf("expected first production Expr, got %q", p)
	}
	if p := firstProduction(`// nothing here`); p != "" {
		t.Errorf("expected no production, got %q", p)
	}
}

func TestFirstTable(t *testing.T) {
	data := firstTable("E: {( n}\nE'0: {+} λ\n")
	if len(data) != 3 {
		t.Fatalf("expected header and 2 rows, got %v", data)
	}
	if strings.Join(data[2], "|") != "E'0|+|λ" {
		t.Errorf("unexpected row %v", data[2])
	}
}

func TestShell(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "expr.ebnf")
	if err := os.WriteFile(path, []byte(exprEBNF), 0644); err != nil {
		t.Fatal(err)
	}
	sh := &Shell{cache: make(map[string]*compiler.Result)}
	if _, err := sh.Eval("table"); err == nil {
		t.Errorf("expected error without grammar")
	}
	if _, err := sh.Eval("load " + path); err != nil {
		t.Fatal(err)
	}
	kw := keywords(sh.res.Grammar)
	if strings.Join(kw, " ") != "let" {
		t.Errorf("expected keywords [let], got %v", kw)
	}
	for _, cmd := range []string{"grammar", "first", "states", "table", "log", "parse 1 + (let x)"} {
		if _, err := sh.Eval(cmd); err != nil {
			t.Errorf("command %q failed: %v", cmd, err)
		}
	}
	if _, err := sh.Eval("parse 1 +"); err == nil {
		t.Errorf("expected syntax error for incomplete input")
	}
	if _, err := sh.Eval("set shift-bias on"); err != nil {
		t.Fatal(err)
	}
	if _, err := sh.Eval("set shift-bias off"); err != nil {
		t.Fatal(err)
	}
	if len(sh.cache) != 2 {
		t.Errorf("expected 2 cached compilations, have %d", len(sh.cache))
	}
	if _, err := sh.Eval("frobnicate"); err == nil {
		t.Errorf("expected error for unknown command")
	}
	if quit, _ := sh.Eval("quit"); !quit {
		t.Errorf("expected quit to end the session")
	}
}
