package scanner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/lrcc"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/timtadh/lexmachine"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var tokenCounts = []int{1, 3, 3, 3, 5}

func TestScan1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.scanner")
	defer teardown()
	//
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		reader := strings.NewReader(input)
		name := fmt.Sprintf("input #%d", i)
		scanner := GoTokenizer(name, reader)
		token := scanner.NextToken()
		count := 0
		for token.Name() != lrcc.EOF {
			t.Logf(" %6s | %15s | @%5d", token.Name(), token.Lexeme(), token.Span().From())
			token = scanner.NextToken()
			count++
		}
		if count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestGoTokenizerNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.scanner")
	defer teardown()
	//
	input := `if x then 'c' else 3.14 + "s" ; 42`
	scanner := GoTokenizer("names", strings.NewReader(input), Keywords("if", "then", "else"))
	expected := []string{"if", Ident, "then", Char, "else", Float, "+", String, ";", Int, lrcc.EOF}
	for i, name := range expected {
		token := scanner.NextToken()
		if token.Name() != name {
			t.Errorf("token #%d: expected %q, got %q (%q)", i, name, token.Name(), token.Lexeme())
		}
	}
}

func TestUnifyStrings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.scanner")
	defer teardown()
	//
	scanner := GoTokenizer("unify", strings.NewReader("'c' `raw`"), UnifyStrings(true))
	for i := 0; i < 2; i++ {
		if token := scanner.NextToken(); token.Name() != String {
			t.Errorf("expected string token, got %v", token)
		}
	}
}

var lispTokenCounts = []int{1, 3, 2, 3, 3}

func TestLM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.scanner")
	defer teardown()
	//
	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`//[^\n]*\n?`), Skip)
		lexer.Add([]byte(`\"[^"]*\"`), MakeToken("STRING"))
		lexer.Add([]byte(`#?([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_|-)*[!\?]?`), MakeToken("ID"))
		lexer.Add([]byte(`[1-9][0-9]*`), MakeToken("NUM"))
		lexer.Add([]byte(`( |\,|\t|\n|\r)+`), Skip)
	}
	literals := []string{"'", "(", ")", "[", "]", "=", "+", "-", "*", "/"}
	keywords := []string{"nil", "t"}
	LM, err := NewLMAdapter(init, literals, keywords)
	if err != nil {
		t.Fatal(err)
	}
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		scanner, err := LM.Scanner(input)
		if err != nil {
			t.Error(err)
		}
		token := scanner.NextToken()
		count := 0
		for token.Name() != lrcc.EOF {
			t.Logf(" %6s | %15s | @%5d", token.Name(), token.Lexeme(), token.Span().From())
			token = scanner.NextToken()
			count++
		}
		if count != lispTokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, lispTokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestLMKeywordsAndLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.scanner")
	defer teardown()
	//
	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`[a-z]+`), MakeToken("ID"))
		lexer.Add([]byte(`( |\t|\n)+`), Skip)
	}
	LM, err := NewLMAdapter(init, []string{"(", ")"}, []string{"nil"})
	if err != nil {
		t.Fatal(err)
	}
	scanner, _ := LM.Scanner("(nil nilly)")
	expected := []string{"(", "nil", "ID", ")", lrcc.EOF}
	for i, name := range expected {
		token := scanner.NextToken()
		if token.Name() != name {
			t.Errorf("token #%d: expected %q, got %q", i, name, token.Name())
		}
	}
}
