package scanner

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/timtadh/lexmachine"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/tg"
)

func parensSymbols() map[string]tango.Symbol {
	return map[string]tango.Symbol{
		"(": tango.T(0),
		")": tango.T(1),
		"i": tango.T(2),
		"o": tango.T(3),
	}
}

func TestGoTokenizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.scanner")
	defer teardown()
	s := GoTokenizer("test", strings.NewReader("( i o )"), parensSymbols())
	expected := []struct {
		sym tango.Symbol
		col int
	}{
		{tango.T(0), 1}, {tango.T(2), 3}, {tango.T(3), 5}, {tango.T(1), 7}, {tango.EOF, 8},
	}
	for k, want := range expected {
		tok := s.NextToken()
		if tok.Sym != want.sym {
			t.Errorf("token %d = %v, want %v", k, tok.Sym, want.sym)
		}
		if tok.Loc.Row != 1 || tok.Loc.Col != want.col {
			t.Errorf("token %d location = %v, want 1:%d", k, tok.Loc, want.col)
		}
	}
	// exhausted scanners keep returning EOF
	if tok := s.NextToken(); !tok.Sym.IsEOF() {
		t.Errorf("exhausted tokenizer must return EOF, got %v", tok.Sym)
	}
}

func TestGoTokenizerIdentAttribute(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.scanner")
	defer teardown()
	s := GoTokenizer("test", strings.NewReader("i"), parensSymbols())
	tok := s.NextToken()
	if tok.Attr.Value() != "i" {
		t.Errorf("identifier lexeme should become the attribute, got %v", tok.Attr.Value())
	}
}

func TestGoTokenizerUnknownLexeme(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.scanner")
	defer teardown()
	s := GoTokenizer("test", strings.NewReader("( ? )"), parensSymbols())
	var failures []error
	s.SetErrorHandler(func(err error) { failures = append(failures, err) })
	var syms []tango.Symbol
	for {
		tok := s.NextToken()
		syms = append(syms, tok.Sym)
		if tok.Sym.IsEOF() {
			break
		}
	}
	if len(failures) != 1 {
		t.Fatalf("unknown lexeme must be reported exactly once, got %d reports", len(failures))
	}
	if len(syms) != 3 {
		t.Errorf("the unknown lexeme must be skipped, tokens: %v", syms)
	}
}

func TestGrammarSymbols(t *testing.T) {
	b := tg.NewBuilder("sym")
	b.Rule("S").T("a").T("b").End()
	g, err := b.Grammar("S")
	if err != nil {
		t.Fatal(err)
	}
	symbols := GrammarSymbols(g)
	if len(symbols) != 2 {
		t.Fatalf("want 2 lexemes, got %d", len(symbols))
	}
	if sym, ok := symbols["a"]; !ok || !sym.IsTerminal() {
		t.Errorf("lexeme a missing or wrong: %v", sym)
	}
}

func TestLMAdapter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.scanner")
	defer teardown()
	init := func(l *lexmachine.Lexer) {
		l.Add([]byte("( |\t|\n|\r)+"), Skip)
	}
	ids := map[string]int{"(": 0, ")": 1, "if": 2}
	adapter, err := NewLMAdapter(init, []string{"(", ")"}, []string{"if"}, ids)
	if err != nil {
		t.Fatal(err)
	}
	s, err := adapter.Scanner("( if )")
	if err != nil {
		t.Fatal(err)
	}
	want := []tango.Symbol{tango.T(0), tango.T(2), tango.T(1), tango.EOF}
	for k, sym := range want {
		tok := s.NextToken()
		if tok.Sym != sym {
			t.Errorf("token %d = %v, want %v", k, tok.Sym, sym)
		}
	}
}
