package ll

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/tg"
)

type sliceSource struct {
	tokens []tango.Token
	pos    int
}

func (s *sliceSource) NextToken() tango.Token {
	if s.pos >= len(s.tokens) {
		return tango.Token{Sym: tango.EOF}
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}

func tok(sym tango.Symbol, col int) tango.Token {
	return tango.Token{Sym: sym, Loc: tango.Loc(1, col)}
}

// The classic LL(1) additive-expression grammar as a translation to
// postfix:
//
//	E  -> T E'
//	E' -> + T E'  with output T E' +   |  eps
//	T  -> i
func additiveGrammar(t *testing.T) *tg.Grammar {
	t.Helper()
	b := tg.NewBuilder("additive")
	b.Rule("E").N("T").N("E'").End()
	b.Rule("E'").T("+").N("T").N("E'").Out().N("T").N("E'").T("+").Route(0, 2).End()
	b.Rule("E'").End()
	b.Rule("T").T("i").End()
	g, err := b.Grammar("E")
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func terminal(t *testing.T, g *tg.Grammar, name string) tango.Symbol {
	sym, ok := g.TerminalByName(name)
	if !ok {
		t.Fatalf("no terminal %q", name)
	}
	return sym
}

func TestLLTableConstruction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.ll")
	defer teardown()
	g := additiveGrammar(t)
	a := tg.Analyze(g)
	table, err := NewTable(a)
	if err != nil {
		t.Fatal(err)
	}
	plus, i := terminal(t, g, "+"), terminal(t, g, "i")
	E := g.StartRule().Input()[0]
	if _, ok := table.RuleIndex(E, plus); ok {
		t.Errorf("E on + must have no rule")
	}
	if idx, ok := table.RuleIndex(E, i); !ok || g.Rule(idx).LHS() != E {
		t.Errorf("E on i must derive through E's rule")
	}
}

func TestLLTableRejectsNonLL(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.ll")
	defer teardown()
	b := tg.NewBuilder("non-ll")
	b.Rule("S").T("a").T("b").End()
	b.Rule("S").T("a").T("c").End()
	g, err := b.Grammar("S")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTable(tg.Analyze(g)); err == nil {
		t.Errorf("FIRST/FIRST collision must be rejected")
	}
	// the priority table keeps the earlier rule instead
	table := NewPriorityTable(tg.Analyze(g))
	S := g.UserStartSymbol()
	if idx, ok := table.RuleIndex(S, terminal(t, g, "a")); !ok || idx != 0 {
		t.Errorf("priority table must keep rule 0, has %d", idx)
	}
}

func TestLLTranslation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.ll")
	defer teardown()
	g := additiveGrammar(t)
	a := tg.Analyze(g)
	table, err := NewTable(a)
	if err != nil {
		t.Fatal(err)
	}
	plus, i := terminal(t, g, "+"), terminal(t, g, "i")
	p := NewTranslator(a, table)
	out, err := p.Parse(&sliceSource{tokens: []tango.Token{
		tok(i, 1), tok(plus, 3), tok(i, 5), tok(plus, 7), tok(i, 9), tok(tango.EOF, 10),
	}})
	if err != nil {
		t.Fatal(err)
	}
	// i + i + i  ->  i i i + +  (predictive parsing right-associates)
	want := []struct {
		sym tango.Symbol
		col int
	}{
		{i, 1}, {i, 5}, {i, 9}, {plus, 7}, {plus, 3}, {tango.EOF, 10},
	}
	if len(out) != len(want) {
		t.Fatalf("want %d output tokens, got %d: %v", len(want), len(out), out)
	}
	for k := range want {
		if out[k].Sym != want[k].sym {
			t.Errorf("output[%d] = %v, want %v", k, out[k].Sym, want[k].sym)
		}
		if !out[k].Loc.SamePlace(tango.Loc(1, want[k].col)) {
			t.Errorf("output[%d] location = %v, want 1:%d", k, out[k].Loc, want[k].col)
		}
	}
}

func TestLLSyntaxError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.ll")
	defer teardown()
	g := additiveGrammar(t)
	a := tg.Analyze(g)
	table, err := NewTable(a)
	if err != nil {
		t.Fatal(err)
	}
	plus, i := terminal(t, g, "+"), terminal(t, g, "i")
	p := NewTranslator(a, table)
	var diag strings.Builder
	p.Errors = &diag
	_, perr := p.Parse(&sliceSource{tokens: []tango.Token{
		tok(i, 1), tok(plus, 3), tok(plus, 5), tok(tango.EOF, 6),
	}})
	if perr == nil {
		t.Fatal("i + + must be rejected")
	}
	if diag.Len() == 0 {
		t.Errorf("diagnostic was not written to the error sink")
	}
	syn, ok := perr.(*SyntaxError)
	if !ok {
		t.Fatalf("want a *SyntaxError, got %T", perr)
	}
	if !syn.Token.Loc.SamePlace(tango.Loc(1, 5)) {
		t.Errorf("error should point at the second +, points at %v", syn.Token.Loc)
	}
	if len(syn.Expected) == 0 {
		t.Errorf("expected-terminal enumeration is empty")
	}
}

// a grammar needing one token of backtracking: S -> a b | a c
func TestGeneralLLBacktracking(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.ll")
	defer teardown()
	b := tg.NewBuilder("backtrack")
	b.Rule("S").T("a").T("b").End()
	b.Rule("S").T("a").T("c").End()
	g, err := b.Grammar("S")
	if err != nil {
		t.Fatal(err)
	}
	a := tg.Analyze(g)
	ta, tc := terminal(t, g, "a"), terminal(t, g, "c")
	p := NewGeneralTranslator(a, NewGeneralTable(a))
	out, perr := p.Parse(&sliceSource{tokens: []tango.Token{
		tok(ta, 1), tok(tc, 3), tok(tango.EOF, 4),
	}})
	if perr != nil {
		t.Fatal(perr)
	}
	want := []tango.Symbol{ta, tc, tango.EOF}
	if len(out) != len(want) {
		t.Fatalf("want %d output tokens, got %d", len(want), len(out))
	}
	for k := range want {
		if out[k].Sym != want[k] {
			t.Errorf("output[%d] = %v, want %v", k, out[k].Sym, want[k])
		}
	}
	// the deterministic driver with a priority table cannot parse this
	det := NewTranslator(a, NewPriorityTable(a))
	if _, err := det.Parse(&sliceSource{tokens: []tango.Token{
		tok(ta, 1), tok(tc, 3), tok(tango.EOF, 4),
	}}); err == nil {
		t.Errorf("priority LL should fail where backtracking succeeds")
	}
}

func TestGeneralLLExhaustsAlternatives(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.ll")
	defer teardown()
	b := tg.NewBuilder("exhaust")
	b.Rule("S").T("a").T("b").End()
	b.Rule("S").T("a").T("c").End()
	g, err := b.Grammar("S")
	if err != nil {
		t.Fatal(err)
	}
	a := tg.Analyze(g)
	ta := terminal(t, g, "a")
	p := NewGeneralTranslator(a, NewGeneralTable(a))
	if _, err := p.Parse(&sliceSource{tokens: []tango.Token{
		tok(ta, 1), tok(ta, 3), tok(tango.EOF, 4),
	}}); err == nil {
		t.Errorf("a a is no sentence and must be rejected")
	}
}
