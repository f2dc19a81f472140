package tg

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/tangolang/tango"
)

// A small grammar with nullable nonterminals:
//
//	S -> A a
//	A -> B D
//	B -> b |
//	D -> d |
func nullableGrammar(t *testing.T) *Grammar {
	b := NewBuilder("nullable")
	b.Rule("S").N("A").T("a").End()
	b.Rule("A").N("B").N("D").End()
	b.Rule("B").T("b").End()
	b.Rule("B").End()
	b.Rule("D").T("d").End()
	b.Rule("D").End()
	g, err := b.Grammar("S")
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func terminal(t *testing.T, g *Grammar, name string) tango.Symbol {
	sym, ok := g.TerminalByName(name)
	if !ok {
		t.Fatalf("no terminal %q", name)
	}
	return sym
}

func nonterminal(t *testing.T, g *Grammar, name string) tango.Symbol {
	for id := 0; id < g.Nonterminals(); id++ {
		if g.SymbolName(tango.NT(id)) == name {
			return tango.NT(id)
		}
	}
	t.Fatalf("no nonterminal %q", name)
	return 0
}

func TestEmptySet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.grammar")
	defer teardown()
	g := nullableGrammar(t)
	a := Analyze(g)
	for name, want := range map[string]bool{"S": false, "A": true, "B": true, "D": true} {
		if got := a.Empty(nonterminal(t, g, name)); got != want {
			t.Errorf("EMPTY(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestFirstSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.grammar")
	defer teardown()
	g := nullableGrammar(t)
	a := Analyze(g)
	ta, tb, td := terminal(t, g, "a"), terminal(t, g, "b"), terminal(t, g, "d")
	first := a.First(nonterminal(t, g, "S"))
	if !first.Test(ta) || !first.Test(tb) || !first.Test(td) {
		t.Errorf("FIRST(S) = %s, want {a b d}", first.StringWith(g.Namer()))
	}
	first = a.First(nonterminal(t, g, "A"))
	if first.Test(ta) || !first.Test(tb) || !first.Test(td) {
		t.Errorf("FIRST(A) = %s, want {b d}", first.StringWith(g.Namer()))
	}
	first = a.First(nonterminal(t, g, "D"))
	if first.Test(tb) || !first.Test(td) {
		t.Errorf("FIRST(D) = %s, want {d}", first.StringWith(g.Namer()))
	}
}

func TestFollowSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.grammar")
	defer teardown()
	g := nullableGrammar(t)
	a := Analyze(g)
	ta, td := terminal(t, g, "a"), terminal(t, g, "d")
	follow := a.Follow(g.StartSymbol())
	if !follow.Test(tango.EOF) {
		t.Errorf("FOLLOW(S') must contain EOF")
	}
	follow = a.Follow(nonterminal(t, g, "B"))
	// D is nullable, so FOLLOW(B) sees both FIRST(D) and FOLLOW(A)
	if !follow.Test(td) || !follow.Test(ta) {
		t.Errorf("FOLLOW(B) = %s, want {a d}", follow.StringWith(g.Namer()))
	}
	follow = a.Follow(nonterminal(t, g, "A"))
	if !follow.Test(ta) || follow.Test(td) {
		t.Errorf("FOLLOW(A) = %s, want {a}", follow.StringWith(g.Namer()))
	}
}

func TestPredictSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.grammar")
	defer teardown()
	g := nullableGrammar(t)
	a := Analyze(g)
	ta, tb, td := terminal(t, g, "a"), terminal(t, g, "b"), terminal(t, g, "d")
	// rule ids follow declaration order; B -> b is rule 2, B -> eps rule 3
	predict := a.Predict(2)
	if !predict.Test(tb) || predict.Test(td) {
		t.Errorf("PREDICT(B->b) = %s, want {b}", predict.StringWith(g.Namer()))
	}
	// the nullable rule predicts FOLLOW(B)
	predict = a.Predict(3)
	if !predict.Test(td) || !predict.Test(ta) || predict.Test(tb) {
		t.Errorf("PREDICT(B->eps) = %s, want {a d}", predict.StringWith(g.Namer()))
	}
}

func TestFirstOfString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.grammar")
	defer teardown()
	g := nullableGrammar(t)
	a := Analyze(g)
	B, D := nonterminal(t, g, "B"), nonterminal(t, g, "D")
	set, nullable := a.FirstOfString([]tango.Symbol{B, D})
	if !nullable {
		t.Errorf("B D should be nullable")
	}
	if !set.Test(terminal(t, g, "b")) || !set.Test(terminal(t, g, "d")) {
		t.Errorf("FIRST(B D) = %s, want {b d}", set.StringWith(g.Namer()))
	}
	set, nullable = a.FirstOfString([]tango.Symbol{B, terminal(t, g, "a")})
	if nullable || !set.Test(terminal(t, g, "a")) {
		t.Errorf("FIRST(B a) must contain a and not be nullable")
	}
	set, nullable = a.FirstOfString(nil)
	if !nullable || !set.None() {
		t.Errorf("FIRST of the empty string must be the empty, nullable set")
	}
}
