package lr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/tg"
)

func TestTableSaveReadRoundtrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.lr")
	defer teardown()
	g := parensGrammar(t)
	table, err := BuildTable(tg.Analyze(g), LSCELR)
	if err != nil {
		t.Fatal(err)
	}
	var first bytes.Buffer
	if err := table.Save(&first); err != nil {
		t.Fatal(err)
	}
	loaded, err := ReadTable(&first)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.States() != table.States() {
		t.Fatalf("state count differs after reload: %d vs %d", loaded.States(), table.States())
	}
	var second bytes.Buffer
	if err := loaded.Save(&second); err != nil {
		t.Fatal(err)
	}
	var again bytes.Buffer
	if err := table.Save(&again); err != nil {
		t.Fatal(err)
	}
	if second.String() != again.String() {
		t.Errorf("reloaded table serializes differently:\n%s\nvs\n%s", second.String(), again.String())
	}
	// spot-check equality of lookups
	for s := 0; s < table.States(); s++ {
		for tid := 0; tid <= g.Terminals(); tid++ {
			sym := tango.EOF
			if tid > 0 {
				sym = tango.T(tid - 1)
			}
			if table.Action(s, sym) != loaded.Action(s, sym) {
				t.Errorf("action (%d, %v) differs after reload", s, sym)
			}
		}
		for n := 0; n < g.Nonterminals(); n++ {
			n1, ok1 := table.Goto(s, tango.NT(n))
			n2, ok2 := loaded.Goto(s, tango.NT(n))
			if n1 != n2 || ok1 != ok2 {
				t.Errorf("goto (%d, %d) differs after reload", s, n)
			}
		}
	}
}

func TestReadTableTolerant(t *testing.T) {
	text := "2\n 0:S  \n\n 0:1\n   \n"
	table, err := ReadTable(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	if table.States() != 2 {
		t.Fatalf("want 2 states, got %d", table.States())
	}
	if a := table.Action(0, tango.EOF); a.Kind != ActionSuccess {
		t.Errorf("state 0 at EOF should accept, has %v", a)
	}
	if a := table.Action(1, tango.EOF); a.Kind != ActionError {
		t.Errorf("state 1 should have an empty action row")
	}
	if next, ok := table.Goto(0, tango.NT(0)); !ok || next != 1 {
		t.Errorf("goto(0, 0) should be 1")
	}
}

func TestReadTableRejectsGarbage(t *testing.T) {
	for _, text := range []string{"", "x\n", "1\n 5:q7\n\n", "1\n 5:\n\n"} {
		if _, err := ReadTable(strings.NewReader(text)); err == nil {
			t.Errorf("malformed table %q must be rejected", text)
		}
	}
}

// a grammar with a real shift/reduce conflict and no precedence: both the
// strict and the permissive builder must refuse it
func TestUnresolvableConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.lr")
	defer teardown()
	E := tango.NT(0)
	plus, i := tango.T(0), tango.T(1)
	rules := []tg.Rule{
		mustSameRule(t, E, []tango.Symbol{E, plus, E}),
		mustSameRule(t, E, []tango.Symbol{i}),
	}
	g, err := tg.New(rules, E, nil)
	if err != nil {
		t.Fatal(err)
	}
	a := tg.Analyze(g)
	if _, err := BuildStrictTable(a, LALR); err == nil {
		t.Errorf("strict LALR must refuse the conflict")
	} else if !strings.Contains(err.Error(), "conflict") {
		t.Errorf("diagnostic should name the conflict: %v", err)
	}
	if _, err := BuildTable(a, LALR); err == nil {
		t.Errorf("permissive build without precedence must refuse the conflict")
	}
}

// the same grammar with a left-associative precedence level builds fine
func TestPrecedenceResolvesConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.lr")
	defer teardown()
	E := tango.NT(0)
	plus, i := tango.T(0), tango.T(1)
	rules := []tg.Rule{
		mustSameRule(t, E, []tango.Symbol{E, plus, E}),
		mustSameRule(t, E, []tango.Symbol{i}),
	}
	g, err := tg.New(rules, E, []tg.PrecedenceLevel{
		{Assoc: tg.LeftAssoc, Terminals: []tango.Symbol{plus}},
	})
	if err != nil {
		t.Fatal(err)
	}
	table, err := BuildTable(tg.Analyze(g), LALR)
	if err != nil {
		t.Fatal(err)
	}
	p := NewTranslator(g, table)
	out, perr := p.Parse(&sliceSource{tokens: []tango.Token{
		tok(i, 1), tok(plus, 3), tok(i, 5), tok(plus, 7), tok(i, 9), tok(tango.EOF, 10),
	}})
	if perr != nil {
		t.Fatal(perr)
	}
	if len(out) != 6 {
		t.Errorf("i + i + i should emit its 5 terminals plus EOF, got %d tokens", len(out))
	}
}

func TestReduceReduceKeepsEarlierRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tango.lr")
	defer teardown()
	// A -> a and B -> a reduce in the same state at EOF; the earlier rule
	// must win under the permissive builder
	S, A, B := tango.NT(0), tango.NT(1), tango.NT(2)
	a := tango.T(0)
	rules := []tg.Rule{
		mustSameRule(t, S, []tango.Symbol{A}),
		mustSameRule(t, S, []tango.Symbol{B}),
		mustSameRule(t, A, []tango.Symbol{a}),
		mustSameRule(t, B, []tango.Symbol{a}),
	}
	g, err := tg.New(rules, S, nil)
	if err != nil {
		t.Fatal(err)
	}
	table, err := BuildTable(tg.Analyze(g), LALR)
	if err != nil {
		t.Fatal(err)
	}
	p := NewTranslator(g, table)
	out, perr := p.Parse(&sliceSource{tokens: []tango.Token{tok(a, 1), tok(tango.EOF, 2)}})
	if perr != nil {
		t.Fatal(perr)
	}
	if len(out) != 2 || out[0].Sym != a {
		t.Fatalf("want a EOF, got %v", out)
	}
	// the state reached on a reduces at EOF by A -> a (rule 2), not B -> a
	shift := table.Action(0, a)
	if act := table.Action(shift.Arg, tango.EOF); act.Kind != ActionReduce || act.Arg != 2 {
		t.Errorf("reduce/reduce at EOF should keep rule 2, has %v", act)
	}
}
