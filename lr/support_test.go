package lr

import (
	"testing"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/tg"
)

// sliceSource feeds a fixed token sequence and then EOF forever.
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

func mustRule(t *testing.T, lhs tango.Symbol, input, output []tango.Symbol, actions [][]int) tg.Rule {
	t.Helper()
	r, err := tg.NewRule(lhs, input, output, actions)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func mustSameRule(t *testing.T, lhs tango.Symbol, both []tango.Symbol) tg.Rule {
	t.Helper()
	r, err := tg.NewSameRule(lhs, both)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// The nested-parentheses translation grammar:
//
//	S -> (S o A, 1 S A)    o routes to 1
//	S -> (A,     2 A)
//	A -> (i,     3)        i routes to 3
//	A -> (( S ), 4 S)      ( routes to 4, ) is dropped
//
// Terminals: o=0 i=1 (=2 )=3 1=4 2=5 3=6 4=7.
func parensGrammar(t *testing.T) *tg.Grammar {
	t.Helper()
	S, A := tango.NT(0), tango.NT(1)
	o, i, lp, rp := tango.T(0), tango.T(1), tango.T(2), tango.T(3)
	t1, t2, t3, t4 := tango.T(4), tango.T(5), tango.T(6), tango.T(7)
	rules := []tg.Rule{
		mustRule(t, S, []tango.Symbol{S, o, A}, []tango.Symbol{t1, S, A}, [][]int{{0}}),
		mustRule(t, S, []tango.Symbol{A}, []tango.Symbol{t2, A}, nil),
		mustRule(t, A, []tango.Symbol{i}, []tango.Symbol{t3}, [][]int{{0}}),
		mustRule(t, A, []tango.Symbol{lp, S, rp}, []tango.Symbol{t4, S}, [][]int{{0}, {}}),
	}
	g, err := tg.New(rules, S, nil)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// A grammar with an SLR conflict but a conflict-free LALR table:
//
//	S -> A a | b A c | d c | b d a
//	A -> d
//
// Terminals: a=0 b=1 c=2 d=3.
func lalrOnlyGrammar(t *testing.T) *tg.Grammar {
	t.Helper()
	S, A := tango.NT(0), tango.NT(1)
	a, b, c, d := tango.T(0), tango.T(1), tango.T(2), tango.T(3)
	rules := []tg.Rule{
		mustSameRule(t, S, []tango.Symbol{A, a}),
		mustSameRule(t, S, []tango.Symbol{b, A, c}),
		mustSameRule(t, S, []tango.Symbol{d, c}),
		mustSameRule(t, S, []tango.Symbol{b, d, a}),
		mustSameRule(t, A, []tango.Symbol{d}),
	}
	g, err := tg.New(rules, S, nil)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// A grammar whose LALR merge produces a reduce/reduce conflict that
// canonical LR and LSCELR avoid:
//
//	S -> a E a | b E b | a F b | b F a
//	E -> e
//	F -> e
//
// Terminals: a=0 b=1 e=2.
func lr1OnlyGrammar(t *testing.T) *tg.Grammar {
	t.Helper()
	S, E, F := tango.NT(0), tango.NT(1), tango.NT(2)
	a, b, e := tango.T(0), tango.T(1), tango.T(2)
	rules := []tg.Rule{
		mustSameRule(t, S, []tango.Symbol{a, E, a}),
		mustSameRule(t, S, []tango.Symbol{b, E, b}),
		mustSameRule(t, S, []tango.Symbol{a, F, b}),
		mustSameRule(t, S, []tango.Symbol{b, F, a}),
		mustSameRule(t, E, []tango.Symbol{e}),
		mustSameRule(t, F, []tango.Symbol{e}),
	}
	g, err := tg.New(rules, S, nil)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// The empty language: E -> eps.
func emptyGrammar(t *testing.T) *tg.Grammar {
	t.Helper()
	E := tango.NT(0)
	rules := []tg.Rule{mustRule(t, E, nil, nil, nil)}
	g, err := tg.New(rules, E, nil)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// The infix-to-postfix expression grammar with precedence levels
// {left + -} < {left * /} < {none unary-} < {right ^}.
func exprGrammar(t *testing.T) *tg.Grammar {
	t.Helper()
	b := tg.NewBuilder("expr")
	b.Rule("S").End()
	b.Rule("S").N("Expr").End()
	b.Rule("Expr").T("i").End()
	for _, op := range []string{"+", "-", "*", "/"} {
		b.Rule("Expr").N("Expr").T(op).N("Expr").
			Out().N("Expr").N("Expr").T(op).Route(0, 2).End()
	}
	b.Rule("Expr").T("-").N("Expr").
		Out().N("Expr").T("-").Route(0, 1).Prec("unary-").End()
	b.Rule("Expr").N("Expr").T("^").N("Expr").
		Out().N("Expr").N("Expr").T("^").Route(0, 2).End()
	b.Rule("Expr").T("(").N("Expr").T(")").End()
	b.Precedence(tg.LeftAssoc, "+", "-")
	b.Precedence(tg.LeftAssoc, "*", "/")
	b.Precedence(tg.NonAssoc, "unary-")
	b.Precedence(tg.RightAssoc, "^")
	g, err := b.Grammar("S")
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func namedTok(t *testing.T, g *tg.Grammar, name string, col int) tango.Token {
	t.Helper()
	sym, ok := g.TerminalByName(name)
	if !ok {
		t.Fatalf("no terminal %q", name)
	}
	return tok(sym, col)
}
