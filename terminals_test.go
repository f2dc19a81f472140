package tango

import "testing"

func TestSymbolOrdering(t *testing.T) {
	if !(NT(3) < T(0)) {
		t.Errorf("nonterminals must sort before terminals")
	}
	if !(T(7) < EOF) {
		t.Errorf("user terminals must sort before EOF")
	}
	if EOF.ID() != 0 {
		t.Errorf("EOF must own terminal index 0, has %d", EOF.ID())
	}
	if T(0).ID() != 1 || T(0).TerminalID() != 0 {
		t.Errorf("terminal index offset broken: %d/%d", T(0).ID(), T(0).TerminalID())
	}
	if !EOF.IsTerminal() || EOF.IsNonterminal() || !EOF.IsEOF() {
		t.Errorf("EOF kind predicates broken")
	}
}

func TestTerminalSetOps(t *testing.T) {
	s := NewTerminalSet(100)
	s.Set(T(0))
	s.Set(T(98))
	s.Set(EOF)
	if !s.Test(T(0)) || !s.Test(T(98)) || !s.Test(EOF) {
		t.Errorf("membership after Set broken")
	}
	if s.Count() != 3 {
		t.Errorf("expected 3 members, have %d", s.Count())
	}
	other := TerminalSetOf(100, T(1), T(98))
	if !s.UnionChanged(other) {
		t.Errorf("union with new member must report change")
	}
	if s.UnionChanged(other) {
		t.Errorf("repeated union must not report change")
	}
	s.Subtract(other)
	if s.Test(T(98)) || s.Test(T(1)) || !s.Test(T(0)) {
		t.Errorf("subtract broken: %v", s)
	}
	s.Clear(T(0))
	s.Clear(EOF)
	if !s.None() {
		t.Errorf("set should be empty, is %v", s)
	}
}

func TestTerminalSetSymbols(t *testing.T) {
	s := TerminalSetOf(4, T(2), EOF, T(0))
	syms := s.Symbols()
	if len(syms) != 3 || syms[0] != EOF || syms[1] != T(0) || syms[2] != T(2) {
		t.Errorf("symbols enumeration wrong: %v", syms)
	}
}

func TestTokenSetAttribute(t *testing.T) {
	out := Token{Sym: T(4)}
	in := Token{Sym: T(1), Attr: Attr("x"), Loc: Loc(2, 7)}
	out.SetAttribute(in)
	if out.Attr.Value() != "x" {
		t.Errorf("attribute not copied")
	}
	if !out.Loc.SamePlace(Loc(2, 7)) {
		t.Errorf("invalid location must be filled from the source token")
	}
	pinned := Token{Sym: T(4), Loc: Loc(9, 9)}
	pinned.SetAttribute(in)
	if !pinned.Loc.SamePlace(Loc(9, 9)) {
		t.Errorf("valid location must be preserved")
	}
}
