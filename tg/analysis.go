package tg

import (
	"github.com/tangolang/tango"
)

// Analysis holds the predictive sets of a grammar: EMPTY, FIRST and FOLLOW
// per nonterminal, PREDICT per rule. All four are computed as monotone fixed
// points; each iteration is linear in grammar size and the sets only grow,
// so termination is guaranteed.
type Analysis struct {
	g       *Grammar
	empty   []bool
	first   []tango.TerminalSet
	follow  []tango.TerminalSet
	predict []tango.TerminalSet
}

// Analyze computes the predictive sets for a grammar.
func Analyze(g *Grammar) *Analysis {
	a := &Analysis{g: g}
	a.createEmpty()
	a.createFirst()
	a.createFollow()
	a.createPredict()
	return a
}

// Grammar returns the analyzed grammar.
func (a *Analysis) Grammar() *Grammar { return a.g }

// Empty returns true if the nonterminal derives the empty string.
func (a *Analysis) Empty(nt tango.Symbol) bool { return a.empty[nt.ID()] }

// First returns the FIRST-set of a nonterminal.
func (a *Analysis) First(nt tango.Symbol) tango.TerminalSet { return a.first[nt.ID()] }

// Follow returns the FOLLOW-set of a nonterminal.
func (a *Analysis) Follow(nt tango.Symbol) tango.TerminalSet { return a.follow[nt.ID()] }

// Predict returns the PREDICT-set of a rule.
func (a *Analysis) Predict(ruleID int) tango.TerminalSet { return a.predict[ruleID] }

// a nonterminal is empty iff some rule derives the empty string entirely
// through empty nonterminals
func (a *Analysis) createEmpty() {
	g := a.g
	a.empty = make([]bool, g.Nonterminals())
	for i := range g.rules {
		if len(g.rules[i].input) == 0 {
			a.empty[g.rules[i].lhs.ID()] = true
		}
	}
	for changed := true; changed; {
		changed = false
		for i := range g.rules {
			r := &g.rules[i]
			if a.empty[r.lhs.ID()] {
				continue
			}
			isEmpty := true
			for _, s := range r.input {
				if s.IsTerminal() || !a.empty[s.ID()] {
					isEmpty = false
					break
				}
			}
			if isEmpty {
				a.empty[r.lhs.ID()] = true
				changed = true
			}
		}
	}
}

func (a *Analysis) createFirst() {
	g := a.g
	a.first = make([]tango.TerminalSet, g.Nonterminals())
	for i := range a.first {
		a.first[i] = tango.NewTerminalSet(g.TerminalSetCap())
	}
	for changed := true; changed; {
		changed = false
		for i := range g.rules {
			r := &g.rules[i]
			fs := a.first[r.lhs.ID()]
			for _, s := range r.input {
				if s.IsTerminal() {
					if !fs.Test(s) {
						fs.Set(s)
						changed = true
					}
					break
				}
				if fs.UnionChanged(a.first[s.ID()]) {
					changed = true
				}
				if !a.empty[s.ID()] {
					break
				}
			}
		}
	}
}

func (a *Analysis) createFollow() {
	g := a.g
	a.follow = make([]tango.TerminalSet, g.Nonterminals())
	for i := range a.follow {
		a.follow[i] = tango.NewTerminalSet(g.TerminalSetCap())
	}
	a.follow[g.StartSymbol().ID()].Set(tango.EOF)
	for changed := true; changed; {
		changed = false
		for i := range g.rules {
			r := &g.rules[i]
			// walk the input right to left, tracking the FIRST-set and
			// nullability of the suffix right of the current symbol
			suffixEmpty := true
			suffixFirst := tango.NewTerminalSet(g.TerminalSetCap())
			for j := len(r.input) - 1; j >= 0; j-- {
				s := r.input[j]
				if s.IsNonterminal() {
					if a.follow[s.ID()].UnionChanged(suffixFirst) {
						changed = true
					}
					if suffixEmpty && a.follow[s.ID()].UnionChanged(a.follow[r.lhs.ID()]) {
						changed = true
					}
				}
				if s.IsTerminal() || !a.empty[s.ID()] {
					suffixEmpty = false
					suffixFirst = tango.NewTerminalSet(g.TerminalSetCap())
					if s.IsTerminal() {
						suffixFirst.Set(s)
					} else {
						suffixFirst.Union(a.first[s.ID()])
					}
				} else {
					suffixFirst.Union(a.first[s.ID()])
				}
			}
		}
	}
}

// PREDICT of a rule is FIRST of its input string; for a fully nullable
// input, FOLLOW of the left-hand side is added
func (a *Analysis) createPredict() {
	g := a.g
	a.predict = make([]tango.TerminalSet, len(g.rules))
	for i := range g.rules {
		r := &g.rules[i]
		first, nullable := a.FirstOfString(r.input)
		if nullable {
			first.Union(a.follow[r.lhs.ID()])
		}
		a.predict[i] = first
		tracer().Debugf("PREDICT(%d) = %s", i, first.StringWith(g.Namer()))
	}
}

// FirstOfString computes the FIRST-set of a symbol string together with a
// propagate flag that is true iff the whole string is nullable. A terminal
// contributes itself and stops the walk.
func (a *Analysis) FirstOfString(syms []tango.Symbol) (tango.TerminalSet, bool) {
	result := tango.NewTerminalSet(a.g.TerminalSetCap())
	for _, s := range syms {
		if s.IsTerminal() {
			result.Set(s)
			return result, false
		}
		result.Union(a.first[s.ID()])
		if !a.empty[s.ID()] {
			return result, false
		}
	}
	return result, true
}
