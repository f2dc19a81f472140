/*
Package ll implements LL(1)-style decision tables and a predictive top-down
translation driver.

The tables map (nonterminal, lookahead terminal) to rule indices, filled
from the PREDICT sets of a grammar analysis. Three flavors exist: NewTable
refuses grammars that are not LL(1); NewPriorityTable keeps the rule
declared first on a collision; GeneralTable keeps all alternatives for the
backtracking driver.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package ll

import (
	"fmt"
	"sort"

	"github.com/npillmayer/schuko/tracing"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/sparse"
	"github.com/tangolang/tango/tg"
)

// tracer traces with key 'tango.ll'.
func tracer() tracing.Trace {
	return tracing.Select("tango.ll")
}

// RuleSelector is the decision interface of the deterministic LL drivers.
type RuleSelector interface {
	// RuleIndex returns the rule to apply when nt is on top of the
	// pushdown and terminal is the lookahead.
	RuleIndex(nt, terminal tango.Symbol) (int, bool)
}

// Table is an LL(1) decision table over a sparse matrix. Construction
// fails if any cell receives two rules.
type Table struct {
	m *sparse.IntMatrix
}

var _ RuleSelector = (*Table)(nil)

// NewTable builds the decision table from a grammar analysis. A collision
// means the grammar is not LL(1) and is returned as an error.
func NewTable(a *tg.Analysis) (*Table, error) {
	t := &Table{m: newMatrix(a.Grammar())}
	err := fill(a, func(rule, row, col int) error {
		if prev := t.m.Value(row, col); prev != t.m.NullValue() && int(prev) != rule {
			g := a.Grammar()
			return fmt.Errorf("grammar %q is not LL(1): rules %d and %d collide on (%s, %s)",
				g.Name, prev, rule, g.SymbolName(tango.NT(row)), terminalName(g, col))
		}
		t.m.Set(row, col, int32(rule))
		return nil
	})
	if err != nil {
		return nil, err
	}
	tracer().Infof("built LL(1) table with %d entries", t.m.ValueCount())
	return t, nil
}

// NewPriorityTable builds a decision table that resolves collisions by rule
// priority: the rule declared first wins.
func NewPriorityTable(a *tg.Analysis) *Table {
	t := &Table{m: newMatrix(a.Grammar())}
	_ = fill(a, func(rule, row, col int) error {
		if prev := t.m.Value(row, col); prev != t.m.NullValue() && int(prev) < rule {
			return nil
		}
		t.m.Set(row, col, int32(rule))
		return nil
	})
	tracer().Infof("built priority-LL table with %d entries", t.m.ValueCount())
	return t
}

// RuleIndex is part of the RuleSelector interface.
func (t *Table) RuleIndex(nt, terminal tango.Symbol) (int, bool) {
	v := t.m.Value(nt.ID(), terminal.ID())
	if v == t.m.NullValue() {
		return 0, false
	}
	return int(v), true
}

func newMatrix(g *tg.Grammar) *sparse.IntMatrix {
	return sparse.NewIntMatrix(g.Nonterminals(), g.TerminalSetCap(), sparse.DefaultNullValue)
}

func fill(a *tg.Analysis, insert func(rule, row, col int) error) error {
	g := a.Grammar()
	for i := range g.Rules() {
		row := g.Rule(i).LHS().ID()
		for _, terminal := range a.Predict(i).Symbols() {
			if err := insert(i, row, terminal.ID()); err != nil {
				return err
			}
		}
	}
	return nil
}

func terminalName(g *tg.Grammar, col int) string {
	if col == 0 {
		return "EOF"
	}
	return g.SymbolName(tango.T(col - 1))
}

// GeneralTable keeps every applicable rule per cell, sorted by rule id, for
// the backtracking driver.
type GeneralTable struct {
	cells map[cellKey][]int
}

type cellKey struct {
	nt, terminal int
}

// NewGeneralTable builds the backtracking decision table.
func NewGeneralTable(a *tg.Analysis) *GeneralTable {
	t := &GeneralTable{cells: make(map[cellKey][]int)}
	_ = fill(a, func(rule, row, col int) error {
		key := cellKey{nt: row, terminal: col}
		t.cells[key] = append(t.cells[key], rule)
		return nil
	})
	for key := range t.cells {
		sort.Ints(t.cells[key])
	}
	return t
}

// Rules returns all rules applicable for (nt, terminal), lowest id first.
func (t *GeneralTable) Rules(nt, terminal tango.Symbol) []int {
	return t.cells[cellKey{nt: nt.ID(), terminal: terminal.ID()}]
}

// RuleIndex makes a GeneralTable usable by the deterministic driver as
// well, behaving like a priority table.
func (t *GeneralTable) RuleIndex(nt, terminal tango.Symbol) (int, bool) {
	rules := t.Rules(nt, terminal)
	if len(rules) == 0 {
		return 0, false
	}
	return rules[0], true
}
