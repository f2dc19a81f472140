package lr

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/tangolang/tango"
)

// Debugging helpers. We use pterm for moderately fancy terminal output;
// these are meant for interactive inspection of a grammar's automaton and
// table, not for production logging (that is what the tracer is for).

// PrintMachine renders the automaton as an indented tree: one node per
// state, its items and transitions nested below.
func PrintMachine(m *Machine) {
	g := m.Grammar()
	ll := pterm.LeveledList{}
	for i := range m.states {
		st := &m.states[i]
		ll = append(ll, pterm.LeveledListItem{Level: 0, Text: fmt.Sprintf("state %d", st.ID)})
		for k := range st.items {
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: st.items[k].stringWith(g)})
		}
		for _, sym := range st.sortedTransitionSymbols() {
			ll = append(ll, pterm.LeveledListItem{
				Level: 1,
				Text:  fmt.Sprintf("--%s--> %d", g.SymbolName(sym), st.transitions[sym]),
			})
		}
	}
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}

// PrintTable renders the ACTION and GOTO rows of a parse table, one state
// per node.
func PrintTable(t *Table, namer tango.SymbolNamer) {
	if namer == nil {
		namer = tango.Symbol.String
	}
	pterm.Info.Println(fmt.Sprintf("parse table, %d states", t.States()))
	ll := pterm.LeveledList{}
	for s := 0; s < t.States(); s++ {
		ll = append(ll, pterm.LeveledListItem{Level: 0, Text: fmt.Sprintf("state %d", s)})
		for _, rec := range t.actions[s] {
			sym := tango.EOF
			if rec.key > 0 {
				sym = tango.T(rec.key - 1)
			}
			ll = append(ll, pterm.LeveledListItem{
				Level: 1,
				Text:  fmt.Sprintf("%s: %s", namer(sym), rec.action),
			})
		}
		for _, rec := range t.gotos[s] {
			ll = append(ll, pterm.LeveledListItem{
				Level: 1,
				Text:  fmt.Sprintf("%s: goto %d", namer(tango.NT(rec.key)), rec.next),
			})
		}
	}
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}
