package lr

import (
	"sort"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/tg"
)

// lr0State is a state of the plain LR(0) automaton: the closure of its
// kernel, without any lookahead bookkeeping. The SLR(1) table is derived
// from this machine plus the FOLLOW sets.
type lr0State struct {
	items       []item0
	transitions map[tango.Symbol]int
}

type lr0Machine struct {
	g      *tg.Grammar
	states []lr0State
}

// closure0 computes the LR(0) closure of a kernel, expanding each
// nonterminal right of a mark exactly once.
func closure0(kernel []item0, g *tg.Grammar) []item0 {
	set := make(map[item0]bool, len(kernel)*2)
	expanded := make(map[tango.Symbol]bool)
	var queue []item0
	for _, it := range kernel {
		set[it] = true
		queue = append(queue, it)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		sym, ok := cur.nextSymbol(g)
		if !ok || !sym.IsNonterminal() || expanded[sym] {
			continue
		}
		expanded[sym] = true
		for rid := range g.Rules() {
			if g.Rule(rid).LHS() != sym {
				continue
			}
			it := item0{rule: rid, mark: 0}
			if !set[it] {
				set[it] = true
				queue = append(queue, it)
			}
		}
	}
	result := make([]item0, 0, len(set))
	for it := range set {
		result = append(result, it)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].before(result[j]) })
	return result
}

func newLR0Machine(g *tg.Grammar) *lr0Machine {
	m := &lr0Machine{g: g}
	start := closure0([]item0{{rule: g.StartRule().ID(), mark: 0}}, g)
	m.states = append(m.states, lr0State{items: start, transitions: make(map[tango.Symbol]int)})
	// breadth-first worklist; state order is deterministic because
	// successor symbols are visited in sorted order
	for i := 0; i < len(m.states); i++ {
		for _, group := range m.lr0Successors(i) {
			target := m.findOrInsert(group.kernel)
			m.states[i].transitions[group.sym] = target
		}
	}
	return m
}

type lr0Group struct {
	sym    tango.Symbol
	kernel []item0
}

func (m *lr0Machine) lr0Successors(id int) []lr0Group {
	bySym := make(map[tango.Symbol][]item0)
	for _, it := range m.states[id].items {
		sym, ok := it.nextSymbol(m.g)
		if !ok || sym.IsEOF() {
			continue
		}
		bySym[sym] = append(bySym[sym], it.advance())
	}
	groups := make([]lr0Group, 0, len(bySym))
	for sym, kernel := range bySym {
		sort.Slice(kernel, func(i, j int) bool { return kernel[i].before(kernel[j]) })
		groups = append(groups, lr0Group{sym: sym, kernel: kernel})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].sym < groups[j].sym })
	return groups
}

func (m *lr0Machine) findOrInsert(kernel []item0) int {
	closure := closure0(kernel, m.g)
	for i := range m.states {
		if equalItems0(m.states[i].items, closure) {
			return i
		}
	}
	m.states = append(m.states, lr0State{items: closure, transitions: make(map[tango.Symbol]int)})
	return len(m.states) - 1
}

func equalItems0(a, b []item0) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
