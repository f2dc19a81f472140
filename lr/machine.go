package lr

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/tg"
)

// Variant selects the merge policy of the automaton builder. The variants
// share the whole construction scaffold and differ only in when two
// isocores — states with the same LR(0) kernel — may be merged.
type Variant uint8

// The supported LR automaton variants.
const (
	// Canonical never merges states with different lookaheads (full LR(1)).
	Canonical Variant = iota
	// LALR merges every isocore unconditionally.
	LALR
	// LSCELR builds LALR, then splits exactly the states whose merging
	// introduced conflicts. Recommended for practical grammar sizes.
	LSCELR
)

func (v Variant) String() string {
	switch v {
	case Canonical:
		return "canonical LR(1)"
	case LALR:
		return "LALR"
	case LSCELR:
		return "LSCELR"
	}
	return "unknown"
}

// State is one automaton state: the closure of its kernel, the outgoing
// transitions, and a flag marking states with at least one reducing item.
// A state's identity is determined by its kernel (the items with mark > 0,
// plus the initial item of the start state); the closure is derived.
type State struct {
	ID          int
	items       []Item
	transitions map[tango.Symbol]int
	hasReduce   bool
}

func newState(id int, kernel []Item, g *tg.Grammar, a *tg.Analysis) State {
	st := State{
		ID:          id,
		items:       closure(kernel, g, a),
		transitions: make(map[tango.Symbol]int),
	}
	for i := range st.items {
		if st.items[i].reducing(g) {
			st.hasReduce = true
			break
		}
	}
	return st
}

// Transitions returns the state's transition map. Callers must not mutate
// it.
func (st *State) Transitions() map[tango.Symbol]int { return st.transitions }

// sortedTransitionSymbols delivers the transition labels in symbol order,
// for deterministic iteration.
func (st *State) sortedTransitionSymbols() []tango.Symbol {
	syms := make([]tango.Symbol, 0, len(st.transitions))
	for sym := range st.transitions {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

func (st *State) stringWith(g *tg.Grammar) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(st.ID))
	b.WriteString(": {\n")
	for i := range st.items {
		b.WriteByte('\t')
		b.WriteString(st.items[i].stringWith(g))
		b.WriteByte('\n')
	}
	b.WriteString("\t-----\n")
	for _, sym := range st.sortedTransitionSymbols() {
		b.WriteByte('\t')
		b.WriteString(g.SymbolName(sym))
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(st.transitions[sym]))
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return b.String()
}

// Machine is an LR automaton under construction or finished. The states
// form an arena; every cross-state reference is an index pair, so the graph
// has no owning cycles.
type Machine struct {
	variant Variant
	g       *tg.Grammar
	a       *tg.Analysis
	states  []State

	// isocore table: kernel fingerprint to the states carrying that kernel
	isocores map[string][]int

	// LSCELR bookkeeping, nil/empty for the other variants
	contributions [][]tango.TerminalSet
	toSplit       map[int]bool
	contribCache  map[int][][]tango.TerminalSet
}

// NewMachine constructs the full automaton for an analyzed grammar using
// the given merge policy. Construction is deterministic: isocore lookup
// order, item ordering within states and the grammar's rule order together
// fix the state numbering.
func NewMachine(variant Variant, a *tg.Analysis) *Machine {
	m := &Machine{
		variant:  variant,
		g:        a.Grammar(),
		a:        a,
		isocores: make(map[string][]int),
	}
	tracer().Debugf("=== build %s automaton ===", variant)
	// initial item S' -> .S EOF with generated lookahead {EOF}
	start := Item{
		item0: item0{rule: m.g.StartRule().ID(), mark: 0},
		gen:   m.g.NewTerminalSet(tango.EOF),
	}
	id, _ := m.insertState([]Item{start})
	m.expandState(id)
	if variant == LSCELR {
		m.eliminateConflicts()
	}
	if variant != Canonical {
		m.finalizeLookaheads()
	}
	tracer().Infof("%s automaton has %d states", variant, len(m.states))
	return m
}

// Grammar returns the machine's grammar.
func (m *Machine) Grammar() *tg.Grammar { return m.g }

// States returns the automaton's states.
func (m *Machine) States() []State { return m.states }

// insertState closes the kernel into a candidate state and either merges it
// with an existing isocore (per the variant's policy) or appends it.
// Returns the resulting state index and whether a new state was inserted.
func (m *Machine) insertState(kernel []Item) (int, bool) {
	id := len(m.states)
	st := newState(id, kernel, m.g, m.a)
	key := fingerprint(kernel)
	isocores := m.isocores[key]
	if target, merged := m.merge(isocores, &st); merged {
		return target, false
	}
	m.isocores[key] = append(isocores, id)
	m.states = append(m.states, st)
	return id, true
}

func (m *Machine) merge(isocores []int, st *State) (int, bool) {
	switch m.variant {
	case Canonical:
		return m.mergeCanonical(isocores, st)
	default:
		return m.mergeLALR(isocores, st)
	}
}

// mergeCanonical resolves the candidate's lookaheads to literal sets and
// merges only with an isocore whose items carry identical lookaheads.
// Canonical states are literal from the moment of insertion.
func (m *Machine) mergeCanonical(isocores []int, st *State) (int, bool) {
	resolved := m.resolveState(st)
	for i := range st.items {
		st.items[i].gen.Union(resolved[i])
		st.items[i].sources = nil
	}
	for _, other := range isocores {
		existing := &m.states[other]
		match := true
		for i := range existing.items {
			if !existing.items[i].gen.Equal(st.items[i].gen) {
				match = false
				break
			}
		}
		if match {
			return other, true
		}
	}
	return 0, false
}

// mergeLALR merges unconditionally into the unique existing isocore,
// uniting the lookahead sources item by item.
func (m *Machine) mergeLALR(isocores []int, st *State) (int, bool) {
	if len(isocores) == 0 {
		return 0, false
	}
	existing := &m.states[isocores[0]]
	for i := range existing.items {
		existing.items[i].sources, _ = unionSources(existing.items[i].sources, st.items[i].sources)
	}
	return isocores[0], true
}

// expandState groups the state's items by the symbol right of the mark and
// inserts one successor per group (EOF never transitions — the accept
// action is handled by the table). Newly inserted successors are expanded
// recursively, depth first.
func (m *Machine) expandState(id int) {
	for _, group := range m.successorKernels(id) {
		target, inserted := m.insertState(group.kernel)
		m.states[id].transitions[group.sym] = target
		if inserted {
			m.expandState(target)
		}
	}
}

type successorGroup struct {
	sym    tango.Symbol
	kernel []Item
}

// successorKernels computes the successor kernel per transition symbol:
// each contributing item advances its mark and records a lookahead source
// pointing back at its position in this state. Groups are returned in
// symbol order for deterministic expansion.
func (m *Machine) successorKernels(id int) []successorGroup {
	st := &m.states[id]
	bySym := make(map[tango.Symbol][]Item)
	for i := range st.items {
		it := &st.items[i]
		sym, ok := it.nextSymbol(m.g)
		if !ok || sym.IsEOF() {
			continue
		}
		advanced := Item{
			item0:   it.item0.advance(),
			gen:     m.g.NewTerminalSet(),
			sources: []lookaheadSource{{state: id, item: i}},
		}
		bySym[sym] = append(bySym[sym], advanced)
	}
	groups := make([]successorGroup, 0, len(bySym))
	for sym, kernel := range bySym {
		sort.Slice(kernel, func(i, j int) bool { return kernel[i].item0.before(kernel[j].item0) })
		groups = append(groups, successorGroup{sym: sym, kernel: kernel})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].sym < groups[j].sym })
	return groups
}

// successorKernelFor recomputes the successor kernel of a single transition
// symbol, used when LSCELR regenerates successors of split states.
func (m *Machine) successorKernelFor(id int, sym tango.Symbol) []Item {
	st := &m.states[id]
	var kernel []Item
	for i := range st.items {
		it := &st.items[i]
		next, ok := it.nextSymbol(m.g)
		if !ok || next != sym {
			continue
		}
		kernel = append(kernel, Item{
			item0:   it.item0.advance(),
			gen:     m.g.NewTerminalSet(),
			sources: []lookaheadSource{{state: id, item: i}},
		})
	}
	sort.Slice(kernel, func(i, j int) bool { return kernel[i].item0.before(kernel[j].item0) })
	return kernel
}

// --- Lookahead resolution --------------------------------------------------

// resolveState computes the effective lookahead set of every item of a
// state: the generated set united with all source sets, chased through the
// relation to a fixed point.
func (m *Machine) resolveState(st *State) []tango.TerminalSet {
	memo := make(map[lookaheadSource]tango.TerminalSet)
	return m.resolveItems(st.items, memo)
}

func (m *Machine) resolveItems(items []Item, memo map[lookaheadSource]tango.TerminalSet) []tango.TerminalSet {
	result := make([]tango.TerminalSet, len(items))
	for i := range items {
		it := &items[i]
		set := it.gen.Clone()
		for _, src := range it.sources {
			set.Union(m.resolveSource(src, memo))
		}
		result[i] = set
	}
	return result
}

// resolveSource is a depth-first walk over the lookahead relation. The memo
// is seeded with an empty set for the source before recursing, which breaks
// cycles; the final value overwrites the seed.
func (m *Machine) resolveSource(src lookaheadSource, memo map[lookaheadSource]tango.TerminalSet) tango.TerminalSet {
	if set, ok := memo[src]; ok {
		return set
	}
	memo[src] = m.g.NewTerminalSet()
	it := &m.states[src.state].items[src.item]
	set := it.gen.Clone()
	for _, next := range it.sources {
		set.Union(m.resolveSource(next, memo))
	}
	memo[src] = set
	return set
}

// finalizeLookaheads rewrites every item's relational lookaheads into
// literal generated sets and drops the sources. States resolved earlier in
// the pass contribute their already-literal sets, which is the same fixed
// point.
func (m *Machine) finalizeLookaheads() {
	for s := range m.states {
		memo := make(map[lookaheadSource]tango.TerminalSet)
		for i := range m.states[s].items {
			it := &m.states[s].items[i]
			for _, src := range it.sources {
				it.gen.Union(m.resolveSource(src, memo))
			}
			it.sources = nil
		}
	}
}

// Dump writes all states to the tracer.
func (m *Machine) Dump() {
	for i := range m.states {
		tracer().Debugf("%s", m.states[i].stringWith(m.g))
	}
}
