package lr

import (
	"sort"

	"github.com/tangolang/tango"
)

// The LSCELR elimination pass. The machine is built as LALR first; this
// pass then
//
//  1. detects the states whose merged lookaheads produce shift/reduce or
//     reduce/reduce collisions,
//  2. walks the lookahead relation backwards and tags every upstream state
//     with the subset of conflict-causing terminals it actually
//     contributes (the potential contributions),
//  3. splits the tagged states that receive lookaheads from more than one
//     source, and
//  4. regenerates and re-merges their successors, merging two isocores only
//     when their lookaheads masked by the potential contributions are
//     equal.
//
// Lookaheads stay relational throughout; the regular finalization pass runs
// afterwards.
func (m *Machine) eliminateConflicts() {
	conflicted := m.detectConflicts()
	if len(conflicted) == 0 {
		return
	}
	tracer().Debugf("LSCELR: %d conflicted states", len(conflicted))
	m.contributions = make([][]tango.TerminalSet, len(m.states))
	m.toSplit = make(map[int]bool)
	m.contribCache = make(map[int][][]tango.TerminalSet)
	m.markConflicts(conflicted)
	m.splitStates()
}

// conflict records one conflicted state: for each contributing item (by
// index), the set of terminals involved in any collision.
type conflict struct {
	state         int
	contributions map[int]tango.TerminalSet
}

type lrActionClass uint8

const (
	classNone lrActionClass = iota
	classShift
	classReduce
	classConflict
)

// detectConflicts scans every reducing state. For each terminal the state's
// action is classified as none/shift/reduce/conflict; any collision
// upgrades to conflict and records the participating reduce items with the
// colliding terminal.
func (m *Machine) detectConflicts() []conflict {
	var result []conflict
	for s := range m.states {
		st := &m.states[s]
		if !st.hasReduce {
			continue
		}
		contributions := m.stateConflicts(st, m.resolveState(st))
		if len(contributions) == 0 {
			continue
		}
		result = append(result, conflict{state: s, contributions: contributions})
	}
	return result
}

func (m *Machine) stateConflicts(st *State, lookaheads []tango.TerminalSet) map[int]tango.TerminalSet {
	result := make(map[int]tango.TerminalSet)
	type cell struct {
		class lrActionClass
		item  int
	}
	actions := make([]cell, m.g.TerminalSetCap())
	addContribution := func(item int, sym tango.Symbol) {
		set, ok := result[item]
		if !ok {
			set = m.g.NewTerminalSet()
			result[item] = set
		}
		set.Set(sym)
	}
	for i := range st.items {
		it := &st.items[i]
		if it.reducing(m.g) {
			for _, sym := range lookaheads[i].Symbols() {
				c := &actions[sym.ID()]
				switch c.class {
				case classNone:
					c.class = classReduce
					c.item = i
				case classReduce:
					addContribution(c.item, sym)
					addContribution(i, sym)
					c.class = classConflict
				case classShift:
					c.class = classConflict
					addContribution(i, sym)
				case classConflict:
					addContribution(i, sym)
				}
			}
			continue
		}
		sym, _ := it.nextSymbol(m.g)
		if !sym.IsTerminal() {
			continue
		}
		c := &actions[sym.ID()]
		switch c.class {
		case classNone:
			c.class = classShift
		case classReduce:
			addContribution(c.item, sym)
			c.class = classConflict
		}
	}
	return result
}

// markConflicts recursively tags, for every conflicted item, the upstream
// states whose lookahead sources truly originate the conflicting terminals.
func (m *Machine) markConflicts(conflicts []conflict) {
	for _, c := range conflicts {
		items := make([]int, 0, len(c.contributions))
		for item := range c.contributions {
			items = append(items, item)
		}
		sort.Ints(items)
		for _, item := range items {
			m.markConflict(c.state, item, c.contributions[item].Clone())
		}
	}
}

func (m *Machine) markConflict(state, item int, contributions tango.TerminalSet) {
	it := &m.states[state].items[item]
	// terminals generated locally do not originate upstream
	contributions.Subtract(it.gen)
	if len(it.sources) == 0 || contributions.None() {
		return
	}
	if m.contributions[state] == nil {
		sets := make([]tango.TerminalSet, len(m.states[state].items))
		for i := range sets {
			sets[i] = m.g.NewTerminalSet()
		}
		m.contributions[state] = sets
		m.contributions[state][item].Union(contributions)
	} else if !m.contributions[state][item].UnionChanged(contributions) {
		// nothing new, the whole upstream cone is marked already
		return
	}
	if len(it.sources) > 1 {
		m.toSplit[state] = true
	}
	for _, src := range it.sources {
		m.markConflict(src.state, src.item, contributions.Clone())
	}
}

// splitLocation returns the index of the first lookahead source that stems
// from a different state than the first one; the prefix is kept, the rest
// regenerated.
func splitLocation(it *Item) int {
	kept := it.sources[0].state
	split := 1
	for split < len(it.sources) && it.sources[split].state == kept {
		split++
	}
	return split
}

// splitStates keeps, for every item in each tagged state, the leading
// lookahead sources that stem from the same state as its first one, and
// regenerates one fresh successor per removed source of the state's first
// item by stepping through the source state's transition again, this time
// merging under the masked compatibility test.
func (m *Machine) splitStates() {
	stateIDs := make([]int, 0, len(m.toSplit))
	for id := range m.toSplit {
		stateIDs = append(stateIDs, id)
	}
	sort.Ints(stateIDs)
	// truncate the source lists; the removed sources of the first item
	// identify the upstream transitions to regenerate
	removed := make([][]lookaheadSource, 0, len(stateIDs))
	for _, id := range stateIDs {
		st := &m.states[id]
		first := &st.items[0]
		cut := splitLocation(first)
		removed = append(removed, copySources(first.sources[cut:]))
		for i := range st.items {
			it := &st.items[i]
			if len(it.sources) == 0 {
				continue
			}
			it.sources = it.sources[:splitLocation(it)]
		}
	}
	// cache the masked lookaheads of every conflicted state, so merge
	// attempts do not recompute them
	memo := make(map[lookaheadSource]tango.TerminalSet)
	for s := range m.states {
		if m.contributions[s] == nil {
			continue
		}
		m.contribCache[s] = [][]tango.TerminalSet{
			m.maskedLookaheads(&m.states[s], m.contributions[s], memo),
		}
	}
	// regenerate the successors reached through the removed sources
	for _, sources := range removed {
		for _, src := range sources {
			srcItem := &m.states[src.state].items[src.item]
			sym, _ := srcItem.nextSymbol(m.g)
			kernel := m.successorKernelFor(src.state, sym)
			target, inserted := m.insertStateLSCELR(kernel)
			m.states[src.state].transitions[sym] = target
			if inserted {
				m.expandStateLSCELR(target)
			}
		}
	}
}

func (m *Machine) insertStateLSCELR(kernel []Item) (int, bool) {
	id := len(m.states)
	st := newState(id, kernel, m.g, m.a)
	key := fingerprint(kernel)
	isocores := m.isocores[key]
	if target, merged := m.mergeLSCELR(isocores, &st); merged {
		return target, false
	}
	m.isocores[key] = append(isocores, id)
	m.states = append(m.states, st)
	return id, true
}

func (m *Machine) expandStateLSCELR(id int) {
	for _, group := range m.successorKernels(id) {
		target, inserted := m.insertStateLSCELR(group.kernel)
		m.states[id].transitions[group.sym] = target
		if inserted {
			m.expandStateLSCELR(target)
		}
	}
}

// mergeLSCELR merges two isocores iff their lookaheads masked by the first
// isocore's potential-contribution set are equal. Unconflicted kernels
// merge unconditionally, as in LALR.
func (m *Machine) mergeLSCELR(isocores []int, st *State) (int, bool) {
	if len(isocores) == 0 {
		return 0, false
	}
	first := isocores[0]
	masks := m.contributions[first]
	if masks == nil {
		// not a conflicted state, always merge
		existing := &m.states[first]
		for i := range existing.items {
			existing.items[i].sources, _ = unionSources(existing.items[i].sources, st.items[i].sources)
		}
		return first, true
	}
	memo := make(map[lookaheadSource]tango.TerminalSet)
	candidate := m.maskedLookaheads(st, masks, memo)
	cache := m.contribCache[first]
	for k, other := range isocores {
		if equalSetVector(cache[k], candidate) {
			existing := &m.states[other]
			for i := range existing.items {
				existing.items[i].sources, _ = unionSources(existing.items[i].sources, st.items[i].sources)
			}
			return other, true
		}
	}
	m.contribCache[first] = append(cache, candidate)
	return 0, false
}

// maskedLookaheads resolves the effective lookaheads of the items with a
// nonempty contribution mask and intersects them with that mask. The
// resulting compacted vector is the LSCELR compatibility signature of the
// state.
func (m *Machine) maskedLookaheads(st *State, masks []tango.TerminalSet,
	memo map[lookaheadSource]tango.TerminalSet) []tango.TerminalSet {
	//
	var result []tango.TerminalSet
	for i := range st.items {
		if masks[i].None() {
			continue
		}
		it := &st.items[i]
		set := it.gen.Clone()
		for _, src := range it.sources {
			set.Union(m.resolveSource(src, memo))
		}
		set.Intersect(masks[i])
		result = append(result, set)
	}
	return result
}

func equalSetVector(a, b []tango.TerminalSet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
