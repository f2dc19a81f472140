package lr

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/tg"
)

// ActionKind discriminates the entries of the ACTION table.
type ActionKind uint8

// The four LR actions. ActionError marks absent entries.
const (
	ActionError ActionKind = iota
	ActionShift
	ActionReduce
	ActionSuccess
)

// Action is one ACTION-table entry: a kind plus its argument — the
// successor state for shifts, the rule id for reductions.
type Action struct {
	Kind ActionKind
	Arg  int
}

func (a Action) String() string {
	switch a.Kind {
	case ActionShift:
		return "s" + strconv.Itoa(a.Arg)
	case ActionReduce:
		return "r" + strconv.Itoa(a.Arg)
	case ActionSuccess:
		return "S"
	}
	return "<err>"
}

type actionRecord struct {
	key    int // terminal-set index: EOF = 0, user terminal t = t+1
	action Action
}

type gotoRecord struct {
	key  int // nonterminal id
	next int
}

// Table is a row-compressed LR parse table: per state one sorted action row
// keyed by terminal index and one sorted goto row keyed by nonterminal id.
// Lookups are binary searches; rows are typically tiny.
type Table struct {
	actions [][]actionRecord
	gotos   [][]gotoRecord
}

// States returns the number of automaton states covered by the table.
func (t *Table) States() int { return len(t.actions) }

// Action looks up the action for (state, terminal). Missing entries are
// ActionError.
func (t *Table) Action(state int, sym tango.Symbol) Action {
	row := t.actions[state]
	key := sym.ID()
	i := sort.Search(len(row), func(k int) bool { return row[k].key >= key })
	if i < len(row) && row[i].key == key {
		return row[i].action
	}
	return Action{Kind: ActionError}
}

// Goto looks up the successor state for (state, nonterminal).
func (t *Table) Goto(state int, nt tango.Symbol) (int, bool) {
	row := t.gotos[state]
	key := nt.ID()
	i := sort.Search(len(row), func(k int) bool { return row[k].key >= key })
	if i < len(row) && row[i].key == key {
		return row[i].next, true
	}
	return 0, false
}

// Expected enumerates the terminals with a non-error action in a state, in
// ascending order. Drivers use this for syntax-error diagnostics.
func (t *Table) Expected(state int) []tango.Symbol {
	row := t.actions[state]
	syms := make([]tango.Symbol, 0, len(row))
	for _, rec := range row {
		if rec.key == 0 {
			syms = append(syms, tango.EOF)
		} else {
			syms = append(syms, tango.T(rec.key-1))
		}
	}
	return syms
}

func (t *Table) ensureState(state int) {
	for len(t.actions) <= state {
		t.actions = append(t.actions, nil)
		t.gotos = append(t.gotos, nil)
	}
}

// insertAction returns a pointer to the (possibly fresh) action cell for
// (state, key), keeping the row sorted.
func (t *Table) insertAction(state, key int) *Action {
	t.ensureState(state)
	row := t.actions[state]
	i := sort.Search(len(row), func(k int) bool { return row[k].key >= key })
	if i < len(row) && row[i].key == key {
		return &row[i].action
	}
	row = append(row, actionRecord{})
	copy(row[i+1:], row[i:])
	row[i] = actionRecord{key: key}
	t.actions[state] = row
	return &t.actions[state][i].action
}

func (t *Table) insertGoto(state, key, next int) {
	t.ensureState(state)
	row := t.gotos[state]
	i := sort.Search(len(row), func(k int) bool { return row[k].key >= key })
	if i < len(row) && row[i].key == key {
		row[i].next = next
		return
	}
	row = append(row, gotoRecord{})
	copy(row[i+1:], row[i:])
	row[i] = gotoRecord{key: key, next: next}
	t.gotos[state] = row
}

// --- Table construction ----------------------------------------------------

// BuildTable constructs the parse table for a grammar using the given
// automaton variant, resolving conflicts through declared precedence:
// reduce/reduce keeps the rule declared first; shift/reduce compares the
// incoming terminal's precedence level against the reduced rule's. An
// unresolvable conflict — equal levels without associativity, which
// includes all conflicts between undeclared terminals — is a construction
// error naming the conflicted state.
func BuildTable(a *tg.Analysis, variant Variant) (*Table, error) {
	return buildFromMachine(NewMachine(variant, a), false)
}

// BuildStrictTable constructs the parse table refusing every conflict,
// regardless of precedence declarations.
func BuildStrictTable(a *tg.Analysis, variant Variant) (*Table, error) {
	return buildFromMachine(NewMachine(variant, a), true)
}

func buildFromMachine(m *Machine, strict bool) (*Table, error) {
	g := m.Grammar()
	t := &Table{}
	t.ensureState(len(m.states) - 1)
	for s := range m.states {
		st := &m.states[s]
		for i := range st.items {
			if err := t.lr1Insert(g, st, &st.items[i], strict); err != nil {
				return nil, err
			}
		}
	}
	tracer().Infof("built %s table with %d states", m.variant, t.States())
	return t, nil
}

func (t *Table) lr1Insert(g *tg.Grammar, st *State, it *Item, strict bool) error {
	rule := g.Rule(it.rule)
	switch {
	case it.rule == g.StartRule().ID() && it.mark == 1:
		// the S' -> S.EOF item accepts
		*t.insertAction(st.ID, tango.EOF.ID()) = Action{Kind: ActionSuccess}
	case it.reducing(g):
		for _, terminal := range it.gen.Symbols() {
			cell := t.insertAction(st.ID, terminal.ID())
			if cell.Kind == ActionError {
				*cell = Action{Kind: ActionReduce, Arg: it.rule}
				continue
			}
			if strict {
				return conflictError(g, st, cell.Kind, ActionReduce, terminal)
			}
			resolved, err := resolveConflict(g, st, terminal, Action{Kind: ActionReduce, Arg: it.rule}, *cell, rule)
			if err != nil {
				return err
			}
			*cell = resolved
		}
	default:
		sym, _ := it.nextSymbol(g)
		if sym.IsNonterminal() {
			t.insertGoto(st.ID, sym.ID(), st.transitions[sym])
			return nil
		}
		next := st.transitions[sym]
		cell := t.insertAction(st.ID, sym.ID())
		switch {
		case cell.Kind == ActionError:
			*cell = Action{Kind: ActionShift, Arg: next}
		case cell.Kind == ActionShift || cell.Kind == ActionSuccess:
			// the same shift, inserted for a sibling item
		case strict:
			return conflictError(g, st, cell.Kind, ActionShift, sym)
		default:
			resolved, err := resolveConflict(g, st, sym, *cell, Action{Kind: ActionShift, Arg: next}, g.Rule(cell.Arg))
			if err != nil {
				return err
			}
			*cell = resolved
		}
	}
	return nil
}

// resolveConflict applies the precedence rules to a collision. reduceItem
// is a reduce action, other the competing action (a reduce for R/R; a
// shift or success for S/R); reduceRule is the rule behind reduceItem.
func resolveConflict(g *tg.Grammar, st *State, terminal tango.Symbol,
	reduceItem, other Action, reduceRule *tg.Rule) (Action, error) {
	//
	// R/R conflict: keep the rule declared first in the grammar
	if other.Kind == ActionReduce {
		if reduceItem.Arg <= other.Arg {
			return reduceItem, nil
		}
		return other, nil
	}
	// S/R conflict: compare the terminal's level with the rule's
	assoc, level := g.Precedence(terminal)
	_, ruleLevel := g.RulePrecedence(reduceRule)
	if level == ruleLevel {
		switch assoc {
		case tg.LeftAssoc:
			return reduceItem, nil
		case tg.RightAssoc:
			return other, nil
		default:
			return Action{}, fmt.Errorf("S/R conflict on %s with no associativity in state\n%s",
				g.SymbolName(terminal), st.stringWith(g))
		}
	}
	if level > ruleLevel {
		// terminal binds tighter, keep shifting
		return other, nil
	}
	return reduceItem, nil
}

func conflictError(g *tg.Grammar, st *State, kind1, kind2 ActionKind, terminal tango.Symbol) error {
	flavor := "S/R"
	if kind1 == ActionReduce && kind2 == ActionReduce {
		flavor = "R/R"
	}
	return fmt.Errorf("%s conflict on %s in state %s", flavor, g.SymbolName(terminal), st.stringWith(g))
}

// BuildSLRTable constructs an SLR(1) table from the LR(0) automaton: every
// reducing item reduces at the FOLLOW-set of its left-hand side. Conflicts
// are resolved by precedence exactly as in BuildTable.
func BuildSLRTable(a *tg.Analysis) (*Table, error) {
	g := a.Grammar()
	m := newLR0Machine(g)
	t := &Table{}
	t.ensureState(len(m.states) - 1)
	for s := range m.states {
		st := &m.states[s]
		for _, it := range st.items {
			rule := g.Rule(it.rule)
			switch {
			case it.rule == g.StartRule().ID() && it.mark == 1:
				*t.insertAction(s, tango.EOF.ID()) = Action{Kind: ActionSuccess}
			case it.reducing(g):
				for _, terminal := range a.Follow(rule.LHS()).Symbols() {
					cell := t.insertAction(s, terminal.ID())
					if cell.Kind == ActionError {
						*cell = Action{Kind: ActionReduce, Arg: it.rule}
						continue
					}
					resolved, err := resolveSLRConflict(g, s, terminal, Action{Kind: ActionReduce, Arg: it.rule}, *cell)
					if err != nil {
						return nil, err
					}
					*cell = resolved
				}
			default:
				sym, _ := it.nextSymbol(g)
				if sym.IsNonterminal() {
					t.insertGoto(s, sym.ID(), st.transitions[sym])
					continue
				}
				next := st.transitions[sym]
				cell := t.insertAction(s, sym.ID())
				switch cell.Kind {
				case ActionError:
					*cell = Action{Kind: ActionShift, Arg: next}
				case ActionShift, ActionSuccess:
					// benign double shift
				default:
					resolved, err := resolveSLRConflict(g, s, sym, *cell, Action{Kind: ActionShift, Arg: next})
					if err != nil {
						return nil, err
					}
					*cell = resolved
				}
			}
		}
	}
	tracer().Infof("built SLR(1) table with %d states", t.States())
	return t, nil
}

func resolveSLRConflict(g *tg.Grammar, state int, terminal tango.Symbol,
	reduceItem, other Action) (Action, error) {
	//
	if other.Kind == ActionReduce && reduceItem.Kind == ActionReduce {
		if reduceItem.Arg <= other.Arg {
			return reduceItem, nil
		}
		return other, nil
	}
	// normalize: reduceItem reduce, other shift
	if reduceItem.Kind != ActionReduce {
		reduceItem, other = other, reduceItem
	}
	assoc, level := g.Precedence(terminal)
	_, ruleLevel := g.RulePrecedence(g.Rule(reduceItem.Arg))
	if level == ruleLevel {
		switch assoc {
		case tg.LeftAssoc:
			return reduceItem, nil
		case tg.RightAssoc:
			return other, nil
		default:
			return Action{}, fmt.Errorf("S/R conflict on %s in SLR state %d", g.SymbolName(terminal), state)
		}
	}
	if level > ruleLevel {
		return other, nil
	}
	return reduceItem, nil
}

// --- Serialization ---------------------------------------------------------

// Save writes the table in its compact text format: the state count, one
// line per action row with space-separated key:action entries, then one
// line per goto row.
func (t *Table) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", t.States())
	for _, row := range t.actions {
		for _, rec := range row {
			fmt.Fprintf(bw, " %d:%s", rec.key, rec.action)
		}
		fmt.Fprintln(bw)
	}
	for _, row := range t.gotos {
		for _, rec := range row {
			fmt.Fprintf(bw, " %d:%d", rec.key, rec.next)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// ReadTable reads a table previously written by Save. The reader tolerates
// trailing whitespace and empty rows.
func ReadTable(r io.Reader) (*Table, error) {
	scan := bufio.NewScanner(r)
	if !scan.Scan() {
		return nil, fmt.Errorf("saved table is empty")
	}
	states, err := strconv.Atoi(strings.TrimSpace(scan.Text()))
	if err != nil || states < 1 {
		return nil, fmt.Errorf("saved table has an invalid state count")
	}
	t := &Table{}
	t.ensureState(states - 1)
	for s := 0; s < states; s++ {
		if !scan.Scan() {
			return nil, fmt.Errorf("saved table is missing action row %d", s)
		}
		for _, field := range strings.Fields(scan.Text()) {
			key, action, err := parseActionField(field)
			if err != nil {
				return nil, err
			}
			*t.insertAction(s, key) = action
		}
	}
	for s := 0; s < states; s++ {
		if !scan.Scan() {
			// trailing goto rows may be omitted entirely
			break
		}
		for _, field := range strings.Fields(scan.Text()) {
			k := strings.IndexByte(field, ':')
			if k < 0 {
				return nil, fmt.Errorf("saved table has a malformed goto entry %q", field)
			}
			key, err1 := strconv.Atoi(field[:k])
			next, err2 := strconv.Atoi(field[k+1:])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("saved table has a malformed goto entry %q", field)
			}
			t.insertGoto(s, key, next)
		}
	}
	return t, scan.Err()
}

func parseActionField(field string) (int, Action, error) {
	k := strings.IndexByte(field, ':')
	if k < 0 || k == len(field)-1 {
		return 0, Action{}, fmt.Errorf("saved table has a malformed action entry %q", field)
	}
	key, err := strconv.Atoi(field[:k])
	if err != nil {
		return 0, Action{}, fmt.Errorf("saved table has a malformed action entry %q", field)
	}
	op := field[k+1:]
	switch op[0] {
	case 'S':
		return key, Action{Kind: ActionSuccess}, nil
	case 's', 'r':
		arg, err := strconv.Atoi(op[1:])
		if err != nil {
			return 0, Action{}, fmt.Errorf("saved table has a malformed action entry %q", field)
		}
		kind := ActionShift
		if op[0] == 'r' {
			kind = ActionReduce
		}
		return key, Action{Kind: kind, Arg: arg}, nil
	}
	return 0, Action{}, fmt.Errorf("saved table has an unknown action %q", field)
}
