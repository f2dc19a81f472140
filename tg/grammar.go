package tg

import (
	"fmt"
	"strings"

	"github.com/tangolang/tango"
)

// Associativity of a precedence level.
type Associativity uint8

// The three associativity flavors. NonAssoc levels refuse shift/reduce
// resolution at equal precedence.
const (
	NonAssoc Associativity = iota
	LeftAssoc
	RightAssoc
)

func (a Associativity) String() string {
	switch a {
	case LeftAssoc:
		return "left"
	case RightAssoc:
		return "right"
	}
	return "none"
}

// PrecedenceLevel declares one level of operator precedence: an
// associativity and the set of terminals living on that level. Levels are
// ordered, lower index meaning lower precedence.
type PrecedenceLevel struct {
	Assoc     Associativity
	Terminals []tango.Symbol
}

type precEntry struct {
	assoc Associativity
	level int
}

// Grammar is an augmented translation grammar: the user rules plus a
// synthesized start rule S' → S EOF, which is always the last rule. A
// grammar is immutable once constructed; analyses, automata and drivers
// share it by read-only reference.
type Grammar struct {
	Name string

	rules     []Rule
	terms     int // number of user terminals T (EOF excluded)
	nonterms  int // number of nonterminals, augmented start included
	start     tango.Symbol
	userStart tango.Symbol
	levels    []PrecedenceLevel
	prec      map[tango.Symbol]precEntry

	ntNames []string
	tNames  []string
}

// New constructs and augments a translation grammar from rules, a starting
// nonterminal and an optional precedence table. Symbol names default to
// their numeric forms; use a Builder for named symbols.
func New(rules []Rule, start tango.Symbol, levels []PrecedenceLevel) (*Grammar, error) {
	return newGrammar("", rules, start, levels, nil, nil)
}

func newGrammar(name string, rules []Rule, start tango.Symbol, levels []PrecedenceLevel,
	ntNames, tNames []string) (*Grammar, error) {
	//
	if !start.IsNonterminal() {
		return nil, fmt.Errorf("starting symbol %v is not a nonterminal", start)
	}
	g := &Grammar{Name: name, rules: rules, userStart: start}
	// determine the symbol ranges from the rules and the precedence table
	seen := false
	count := func(s tango.Symbol) {
		if s.IsNonterminal() {
			if s == start {
				seen = true
			}
			if s.ID()+1 > g.nonterms {
				g.nonterms = s.ID() + 1
			}
		} else if !s.IsEOF() {
			if s.TerminalID()+1 > g.terms {
				g.terms = s.TerminalID() + 1
			}
		}
	}
	for i := range g.rules {
		count(g.rules[i].lhs)
		for _, s := range g.rules[i].input {
			count(s)
		}
		for _, s := range g.rules[i].output {
			count(s)
		}
	}
	for _, lv := range levels {
		for _, t := range lv.Terminals {
			if !t.IsTerminal() || t.IsEOF() {
				return nil, fmt.Errorf("precedence level contains non-terminal symbol %v", t)
			}
			count(t)
		}
	}
	if !seen {
		return nil, fmt.Errorf("starting symbol %v does not occur in any rule", start)
	}
	// declared-but-unused symbols still occupy their ids
	if len(ntNames) > g.nonterms {
		g.nonterms = len(ntNames)
	}
	if len(tNames) > g.terms {
		g.terms = len(tNames)
	}
	// name tables; missing entries fall back to numeric names
	g.ntNames = make([]string, g.nonterms+1)
	g.tNames = make([]string, g.terms)
	for i := range g.ntNames {
		g.ntNames[i] = tango.NT(i).String()
	}
	for i := range g.tNames {
		g.tNames[i] = tango.T(i).String()
	}
	copy(g.ntNames, ntNames)
	copy(g.tNames, tNames)
	g.augment()
	if err := g.declarePrecedence(levels); err != nil {
		return nil, err
	}
	for i := range g.rules {
		g.rules[i].id = i
	}
	tracer().Debugf("grammar %q: %d rules, %d nonterminals, %d terminals",
		g.Name, len(g.rules), g.nonterms, g.terms)
	return g, nil
}

// augment synthesizes the fresh starting nonterminal and the rule
// S' → S EOF. The fresh name is found by repeated prime-suffixing of the
// user start's name.
func (g *Grammar) augment() {
	name := g.ntNames[g.userStart.ID()]
	for {
		name += "'"
		if !g.hasNonterminalName(name) {
			break
		}
	}
	g.start = tango.NT(g.nonterms)
	g.nonterms++
	g.ntNames[g.start.ID()] = name
	r, _ := NewSameRule(g.start, []tango.Symbol{g.userStart, tango.EOF})
	g.rules = append(g.rules, r)
}

func (g *Grammar) hasNonterminalName(name string) bool {
	for _, n := range g.ntNames {
		if n == name {
			return true
		}
	}
	return false
}

func (g *Grammar) declarePrecedence(levels []PrecedenceLevel) error {
	g.levels = levels
	g.prec = make(map[tango.Symbol]precEntry)
	for i, lv := range levels {
		for _, t := range lv.Terminals {
			if _, ok := g.prec[t]; ok {
				return fmt.Errorf("terminal %s declared on more than one precedence level", g.SymbolName(t))
			}
			g.prec[t] = precEntry{assoc: lv.Assoc, level: i}
		}
	}
	return nil
}

// Rules returns all rules of the augmented grammar. The augmenting start
// rule is the last one.
func (g *Grammar) Rules() []Rule { return g.rules }

// Rule returns the rule with a given id.
func (g *Grammar) Rule(id int) *Rule { return &g.rules[id] }

// StartRule returns the augmenting rule S' → S EOF.
func (g *Grammar) StartRule() *Rule { return &g.rules[len(g.rules)-1] }

// StartSymbol returns the augmented starting nonterminal S'.
func (g *Grammar) StartSymbol() tango.Symbol { return g.start }

// UserStartSymbol returns the starting nonterminal the grammar was declared
// with.
func (g *Grammar) UserStartSymbol() tango.Symbol { return g.userStart }

// Terminals returns the number of user terminals T. EOF is not counted.
func (g *Grammar) Terminals() int { return g.terms }

// Nonterminals returns the number of nonterminals, the augmented start
// included.
func (g *Grammar) Nonterminals() int { return g.nonterms }

// TerminalSetCap returns the capacity for terminal sets over this grammar:
// one bit per user terminal plus one for EOF.
func (g *Grammar) TerminalSetCap() int { return g.terms + 1 }

// NewTerminalSet creates an empty terminal set sized for this grammar.
func (g *Grammar) NewTerminalSet(symbols ...tango.Symbol) tango.TerminalSet {
	return tango.TerminalSetOf(g.TerminalSetCap(), symbols...)
}

// Precedence returns the declared (associativity, level) of a terminal, or
// (NonAssoc, -1) if the terminal is on no precedence level.
func (g *Grammar) Precedence(terminal tango.Symbol) (Associativity, int) {
	if e, ok := g.prec[terminal]; ok {
		return e.assoc, e.level
	}
	return NonAssoc, -1
}

// RulePrecedence returns the (associativity, level) of a rule's precedence
// symbol, or (NonAssoc, -1) when the rule has none.
func (g *Grammar) RulePrecedence(r *Rule) (Associativity, int) {
	if sym, ok := r.PrecedenceSymbol(); ok {
		return g.Precedence(sym)
	}
	return NonAssoc, -1
}

// SymbolName returns the printable name of a symbol.
func (g *Grammar) SymbolName(s tango.Symbol) string {
	switch {
	case s.IsEOF():
		return "EOF"
	case s.IsTerminal():
		if tid := s.TerminalID(); tid < len(g.tNames) {
			return g.tNames[tid]
		}
	default:
		if s.ID() < len(g.ntNames) {
			return g.ntNames[s.ID()]
		}
	}
	return s.String()
}

// Namer returns the grammar's symbol namer, for use by diagnostics and
// output generators.
func (g *Grammar) Namer() tango.SymbolNamer {
	return g.SymbolName
}

// TerminalByName finds a terminal symbol by its printable name.
func (g *Grammar) TerminalByName(name string) (tango.Symbol, bool) {
	for i, n := range g.tNames {
		if n == name {
			return tango.T(i), true
		}
	}
	return 0, false
}

// Dump writes a listing of all rules to the tracer.
func (g *Grammar) Dump() {
	for i := range g.rules {
		tracer().Debugf("%2d: %s", i, g.rules[i].StringWith(g.Namer()))
	}
}

func (g *Grammar) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "grammar %q (%d rules)", g.Name, len(g.rules))
	return b.String()
}
