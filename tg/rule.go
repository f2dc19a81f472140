package tg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tangolang/tango"
)

// Rule is a single translation rule. It is identified by a left-hand-side
// nonterminal and two strings of symbols: the input pattern and the output
// pattern. The nonterminals of both patterns must agree in count and order;
// the terminals may differ freely.
//
// For every terminal of the input pattern the rule carries one
// attribute-routing action: the sorted set of output positions that receive
// that terminal's attribute during translation.
type Rule struct {
	lhs     tango.Symbol
	input   []tango.Symbol
	output  []tango.Symbol
	actions [][]int
	precSym tango.Symbol
	hasPrec bool // explicit precedence symbol was declared
	id      int
}

// NewRule constructs a rule from a left-hand side, input and output
// patterns, and one attribute-routing action per input terminal. Passing nil
// actions creates empty actions (no attributes are routed).
func NewRule(lhs tango.Symbol, input, output []tango.Symbol, actions [][]int) (Rule, error) {
	r := Rule{lhs: lhs, input: input, output: output, actions: actions, id: -1}
	if !lhs.IsNonterminal() {
		return r, fmt.Errorf("rule LHS %v is not a nonterminal", lhs)
	}
	if err := r.checkNonterminals(); err != nil {
		return r, err
	}
	n := r.countInputTerminals()
	if r.actions == nil {
		r.actions = make([][]int, n)
		return r, nil
	}
	if len(r.actions) != n {
		return r, fmt.Errorf("rule has %d input terminals but %d attribute actions", n, len(r.actions))
	}
	for _, targets := range r.actions {
		sort.Ints(targets)
		for _, i := range targets {
			if i < 0 || i >= len(output) || output[i].IsNonterminal() {
				return r, fmt.Errorf("attribute target %d is not an output terminal", i)
			}
		}
	}
	return r, nil
}

// NewSameRule constructs a rule whose output pattern equals its input
// pattern, with identity attribute actions: the k-th input terminal routes
// to the k-th output terminal.
func NewSameRule(lhs tango.Symbol, both []tango.Symbol) (Rule, error) {
	actions := make([][]int, 0, len(both))
	for i, sym := range both {
		if sym.IsTerminal() {
			actions = append(actions, []int{i})
		}
	}
	return NewRule(lhs, both, both, actions)
}

// WithPrecedence returns a copy of the rule with an explicit precedence
// symbol. Without one, a rule's precedence is that of its rightmost input
// terminal.
func (r Rule) WithPrecedence(terminal tango.Symbol) Rule {
	r.precSym = terminal
	r.hasPrec = true
	return r
}

// LHS returns the rule's left-hand-side nonterminal.
func (r *Rule) LHS() tango.Symbol { return r.lhs }

// Input returns the input pattern.
func (r *Rule) Input() []tango.Symbol { return r.input }

// Output returns the output pattern.
func (r *Rule) Output() []tango.Symbol { return r.output }

// Actions returns the attribute-routing actions, one sorted index set per
// input terminal, in input order.
func (r *Rule) Actions() [][]int { return r.actions }

// ID returns the rule's stable id, assigned by the grammar in declaration
// order. The augmenting rule is always last.
func (r *Rule) ID() int { return r.id }

// PrecedenceSymbol returns the terminal that determines this rule's
// precedence and whether the rule has one at all.
func (r *Rule) PrecedenceSymbol() (tango.Symbol, bool) {
	if r.hasPrec {
		return r.precSym, true
	}
	for i := len(r.input) - 1; i >= 0; i-- {
		if r.input[i].IsTerminal() {
			return r.input[i], true
		}
	}
	return 0, false
}

func (r *Rule) checkNonterminals() error {
	var in, out []tango.Symbol
	for _, s := range r.input {
		if s.IsNonterminal() {
			in = append(in, s)
		}
	}
	for _, s := range r.output {
		if s.IsNonterminal() {
			out = append(out, s)
		}
	}
	if len(in) != len(out) {
		return fmt.Errorf("rule input has %d nonterminals, output has %d", len(in), len(out))
	}
	for i := range in {
		if in[i] != out[i] {
			return fmt.Errorf("input and output nonterminals of a rule must match")
		}
	}
	return nil
}

func (r *Rule) countInputTerminals() int {
	n := 0
	for _, s := range r.input {
		if s.IsTerminal() {
			n++
		}
	}
	return n
}

// StringWith renders the rule with a symbol namer.
func (r *Rule) StringWith(namer tango.SymbolNamer) string {
	var b strings.Builder
	b.WriteString(namer(r.lhs))
	b.WriteString(" -> (")
	for _, s := range r.input {
		b.WriteByte(' ')
		b.WriteString(namer(s))
	}
	b.WriteString(" ), (")
	for _, s := range r.output {
		b.WriteByte(' ')
		b.WriteString(namer(s))
	}
	b.WriteString(" )")
	return b.String()
}

func (r *Rule) String() string {
	return r.StringWith(tango.Symbol.String)
}
