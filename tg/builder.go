package tg

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/tangolang/tango"
)

// Builder is a fluent constructor for translation grammars. Clients declare
// rules symbol by symbol, optionally switch to the output side with Out(),
// route attributes with Route(), and finally call Grammar() to resolve all
// names, validate, and augment.
//
// Names are interned into sorted sets, so symbol ids do not depend on the
// order in which names are first used. Rule ids follow the order of rule
// declaration; together they fix state numbering and serialized tables.
type Builder struct {
	name   string
	rules  []*ruleDecl
	terms  *treeset.Set // terminal names
	nts    *treeset.Set // nonterminal names
	levels []levelDecl
	err    error
}

type levelDecl struct {
	assoc Associativity
	names []string
}

type symRef struct {
	name     string
	terminal bool
}

type ruleDecl struct {
	lhs     string
	in      []symRef
	out     []symRef
	hasOut  bool
	routes  map[int][]int
	prec    string
	hasPrec bool
}

// NewBuilder creates a grammar builder for a grammar with a given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:  name,
		terms: treeset.NewWith(utils.StringComparator),
		nts:   treeset.NewWith(utils.StringComparator),
	}
}

// Rule starts the declaration of a rule for a left-hand-side nonterminal.
// The rule is appended when End() is called on the returned RuleBuilder.
func (b *Builder) Rule(lhs string) *RuleBuilder {
	b.nts.Add(lhs)
	return &RuleBuilder{
		b:    b,
		decl: &ruleDecl{lhs: lhs, routes: make(map[int][]int)},
	}
}

// Precedence appends one precedence level holding the given terminals.
// Levels are ordered lowest first.
func (b *Builder) Precedence(assoc Associativity, terminals ...string) *Builder {
	for _, t := range terminals {
		b.terms.Add(t)
	}
	b.levels = append(b.levels, levelDecl{assoc: assoc, names: terminals})
	return b
}

// RuleBuilder collects the symbols of a single rule.
type RuleBuilder struct {
	b    *Builder
	decl *ruleDecl
}

func (rb *RuleBuilder) side() *[]symRef {
	if rb.decl.hasOut {
		return &rb.decl.out
	}
	return &rb.decl.in
}

// N appends a nonterminal to the current side of the rule.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.b.nts.Add(name)
	*rb.side() = append(*rb.side(), symRef{name: name})
	return rb
}

// T appends a terminal to the current side of the rule.
func (rb *RuleBuilder) T(name string) *RuleBuilder {
	rb.b.terms.Add(name)
	*rb.side() = append(*rb.side(), symRef{name: name, terminal: true})
	return rb
}

// EOF appends the end-of-input pseudo terminal to the current side.
func (rb *RuleBuilder) EOF() *RuleBuilder {
	*rb.side() = append(*rb.side(), symRef{name: "EOF", terminal: true})
	return rb
}

// Out switches the rule declaration from the input side to the output side.
// A rule declared without Out() gets an output pattern identical to its
// input; without Route() as well, it gets identity attribute actions,
// otherwise only the declared routes.
func (rb *RuleBuilder) Out() *RuleBuilder {
	rb.decl.hasOut = true
	return rb
}

// Route declares that the attribute of the terminal-th input terminal
// (counting terminals only, from 0) is copied to the given output
// positions.
func (rb *RuleBuilder) Route(terminal int, positions ...int) *RuleBuilder {
	rb.decl.routes[terminal] = append(rb.decl.routes[terminal], positions...)
	return rb
}

// Prec declares an explicit precedence terminal for the rule, overriding
// the default (the rightmost input terminal).
func (rb *RuleBuilder) Prec(terminal string) *RuleBuilder {
	rb.b.terms.Add(terminal)
	rb.decl.prec = terminal
	rb.decl.hasPrec = true
	return rb
}

// End finishes the rule and hands it to the builder.
func (rb *RuleBuilder) End() *Builder {
	rb.b.rules = append(rb.b.rules, rb.decl)
	return rb.b
}

// Grammar resolves all names, validates the rules and returns the augmented
// grammar.
func (b *Builder) Grammar(start string) (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.nts.Contains(start) {
		return nil, fmt.Errorf("grammar %q: starting nonterminal %q is not declared", b.name, start)
	}
	ntIndex := make(map[string]int, b.nts.Size())
	ntNames := make([]string, 0, b.nts.Size())
	for _, v := range b.nts.Values() {
		name := v.(string)
		ntIndex[name] = len(ntNames)
		ntNames = append(ntNames, name)
	}
	tIndex := make(map[string]int, b.terms.Size())
	tNames := make([]string, 0, b.terms.Size())
	for _, v := range b.terms.Values() {
		name := v.(string)
		tIndex[name] = len(tNames)
		tNames = append(tNames, name)
	}
	resolve := func(refs []symRef) []tango.Symbol {
		syms := make([]tango.Symbol, len(refs))
		for i, ref := range refs {
			switch {
			case ref.terminal && ref.name == "EOF":
				syms[i] = tango.EOF
			case ref.terminal:
				syms[i] = tango.T(tIndex[ref.name])
			default:
				syms[i] = tango.NT(ntIndex[ref.name])
			}
		}
		return syms
	}
	rules := make([]Rule, 0, len(b.rules))
	for _, decl := range b.rules {
		var r Rule
		var err error
		lhs := tango.NT(ntIndex[decl.lhs])
		in := resolve(decl.in)
		if !decl.hasOut && len(decl.routes) == 0 {
			r, err = NewSameRule(lhs, in)
		} else {
			out := in
			if decl.hasOut {
				out = resolve(decl.out)
			}
			actions := make([][]int, countTerminals(in))
			for t, targets := range decl.routes {
				if t < 0 || t >= len(actions) {
					return nil, fmt.Errorf("grammar %q: route for input terminal %d of rule %q, which has %d",
						b.name, t, decl.lhs, len(actions))
				}
				actions[t] = targets
			}
			r, err = NewRule(lhs, in, out, actions)
		}
		if err != nil {
			return nil, fmt.Errorf("grammar %q, rule for %q: %w", b.name, decl.lhs, err)
		}
		if decl.hasPrec {
			r = r.WithPrecedence(tango.T(tIndex[decl.prec]))
		}
		rules = append(rules, r)
	}
	levels := make([]PrecedenceLevel, len(b.levels))
	for i, lv := range b.levels {
		levels[i].Assoc = lv.assoc
		for _, name := range lv.names {
			levels[i].Terminals = append(levels[i].Terminals, tango.T(tIndex[name]))
		}
	}
	return newGrammar(b.name, rules, tango.NT(ntIndex[start]), levels, ntNames, tNames)
}

func countTerminals(syms []tango.Symbol) int {
	n := 0
	for _, s := range syms {
		if s.IsTerminal() {
			n++
		}
	}
	return n
}
