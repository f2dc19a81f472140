package ll

import (
	"container/list"
	"fmt"
	"io"
	"strings"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/tg"
)

// SyntaxError is reported when the driver cannot derive or match the
// incoming token. For a failed derivation the expected terminals are the
// FIRST-set of the nonterminal under derivation (plus its FOLLOW-set when
// it is nullable).
type SyntaxError struct {
	Token    tango.Token
	Top      tango.Symbol
	Expected []tango.Symbol
	namer    tango.SymbolNamer
}

func (e *SyntaxError) Error() string {
	namer := e.namer
	if namer == nil {
		namer = tango.Symbol.String
	}
	var b strings.Builder
	if e.Token.Loc.Valid() {
		b.WriteString(e.Token.Loc.String())
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "unexpected symbol '%s'", namer(e.Token.Sym))
	if len(e.Expected) > 0 {
		b.WriteString("; expected one of:")
		for _, sym := range e.Expected {
			b.WriteString(" '")
			b.WriteString(namer(sym))
			b.WriteByte('\'')
		}
	} else if e.Top != 0 {
		fmt.Fprintf(&b, "; expected '%s'", namer(e.Top))
	}
	return b.String()
}

// Translator is the predictive top-down translation driver. It maintains a
// single input projection pushdown and a single output projection pushdown
// and consults an LL decision table whenever a nonterminal surfaces.
type Translator struct {
	a     *tg.Analysis
	g     *tg.Grammar
	table RuleSelector

	// Errors receives syntax diagnostics; nil discards them.
	Errors io.Writer
}

// NewTranslator creates a top-down translation driver for an analyzed
// grammar and a decision table built from the same analysis.
func NewTranslator(a *tg.Analysis, table RuleSelector) *Translator {
	return &Translator{a: a, g: a.Grammar(), table: table}
}

// Parse runs the predictive loop over the token source. On success it
// returns the attributed output token stream with the EOF token last; the
// first syntax error halts the driver.
func (p *Translator) Parse(src tango.TokenSource) ([]tango.Token, error) {
	input := list.New()  // of tango.Symbol, front is top
	output := list.New() // of *tango.Token
	start := p.g.StartRule().Input()[0]
	input.PushBack(start)
	input.PushBack(tango.EOF)
	output.PushBack(&tango.Token{Sym: start})
	output.PushBack(&tango.Token{Sym: tango.EOF})

	var actions [][]*list.Element
	lastDerived := start
	token := src.NextToken()

	for {
		top := input.Front().Value.(tango.Symbol)
		switch {
		case top.IsEOF():
			if token.Sym.IsEOF() {
				output.Back().Value.(*tango.Token).SetAttribute(token)
				return collect(output), nil
			}
			return nil, p.fail(token, top, lastDerived)
		case top.IsTerminal():
			if top != token.Sym {
				return nil, p.fail(token, top, lastDerived)
			}
			act := actions[len(actions)-1]
			actions = actions[:len(actions)-1]
			for _, ref := range act {
				ref.Value.(*tango.Token).SetAttribute(token)
			}
			input.Remove(input.Front())
			token = src.NextToken()
		default:
			idx, ok := p.table.RuleIndex(top, token.Sym)
			if !ok {
				return nil, p.fail(token, top, lastDerived)
			}
			lastDerived = top
			actions = expand(input, output, p.g.Rule(idx), actions)
		}
	}
}

// expand replaces the top of the input projection with the rule's input
// pattern and the leftmost nonterminal of the output projection with the
// rule's output pattern, recording the attribute-routing actions so that
// the leftmost input terminal's action is popped first.
func expand(input, output *list.List, rule *tg.Rule,
	actions [][]*list.Element) [][]*list.Element {
	//
	top := input.Front()
	for _, sym := range rule.Input() {
		input.InsertBefore(sym, top)
	}
	input.Remove(top)

	// leftmost nonterminal of the output projection matches the expanded one
	oe := output.Front()
	for oe != nil && !oe.Value.(*tango.Token).Sym.IsNonterminal() {
		oe = oe.Next()
	}
	spliced := make([]*list.Element, len(rule.Output()))
	for k, sym := range rule.Output() {
		spliced[k] = output.InsertBefore(&tango.Token{Sym: sym}, oe)
	}
	output.Remove(oe)

	targets := rule.Actions()
	for k := len(targets) - 1; k >= 0; k-- {
		refs := make([]*list.Element, 0, len(targets[k]))
		for _, i := range targets[k] {
			refs = append(refs, spliced[i])
		}
		actions = append(actions, refs)
	}
	return actions
}

func (p *Translator) fail(token tango.Token, top, lastDerived tango.Symbol) error {
	err := &SyntaxError{Token: token, Top: top, namer: p.g.Namer()}
	if top.IsNonterminal() {
		expected := p.a.First(top).Clone()
		if p.a.Empty(top) {
			expected.Union(p.a.Follow(top))
		}
		err.Expected = expected.Symbols()
	} else if lastDerived.IsNonterminal() {
		tracer().Debugf("mismatch below %s", p.g.SymbolName(lastDerived))
	}
	if p.Errors != nil {
		fmt.Fprintln(p.Errors, err.Error())
	}
	return err
}

func collect(output *list.List) []tango.Token {
	result := make([]tango.Token, 0, output.Len())
	for e := output.Front(); e != nil; e = e.Next() {
		result = append(result, *e.Value.(*tango.Token))
	}
	return result
}

// --- Backtracking driver ---------------------------------------------------

// GeneralTranslator is the nondeterministic LL driver: at every derivation
// step all applicable rules are alternatives; a mismatch rolls the
// projections and the token position back to the most recent open choice
// point.
type GeneralTranslator struct {
	a     *tg.Analysis
	g     *tg.Grammar
	table *GeneralTable

	Errors io.Writer
}

// NewGeneralTranslator creates a backtracking top-down driver.
func NewGeneralTranslator(a *tg.Analysis, table *GeneralTable) *GeneralTranslator {
	return &GeneralTranslator{a: a, g: a.Grammar(), table: table}
}

// parseState is a resumable snapshot of the driver: cloned projections,
// remapped routing actions, and the token position.
type parseState struct {
	input   *list.List
	output  *list.List
	actions [][]*list.Element
	pos     int
}

// choicePoint is a pristine snapshot taken before a nondeterministic
// derivation, together with the untried alternatives.
type choicePoint struct {
	state *parseState
	rules []int
}

func (s *parseState) clone() *parseState {
	c := &parseState{
		input:  list.New(),
		output: list.New(),
		pos:    s.pos,
	}
	for e := s.input.Front(); e != nil; e = e.Next() {
		c.input.PushBack(e.Value)
	}
	remap := make(map[*list.Element]*list.Element, s.output.Len())
	for e := s.output.Front(); e != nil; e = e.Next() {
		tok := *e.Value.(*tango.Token)
		remap[e] = c.output.PushBack(&tok)
	}
	c.actions = make([][]*list.Element, len(s.actions))
	for i, act := range s.actions {
		refs := make([]*list.Element, len(act))
		for k, ref := range act {
			refs[k] = remap[ref]
		}
		c.actions[i] = refs
	}
	return c
}

// Parse runs the nondeterministic loop. Tokens are buffered so positions
// can be rolled back; the source is only pulled forward.
func (p *GeneralTranslator) Parse(src tango.TokenSource) ([]tango.Token, error) {
	cur := &parseState{input: list.New(), output: list.New()}
	start := p.g.StartRule().Input()[0]
	cur.input.PushBack(start)
	cur.input.PushBack(tango.EOF)
	cur.output.PushBack(&tango.Token{Sym: start})
	cur.output.PushBack(&tango.Token{Sym: tango.EOF})

	var tokens []tango.Token
	tokenAt := func(pos int) tango.Token {
		for len(tokens) <= pos {
			tokens = append(tokens, src.NextToken())
		}
		return tokens[pos]
	}
	var choices []*choicePoint
	var firstErr error

	for {
		token := tokenAt(cur.pos)
		top := cur.input.Front().Value.(tango.Symbol)
		ok := true
		switch {
		case top.IsEOF():
			if token.Sym.IsEOF() {
				cur.output.Back().Value.(*tango.Token).SetAttribute(token)
				return collect(cur.output), nil
			}
			ok = false
		case top.IsTerminal():
			if top == token.Sym {
				act := cur.actions[len(cur.actions)-1]
				cur.actions = cur.actions[:len(cur.actions)-1]
				for _, ref := range act {
					ref.Value.(*tango.Token).SetAttribute(token)
				}
				cur.input.Remove(cur.input.Front())
				cur.pos++
			} else {
				ok = false
			}
		default:
			rules := p.table.Rules(top, token.Sym)
			if len(rules) == 0 {
				ok = false
				break
			}
			if len(rules) > 1 {
				choices = append(choices, &choicePoint{state: cur.clone(), rules: rules[1:]})
			}
			cur.actions = p.applyRule(cur, p.g.Rule(rules[0]))
		}
		if ok {
			continue
		}
		// the first mismatch makes the best diagnostic; later ones stem
		// from ever shorter rollbacks
		if firstErr == nil {
			firstErr = p.fail(token, top)
		}
		resumed := false
		for len(choices) > 0 && !resumed {
			cp := choices[len(choices)-1]
			rule := cp.rules[0]
			cp.rules = cp.rules[1:]
			if len(cp.rules) > 0 {
				cur = cp.state.clone()
			} else {
				cur = cp.state
				choices = choices[:len(choices)-1]
			}
			cur.actions = p.applyRule(cur, p.g.Rule(rule))
			resumed = true
		}
		if !resumed {
			if p.Errors != nil {
				fmt.Fprintln(p.Errors, firstErr.Error())
			}
			return nil, firstErr
		}
	}
}

func (p *GeneralTranslator) applyRule(s *parseState, rule *tg.Rule) [][]*list.Element {
	return expand(s.input, s.output, rule, s.actions)
}

func (p *GeneralTranslator) fail(token tango.Token, top tango.Symbol) error {
	err := &SyntaxError{Token: token, Top: top, namer: p.g.Namer()}
	if top.IsNonterminal() {
		expected := p.a.First(top).Clone()
		if p.a.Empty(top) {
			expected.Union(p.a.Follow(top))
		}
		err.Expected = expected.Symbols()
	}
	return err
}
