package lr

import (
	"container/list"
	"fmt"
	"io"
	"strings"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/tg"
)

// SyntaxError is reported when the parse table yields an error action. It
// carries the offending token and the terminals the table permits in the
// current state.
type SyntaxError struct {
	Token    tango.Token
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
	}
	return b.String()
}

// Translator is the bottom-up translation driver: a shift-reduce parser
// over a frozen grammar and table that emits the attributed output token
// stream of the translation grammar. A Translator is cheap and
// single-threaded; concurrent parses need one Translator each, sharing
// grammar and table read-only.
type Translator struct {
	g     *tg.Grammar
	table *Table

	// Errors receives syntax diagnostics; nil discards them.
	Errors io.Writer
}

// NewTranslator creates a translation driver for a grammar and a matching
// parse table.
func NewTranslator(g *tg.Grammar, table *Table) *Translator {
	return &Translator{g: g, table: table}
}

// Parse runs the shift-reduce loop over the token source until the table
// yields success or error. On success it returns the attributed output
// token stream, the final EOF token included. On a syntax error it emits a
// diagnostic to the Errors sink and returns a *SyntaxError; the driver
// halts after the first error, no recovery is attempted.
func (p *Translator) Parse(src tango.TokenSource) ([]tango.Token, error) {
	var pushdown []int
	var applied []int
	var tokens []tango.Token

	state := 0
	pushdown = append(pushdown, state)
	token := src.NextToken()
	tokens = append(tokens, token)

	for {
		action := p.table.Action(state, token.Sym)
		switch action.Kind {
		case ActionShift:
			state = action.Arg
			pushdown = append(pushdown, state)
			token = src.NextToken()
			tokens = append(tokens, token)
		case ActionReduce:
			rule := p.g.Rule(action.Arg)
			pushdown = pushdown[:len(pushdown)-len(rule.Input())]
			next, ok := p.table.Goto(pushdown[len(pushdown)-1], rule.LHS())
			if !ok {
				return nil, fmt.Errorf("no goto from state %d on %s", pushdown[len(pushdown)-1], p.g.SymbolName(rule.LHS()))
			}
			state = next
			pushdown = append(pushdown, state)
			applied = append(applied, action.Arg)
		case ActionSuccess:
			applied = append(applied, p.g.StartRule().ID())
			return p.produceOutput(applied, tokens), nil
		default:
			err := &SyntaxError{
				Token:    token,
				Expected: p.table.Expected(state),
				namer:    p.g.Namer(),
			}
			if p.Errors != nil {
				fmt.Fprintln(p.Errors, err.Error())
			}
			return nil, err
		}
	}
}

// produceOutput replays the applied rules in reverse — the rightmost
// derivation of the input — over two projection pushdowns. Each step
// expands the rightmost nonterminal of both projections with the rule's
// input and output patterns and records the rule's attribute-routing
// actions as references to the freshly spliced output positions. Whenever
// the input projection ends in terminals, they are paired with the buffered
// input tokens from the newest backwards, and each pairing copies the input
// token's attribute (and location) onto its routed output positions.
//
// Both projections are linked lists, so the recorded output positions stay
// valid across later splicing.
func (p *Translator) produceOutput(applied []int, tokens []tango.Token) []tango.Token {
	input := list.New()  // of tango.Symbol
	output := list.New() // of *tango.Token
	input.PushBack(p.g.StartSymbol())
	output.PushBack(&tango.Token{Sym: p.g.StartSymbol()})

	// routing actions, one per not-yet-drained input terminal; the last
	// pushed action belongs to the rightmost terminal
	var actions [][]*list.Element
	cursor := len(tokens) - 1

	for i := len(applied) - 1; i >= 0; i-- {
		rule := p.g.Rule(applied[i])

		// rightmost nonterminal of the input projection: after draining,
		// the projection always ends in one
		e := input.Back()
		for _, sym := range rule.Input() {
			input.InsertBefore(sym, e)
		}
		input.Remove(e)

		// rightmost nonterminal of the output projection: the projections
		// carry the same nonterminal sequence, so it matches the rule too
		oe := output.Back()
		for oe != nil && !oe.Value.(*tango.Token).Sym.IsNonterminal() {
			oe = oe.Prev()
		}
		spliced := make([]*list.Element, len(rule.Output()))
		for k, sym := range rule.Output() {
			spliced[k] = output.InsertBefore(&tango.Token{Sym: sym}, oe)
		}
		output.Remove(oe)

		// record the routing actions of this rule's input terminals
		for _, targets := range rule.Actions() {
			refs := make([]*list.Element, 0, len(targets))
			for _, k := range targets {
				refs = append(refs, spliced[k])
			}
			actions = append(actions, refs)
		}

		// drain trailing terminals against the token buffer, newest first
		for back := input.Back(); back != nil && back.Value.(tango.Symbol).IsTerminal(); back = input.Back() {
			act := actions[len(actions)-1]
			actions = actions[:len(actions)-1]
			for _, ref := range act {
				ref.Value.(*tango.Token).SetAttribute(tokens[cursor])
			}
			cursor--
			input.Remove(back)
		}
	}

	result := make([]tango.Token, 0, output.Len())
	for e := output.Front(); e != nil; e = e.Next() {
		result = append(result, *e.Value.(*tango.Token))
	}
	return result
}
