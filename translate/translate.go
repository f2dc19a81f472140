/*
Package translate ties a token source, a parse driver and an output
generator into a complete translation pipeline.

A Translation is configured once — grammar, control flavor, generator —
and can then run over any number of inputs. The control flavor selects the
parsing algorithm by name: "slr", "lalr", "canonical lr", "lscelr" (with
"lalr strict" and "canonical lr strict" refusing all table conflicts), or
the top-down "ll", "priority ll" and "general ll" for grammars that permit
predictive parsing.

The coarse outcome of a run is a Result: success, or the first of lexical,
syntax, semantic and generation errors encountered.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package translate

import (
	"errors"
	"fmt"
	"io"

	"github.com/npillmayer/schuko/tracing"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/ll"
	"github.com/tangolang/tango/lr"
	"github.com/tangolang/tango/output"
	"github.com/tangolang/tango/scanner"
	"github.com/tangolang/tango/tg"
)

// tracer traces with key 'tango.translate'.
func tracer() tracing.Trace {
	return tracing.Select("tango.translate")
}

// Result is the coarse outcome of a translation run.
type Result int

// The possible outcomes, ordered by pipeline stage.
const (
	Success Result = iota
	LexicalError
	SyntaxError
	SemanticError
	GenerationError
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case LexicalError:
		return "lexical error"
	case SyntaxError:
		return "syntax error"
	case SemanticError:
		return "semantic error"
	case GenerationError:
		return "generation error"
	}
	return "unknown"
}

// Control drives one parse over a token source and returns the attributed
// output token stream. Syntax diagnostics go to errs.
type Control interface {
	Run(src tango.TokenSource, errs io.Writer) ([]tango.Token, error)
}

type lrControl struct {
	driver *lr.Translator
}

func (c *lrControl) Run(src tango.TokenSource, errs io.Writer) ([]tango.Token, error) {
	c.driver.Errors = errs
	return c.driver.Parse(src)
}

type llControl struct {
	driver *ll.Translator
}

func (c *llControl) Run(src tango.TokenSource, errs io.Writer) ([]tango.Token, error) {
	c.driver.Errors = errs
	return c.driver.Parse(src)
}

type generalLLControl struct {
	driver *ll.GeneralTranslator
}

func (c *generalLLControl) Run(src tango.TokenSource, errs io.Writer) ([]tango.Token, error) {
	c.driver.Errors = errs
	return c.driver.Parse(src)
}

// NewControl creates a built-in translation control by name. Viable names
// are "slr", "lalr", "canonical lr", "lscelr", "lalr strict", "canonical
// lr strict", "ll", "priority ll" and "general ll".
func NewControl(name string, g *tg.Grammar) (Control, error) {
	a := tg.Analyze(g)
	switch name {
	case "slr":
		t, err := lr.BuildSLRTable(a)
		if err != nil {
			return nil, err
		}
		return &lrControl{driver: lr.NewTranslator(g, t)}, nil
	case "lalr", "canonical lr", "lscelr":
		t, err := lr.BuildTable(a, variantOf(name))
		if err != nil {
			return nil, err
		}
		return &lrControl{driver: lr.NewTranslator(g, t)}, nil
	case "lalr strict", "canonical lr strict":
		t, err := lr.BuildStrictTable(a, variantOf(name))
		if err != nil {
			return nil, err
		}
		return &lrControl{driver: lr.NewTranslator(g, t)}, nil
	case "ll":
		t, err := ll.NewTable(a)
		if err != nil {
			return nil, err
		}
		return &llControl{driver: ll.NewTranslator(a, t)}, nil
	case "priority ll":
		return &llControl{driver: ll.NewTranslator(a, ll.NewPriorityTable(a))}, nil
	case "general ll":
		return &generalLLControl{driver: ll.NewGeneralTranslator(a, ll.NewGeneralTable(a))}, nil
	}
	return nil, fmt.Errorf("no translation control with name %q", name)
}

func variantOf(name string) lr.Variant {
	switch name {
	case "canonical lr", "canonical lr strict":
		return lr.Canonical
	case "lalr", "lalr strict":
		return lr.LALR
	}
	return lr.LSCELR
}

// Translation is a configured translation pipeline. It can be used
// multiple times for different inputs and outputs.
type Translation struct {
	g       *tg.Grammar
	control Control
	gen     output.Generator
}

// New constructs a translation from a grammar, a control name and an
// output generator. Table construction happens here; an unresolvable
// conflict surfaces as an error.
func New(g *tg.Grammar, controlName string, gen output.Generator) (*Translation, error) {
	control, err := NewControl(controlName, g)
	if err != nil {
		return nil, err
	}
	return &Translation{g: g, control: control, gen: gen}, nil
}

// NewWithControl constructs a translation around a custom control.
func NewWithControl(g *tg.Grammar, control Control, gen output.Generator) *Translation {
	return &Translation{g: g, control: control, gen: gen}
}

// Grammar returns the translation's grammar.
func (t *Translation) Grammar() *tg.Grammar { return t.g }

// Run translates one input. Diagnostics of all pipeline stages go to errs;
// the returned result reports the first failing stage.
func (t *Translation) Run(src scanner.Tokenizer, errs io.Writer) Result {
	lexFailed := false
	src.SetErrorHandler(func(err error) {
		lexFailed = true
		fmt.Fprintln(errs, err.Error())
	})
	tokens, parseErr := t.control.Run(src, errs)
	if lexFailed {
		return LexicalError
	}
	if parseErr != nil {
		return SyntaxError
	}
	if t.gen == nil {
		return Success
	}
	if err := t.gen.Output(tokens); err != nil {
		var sem *output.SemanticError
		if errors.As(err, &sem) {
			fmt.Fprintln(errs, err.Error())
			return SemanticError
		}
		fmt.Fprintln(errs, err.Error())
		return GenerationError
	}
	tracer().Debugf("translation finished with %d output tokens", len(tokens))
	return Success
}
