/*
Package scanner defines an interface for scanners to be used with the tango
parse drivers.

Two default scanner implementations are provided: (1) a thin wrapper over
the Go std lib 'text/scanner', mapping lexemes to grammar terminals through
a symbol table, and (2) an adapter for lexmachine.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package scanner

import (
	"fmt"
	"io"
	"strconv"
	"text/scanner"

	"github.com/npillmayer/schuko/tracing"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/tg"
)

// tracer traces with key 'tango.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("tango.scanner")
}

// Tokenizer is a scanner interface: a token source with pluggable error
// handling. Lexical diagnostics are the tokenizer's own responsibility;
// the parse drivers never re-diagnose them.
type Tokenizer interface {
	tango.TokenSource
	SetErrorHandler(func(error))
}

// Default error reporting function for scanners.
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// DefaultTokenizer is a default implementation, backed by text/scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	symbols map[string]tango.Symbol
	Error   func(error)
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// GoTokenizer creates a tokenizer accepting tokens similar to the Go
// language, translating lexemes to grammar terminals through the given
// symbol table. Unknown lexemes are reported to the error handler and
// skipped.
func GoTokenizer(sourceID string, input io.Reader, symbols map[string]tango.Symbol) *DefaultTokenizer {
	t := &DefaultTokenizer{symbols: symbols}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	return t
}

// GrammarSymbols builds the lexeme-to-terminal table of a grammar, for use
// with GoTokenizer.
func GrammarSymbols(g *tg.Grammar) map[string]tango.Symbol {
	symbols := make(map[string]tango.Symbol, g.Terminals())
	for t := 0; t < g.Terminals(); t++ {
		symbols[g.SymbolName(tango.T(t))] = tango.T(t)
	}
	return symbols
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface. On exhaustion it returns
// the EOF token, carrying the position just behind the input.
func (t *DefaultTokenizer) NextToken() tango.Token {
	for {
		r := t.Scan()
		loc := tango.Location{
			File: t.Filename,
			Row:  t.Position.Line,
			Col:  t.Position.Column,
		}
		if r == scanner.EOF {
			tracer().Debugf("tokenizer reached end of input")
			loc.Row, loc.Col = t.Pos().Line, t.Pos().Column
			return tango.Token{Sym: tango.EOF, Loc: loc}
		}
		lexeme := t.TokenText()
		sym, ok := t.symbols[lexeme]
		if !ok {
			t.Error(fmt.Errorf("%s: unknown input token %q", loc, lexeme))
			continue
		}
		return tango.Token{Sym: sym, Attr: attributeFor(r, lexeme), Loc: loc}
	}
}

// attributeFor converts the lexemes of value-carrying token classes to a
// typed attribute payload.
func attributeFor(r rune, lexeme string) tango.Attribute {
	switch r {
	case scanner.Int:
		if v, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
			return tango.Attr(v)
		}
	case scanner.Float:
		if v, err := strconv.ParseFloat(lexeme, 64); err == nil {
			return tango.Attr(v)
		}
	case scanner.Char:
		if v, _, _, err := strconv.UnquoteChar(lexeme[1:len(lexeme)-1], '\''); err == nil {
			return tango.Attr(v)
		}
	case scanner.String, scanner.RawString:
		if v, err := strconv.Unquote(lexeme); err == nil {
			return tango.Attr(v)
		}
	case scanner.Ident:
		return tango.Attr(lexeme)
	}
	return tango.Attribute{}
}
