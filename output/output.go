/*
Package output turns the attributed output token stream of a translation
into generated output.

The stock generator emits one line per token, 'name' or 'name.attribute'
with the attribute rendered according to its payload type. The EOF token
terminates the output and is itself not emitted. Custom generators — code
emitters, tree builders — implement the Generator interface; errors they
return are classified as semantic or code-generation faults by the
translate facade.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/npillmayer/schuko/tracing"

	"github.com/tangolang/tango"
)

// tracer traces with key 'tango.output'.
func tracer() tracing.Trace {
	return tracing.Select("tango.output")
}

// Generator is the output boundary of a translation: a synchronous
// consumer of the output token sequence.
type Generator interface {
	Output(tokens []tango.Token) error
}

// SemanticError signals a semantic fault detected during output
// generation. It halts the translation with a semantic result code.
type SemanticError struct {
	Loc     tango.Location
	Message string
}

func (e *SemanticError) Error() string {
	if e.Loc.Valid() {
		return e.Loc.String() + ": " + e.Message
	}
	return e.Message
}

// GenerationError signals a code-generation fault, e.g. a failing output
// stream.
type GenerationError struct {
	Message string
	Wrapped error
}

func (e *GenerationError) Error() string {
	if e.Wrapped != nil {
		return e.Message + ": " + e.Wrapped.Error()
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error { return e.Wrapped }

// LineWriter is the stock generator: one line per token, the symbol name
// optionally followed by a dot and the attribute.
type LineWriter struct {
	w     io.Writer
	namer tango.SymbolNamer
}

var _ Generator = (*LineWriter)(nil)

// NewLineWriter creates a line-per-token generator. The namer translates
// symbols to names, typically Grammar.SymbolName.
func NewLineWriter(w io.Writer, namer tango.SymbolNamer) *LineWriter {
	if namer == nil {
		namer = tango.Symbol.String
	}
	return &LineWriter{w: w, namer: namer}
}

// Output is part of the Generator interface.
func (lw *LineWriter) Output(tokens []tango.Token) error {
	bw := bufio.NewWriter(lw.w)
	for _, tok := range tokens {
		if tok.Sym.IsEOF() {
			break
		}
		bw.WriteString(lw.namer(tok.Sym))
		if !tok.Attr.Empty() {
			bw.WriteByte('.')
			bw.WriteString(formatAttribute(tok.Attr))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		tracer().Errorf("output flush failed: %v", err)
		return &GenerationError{Message: "writing output failed", Wrapped: err}
	}
	return nil
}

func formatAttribute(attr tango.Attribute) string {
	switch v := attr.Value().(type) {
	case string:
		return v
	case rune:
		return string(v)
	case float64:
		return fmt.Sprintf("%g", v)
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
