package scanner

import (
	"strings"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/tangolang/tango"
)

// lexmachine adapter

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("if", "for", …) and a map
// for translating token strings to their terminal ids.
//
// The init function may add further patterns (comments, whitespace, value
// tokens) to the lexer before the literals and keywords are compiled in.
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string,
	tokenIds map[string]int) (*LMAdapter, error) {
	//
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	if init != nil {
		init(adapter.Lexer)
	}
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(strings.ToLower(name)), MakeToken(tokenIds[name]))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// MakeToken creates a lexmachine action emitting a tango token for a
// terminal id, with the match's lexeme as attribute and its start position
// as location.
func MakeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return tango.Token{
			Sym:  tango.T(id),
			Attr: tango.Attr(string(m.Bytes)),
			Loc:  tango.Loc(m.StartLine, m.StartColumn),
		}, nil
	}
}

// Skip is a lexmachine action for patterns to be dropped, e.g. whitespace.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// Scanner creates a scanner for a given input. The scanner will implement
// the Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, Error: logError}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
}

var _ Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// NextToken is part of the Tokenizer interface.
func (lms *LMScanner) NextToken() tango.Token {
	if lms.scanner == nil {
		return tango.Token{Sym: tango.EOF}
	}
	for {
		tok, err, eof := lms.scanner.Next()
		if eof {
			return tango.Token{Sym: tango.EOF}
		}
		if err != nil {
			lms.Error(err)
			if ui, is := err.(*machines.UnconsumedInput); is {
				lms.scanner.TC = ui.FailTC
			} else {
				return tango.Token{Sym: tango.EOF}
			}
			continue
		}
		if tok == nil { // skipped pattern
			continue
		}
		return tok.(tango.Token)
	}
}
