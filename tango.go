package tango

import "fmt"

// --- Symbols ---------------------------------------------------------------

// SymbolKind discriminates the three kinds of grammar symbols.
type SymbolKind uint8

// The three kinds of symbols. EOF is a terminal kind as well: bit 0 of the
// kind tag marks terminal-ness, which lets us treat end-of-input uniformly
// wherever a terminal is expected.
const (
	NonterminalKind SymbolKind = 0
	TerminalKind    SymbolKind = 1
	EOFKind         SymbolKind = 3
)

// Symbol is a tagged small integer identifying a terminal, a nonterminal or
// end-of-input. The kind occupies the two high bits, the id the low bits,
// making the ordering total and numeric: all nonterminals sort before all
// terminals, EOF sorts after every user terminal.
//
// Terminal ids are stored with an offset of one, so that EOF owns
// terminal-index 0 and user terminal t owns index t+1. TerminalSet relies on
// this layout.
type Symbol uint32

const (
	symKindShift        = 30
	symIDMask    Symbol = (1 << symKindShift) - 1
)

// EOF is the distinguished end-of-input symbol.
const EOF Symbol = Symbol(EOFKind) << symKindShift

// NT returns the nonterminal symbol with a given id.
func NT(id int) Symbol {
	return Symbol(id) & symIDMask
}

// T returns the terminal symbol with a given id. Ids count from 0; the
// internal storage offsets them by one to reserve index 0 for EOF.
func T(id int) Symbol {
	return Symbol(TerminalKind)<<symKindShift | (Symbol(id+1) & symIDMask)
}

// Kind returns the symbol's kind.
func (s Symbol) Kind() SymbolKind {
	return SymbolKind(s >> symKindShift)
}

// ID returns the symbol's id. For nonterminals this is the nonterminal id;
// for terminals it is the terminal-set index (EOF = 0, user terminal t = t+1).
func (s Symbol) ID() int {
	return int(s & symIDMask)
}

// TerminalID returns the user-facing id of a terminal symbol, undoing the
// internal offset. Only meaningful for user terminals.
func (s Symbol) TerminalID() int {
	return s.ID() - 1
}

// IsTerminal returns true for terminals, EOF included.
func (s Symbol) IsTerminal() bool {
	return s>>symKindShift&1 == 1
}

// IsNonterminal returns true for nonterminal symbols.
func (s Symbol) IsNonterminal() bool {
	return s>>symKindShift == 0
}

// IsEOF returns true for the end-of-input symbol.
func (s Symbol) IsEOF() bool {
	return s.Kind() == EOFKind
}

func (s Symbol) String() string {
	switch s.Kind() {
	case EOFKind:
		return "EOF"
	case TerminalKind:
		return fmt.Sprintf("%d_t", s.TerminalID())
	}
	return fmt.Sprintf("%d_nt", s.ID())
}

// SymbolNamer translates symbols to their printable names. Grammars provide
// one; the default falls back to Symbol.String.
type SymbolNamer func(Symbol) string

// --- Locations -------------------------------------------------------------

// Location is a source coordinate (file, row, col). Valid rows and columns
// start at 1; the zero value is the distinguished invalid location.
type Location struct {
	File string
	Row  int
	Col  int
}

// Loc constructs a location without a file name.
func Loc(row, col int) Location {
	return Location{Row: row, Col: col}
}

// Valid returns false for the distinguished invalid location.
func (l Location) Valid() bool {
	return l.Row > 0 && l.Col > 0
}

// SamePlace compares row and column, ignoring the file name. Two invalid
// locations are considered equal.
func (l Location) SamePlace(other Location) bool {
	if !l.Valid() && !other.Valid() {
		return true
	}
	return l.Row == other.Row && l.Col == other.Col
}

func (l Location) String() string {
	if !l.Valid() {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Row, l.Col)
}

// --- Attributes ------------------------------------------------------------

// Attribute is an opaque token payload. The toolkit never interprets it; it
// is copied from input tokens to output tokens by attribute-routing actions
// and finally rendered by an output generator.
type Attribute struct {
	value interface{}
}

// Attr wraps a value as an attribute.
func Attr(value interface{}) Attribute {
	return Attribute{value: value}
}

// Empty returns true when no value is stored.
func (a Attribute) Empty() bool {
	return a.value == nil
}

// Value returns the stored payload, or nil.
func (a Attribute) Value() interface{} {
	return a.value
}

// --- Tokens ----------------------------------------------------------------

// Token is a symbol occurrence: the symbol itself, its opaque attribute and
// its source location. Tokens flow read-only through the parse drivers except
// for attribute routing, which copies an input token's attribute onto output
// positions.
type Token struct {
	Sym  Symbol
	Attr Attribute
	Loc  Location
}

// Tok builds a plain token without attribute or location.
func Tok(sym Symbol) Token {
	return Token{Sym: sym}
}

// SetAttribute copies the attribute of another token onto this one. The
// location is taken over as well, but only if this token has none yet; an
// output token keeps an explicitly assigned location.
func (t *Token) SetAttribute(from Token) {
	t.Attr = from.Attr
	if !t.Loc.Valid() {
		t.Loc = from.Loc
	}
}

func (t Token) String() string {
	if t.Loc.Valid() {
		return t.Loc.String() + ": " + t.Sym.String()
	}
	return t.Sym.String()
}

// --- Token sources ---------------------------------------------------------

// TokenSource is the input boundary of the parse drivers: a synchronous
// pull-style supplier of tokens. On exhaustion it must return a token with
// symbol EOF (and keep returning it if asked again).
type TokenSource interface {
	NextToken() Token
}
