package tango

import "strings"

// TerminalSet is a fixed-capacity bitset over terminal-set indices: bit 0 is
// EOF, bit t+1 is user terminal t (matching Symbol.ID for terminals). The
// capacity is fixed for the lifetime of a grammar, so all sets over the same
// grammar can be combined without bounds bookkeeping.
type TerminalSet struct {
	bits []uint64
	cap  int
}

// NewTerminalSet creates an empty set with the given capacity in bits
// (typically T+1 for a grammar with T user terminals).
func NewTerminalSet(capacity int) TerminalSet {
	return TerminalSet{
		bits: make([]uint64, (capacity+63)/64),
		cap:  capacity,
	}
}

// TerminalSetOf creates a set with the given capacity holding the given
// terminal symbols.
func TerminalSetOf(capacity int, symbols ...Symbol) TerminalSet {
	s := NewTerminalSet(capacity)
	for _, sym := range symbols {
		s.Set(sym)
	}
	return s
}

// Cap returns the fixed capacity of the set in bits.
func (s TerminalSet) Cap() int {
	return s.cap
}

// Clone returns an independent copy.
func (s TerminalSet) Clone() TerminalSet {
	c := TerminalSet{bits: make([]uint64, len(s.bits)), cap: s.cap}
	copy(c.bits, s.bits)
	return c
}

// Set inserts a terminal symbol.
func (s TerminalSet) Set(sym Symbol) {
	s.SetIndex(sym.ID())
}

// SetIndex inserts a terminal by set index.
func (s TerminalSet) SetIndex(i int) {
	s.bits[i/64] |= 1 << uint(i%64)
}

// Clear removes a terminal symbol.
func (s TerminalSet) Clear(sym Symbol) {
	i := sym.ID()
	s.bits[i/64] &^= 1 << uint(i%64)
}

// Test reports membership of a terminal symbol.
func (s TerminalSet) Test(sym Symbol) bool {
	return s.TestIndex(sym.ID())
}

// TestIndex reports membership by set index.
func (s TerminalSet) TestIndex(i int) bool {
	return s.bits[i/64]&(1<<uint(i%64)) != 0
}

// Union adds all members of other to s.
func (s TerminalSet) Union(other TerminalSet) {
	for i := range s.bits {
		s.bits[i] |= other.bits[i]
	}
}

// UnionChanged adds all members of other to s and reports whether s grew.
// The fixed-point loops of the predictive sets and of the item closure are
// driven by this.
func (s TerminalSet) UnionChanged(other TerminalSet) bool {
	changed := false
	for i := range s.bits {
		merged := s.bits[i] | other.bits[i]
		if merged != s.bits[i] {
			s.bits[i] = merged
			changed = true
		}
	}
	return changed
}

// Intersect removes from s everything not in other.
func (s TerminalSet) Intersect(other TerminalSet) {
	for i := range s.bits {
		s.bits[i] &= other.bits[i]
	}
}

// Subtract removes all members of other from s.
func (s TerminalSet) Subtract(other TerminalSet) {
	for i := range s.bits {
		s.bits[i] &^= other.bits[i]
	}
}

// Equal compares two sets of equal capacity.
func (s TerminalSet) Equal(other TerminalSet) bool {
	for i := range s.bits {
		if s.bits[i] != other.bits[i] {
			return false
		}
	}
	return true
}

// None returns true when the set is empty.
func (s TerminalSet) None() bool {
	for _, w := range s.bits {
		if w != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of members.
func (s TerminalSet) Count() int {
	n := 0
	for _, w := range s.bits {
		for ; w != 0; w &= w - 1 {
			n++
		}
	}
	return n
}

// Symbols enumerates the members in ascending index order: EOF first (if
// present), then user terminals by id.
func (s TerminalSet) Symbols() []Symbol {
	var result []Symbol
	for i := 0; i < s.cap; i++ {
		if !s.TestIndex(i) {
			continue
		}
		if i == 0 {
			result = append(result, EOF)
		} else {
			result = append(result, T(i-1))
		}
	}
	return result
}

// StringWith renders the set with a symbol namer.
func (s TerminalSet) StringWith(namer SymbolNamer) string {
	syms := s.Symbols()
	if len(syms) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{ ")
	for i, sym := range syms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(namer(sym))
	}
	b.WriteString(" }")
	return b.String()
}

func (s TerminalSet) String() string {
	return s.StringWith(Symbol.String)
}
