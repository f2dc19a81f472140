/*
Package sparse implements a simple type for sparse integer matrices.
It backs the LL decision tables, which are two-dimensional (nonterminal ×
terminal) but mostly empty for realistic grammars.

This implementation uses the COO algorithm (a.k.a. triplet-encoding), with
the triplets kept sorted for binary-search lookup.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package sparse

import "sort"

// IntMatrix is a sparse matrix of integer values. Construct with
//
//	M := NewIntMatrix(10, 10, -1)  // last parameter is M's null-value
//
// Cells that were never set read as the null-value. Values cannot be
// deleted, but may be overwritten.
type IntMatrix struct {
	values  []triplet
	rowcnt  int
	colcnt  int
	nullval int32
}

type triplet struct {
	row, col int
	value    int32
}

// NewIntMatrix creates a matrix of size m x n. The third argument is the
// null-value indicating empty entries (use DefaultNullValue if you haven't
// any specific requirements).
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// DefaultNullValue is the default empty-value for matrices (min int32).
const DefaultNullValue = -2147483648

// M returns the row count.
func (m *IntMatrix) M() int { return m.rowcnt }

// N returns the column count.
func (m *IntMatrix) N() int { return m.colcnt }

// NullValue returns this matrix' null value.
func (m *IntMatrix) NullValue() int32 { return m.nullval }

// ValueCount returns the number of set positions in the matrix.
func (m *IntMatrix) ValueCount() int { return len(m.values) }

func (m *IntMatrix) search(i, j int) int {
	return sort.Search(len(m.values), func(k int) bool {
		t := &m.values[k]
		return t.row > i || (t.row == i && t.col >= j)
	})
}

// Value returns the value at position (i,j), or NullValue.
func (m *IntMatrix) Value(i, j int) int32 {
	k := m.search(i, j)
	if k < len(m.values) && m.values[k].row == i && m.values[k].col == j {
		return m.values[k].value
	}
	return m.nullval
}

// Set stores a value at position (i,j), overwriting any previous value.
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	k := m.search(i, j)
	if k < len(m.values) && m.values[k].row == i && m.values[k].col == j {
		m.values[k].value = value
		return m
	}
	m.values = append(m.values, triplet{})
	copy(m.values[k+1:], m.values[k:])
	m.values[k] = triplet{row: i, col: j, value: value}
	return m
}
