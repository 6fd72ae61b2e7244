package matrix

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is reported when matrices with differing column counts
// are stacked row-wise.
var ErrShapeMismatch = errors.New("column count mismatch")

// Matrix is a dense row-major float32 matrix. Data holds Rows*Cols values
// contiguously, one row after another.
type Matrix struct {
	Rows int
	Cols int
	Data []float32
}

// New allocates a zero matrix with the given shape.
func New(rows, cols int) *Matrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

// FromRows builds a matrix by copying the given rows. All rows must have
// the same length.
func FromRows(rows [][]float32) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}
	cols := len(rows[0])
	m := New(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("matrix: row %d has %d columns; want %d: %w", i, len(r), cols, ErrShapeMismatch)
		}
		copy(m.Row(i), r)
	}
	return m, nil
}

// Row returns the i-th row as a slice aliasing the underlying storage.
func (m *Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Stack concatenates matrices row-wise, preserving input order. All inputs
// must share the same column count; an empty input list yields an empty
// matrix.
func Stack(ms []*Matrix) (*Matrix, error) {
	var rows, cols int
	for i, m := range ms {
		if m.Rows == 0 {
			continue
		}
		if cols == 0 {
			cols = m.Cols
		} else if m.Cols != cols {
			return nil, fmt.Errorf("matrix: input %d has %d columns; want %d: %w", i, m.Cols, cols, ErrShapeMismatch)
		}
		rows += m.Rows
	}
	out := New(rows, cols)
	off := 0
	for _, m := range ms {
		if m.Rows == 0 {
			continue
		}
		copy(out.Data[off:], m.Data[:m.Rows*m.Cols])
		off += m.Rows * m.Cols
	}
	return out, nil
}
