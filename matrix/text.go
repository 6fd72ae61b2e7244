package matrix

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxTextLine bounds a single text row; 64-dimensional embeddings printed
// with full precision stay well under this.
const maxTextLine = 1 << 20

// ParseText reads a whitespace-delimited numeric matrix, one row per line.
// Blank lines are skipped; all rows must have the same number of columns.
// Values are parsed as float32.
func ParseText(r io.Reader) (*Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxTextLine)

	var data []float32
	rows, cols, lineNo := 0, 0, 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if cols == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("matrix: line %d has %d columns; want %d: %w", lineNo, len(fields), cols, ErrShapeMismatch)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("matrix: line %d: invalid number %q: %v", lineNo, f, err)
			}
			data = append(data, float32(v))
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("matrix: reading text matrix: %v", err)
	}
	return &Matrix{Rows: rows, Cols: cols, Data: data}, nil
}

// FormatText renders a matrix in the plain-text encoding read by ParseText.
func FormatText(m *Matrix) string {
	var sb strings.Builder
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		for j, v := range row {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
