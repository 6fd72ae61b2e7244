package matrix

import (
	"errors"
	"strings"
	"testing"
)

func TestParseText_Basic(t *testing.T) {
	m, err := ParseText(strings.NewReader("1 2 3\n4 5 6\n"))
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if m.Rows != 2 || m.Cols != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", m.Rows, m.Cols)
	}
	if m.Row(1)[2] != 6 {
		t.Fatalf("Row(1)[2] = %v, want 6", m.Row(1)[2])
	}
}

func TestParseText_TabsAndBlankLines(t *testing.T) {
	m, err := ParseText(strings.NewReader("1\t2\n\n  \n3\t4\n"))
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if m.Rows != 2 || m.Cols != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", m.Rows, m.Cols)
	}
}

func TestParseText_RaggedRows(t *testing.T) {
	_, err := ParseText(strings.NewReader("1 2\n3\n"))
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestParseText_InvalidNumber(t *testing.T) {
	if _, err := ParseText(strings.NewReader("1 two\n")); err == nil {
		t.Fatalf("expected error for non-numeric field, got nil")
	}
}

func TestFormatText_RoundTrip(t *testing.T) {
	orig, err := FromRows([][]float32{{1.5, -2.25}, {0, 3}})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	m, err := ParseText(strings.NewReader(FormatText(orig)))
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if m.Rows != orig.Rows || m.Cols != orig.Cols {
		t.Fatalf("shape = %dx%d, want %dx%d", m.Rows, m.Cols, orig.Rows, orig.Cols)
	}
	for i := range orig.Data {
		if m.Data[i] != orig.Data[i] {
			t.Fatalf("Data[%d] = %v, want %v", i, m.Data[i], orig.Data[i])
		}
	}
}
