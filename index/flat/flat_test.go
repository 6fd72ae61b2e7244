package flat

import (
	"math"
	"testing"

	"github.com/viant/spectra-search/matrix"
)

func buildIndex(t *testing.T, keys []int64, rows [][]float32) *Index {
	t.Helper()
	m, err := matrix.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	idx, err := Build(keys, m)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return idx
}

func TestSearch_NearestFirst(t *testing.T) {
	idx := buildIndex(t, nil, [][]float32{
		{0, 0},
		{1, 0},
		{0, 3},
	})
	queries, _ := matrix.FromRows([][]float32{{0.9, 0}})

	res, err := idx.Search(queries, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	iRow := res.IRow(0)
	if iRow[0] != 1 || iRow[1] != 0 || iRow[2] != 2 {
		t.Fatalf("neighbor order = %v, want [1 0 2]", iRow)
	}
	dRow := res.DRow(0)
	// squared distances: 0.1^2, 0.9^2, 0.9^2+9
	wantD := []float64{0.01, 0.81, 9.81}
	for i, want := range wantD {
		if math.Abs(float64(dRow[i])-want) > 1e-5 {
			t.Fatalf("D[%d] = %v, want %v", i, dRow[i], want)
		}
	}
}

func TestSearch_DistancesSquaredAscending(t *testing.T) {
	idx := buildIndex(t, nil, [][]float32{{0}, {1}, {2}, {5}})
	queries, _ := matrix.FromRows([][]float32{{1.4}})

	res, err := idx.Search(queries, 4)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	dRow := res.DRow(0)
	for i := 1; i < len(dRow); i++ {
		if dRow[i] < dRow[i-1] {
			t.Fatalf("distances not ascending: %v", dRow)
		}
	}
	if d := float64(dRow[0]); math.Abs(d-0.16) > 1e-5 {
		t.Fatalf("nearest squared distance = %v, want 0.16", d)
	}
}

func TestSearch_CustomKeys(t *testing.T) {
	idx := buildIndex(t, []int64{100, 200}, [][]float32{{0, 0}, {9, 9}})
	queries, _ := matrix.FromRows([][]float32{{0.1, 0}})

	res, err := idx.Search(queries, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.IRow(0)[0] != 100 {
		t.Fatalf("neighbor key = %d, want 100", res.IRow(0)[0])
	}
}

func TestSearch_KExceedsLen_Padded(t *testing.T) {
	idx := buildIndex(t, nil, [][]float32{{0, 0}, {1, 1}})
	queries, _ := matrix.FromRows([][]float32{{0, 0}})

	res, err := idx.Search(queries, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	iRow, dRow := res.IRow(0), res.DRow(0)
	if iRow[0] != 0 || iRow[1] != 1 {
		t.Fatalf("filled neighbors = %v, want [0 1 ...]", iRow[:2])
	}
	for i := 2; i < 5; i++ {
		if iRow[i] != -1 {
			t.Fatalf("padding key I[%d] = %d, want -1", i, iRow[i])
		}
		if !math.IsInf(float64(dRow[i]), 1) {
			t.Fatalf("padding distance D[%d] = %v, want +Inf", i, dRow[i])
		}
	}
}

func TestSearch_TiesKeepStorageOrder(t *testing.T) {
	idx := buildIndex(t, nil, [][]float32{{1, 0}, {-1, 0}, {0, 1}})
	queries, _ := matrix.FromRows([][]float32{{0, 0}})

	res, err := idx.Search(queries, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	iRow := res.IRow(0)
	if iRow[0] != 0 || iRow[1] != 1 || iRow[2] != 2 {
		t.Fatalf("tie order = %v, want storage order [0 1 2]", iRow)
	}
}

func TestSearch_DimensionMismatch(t *testing.T) {
	idx := buildIndex(t, nil, [][]float32{{0, 0}})
	queries, _ := matrix.FromRows([][]float32{{0, 0, 0}})
	if _, err := idx.Search(queries, 1); err == nil {
		t.Fatalf("expected error for dim mismatch, got nil")
	}
}

func TestSearch_InvalidK(t *testing.T) {
	idx := buildIndex(t, nil, [][]float32{{0}})
	queries, _ := matrix.FromRows([][]float32{{0}})
	if _, err := idx.Search(queries, 0); err == nil {
		t.Fatalf("expected error for k=0, got nil")
	}
}

func TestSearch_EmptyQueries(t *testing.T) {
	idx := buildIndex(t, nil, [][]float32{{0, 0}})
	res, err := idx.Search(&matrix.Matrix{}, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Rows != 0 {
		t.Fatalf("rows = %d, want 0", res.Rows)
	}
}

func TestBinary_RoundTrip(t *testing.T) {
	orig := buildIndex(t, []int64{7, 8, 9}, [][]float32{{1, 2}, {3, 4}, {5, 6}})
	data, err := orig.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	var idx Index
	if err := idx.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if idx.Len() != 3 || idx.Dimension() != 2 {
		t.Fatalf("restored index = %d vectors dim %d, want 3 dim 2", idx.Len(), idx.Dimension())
	}

	queries, _ := matrix.FromRows([][]float32{{3, 4}})
	res, err := idx.Search(queries, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.IRow(0)[0] != 8 {
		t.Fatalf("neighbor = %d, want 8", res.IRow(0)[0])
	}
}

func TestBinary_Truncated(t *testing.T) {
	orig := buildIndex(t, nil, [][]float32{{1, 2}})
	data, err := orig.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	var idx Index
	if err := idx.UnmarshalBinary(data[:len(data)-1]); err == nil {
		t.Fatalf("expected error for truncated data, got nil")
	}
}

func TestBinary_BadMagic(t *testing.T) {
	var idx Index
	if err := idx.UnmarshalBinary([]byte("NOPE\x00\x00\x00\x00\x00\x00\x00\x00")); err == nil {
		t.Fatalf("expected error for bad magic, got nil")
	}
}

func TestBuild_KeysLengthMismatch(t *testing.T) {
	m, _ := matrix.FromRows([][]float32{{1}, {2}})
	if _, err := Build([]int64{1}, m); err == nil {
		t.Fatalf("expected error for keys length mismatch, got nil")
	}
}
