package search

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/viant/spectra-search/index/flat"
	"github.com/viant/spectra-search/matrix"
	"github.com/viant/spectra-search/result"
)

func writeIndex(t *testing.T, dir string, rows [][]float32) string {
	t.Helper()
	m, err := matrix.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	idx, err := flat.Build(nil, m)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	data, err := idx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	path := filepath.Join(dir, "library.fvi")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	return path
}

func writeQueries(t *testing.T, path string, rows [][]float32) {
	t.Helper()
	m, err := matrix.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	data, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write queries: %v", err)
	}
}

// TestRun_EndToEnd searches two query files against a small index and
// checks the persisted ids, distances and neighbors.
func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	idxPath := writeIndex(t, dir, [][]float32{
		{0, 0},
		{3, 4},
		{10, 10},
	})
	q1 := filepath.Join(dir, "run1.fvm")
	q2 := filepath.Join(dir, "run2.fvm")
	writeQueries(t, q1, [][]float32{{0, 0}})
	writeQueries(t, q2, [][]float32{{3, 4}})
	out := filepath.Join(dir, "result.db")

	job := Job{Index: idxPath, Embedded: []string{q1, q2}, K: 2, Out: out}
	if err := Run(job, zerolog.Nop()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ids, res, err := result.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(ids) != 2 || res.Rows != 2 || res.K != 2 {
		t.Fatalf("result shape = %d ids, %dx%d, want 2 ids, 2x2", len(ids), res.Rows, res.K)
	}
	for i, id := range ids {
		if id != int64(i) {
			t.Fatalf("spectrum_ids[%d] = %d, want %d", i, id, i)
		}
	}
	// query order follows file order: first (0,0) then (3,4)
	if res.IRow(0)[0] != 0 || res.IRow(1)[0] != 1 {
		t.Fatalf("nearest neighbors = [%d %d], want [0 1]", res.IRow(0)[0], res.IRow(1)[0])
	}
	// distances are Euclidean, not squared
	if d := float64(res.DRow(0)[1]); math.Abs(d-5) > 1e-5 {
		t.Fatalf("second distance of query 0 = %v, want 5", d)
	}
}

func TestRun_DefaultK(t *testing.T) {
	dir := t.TempDir()
	idxPath := writeIndex(t, dir, [][]float32{{0, 0}, {1, 1}})
	q := filepath.Join(dir, "q.fvm")
	writeQueries(t, q, [][]float32{{0, 0}})
	out := filepath.Join(dir, "result.db")

	job := Job{Index: idxPath, Embedded: []string{q}, Out: out}
	if err := Run(job, zerolog.Nop()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	_, res, err := result.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if res.K != DefaultK {
		t.Fatalf("k = %d, want default %d", res.K, DefaultK)
	}
}

func TestRun_DimensionMismatch_NoOutput(t *testing.T) {
	dir := t.TempDir()
	idxPath := writeIndex(t, dir, [][]float32{{0, 0}})
	q := filepath.Join(dir, "q.fvm")
	writeQueries(t, q, [][]float32{{0, 0, 0}})
	out := filepath.Join(dir, "result.db")

	job := Job{Index: idxPath, Embedded: []string{q}, K: 1, Out: out}
	if err := Run(job, zerolog.Nop()); !errors.Is(err, matrix.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected no output file, stat = %v", err)
	}
}

func TestRun_MissingQueryFile(t *testing.T) {
	dir := t.TempDir()
	idxPath := writeIndex(t, dir, [][]float32{{0, 0}})
	out := filepath.Join(dir, "result.db")

	job := Job{Index: idxPath, Embedded: []string{filepath.Join(dir, "absent.fvm")}, K: 1, Out: out}
	if err := Run(job, zerolog.Nop()); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestRun_MissingIndex(t *testing.T) {
	dir := t.TempDir()
	q := filepath.Join(dir, "q.fvm")
	writeQueries(t, q, [][]float32{{0, 0}})

	job := Job{Index: filepath.Join(dir, "absent.fvi"), Embedded: []string{q}, K: 1, Out: filepath.Join(dir, "r.db")}
	if err := Run(job, zerolog.Nop()); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestRun_BadAccelerateMode(t *testing.T) {
	dir := t.TempDir()
	idxPath := writeIndex(t, dir, [][]float32{{0, 0}})
	q := filepath.Join(dir, "q.fvm")
	writeQueries(t, q, [][]float32{{0, 0}})

	job := Job{Index: idxPath, Embedded: []string{q}, K: 1, Out: filepath.Join(dir, "r.db"), Accelerate: "turbo"}
	if err := Run(job, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unknown acceleration mode, got nil")
	}
}
