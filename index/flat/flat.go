package flat

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/viant/spectra-search/index"
	"github.com/viant/spectra-search/matrix"
)

// Index is an exact brute-force squared-L2 index over a contiguous vector
// set. It owns the .fvi binary file format.
type Index struct {
	keys []int64
	vecs []float32 // n*dim, row-major
	dim  int
}

// Build constructs the index from keys and vectors. A nil keys slice
// assigns the sequential keys 0..n-1.
func Build(keys []int64, vectors *matrix.Matrix) (*Index, error) {
	n := vectors.Rows
	if keys == nil {
		keys = make([]int64, n)
		for i := range keys {
			keys[i] = int64(i)
		}
	}
	if len(keys) != n {
		return nil, fmt.Errorf("flat: keys and vectors length mismatch: %d != %d", len(keys), n)
	}
	i := &Index{
		keys: append([]int64(nil), keys...),
		vecs: append([]float32(nil), vectors.Data[:n*vectors.Cols]...),
		dim:  vectors.Cols,
	}
	return i, nil
}

// Dimension returns the vector dimensionality.
func (i *Index) Dimension() int { return i.dim }

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.keys) }

// Keys returns the indexed keys in storage order.
func (i *Index) Keys() []int64 { return i.keys }

// Vectors returns the indexed vectors as a matrix view over the internal
// storage.
func (i *Index) Vectors() *matrix.Matrix {
	return &matrix.Matrix{Rows: len(i.keys), Cols: i.dim, Data: i.vecs}
}

// Search scans every indexed vector for each query row and returns the k
// nearest by squared L2 distance, ascending. Ties keep storage order.
// Slots beyond Len() keep the -1/+Inf padding.
func (i *Index) Search(queries *matrix.Matrix, k int) (*index.Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("flat: k must be positive, got %d", k)
	}
	if queries.Rows > 0 && queries.Cols != i.dim {
		return nil, fmt.Errorf("flat: query dim %d != index dim %d", queries.Cols, i.dim)
	}
	res := index.NewResult(queries.Rows, k)
	n := len(i.keys)
	dists := make([]float64, n)
	order := make([]int, n)
	for q := 0; q < queries.Rows; q++ {
		query := queries.Row(q)
		for j := 0; j < n; j++ {
			dists[j] = l2sq(query, i.vecs[j*i.dim:(j+1)*i.dim])
			order[j] = j
		}
		sort.SliceStable(order, func(a, b int) bool { return dists[order[a]] < dists[order[b]] })
		top := k
		if top > n {
			top = n
		}
		dRow, iRow := res.DRow(q), res.IRow(q)
		for r := 0; r < top; r++ {
			dRow[r] = float32(dists[order[r]])
			iRow[r] = i.keys[order[r]]
		}
	}
	return res, nil
}

func l2sq(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// fviMagic marks a flat vector index file (.fvi): magic, dim(uint32),
// n(uint32), keys(int64[n]), vectors(float32[n*dim]), little-endian.
var fviMagic = [4]byte{'F', 'V', 'I', '1'}

// MarshalBinary serializes the index in the .fvi encoding.
func (i *Index) MarshalBinary() ([]byte, error) {
	n := len(i.keys)
	out := make([]byte, 12+8*n+4*len(i.vecs))
	copy(out[0:4], fviMagic[:])
	binary.LittleEndian.PutUint32(out[4:8], uint32(i.dim))
	binary.LittleEndian.PutUint32(out[8:12], uint32(n))
	off := 12
	for _, key := range i.keys {
		binary.LittleEndian.PutUint64(out[off:], uint64(key))
		off += 8
	}
	for _, v := range i.vecs {
		binary.LittleEndian.PutUint32(out[off:], math.Float32bits(v))
		off += 4
	}
	return out, nil
}

// UnmarshalBinary restores the index from the .fvi encoding.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < 12 {
		return fmt.Errorf("flat: invalid index data: %d bytes", len(data))
	}
	if [4]byte(data[0:4]) != fviMagic {
		return fmt.Errorf("flat: invalid index data: bad magic %q", data[0:4])
	}
	dim := int(binary.LittleEndian.Uint32(data[4:8]))
	n := int(binary.LittleEndian.Uint32(data[8:12]))
	want := 12 + 8*n + 4*n*dim
	if len(data) != want {
		return fmt.Errorf("flat: truncated index data: %d bytes, want %d", len(data), want)
	}
	keys := make([]int64, n)
	off := 12
	for j := range keys {
		keys[j] = int64(binary.LittleEndian.Uint64(data[off:]))
		off += 8
	}
	vecs := make([]float32, n*dim)
	for j := range vecs {
		vecs[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}
	i.keys, i.vecs, i.dim = keys, vecs, dim
	return nil
}

var _ index.Index = (*Index)(nil)
