package index

import (
	"errors"
	"math"

	"github.com/viant/spectra-search/matrix"
)

var (
	// ErrInvalidIndex is reported when an index file exists but cannot be
	// parsed by the backend owning its format.
	ErrInvalidIndex = errors.New("invalid index file")

	// ErrUnsupportedFormat is reported when an index file extension does
	// not map to a known backend.
	ErrUnsupportedFormat = errors.New("unsupported index format")
)

// Index is a read-only kNN search structure over a fixed vector set.
//
// Search follows the vector-search library convention and returns squared
// L2 distances; callers that need true Euclidean distances take the square
// root one layer up (see the search package).
type Index interface {
	// Dimension returns the vector dimensionality the index was built over.
	Dimension() int

	// Len returns the number of indexed vectors.
	Len() int

	// Search runs a kNN query for every row of queries and returns a packed
	// Result of shape queries.Rows x k, each row ordered by ascending
	// squared distance. Query dimensionality must match Dimension.
	Search(queries *matrix.Matrix, k int) (*Result, error)
}

// Result holds the outcome of a kNN search as parallel row-major arrays of
// shape Rows x K: D carries squared L2 distances, I carries neighbor keys.
//
// When k exceeds the number of indexed vectors the trailing slots of each
// row carry key -1 and distance +Inf, mirroring the padding convention of
// native vector-search libraries; callers see that behavior as-is.
type Result struct {
	Rows int
	K    int
	D    []float32
	I    []int64
}

// NewResult allocates a Result prefilled with the -1/+Inf padding.
func NewResult(rows, k int) *Result {
	r := &Result{
		Rows: rows,
		K:    k,
		D:    make([]float32, rows*k),
		I:    make([]int64, rows*k),
	}
	inf := float32(math.Inf(1))
	for i := range r.D {
		r.D[i] = inf
		r.I[i] = -1
	}
	return r
}

// DRow returns the distances of the i-th query row.
func (r *Result) DRow(i int) []float32 { return r.D[i*r.K : (i+1)*r.K] }

// IRow returns the neighbor keys of the i-th query row.
func (r *Result) IRow(i int) []int64 { return r.I[i*r.K : (i+1)*r.K] }
