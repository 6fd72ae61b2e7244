package usearch

import (
	"fmt"

	ulib "github.com/unum-cloud/usearch/golang"

	"github.com/viant/spectra-search/index"
	"github.com/viant/spectra-search/matrix"
)

// Index adapts a native usearch index file (.usearch) to the module's
// Index contract. The file bytes stay opaque; loading, search, and
// distance computation are all delegated to the native library. Indexes
// are expected to be built with the l2sq metric, so the distances the
// library returns are already squared L2 and are surfaced as-is.
type Index struct {
	inner *ulib.Index
	dim   int
	n     int
}

// Open restores a native index from path. The placeholder config is
// overwritten by the geometry stored in the file itself.
func Open(path string) (*Index, error) {
	conf := ulib.DefaultConfig(1)
	conf.Metric = ulib.L2sq
	inner, err := ulib.NewIndex(conf)
	if err != nil {
		return nil, fmt.Errorf("usearch: creating index: %v", err)
	}
	if err := inner.Load(path); err != nil {
		inner.Destroy()
		return nil, fmt.Errorf("usearch: loading %s: %v", path, err)
	}
	dim, err := inner.Dimensions()
	if err != nil {
		inner.Destroy()
		return nil, fmt.Errorf("usearch: reading dimensions of %s: %v", path, err)
	}
	n, err := inner.Len()
	if err != nil {
		inner.Destroy()
		return nil, fmt.Errorf("usearch: reading size of %s: %v", path, err)
	}
	return &Index{inner: inner, dim: int(dim), n: int(n)}, nil
}

// Dimension returns the vector dimensionality of the loaded index.
func (i *Index) Dimension() int { return i.dim }

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return i.n }

// Search runs one native query per row. Rows the native index cannot fill
// keep the -1/+Inf padding.
func (i *Index) Search(queries *matrix.Matrix, k int) (*index.Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("usearch: k must be positive, got %d", k)
	}
	if queries.Rows > 0 && queries.Cols != i.dim {
		return nil, fmt.Errorf("usearch: query dim %d != index dim %d", queries.Cols, i.dim)
	}
	res := index.NewResult(queries.Rows, k)
	for q := 0; q < queries.Rows; q++ {
		keys, dists, err := i.inner.Search(queries.Row(q), uint(k))
		if err != nil {
			return nil, fmt.Errorf("usearch: searching query %d: %v", q, err)
		}
		dRow, iRow := res.DRow(q), res.IRow(q)
		for r := 0; r < len(keys) && r < k; r++ {
			dRow[r] = dists[r]
			iRow[r] = int64(keys[r])
		}
	}
	return res, nil
}

// Close releases the native index resources.
func (i *Index) Close() error {
	if i.inner != nil {
		i.inner.Destroy()
		i.inner = nil
	}
	return nil
}

var _ index.Index = (*Index)(nil)
