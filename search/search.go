package search

import (
	"fmt"
	"math"

	"github.com/viant/spectra-search/index"
	"github.com/viant/spectra-search/matrix"
)

// Search runs the kNN query and corrects the backend's squared L2
// distances to true Euclidean distances by taking the elementwise
// non-negative square root in place. Ordering and tie-breaks are whatever
// the backend returned; nothing is re-sorted. Padding slots (+Inf) stay
// +Inf.
func Search(idx index.Index, queries *matrix.Matrix, k int) (*index.Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("search: k must be positive, got %d", k)
	}
	res, err := idx.Search(queries, k)
	if err != nil {
		return nil, err
	}
	for i, d := range res.D {
		if d < 0 {
			// squared distances are non-negative; clamp float noise
			d = 0
		}
		res.D[i] = float32(math.Sqrt(float64(d)))
	}
	return res, nil
}
