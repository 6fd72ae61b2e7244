package vptree

import (
	"container/heap"
	"fmt"
	"math"
	"sort"

	vecsearch "github.com/viant/vec/search"

	"github.com/viant/spectra-search/index"
	"github.com/viant/spectra-search/matrix"
)

// Index is an exact squared-L2 kNN index using a vantage-point tree to
// prune the scan. L2 is a proper metric, so the triangle inequality holds
// and pruning never drops a true neighbor.
type Index struct {
	keys []int64
	vecs [][]float32
	dim  int
	root *node
}

type node struct {
	idx   int // index into keys/vecs
	thr   float32
	left  *node
	right *node
}

// Build constructs the VP-tree over the given keys and vectors. A nil keys
// slice assigns the sequential keys 0..n-1.
func Build(keys []int64, vectors *matrix.Matrix) (*Index, error) {
	n := vectors.Rows
	if keys == nil {
		keys = make([]int64, n)
		for i := range keys {
			keys[i] = int64(i)
		}
	}
	if len(keys) != n {
		return nil, fmt.Errorf("vptree: keys and vectors length mismatch: %d != %d", len(keys), n)
	}
	base := append([]float32(nil), vectors.Data[:n*vectors.Cols]...)
	vecs := make([][]float32, n)
	for j := range vecs {
		vecs[j] = base[j*vectors.Cols : (j+1)*vectors.Cols]
	}
	i := &Index{
		keys: append([]int64(nil), keys...),
		vecs: vecs,
		dim:  vectors.Cols,
	}
	idxs := make([]int, n)
	for j := range idxs {
		idxs[j] = j
	}
	i.root = i.buildVP(idxs)
	return i, nil
}

func (i *Index) buildVP(idxs []int) *node {
	if len(idxs) == 0 {
		return nil
	}
	// pick last as vantage point to avoid extra randomness
	vp := idxs[len(idxs)-1]
	idxs = idxs[:len(idxs)-1]
	if len(idxs) == 0 {
		return &node{idx: vp}
	}
	dists := make([]float32, len(idxs))
	for k, j := range idxs {
		dists[k] = distance(i.vecs[vp], i.vecs[j])
	}
	// median threshold
	mid := len(dists) / 2
	order := make([]int, len(idxs))
	for k := range order {
		order[k] = k
	}
	sort.Slice(order, func(a, b int) bool { return dists[order[a]] < dists[order[b]] })
	thr := dists[order[mid]]
	leftIdxs := make([]int, 0, mid+1)
	rightIdxs := make([]int, 0, len(idxs)-(mid+1))
	for rank, k := range order {
		if rank <= mid {
			leftIdxs = append(leftIdxs, idxs[k])
		} else {
			rightIdxs = append(rightIdxs, idxs[k])
		}
	}
	return &node{
		idx:   vp,
		thr:   thr,
		left:  i.buildVP(leftIdxs),
		right: i.buildVP(rightIdxs),
	}
}

func distance(a, b []float32) float32 {
	return vecsearch.Float32s(a).EuclideanDistance(b)
}

// neighbor is a candidate found during a query.
type neighbor struct {
	idx  int
	dist float32
}

// neighbors implements heap.Interface ordered by descending distance, so
// the root is always the current worst candidate.
type neighbors []neighbor

func (h neighbors) Len() int            { return len(h) }
func (h neighbors) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h neighbors) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *neighbors) Push(x interface{}) { *h = append(*h, x.(neighbor)) }
func (h *neighbors) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Dimension returns the vector dimensionality.
func (i *Index) Dimension() int { return i.dim }

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.keys) }

// Search runs a pruned kNN query for every row of queries. Results carry
// squared L2 distances ascending per row, with -1/+Inf padding when k
// exceeds Len().
func (i *Index) Search(queries *matrix.Matrix, k int) (*index.Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("vptree: k must be positive, got %d", k)
	}
	if queries.Rows > 0 && queries.Cols != i.dim {
		return nil, fmt.Errorf("vptree: query dim %d != index dim %d", queries.Cols, i.dim)
	}
	res := index.NewResult(queries.Rows, k)
	for q := 0; q < queries.Rows; q++ {
		found := i.knn(queries.Row(q), k)
		dRow, iRow := res.DRow(q), res.IRow(q)
		for r, nb := range found {
			d := float64(nb.dist)
			dRow[r] = float32(d * d)
			iRow[r] = i.keys[nb.idx]
		}
	}
	return res, nil
}

func (i *Index) knn(query []float32, k int) []neighbor {
	h := make(neighbors, 0, k)
	bound := float32(math.Inf(1))
	var visit func(n *node)
	visit = func(n *node) {
		if n == nil {
			return
		}
		d := distance(query, i.vecs[n.idx])
		if len(h) < k {
			heap.Push(&h, neighbor{idx: n.idx, dist: d})
			if len(h) == k {
				bound = h[0].dist
			}
		} else if d < h[0].dist {
			h[0] = neighbor{idx: n.idx, dist: d}
			heap.Fix(&h, 0)
			bound = h[0].dist
		}
		// prune using the triangle inequality
		if d < n.thr {
			if d-bound <= n.thr {
				visit(n.left)
			}
			if d+bound >= n.thr {
				visit(n.right)
			}
		} else {
			if d+bound >= n.thr {
				visit(n.right)
			}
			if d-bound <= n.thr {
				visit(n.left)
			}
		}
	}
	visit(i.root)
	out := []neighbor(h)
	sort.Slice(out, func(a, b int) bool {
		if out[a].dist != out[b].dist {
			return out[a].dist < out[b].dist
		}
		return out[a].idx < out[b].idx
	})
	return out
}

var _ index.Index = (*Index)(nil)
