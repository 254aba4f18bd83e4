package upgma

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

type leafDepth struct {
	leaf  int
	depth float64
}

// PathDistances returns the n×n row-major matrix of leaf-to-leaf path lengths
// through a finished tree, where n is the number of leaves.
func (t *ClusterTree) PathDistances() ([]float64, error) {
	if !t.Finished() {
		return nil, fmt.Errorf("upgma: path distances of %d clusters: %w", len(t.clusters), ErrUnfinishedTree)
	}
	n := t.leaves
	dist := make([]float64, n*n)

	below := make([][]leafDepth, len(t.clusters))
	for id := 0; id < n; id++ {
		below[id] = []leafDepth{{leaf: id}}
	}
	for id := n; id < len(t.clusters); id++ {
		var merged []leafDepth
		for _, child := range t.clusters[id].Children {
			lifted := below[child.ID]
			below[child.ID] = nil
			for k := range lifted {
				lifted[k].depth += child.Length
			}
			for _, x := range lifted {
				for _, y := range merged {
					d := x.depth + y.depth
					dist[x.leaf*n+y.leaf] = d
					dist[y.leaf*n+x.leaf] = d
				}
			}
			merged = append(merged, lifted...)
		}
		below[id] = merged
	}
	return dist, nil
}

// RMSOfTMinusD returns the root-mean-square difference, over all pairs i<j,
// between the path length separating leaves i and j in the tree and the
// dissimilarity flat[i*n+j] the tree was built from.
func (t *ClusterTree) RMSOfTMinusD(flat []float64, n int) (float64, error) {
	if n != t.leaves {
		return 0, fmt.Errorf("upgma: rank %d does not match %d leaves: %w", n, t.leaves, ErrNameCount)
	}
	if len(flat) != n*n {
		return 0, fmt.Errorf("upgma: flat matrix length %d does not match n*n = %d: %w", len(flat), n*n, ErrMatrixShape)
	}
	treeDist, err := t.PathDistances()
	if err != nil {
		return 0, err
	}

	pairs := n * (n - 1) / 2
	if pairs == 0 {
		return 0, nil
	}
	tri := make([]float64, 0, pairs)
	inp := make([]float64, 0, pairs)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			tri = append(tri, treeDist[i*n+j])
			inp = append(inp, flat[i*n+j])
		}
	}
	return floats.Distance(tri, inp, 2) / math.Sqrt(float64(pairs)), nil
}
