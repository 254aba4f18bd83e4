package upgma

import (
	"fmt"
	"math"
	"math/rand"
)

const floatTol = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// textbookNames and textbookMatrix form an ultrametric 4-taxon input with no
// ties: (1,2) join at 2, 3 joins them at 4, 4 joins everything at 6.
var textbookNames = []string{"1", "2", "3", "4"}

var textbookMatrix = []float64{
	0, 2, 4, 6,
	2, 0, 4, 6,
	4, 4, 0, 6,
	6, 6, 6, 0,
}

// randomMatrix returns n names and a symmetric n×n matrix of distinct
// random dissimilarities in [1, 101).
func randomMatrix(n int, seed int64) ([]string, []float64) {
	rng := rand.New(rand.NewSource(seed))
	names := make([]string, n)
	flat := make([]float64, n*n)
	for i := 0; i < n; i++ {
		names[i] = fmt.Sprintf("t%d", i)
		for j := 0; j < i; j++ {
			d := 1 + rng.Float64()*100
			flat[i*n+j] = d
			flat[j*n+i] = d
		}
	}
	return names, flat
}

// sequentialConfig is DefaultConfig with a single worker.
func sequentialConfig() Config {
	cfg := DefaultConfig()
	cfg.Workers = 1
	return cfg
}

// childIDs returns the child cluster IDs of tree cluster id.
func childIDs(tree *ClusterTree, id int) []int {
	var ids []int
	for _, l := range tree.At(id).Children {
		ids = append(ids, l.ID)
	}
	return ids
}
