package upgma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedBuilder(t *testing.T, cfg Config, names []string, flat []float64) *Builder {
	t.Helper()
	b, err := NewBuilder(cfg)
	require.NoError(t, err)
	require.NoError(t, b.LoadMatrix(names, flat))
	return b
}

func TestCluster_WeightedAverage(t *testing.T) {
	flat := []float64{
		0, 2, 6, 9,
		2, 0, 8, 3,
		6, 8, 0, 5,
		9, 3, 5, 0,
	}
	b := loadedBuilder(t, sequentialConfig(), []string{"a", "b", "c", "d"}, flat)

	b.cluster(0, 1)

	require.Equal(t, 3, b.Matrix().Rows())
	assert.Equal(t, []int{4, 3, 2}, b.rowToCluster, "last row moves into the removed row")
	assert.Equal(t, 7.0, b.Matrix().At(0, 2), "(6+8)/2")
	assert.Equal(t, 6.0, b.Matrix().At(0, 1), "(9+3)/2")
	assert.Equal(t, 5.0, b.Matrix().At(1, 2), "untouched distance moved with its row")

	parent := b.Tree().At(4)
	assert.Equal(t, 2.0, parent.Distance)
	assert.Equal(t, []Link{{ID: 0, Length: 1}, {ID: 1, Length: 1}}, parent.Children)
	assert.Equal(t, 1, b.Stats().Joins)

	// Weighted: cluster 4 carries two leaves against one.
	b.cluster(0, 2)
	assert.InDelta(t, (2*6.0+1*5.0)/3, b.Matrix().At(0, 1), 1e-12)
	assert.Equal(t, 3, b.Tree().Count(5))
}

func TestCluster_ConservesLeaves(t *testing.T) {
	names, flat := randomMatrix(40, 21)
	b := loadedBuilder(t, sequentialConfig(), names, flat)
	b.threshold = 3

	for b.Matrix().Rows() > 3 {
		minima := b.rowMinima[:b.Matrix().Rows()]
		b.scanner.ScanRowMinima(b.Matrix(), b.rowToCluster, b.imbalance, minima)
		best, ok := bestPosition(minima)
		require.True(t, ok)
		require.Less(t, best.Column, best.Row)
		b.cluster(best.Column, best.Row)

		total := 0
		for _, c := range b.rowToCluster {
			total += b.Tree().Count(c)
		}
		require.Equal(t, 40, total)
		require.Len(t, b.rowToCluster, b.Matrix().Rows())
	}
}

func TestCluster_InvalidRowsPanic(t *testing.T) {
	b := loadedBuilder(t, sequentialConfig(), textbookNames, textbookMatrix)
	assert.Panics(t, func() { b.cluster(1, 1) })
	assert.Panics(t, func() { b.cluster(2, 1) })
	assert.Panics(t, func() { b.cluster(0, 4) })
	assert.Panics(t, func() { b.cluster(-1, 2) })
}

func TestFinishClustering_TwoRows(t *testing.T) {
	b := loadedBuilder(t, sequentialConfig(), textbookNames, textbookMatrix)
	b.cluster(0, 1)
	b.cluster(0, 2)
	require.Equal(t, 2, b.Matrix().Rows())

	b.finishClustering()

	tree := b.Tree()
	root := tree.At(tree.Root())
	assert.InDelta(t, 6.0, root.Distance, 1e-12)
	require.Len(t, root.Children, 2)
	// Leaf counts 3 and 1: each side takes the other's share of d/2.
	assert.Equal(t, []int{5, 3}, childIDs(tree, tree.Root()))
	assert.InDelta(t, 0.75, root.Children[0].Length, 1e-12)
	assert.InDelta(t, 2.25, root.Children[1].Length, 1e-12)
	assert.Equal(t, 0, b.Matrix().Rows())
	assert.True(t, tree.Finished())
}

func TestFinishClustering_ThreeRows(t *testing.T) {
	flat := []float64{
		0, 3, 5,
		3, 0, 4,
		5, 4, 0,
	}
	b := loadedBuilder(t, sequentialConfig(), []string{"a", "b", "c"}, flat)
	b.finishClustering()

	root := b.Tree().At(b.Tree().Root())
	assert.Equal(t, 4.0, root.Distance, "mean of the three distances")
	require.Len(t, root.Children, 3)
	assert.InDelta(t, 8.0/6, root.Children[0].Length, 1e-12)
	assert.InDelta(t, 7.0/6, root.Children[1].Length, 1e-12)
	assert.InDelta(t, 9.0/6, root.Children[2].Length, 1e-12)
}

func TestFinishClustering_WrongRowCountPanics(t *testing.T) {
	b := loadedBuilder(t, sequentialConfig(), textbookNames, textbookMatrix)
	assert.Panics(t, func() { b.finishClustering() })
}
