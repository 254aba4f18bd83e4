package upgma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// pairMatrix has taxa 2 and 3 identical.
var pairMatrix = []float64{
	0, 4, 6, 6, 8,
	4, 0, 6, 6, 8,
	6, 6, 0, 0, 7,
	6, 6, 0, 0, 7,
	8, 8, 7, 7, 0,
}

// fiveOfEight has taxa 0..4 identical and taxa 5, 6 and 7 distinct.
func fiveOfEight() ([]string, []float64) {
	const n = 8
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	flat := make([]float64, n*n)
	set := func(i, j int, d float64) {
		flat[i*n+j] = d
		flat[j*n+i] = d
	}
	for i := 0; i < 5; i++ {
		set(i, 5, 10)
		set(i, 6, 20)
		set(i, 7, 30)
	}
	set(5, 6, 15)
	set(5, 7, 25)
	set(6, 7, 35)
	return names, flat
}

func TestClusterDuplicates_Pair(t *testing.T) {
	b, err := NewBuilder(sequentialConfig())
	require.NoError(t, err)
	require.NoError(t, b.LoadMatrix([]string{"a", "b", "c", "d", "e"}, pairMatrix))
	require.NoError(t, b.ConstructTree())

	tree := b.Tree()
	assert.Equal(t, []int{2, 3}, childIDs(tree, 5), "first internal record joins the identical pair")
	assert.Equal(t, 0.0, tree.At(5).Distance)
	assert.Equal(t, 1, b.Stats().DuplicatesCoalesced)
	assert.Equal(t, 5+3, tree.Len())
}

func TestClusterDuplicates_FiveOfEight(t *testing.T) {
	names, flat := fiveOfEight()
	b, err := NewBuilder(sequentialConfig())
	require.NoError(t, err)
	require.NoError(t, b.LoadMatrix(names, flat))

	b.threshold = 3
	removed := b.clusterDuplicates()
	assert.Equal(t, 4, removed)
	assert.Equal(t, 4, b.Matrix().Rows())

	tree := b.Tree()
	// Rounds: (0,3) (1,4), then (8,2), then (10,9).
	assert.Equal(t, []int{0, 3}, childIDs(tree, 8))
	assert.Equal(t, []int{1, 4}, childIDs(tree, 9))
	assert.Equal(t, []int{8, 2}, childIDs(tree, 10))
	assert.Equal(t, []int{10, 9}, childIDs(tree, 11))
	assert.Equal(t, 5, tree.Count(11))

	assert.ElementsMatch(t, []int{11, 5, 6, 7}, b.rowToCluster)
	taxon := func(c int) int {
		if c == 11 {
			return 0
		}
		return c
	}
	for r, c := range b.rowToCluster {
		for s, d := range b.rowToCluster {
			if r != s {
				want := flat[taxon(c)*8+taxon(d)]
				assert.InDelta(t, want, b.Matrix().At(r, s), 1e-12, "rows %d,%d", r, s)
			}
		}
	}
}

func TestClusterDuplicates_FourIdenticalBalanced(t *testing.T) {
	const n = 6
	names := []string{"a", "b", "c", "d", "e", "f"}
	flat := make([]float64, n*n)
	for i := 0; i < 4; i++ {
		flat[i*n+4], flat[4*n+i] = 14, 14
		flat[i*n+5], flat[5*n+i] = 15, 15
	}
	flat[4*n+5], flat[5*n+4] = 9, 9

	cfg := sequentialConfig()
	cfg.Rooted = true
	b, err := NewBuilder(cfg)
	require.NoError(t, err)
	require.NoError(t, b.LoadMatrix(names, flat))
	require.NoError(t, b.ConstructTree())

	tree := b.Tree()
	assert.Equal(t, 3, b.Stats().DuplicatesCoalesced)
	assert.Equal(t, []int{6, 7}, childIDs(tree, 8))
	assert.Equal(t, 2, tree.Count(6))
	assert.Equal(t, 2, tree.Count(7))
}

func TestClusterDuplicates_StopsAtRootDegree(t *testing.T) {
	for _, tc := range []struct {
		name    string
		rooted  bool
		removed int
	}{
		{"unrooted", false, 1},
		{"rooted", true, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := sequentialConfig()
			cfg.Rooted = tc.rooted
			b, err := NewBuilder(cfg)
			require.NoError(t, err)
			require.NoError(t, b.LoadMatrix(textbookNames, make([]float64, 16)))
			require.NoError(t, b.ConstructTree())

			assert.Equal(t, tc.removed, b.Stats().DuplicatesCoalesced)
			assert.Equal(t, 0, b.Stats().Joins-tc.removed, "main loop had nothing left to join")
			assert.True(t, b.Tree().Finished())
			assert.Equal(t, 4, b.Tree().Count(b.Tree().Root()))
		})
	}
}

func TestClusterDuplicates_Disabled(t *testing.T) {
	cfg := sequentialConfig()
	cfg.DisableDuplicateCoalescing = true
	b, err := NewBuilder(cfg)
	require.NoError(t, err)
	require.NoError(t, b.LoadMatrix([]string{"a", "b", "c", "d", "e"}, pairMatrix))
	require.NoError(t, b.ConstructTree())

	assert.Equal(t, 0, b.Stats().DuplicatesCoalesced)
	// The main loop still joins the zero-distance pair first.
	assert.Equal(t, []int{2, 3}, childIDs(b.Tree(), 5))
}

func TestClusterDuplicates_Logs(t *testing.T) {
	buf := &zaptest.Buffer{}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), buf, zapcore.DebugLevel)

	cfg := sequentialConfig()
	cfg.Logger = zap.New(core)
	_, err := Build([]string{"a", "b", "c", "d", "e"}, pairMatrix, cfg)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"clustered identical taxa"`)
	assert.Contains(t, out, `"removed":1`)
	assert.Contains(t, out, `"logger":"upgma"`)
	assert.Contains(t, out, `"msg":"tree constructed"`)
}
