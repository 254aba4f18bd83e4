package upgma

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// HashRow is the fingerprint of one live matrix row.
type HashRow struct {
	// Cluster is the cluster occupying the row when it was hashed.
	Cluster int
	// Row is the live row index at hashing time.
	Row int
	// Hash is the xxhash of the row's live values.
	Hash uint64
}

// hashRowValues hashes the bit patterns of row, with -0 folded into +0 so
// that rows that compare equal hash equal. buf is scratch space, grown as
// needed and returned for reuse.
func hashRowValues(row []float64, buf []byte) (uint64, []byte) {
	if cap(buf) < 8*len(row) {
		buf = make([]byte, 8*len(row))
	}
	buf = buf[:8*len(row)]
	for i, v := range row {
		if v == 0 {
			v = 0
		}
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return xxhash.Sum64(buf), buf
}

// calculateRowHashes fingerprints every live row and returns the
// fingerprints sorted by (Hash, Cluster).
func calculateRowHashes(m *SquareMatrix, rowToCluster []int, workers int, meter *progressMeter) []HashRow {
	n := m.Rows()
	hashed := make([]HashRow, n)

	parallelRows(n, workers, func(start, end int) {
		var buf []byte
		var h uint64
		for i := start; i < end; i++ {
			h, buf = hashRowValues(m.Row(i), buf)
			hashed[i] = HashRow{Cluster: rowToCluster[i], Row: i, Hash: h}
			if i%progressGranularity == progressGranularity-1 {
				meter.add(progressGranularity)
			}
		}
	})
	meter.add(float64(n % progressGranularity))

	sort.Slice(hashed, func(i, j int) bool {
		if hashed[i].Hash != hashed[j].Hash {
			return hashed[i].Hash < hashed[j].Hash
		}
		return hashed[i].Cluster < hashed[j].Cluster
	})
	return hashed
}

// identifyDuplicateClusters groups sorted fingerprints into sets of clusters
// whose rows are identical. Equal hashes are confirmed by comparing the rows,
// so a hash collision never merges distinct rows. Only sets with more than
// one member are returned, each in ascending cluster order.
func identifyDuplicateClusters(m *SquareMatrix, hashed []HashRow) [][]int {
	var groups [][]int
	for start := 0; start < len(hashed); {
		end := start + 1
		for end < len(hashed) && hashed[end].Hash == hashed[start].Hash {
			end++
		}
		if end-start > 1 {
			groups = append(groups, splitIdenticalRows(m, hashed[start:end])...)
		}
		start = end
	}
	return groups
}

// splitIdenticalRows partitions a run of equal-hash rows by content.
func splitIdenticalRows(m *SquareMatrix, run []HashRow) [][]int {
	var leaders []int
	var sets [][]int
	for _, h := range run {
		placed := false
		for k, leader := range leaders {
			if rowsEqual(m.Row(leader), m.Row(h.Row)) {
				sets[k] = append(sets[k], h.Cluster)
				placed = true
				break
			}
		}
		if !placed {
			leaders = append(leaders, h.Row)
			sets = append(sets, []int{h.Cluster})
		}
	}

	var out [][]int
	for _, s := range sets {
		if len(s) > 1 {
			out = append(out, s)
		}
	}
	return out
}

func rowsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
