package upgma

import "math"

// scanChunk is the number of rows a worker claims at a time.
const scanChunk = 32

// Scanner finds, for every live row r >= 1, the cheapest join (r, c) with
// c < r. Implementations write minima[r] for r in [1, m.Rows()) and the
// no-candidate sentinel to minima[0]. minima must have length >= m.Rows().
//
// clusters maps live rows to cluster IDs. imbalance(r, c) returns the
// leaf-count imbalance of the clusters in live rows r and c. Within a row the
// candidate is the minimum under Position.Less. Rows may be scanned
// concurrently; clusters and imbalance must be safe for concurrent reads.
type Scanner interface {
	Name() string
	ScanRowMinima(m *SquareMatrix, clusters []int, imbalance func(row, col int) int, minima []Position)
}

// rowScan carries what a row scan needs to break ties between columns
// holding the same value.
type rowScan struct {
	row       int
	clusters  []int
	imbalance func(row, col int) int
}

// prefer reports whether joining column col beats joining column than at
// equal value: the more balanced join wins, then the lower cluster ID.
func (s rowScan) prefer(col, than int) bool {
	a, b := s.imbalance(s.row, col), s.imbalance(s.row, than)
	if a != b {
		return a < b
	}
	return s.clusters[col] < s.clusters[than]
}

func (s rowScan) position(col int, v float64) Position {
	return Position{
		Row:       s.row,
		Column:    col,
		Value:     v,
		Imbalance: s.imbalance(s.row, col),
		Clusters:  clusterPair(s.clusters[s.row], s.clusters[col]),
	}
}

// scalarScanner scans each lower-triangle row one element at a time.
type scalarScanner struct {
	workers           int
	parallelThreshold int
}

func (scalarScanner) Name() string { return "UPGMA" }

func (s scalarScanner) ScanRowMinima(m *SquareMatrix, clusters []int, imbalance func(row, col int) int, minima []Position) {
	n := m.Rows()
	minima[0] = noCandidate(0)
	scan := func(start, end int) {
		for row := max(start, 1); row < end; row++ {
			rs := rowScan{row: row, clusters: clusters, imbalance: imbalance}
			col, v := rowMinimum(m.Row(row)[:row], rs)
			minima[row] = rs.position(col, v)
		}
	}
	if n < s.parallelThreshold {
		scan(0, n)
		return
	}
	parallelRowsDynamic(n, s.workers, scanChunk, scan)
}

// rowMinimum returns the column holding the smallest value in row, and that
// value. Equal values are settled by s.prefer, which is only consulted on a
// tie. An empty row yields (0, +Inf).
func rowMinimum(row []float64, s rowScan) (int, float64) {
	best := math.Inf(1)
	bestCol := -1
	for col, v := range row {
		if v < best || bestCol < 0 || (v == best && s.prefer(col, bestCol)) {
			best = v
			bestCol = col
		}
	}
	if bestCol < 0 {
		return 0, best
	}
	return bestCol, best
}

// bestPosition reduces per-row minima to the single cheapest join. Rows are
// visited in order and only a strictly Less candidate replaces the current
// best, so the result does not depend on how the rows were scanned. A row
// whose value is +Inf still wins when no other candidate exists, which keeps
// the join loop moving on degenerate input. Returns false if no row has a
// candidate.
func bestPosition(minima []Position) (Position, bool) {
	var best Position
	found := false
	for _, here := range minima {
		if !here.valid() {
			continue
		}
		if !found || here.Less(best) {
			best = here
			found = true
		}
	}
	return best, found
}
