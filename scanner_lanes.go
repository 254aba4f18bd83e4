package upgma

import "math"

// laneWidth is the number of independent minimum trackers in laneScanner,
// the number of float64 values in one 256-bit vector.
const laneWidth = 4

// laneScanner scans each row in blocks of laneWidth values. Lane l tracks the
// minimum of columns l, l+laneWidth, l+2*laneWidth, ... together with its
// column, so the comparisons within a block are independent and the loop
// carries no dependency between lanes. After the block sweep the lanes are
// reduced and the tail is finished one element at a time.
//
// Ties are settled the same way as in scalarScanner, inside each lane, in
// the reduction and in the tail, so both scanners pick the same column.
type laneScanner struct {
	workers           int
	parallelThreshold int
}

func (laneScanner) Name() string { return "Vectorized-UPGMA" }

func (s laneScanner) ScanRowMinima(m *SquareMatrix, clusters []int, imbalance func(row, col int) int, minima []Position) {
	n := m.Rows()
	minima[0] = noCandidate(0)
	scan := func(start, end int) {
		for row := max(start, 1); row < end; row++ {
			rs := rowScan{row: row, clusters: clusters, imbalance: imbalance}
			col, v := laneRowMinimum(m.Row(row)[:row], rs)
			minima[row] = rs.position(col, v)
		}
	}
	if n < s.parallelThreshold {
		scan(0, n)
		return
	}
	parallelRowsDynamic(n, s.workers, scanChunk, scan)
}

func laneRowMinimum(row []float64, s rowScan) (int, float64) {
	inf := math.Inf(1)
	m0, m1, m2, m3 := inf, inf, inf, inf
	i0, i1, i2, i3 := -1, -1, -1, -1

	col := 0
	for ; col+laneWidth <= len(row); col += laneWidth {
		block := row[col : col+laneWidth : col+laneWidth]
		if v := block[0]; v < m0 || i0 < 0 || (v == m0 && s.prefer(col, i0)) {
			m0, i0 = v, col
		}
		if v := block[1]; v < m1 || i1 < 0 || (v == m1 && s.prefer(col+1, i1)) {
			m1, i1 = v, col+1
		}
		if v := block[2]; v < m2 || i2 < 0 || (v == m2 && s.prefer(col+2, i2)) {
			m2, i2 = v, col+2
		}
		if v := block[3]; v < m3 || i3 < 0 || (v == m3 && s.prefer(col+3, i3)) {
			m3, i3 = v, col+3
		}
	}

	best, bestCol := inf, -1
	lanes := [laneWidth]float64{m0, m1, m2, m3}
	cols := [laneWidth]int{i0, i1, i2, i3}
	for l := 0; l < laneWidth; l++ {
		c := cols[l]
		if c < 0 {
			continue
		}
		if v := lanes[l]; v < best || bestCol < 0 || (v == best && s.prefer(c, bestCol)) {
			best, bestCol = v, c
		}
	}

	for ; col < len(row); col++ {
		if v := row[col]; v < best || bestCol < 0 || (v == best && s.prefer(col, bestCol)) {
			best, bestCol = v, col
		}
	}
	if bestCol < 0 {
		return 0, best
	}
	return bestCol, best
}
