package upgma

import "math"

// Position is a candidate join: the live rows Row and Column (Column < Row),
// their dissimilarity Value, the leaf-count Imbalance of the two clusters and
// the cluster IDs of the pair, smaller first.
// Row == Column marks a row with no candidate.
type Position struct {
	Row       int
	Column    int
	Value     float64
	Imbalance int
	Clusters  [2]int
}

// noCandidate is stored for row 0, which has no column to its left.
func noCandidate(row int) Position {
	return Position{Row: row, Column: row, Value: math.Inf(1)}
}

// Less orders positions by Value, then by Imbalance, then by the cluster IDs
// of the pair. Among equal values the more balanced join sorts first; the
// cluster IDs make the order total, so it does not depend on which live row
// a cluster happens to occupy.
func (p Position) Less(q Position) bool {
	if p.Value != q.Value {
		return p.Value < q.Value
	}
	if p.Imbalance != q.Imbalance {
		return p.Imbalance < q.Imbalance
	}
	if p.Clusters[0] != q.Clusters[0] {
		return p.Clusters[0] < q.Clusters[0]
	}
	return p.Clusters[1] < q.Clusters[1]
}

// valid reports whether p describes a joinable pair.
func (p Position) valid() bool {
	return p.Row != p.Column
}

func imbalanceOf(sizeA, sizeB int) int {
	if sizeA < sizeB {
		return sizeB - sizeA
	}
	return sizeA - sizeB
}

func clusterPair(a, b int) [2]int {
	if b < a {
		return [2]int{b, a}
	}
	return [2]int{a, b}
}
