package upgma

import "fmt"

// cluster joins the clusters in live rows rowA and rowB (rowA < rowB). The
// joined cluster takes over rowA, with distances to every other live row set
// to the leaf-count weighted average of the two children's distances. rowB
// is removed by moving the last live row into it.
func (b *Builder) cluster(rowA, rowB int) {
	n := b.matrix.Rows()
	if rowA < 0 || rowA >= rowB || rowB >= n {
		panic(fmt.Sprintf("upgma: cluster(%d, %d) with %d live rows", rowA, rowB, n))
	}

	dist := b.matrix.At(rowB, rowA)
	length := dist * 0.5
	clusterA := b.rowToCluster[rowA]
	clusterB := b.rowToCluster[rowB]
	countA := b.tree.Count(clusterA)
	countB := b.tree.Count(clusterB)
	lambda := float64(countA) / float64(countA+countB)
	mu := 1.0 - lambda

	dataA := b.matrix.Row(rowA)
	dataB := b.matrix.Row(rowB)
	for i := 0; i < n; i++ {
		if i != rowA && i != rowB {
			b.matrix.SetSymmetric(rowA, i, lambda*dataA[i]+mu*dataB[i])
		}
	}

	parent := b.tree.AddCluster(dist,
		Link{ID: clusterA, Length: length},
		Link{ID: clusterB, Length: length},
	)
	last := n - 1
	b.rowToCluster[rowA] = parent
	b.rowToCluster[rowB] = b.rowToCluster[last]
	b.rowToCluster = b.rowToCluster[:last]
	b.matrix.RemoveRowAndColumn(rowB)

	b.stats.Joins++
	b.cfg.Metrics.observeJoin()
}

// finishClustering joins the last two (rooted) or three (unrooted) clusters
// under one final node. Branch lengths weight each remaining distance by the
// leaf counts of the clusters on the far side.
func (b *Builder) finishClustering() {
	n := b.matrix.Rows()
	if n != 2 && n != 3 {
		panic(fmt.Sprintf("upgma: finishClustering with %d live rows", n))
	}

	var weights [3]float64
	var denominator float64
	for i := 0; i < n; i++ {
		weights[i] = float64(b.tree.Count(b.rowToCluster[i]))
		denominator += weights[i]
	}
	for i := 0; i < n; i++ {
		weights[i] /= 2 * denominator
	}

	m := b.matrix
	rtc := b.rowToCluster
	if n == 3 {
		// Unrooted: the last node has degree 3.
		d01, d02, d12 := m.At(0, 1), m.At(0, 2), m.At(1, 2)
		b.tree.AddCluster((d01+d02+d12)/3,
			Link{ID: rtc[0], Length: weights[1]*d01 + weights[2]*d02},
			Link{ID: rtc[1], Length: weights[0]*d01 + weights[2]*d12},
			Link{ID: rtc[2], Length: weights[0]*d02 + weights[1]*d12},
		)
	} else {
		d01 := m.At(0, 1)
		b.tree.AddCluster(d01,
			Link{ID: rtc[0], Length: weights[1] * d01},
			Link{ID: rtc[1], Length: weights[0] * d01},
		)
	}

	m.rowCount = 0
	b.rowToCluster = b.rowToCluster[:0]
}
