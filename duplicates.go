package upgma

import "go.uber.org/zap"

// clusterDuplicates joins up clusters whose rows are identical before the
// main loop runs, and returns the number of clusters removed that way.
func (b *Builder) clusterDuplicates() int {
	n := b.matrix.Rows()
	meter := newProgressMeter(b.cfg.Progress, "Identifying identical (and nearly identical) taxa", float64(2*n))
	defer meter.done()

	hashed := calculateRowHashes(b.matrix, b.rowToCluster, b.cfg.Workers, meter)
	groups := identifyDuplicateClusters(b.matrix, hashed)
	removed := b.joinUpDuplicateClusters(groups, meter)

	if removed > 0 {
		b.logger.Info("clustered identical taxa",
			zap.Int("removed", removed),
			zap.Int("sets", len(groups)),
		)
	}
	b.stats.DuplicatesCoalesced = removed
	b.cfg.Metrics.observeDuplicates(removed)
	return removed
}

// joinUpDuplicateClusters joins each set of identical clusters by repeated
// halving: member i of the first half is joined with member i of the second
// half, the joined cluster replaces the first-half member, and the odd member
// (if any) stays in play for the next round. A set of k clusters takes
// O(log k) rounds. Joining stops early once only degreeOfRoot rows remain.
func (b *Builder) joinUpDuplicateClusters(groups [][]int, meter *progressMeter) int {
	n := b.matrix.Rows()
	if len(groups) == 0 {
		meter.add(float64(n))
		return 0
	}

	// clusterToRow is kept in step with rowToCluster while joining.
	clusterToRow := make([]int, b.tree.Len(), b.tree.Len()+n)
	for i := range clusterToRow {
		clusterToRow[i] = -1
	}
	for r, c := range b.rowToCluster {
		clusterToRow[c] = r
	}

	dupes := 0
	for _, g := range groups {
		dupes += len(g)
	}
	workPerDupe := float64(n) / float64(dupes)

	threshold := b.degreeOfRoot()
	removed := 0
	for _, group := range groups {
		work := float64(len(group)) * workPerDupe
		for len(group) > 1 && b.matrix.Rows() > threshold {
			firstHalf := len(group) / 2
			secondHalf := len(group) - firstHalf
			for i := 0; i < firstHalf && b.matrix.Rows() > threshold; i++ {
				rowA := clusterToRow[group[i]]
				rowB := clusterToRow[group[i+secondHalf]]
				if rowB < rowA {
					rowA, rowB = rowB, rowA
				}
				moved := b.rowToCluster[b.matrix.Rows()-1]
				b.cluster(rowA, rowB)
				group[i] = b.tree.Root()
				clusterToRow = append(clusterToRow, rowA)
				clusterToRow[moved] = rowB
				removed++
			}
			// Keep secondHalf (rounded up) entries: an odd member sits at
			// index firstHalf and must stay in play.
			group = group[:secondHalf]
		}
		meter.add(work)
	}
	return removed
}
