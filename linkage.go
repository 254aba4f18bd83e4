package upgma

import "fmt"

// Linkage converts a finished rooted tree into a dendrogram in scipy format.
// Returns one [left, right, distance, mergedSize] row per join, in join
// order. Leaf IDs are 0..n-1 and the cluster formed by row k has ID n+k,
// the same cluster-ID scheme as scipy's linkage output.
//
// Returns ErrUnrootedLinkage if any cluster has more than two children.
func (t *ClusterTree) Linkage() ([][4]float64, error) {
	if !t.Finished() {
		return nil, fmt.Errorf("upgma: linkage of %d clusters: %w", len(t.clusters), ErrUnfinishedTree)
	}

	result := make([][4]float64, 0, len(t.clusters)-t.leaves)
	for id := t.leaves; id < len(t.clusters); id++ {
		c := t.clusters[id]
		if len(c.Children) != 2 {
			return nil, fmt.Errorf("upgma: cluster %d has %d children: %w", id, len(c.Children), ErrUnrootedLinkage)
		}
		result = append(result, [4]float64{
			float64(c.Children[0].ID),
			float64(c.Children[1].ID),
			c.Distance,
			float64(c.CountOfExteriorNodes),
		})
	}
	return result, nil
}
