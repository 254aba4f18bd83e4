package upgma

import "fmt"

// Link is one child edge of a cluster: the child's cluster ID and the branch
// length from the parent to it.
type Link struct {
	ID     int
	Length float64
}

// Cluster is one node of the hierarchy. Leaves have a Name and no Children.
// Internal clusters have two children (three for the last node of an unrooted
// tree).
type Cluster struct {
	Name     string
	Children []Link

	// CountOfExteriorNodes is the number of leaves the cluster subtends.
	CountOfExteriorNodes int

	// Distance is the dissimilarity at which the cluster was formed. For the
	// degree-3 node that finishes an unrooted tree it is the mean of the three
	// remaining pairwise distances. Zero for leaves.
	Distance float64
}

// IsLeaf reports whether c is an input entity.
func (c Cluster) IsLeaf() bool { return len(c.Children) == 0 }

// ClusterTree is an append-only log of clusters. Leaves are added first and
// get IDs 0..n-1; every join appends its parent, so the last cluster is the
// root once construction has finished.
type ClusterTree struct {
	clusters []Cluster
	leaves   int
}

// NewClusterTree returns an empty tree with room for n leaves and their
// n-1 joins.
func NewClusterTree(n int) *ClusterTree {
	return &ClusterTree{clusters: make([]Cluster, 0, max(2*n-1, 0))}
}

// AddLeaf appends a leaf and returns its ID. Leaves must be added before any
// internal cluster.
func (t *ClusterTree) AddLeaf(name string) int {
	if t.leaves != len(t.clusters) {
		panic("upgma: AddLeaf after AddCluster")
	}
	t.clusters = append(t.clusters, Cluster{Name: name, CountOfExteriorNodes: 1})
	t.leaves++
	return len(t.clusters) - 1
}

// AddCluster appends an internal cluster joining the given children at
// dissimilarity distance and returns its ID.
func (t *ClusterTree) AddCluster(distance float64, links ...Link) int {
	count := 0
	for _, l := range links {
		if l.ID < 0 || l.ID >= len(t.clusters) {
			panic(fmt.Sprintf("upgma: AddCluster child %d out of range [0,%d)", l.ID, len(t.clusters)))
		}
		count += t.clusters[l.ID].CountOfExteriorNodes
	}
	t.clusters = append(t.clusters, Cluster{
		Children:             links,
		CountOfExteriorNodes: count,
		Distance:             distance,
	})
	return len(t.clusters) - 1
}

// Len returns the number of clusters, leaves included.
func (t *ClusterTree) Len() int { return len(t.clusters) }

// Leaves returns the number of leaf clusters.
func (t *ClusterTree) Leaves() int { return t.leaves }

// At returns cluster id.
func (t *ClusterTree) At(id int) Cluster { return t.clusters[id] }

// Count returns the number of leaves under cluster id.
func (t *ClusterTree) Count(id int) int { return t.clusters[id].CountOfExteriorNodes }

// Root returns the ID of the last cluster appended.
func (t *ClusterTree) Root() int { return len(t.clusters) - 1 }

// Finished reports whether the root subtends every leaf.
func (t *ClusterTree) Finished() bool {
	return t.leaves > 0 && t.clusters[len(t.clusters)-1].CountOfExteriorNodes == t.leaves
}

// Clusters returns a copy of the cluster log.
func (t *ClusterTree) Clusters() []Cluster {
	out := make([]Cluster, len(t.clusters))
	copy(out, t.clusters)
	return out
}

// Reset empties the tree.
func (t *ClusterTree) Reset() {
	t.clusters = t.clusters[:0]
	t.leaves = 0
}
