// Package upgma builds hierarchical clusterings with UPGMA (Unweighted Pair
// Group Method with Arithmetic mean, Sokal and Michener 1958) from a dense,
// symmetric dissimilarity matrix.
//
// Each round joins the globally closest pair of clusters. The joined cluster's
// distance to every other cluster is the leaf-count weighted average of its
// children's distances, and both children hang at half the joining distance.
// Ties between equal distances go to the pair whose leaf counts differ least,
// which keeps trees of many identical taxa balanced, and then to the pair with
// the lower cluster IDs. Taxa with identical rows
// are coalesced in a pre-pass before the O(n³) main loop.
//
// Basic usage:
//
//	cfg := upgma.DefaultConfig()
//	cfg.Rooted = true
//	tree, err := upgma.Build(names, distances, cfg)
//	// distances[i*n+j] is the dissimilarity between names[i] and names[j]
//	// tree.Root() is the ID of the root cluster; tree.At(id) describes it
//
// For finer control, drive a [Builder] directly:
//
//	b, err := upgma.NewBuilder(cfg)
//	err = b.LoadMatrix(names, distances)
//	b.SetIsRooted(false)
//	err = b.ConstructTree()
//	links, err := b.Tree().Linkage() // rooted trees only
//
// # Algorithm selection
//
// Config.Algorithm picks the row scanner. AlgorithmUPGMA scans each row one
// element at a time. AlgorithmVectorizedUPGMA tracks several running minima
// in independent lanes. Both settle ties the same way and build the same tree.
//
// Rows are scanned by Config.Workers goroutines once the matrix has at least
// Config.ParallelThreshold live rows. The sequence of joins does not depend on
// the number of workers.
package upgma
