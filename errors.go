package upgma

import "errors"

// Precondition failures. Every error returned by this package wraps one of
// these with context, so callers can match with errors.Is.
var (
	// ErrTooFewTaxa is returned when fewer than 3 entities are supplied.
	ErrTooFewTaxa = errors.New("upgma: at least 3 taxa are required")

	// ErrNameCount is returned when the number of names does not match the
	// matrix rank.
	ErrNameCount = errors.New("upgma: name count does not match matrix rank")

	// ErrMatrixShape is returned when a flat matrix is not n*n.
	ErrMatrixShape = errors.New("upgma: matrix is not square")

	// ErrAsymmetric is returned when D[i][j] and D[j][i] differ by more than
	// the configured tolerance.
	ErrAsymmetric = errors.New("upgma: matrix is not symmetric")

	// ErrNaN is returned when the matrix contains NaN.
	ErrNaN = errors.New("upgma: matrix contains NaN")

	// ErrNotLoaded is returned by ConstructTree when no matrix was loaded.
	ErrNotLoaded = errors.New("upgma: no matrix loaded")

	// ErrUnrootedLinkage is returned when a linkage is requested for a tree
	// whose last node has degree 3.
	ErrUnrootedLinkage = errors.New("upgma: linkage requires a rooted tree")

	// ErrUnfinishedTree is returned when a tree query needs a finished tree.
	ErrUnfinishedTree = errors.New("upgma: tree is not finished")
)
