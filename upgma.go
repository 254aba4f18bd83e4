package upgma

import (
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Config controls tree construction.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Algorithm selects the row scanner: AlgorithmUPGMA scans one element at
	// a time, AlgorithmVectorizedUPGMA scans in independent lanes.
	// Default: AlgorithmUPGMA.
	Algorithm Algorithm

	// Rooted builds a rooted tree (the last node has degree 2). Otherwise the
	// last node joins three clusters. Builder.SetIsRooted overrides it.
	// Default: false.
	Rooted bool

	// SubtreeOnly is carried for tree writers that should omit the root.
	// It does not affect construction. Default: false.
	SubtreeOnly bool

	// Workers controls the number of goroutines used to scan rows and to
	// fingerprint rows. 0 means runtime.NumCPU(). Default: 0 (auto).
	Workers int

	// ParallelThreshold is the number of live rows below which a scan runs
	// on the calling goroutine. 0 means 256. Default: 0.
	ParallelThreshold int

	// SymmetryTolerance is the relative difference allowed between D[i][j]
	// and D[j][i]. 0 means 1e-9. Must be >= 0.
	SymmetryTolerance float64

	// DisableDuplicateCoalescing skips the identical-row pre-pass.
	// Default: false.
	DisableDuplicateCoalescing bool

	// Logger receives construction events. nil means zap.NewNop().
	Logger *zap.Logger

	// Progress receives coarse-grained progress reports. nil discards them.
	Progress Progress

	// Metrics, when non-nil, is updated by every construction.
	Metrics *Metrics
}

// Stats summarises the last construction.
type Stats struct {
	Taxa                int
	Joins               int
	DuplicatesCoalesced int
	Elapsed             time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Algorithm:         AlgorithmUPGMA,
		SymmetryTolerance: 1e-9,
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("upgma: Workers must be >= 0 (0 means runtime.NumCPU()), got %d", cfg.Workers)
	}
	if cfg.ParallelThreshold < 0 {
		return fmt.Errorf("upgma: ParallelThreshold must be >= 0, got %d", cfg.ParallelThreshold)
	}
	if cfg.SymmetryTolerance < 0 {
		return fmt.Errorf("upgma: SymmetryTolerance must be >= 0, got %g", cfg.SymmetryTolerance)
	}
	switch cfg.Algorithm {
	case AlgorithmUPGMA, AlgorithmVectorizedUPGMA:
		// valid
	default:
		return fmt.Errorf("upgma: invalid Algorithm %q", cfg.Algorithm)
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmUPGMA
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.ParallelThreshold == 0 {
		cfg.ParallelThreshold = 256
	}
	if cfg.SymmetryTolerance == 0 {
		cfg.SymmetryTolerance = 1e-9
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Progress == nil {
		cfg.Progress = nopProgress{}
	}
}

// Builder constructs one UPGMA tree at a time from a dissimilarity matrix.
// The matrix, row-to-cluster map and tree are owned by the Builder; it is not
// safe for concurrent use.
type Builder struct {
	cfg     Config
	logger  *zap.Logger
	scanner Scanner

	matrix       *SquareMatrix
	tree         *ClusterTree
	rowToCluster []int
	rowMinima    []Position

	rooted      bool
	subtreeOnly bool
	threshold   int
	loaded      bool
	stats       Stats
}

// NewBuilder returns a Builder for cfg. Returns an error if the config is
// invalid.
func NewBuilder(cfg Config) (*Builder, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	scanner, err := newScanner(cfg)
	if err != nil {
		return nil, err
	}
	return &Builder{
		cfg:         cfg,
		logger:      cfg.Logger.Named("upgma"),
		scanner:     scanner,
		tree:        NewClusterTree(0),
		rooted:      cfg.Rooted,
		subtreeOnly: cfg.SubtreeOnly,
	}, nil
}

// AlgorithmName returns the name of the scanner in use.
func (b *Builder) AlgorithmName() string { return b.scanner.Name() }

// SetSize prepares the Builder for n taxa: an n×n zero matrix, one leaf
// per row named by its index, and the identity row-to-cluster map.
func (b *Builder) SetSize(n int) error {
	if n < 3 {
		return fmt.Errorf("upgma: SetSize(%d): %w", n, ErrTooFewTaxa)
	}
	b.matrix = NewSquareMatrix(n)
	b.tree = NewClusterTree(n)
	for i := 0; i < n; i++ {
		b.tree.AddLeaf(fmt.Sprint(i))
	}
	b.resetRows(n)
	b.loaded = true
	return nil
}

func (b *Builder) resetRows(n int) {
	b.rowToCluster = make([]int, n)
	for r := range b.rowToCluster {
		b.rowToCluster[r] = r
	}
	b.rowMinima = make([]Position, n)
	b.stats = Stats{Taxa: n}
}

// LoadMatrix loads names and a row-major n×n matrix, where flat[i*n+j] is
// the dissimilarity between names[i] and names[j]. The Builder is left
// unchanged if the input is rejected.
func (b *Builder) LoadMatrix(names []string, flat []float64) error {
	n := len(names)
	if n < 3 {
		return fmt.Errorf("upgma: %d names: %w", n, ErrTooFewTaxa)
	}
	m := NewSquareMatrix(n)
	if err := m.loadFlat(flat, b.cfg.SymmetryTolerance); err != nil {
		return err
	}
	b.install(names, m)
	return nil
}

// LoadSymmetric loads names and a gonum symmetric matrix of matching
// dimension.
func (b *Builder) LoadSymmetric(names []string, s mat.Symmetric) error {
	n := len(names)
	if n < 3 {
		return fmt.Errorf("upgma: %d names: %w", n, ErrTooFewTaxa)
	}
	if s.SymmetricDim() != n {
		return fmt.Errorf("upgma: %d names for a %d×%d matrix: %w", n, s.SymmetricDim(), s.SymmetricDim(), ErrNameCount)
	}
	m := NewSquareMatrix(n)
	if err := m.loadSymmetric(s, b.cfg.SymmetryTolerance); err != nil {
		return err
	}
	b.install(names, m)
	return nil
}

func (b *Builder) install(names []string, m *SquareMatrix) {
	n := len(names)
	b.matrix = m
	b.tree = NewClusterTree(n)
	for _, name := range names {
		b.tree.AddLeaf(name)
	}
	b.resetRows(n)
	b.loaded = true
}

// SetIsRooted chooses between a rooted (degree-2) and unrooted (degree-3)
// final node.
func (b *Builder) SetIsRooted(rooted bool) { b.rooted = rooted }

// IsRooted reports whether the next construction builds a rooted tree.
func (b *Builder) IsRooted() bool { return b.rooted }

// SetSubtreeOnly records whether writers should emit only the subtree.
func (b *Builder) SetSubtreeOnly(subtreeOnly bool) { b.subtreeOnly = subtreeOnly }

// SubtreeOnly reports the value set by SetSubtreeOnly.
func (b *Builder) SubtreeOnly() bool { return b.subtreeOnly }

// Matrix returns the live matrix. It is empty once a construction finishes.
func (b *Builder) Matrix() *SquareMatrix { return b.matrix }

// Tree returns the cluster hierarchy built by the last construction.
func (b *Builder) Tree() *ClusterTree { return b.tree }

// Stats returns statistics for the last construction.
func (b *Builder) Stats() Stats { return b.stats }

// degreeOfRoot is the number of clusters the finishing step joins.
func (b *Builder) degreeOfRoot() int { return b.threshold }

// imbalance is the leaf-count difference of the clusters in live rows row
// and col.
func (b *Builder) imbalance(row, col int) int {
	return imbalanceOf(b.tree.Count(b.rowToCluster[row]), b.tree.Count(b.rowToCluster[col]))
}

// ConstructTree runs the construction on the loaded matrix: identical rows
// are coalesced first, then the globally cheapest pair is joined until two
// (rooted) or three (unrooted) clusters remain, which the finishing step
// joins under the root. The matrix is consumed; load a new one before the
// next call.
func (b *Builder) ConstructTree() (err error) {
	start := time.Now()
	taxa := 0
	defer func() {
		elapsed := time.Since(start)
		if err == nil {
			b.stats.Elapsed = elapsed
		}
		b.cfg.Metrics.observeConstruction(string(b.cfg.Algorithm), taxa, elapsed, err)
	}()

	if !b.loaded || b.matrix == nil {
		return fmt.Errorf("upgma: ConstructTree: %w", ErrNotLoaded)
	}
	taxa = b.matrix.Rows()

	b.threshold = 3
	if b.rooted {
		b.threshold = 2
	}
	b.logger.Debug("constructing tree",
		zap.String("algorithm", b.scanner.Name()),
		zap.Int("taxa", taxa),
		zap.Bool("rooted", b.rooted),
		zap.Int("workers", b.cfg.Workers),
	)

	if !b.cfg.DisableDuplicateCoalescing {
		b.clusterDuplicates()
	}

	n := float64(b.matrix.Rows())
	meter := newProgressMeter(b.cfg.Progress, "Constructing "+b.scanner.Name()+" tree", n*(n+1)*0.5)
	for b.matrix.Rows() > b.threshold {
		rows := b.matrix.Rows()
		minima := b.rowMinima[:rows]
		b.scanner.ScanRowMinima(b.matrix, b.rowToCluster, b.imbalance, minima)
		best, ok := bestPosition(minima)
		if !ok {
			panic(fmt.Sprintf("upgma: no candidate join among %d live rows", rows))
		}
		b.cluster(best.Column, best.Row)
		meter.add(float64(b.matrix.Rows()))
	}
	b.finishClustering()
	meter.done()
	b.loaded = false

	b.logger.Debug("tree constructed",
		zap.Int("taxa", taxa),
		zap.Int("joins", b.stats.Joins),
		zap.Int("duplicates", b.stats.DuplicatesCoalesced),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Build constructs a tree from names and a row-major n×n dissimilarity
// matrix in one call.
func Build(names []string, flat []float64, cfg Config) (*ClusterTree, error) {
	b, err := NewBuilder(cfg)
	if err != nil {
		return nil, err
	}
	if err := b.LoadMatrix(names, flat); err != nil {
		return nil, err
	}
	if err := b.ConstructTree(); err != nil {
		return nil, err
	}
	return b.Tree(), nil
}
