package upgma

import "fmt"

// Algorithm selects the candidate-join scanner.
type Algorithm string

const (
	AlgorithmUPGMA           Algorithm = "UPGMA"
	AlgorithmVectorizedUPGMA Algorithm = "UPGMA-V"
)

// AlgorithmInfo describes a registered algorithm.
type AlgorithmInfo struct {
	Name        Algorithm
	Description string
}

var algorithms = []AlgorithmInfo{
	{AlgorithmUPGMA, "UPGMA (Sokal, Michener [1958])"},
	{AlgorithmVectorizedUPGMA, "Vectorized UPGMA (Sokal, Michener [1958])"},
}

// Algorithms lists the available algorithms in a stable order.
func Algorithms() []AlgorithmInfo {
	out := make([]AlgorithmInfo, len(algorithms))
	copy(out, algorithms)
	return out
}

// newScanner returns the scanner for cfg.Algorithm. cfg must have had its
// defaults applied.
func newScanner(cfg Config) (Scanner, error) {
	switch cfg.Algorithm {
	case AlgorithmUPGMA:
		return scalarScanner{workers: cfg.Workers, parallelThreshold: cfg.ParallelThreshold}, nil
	case AlgorithmVectorizedUPGMA:
		return laneScanner{workers: cfg.Workers, parallelThreshold: cfg.ParallelThreshold}, nil
	default:
		return nil, fmt.Errorf("upgma: invalid Algorithm %q", cfg.Algorithm)
	}
}
