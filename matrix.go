package upgma

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SquareMatrix is a dense symmetric dissimilarity matrix whose live rank
// shrinks as clusters are joined. Storage is one flat row-major arena with a
// fixed stride; row i lives at data[i*stride:]. Only rows and columns in
// [0, Rows()) are meaningful.
//
// Removing a row copies the last live row and column into the freed slot, so
// every index below Rows() always holds a live cluster and scans never need a
// liveness check.
type SquareMatrix struct {
	data     []float64
	stride   int
	rowCount int
}

// NewSquareMatrix allocates an n×n zero matrix.
func NewSquareMatrix(n int) *SquareMatrix {
	if n < 0 {
		n = 0
	}
	return &SquareMatrix{
		data:     make([]float64, n*n),
		stride:   n,
		rowCount: n,
	}
}

// Rows returns the number of live rows.
func (m *SquareMatrix) Rows() int { return m.rowCount }

// Row returns live row i, restricted to the live columns. The slice aliases
// the matrix.
func (m *SquareMatrix) Row(i int) []float64 {
	off := i * m.stride
	return m.data[off : off+m.rowCount : off+m.stride]
}

// At returns D[i][j].
func (m *SquareMatrix) At(i, j int) float64 { return m.data[i*m.stride+j] }

// SetSymmetric writes v to both D[i][j] and D[j][i].
func (m *SquareMatrix) SetSymmetric(i, j int, v float64) {
	m.data[i*m.stride+j] = v
	m.data[j*m.stride+i] = v
}

// loadFlat copies a row-major n×n matrix into m, which must have rank n.
// The lower triangle is checked against the upper triangle; D[i][j] and
// D[j][i] are both set to the lower-triangle value.
func (m *SquareMatrix) loadFlat(flat []float64, tolerance float64) error {
	n := m.stride
	if len(flat) != n*n {
		return fmt.Errorf("upgma: flat matrix length %d does not match n*n = %d (n=%d): %w",
			len(flat), n*n, n, ErrMatrixShape)
	}
	return m.load(func(i, j int) float64 { return flat[i*n+j] }, tolerance)
}

// loadSymmetric copies a gonum symmetric matrix into m.
func (m *SquareMatrix) loadSymmetric(s mat.Symmetric, tolerance float64) error {
	if s.SymmetricDim() != m.stride {
		return fmt.Errorf("upgma: symmetric matrix dimension %d does not match rank %d: %w",
			s.SymmetricDim(), m.stride, ErrMatrixShape)
	}
	return m.load(s.At, tolerance)
}

func (m *SquareMatrix) load(at func(i, j int) float64, tolerance float64) error {
	n := m.stride
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			lower := at(i, j)
			upper := at(j, i)
			if math.IsNaN(lower) || math.IsNaN(upper) {
				return fmt.Errorf("upgma: entry (%d,%d): %w", i, j, ErrNaN)
			}
			if !withinTolerance(lower, upper, tolerance) {
				return fmt.Errorf("upgma: entry (%d,%d)=%g but (%d,%d)=%g: %w",
					i, j, lower, j, i, upper, ErrAsymmetric)
			}
			if i == j {
				lower = 0
			}
			m.data[i*n+j] = lower
			m.data[j*n+i] = lower
		}
	}
	m.rowCount = n
	return nil
}

func withinTolerance(a, b, tolerance float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tolerance*scale
}

// RemoveRowAndColumn deletes live row and column r by moving the last live
// row and column into slot r.
func (m *SquareMatrix) RemoveRowAndColumn(r int) {
	last := m.rowCount - 1
	if r < 0 || r > last {
		panic(fmt.Sprintf("upgma: RemoveRowAndColumn(%d) with %d live rows", r, m.rowCount))
	}
	if r != last {
		s := m.stride
		// Column first: afterwards data[last][r] holds the old diagonal 0.
		for i := 0; i <= last; i++ {
			m.data[i*s+r] = m.data[i*s+last]
		}
		copy(m.data[r*s:r*s+last], m.data[last*s:last*s+last])
	}
	m.rowCount = last
}
