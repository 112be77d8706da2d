package operators

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/geoinv/utils"
)

// Dense is a terminal operator backed by any gonum matrix.
type Dense struct {
	M mat.Matrix
}

func NewDense(M mat.Matrix) *Dense { return &Dense{M: M} }

func (d *Dense) Rows() int { nr, _ := d.M.Dims(); return nr }
func (d *Dense) Cols() int { _, nc := d.M.Dims(); return nc }

func (d *Dense) Mult(x []float64) (y []float64, err error) {
	if err = checkLen("Dense.Mult", x, d.Cols()); err != nil {
		return
	}
	y = make([]float64, d.Rows())
	yv := mat.NewVecDense(len(y), y)
	yv.MulVec(d.M, mat.NewVecDense(len(x), x))
	return
}

func (d *Dense) TransMult(x []float64) (y []float64, err error) {
	if err = checkLen("Dense.TransMult", x, d.Rows()); err != nil {
		return
	}
	y = make([]float64, d.Cols())
	yv := mat.NewVecDense(len(y), y)
	yv.MulVec(d.M.T(), mat.NewVecDense(len(x), x))
	return
}

// Sparse is a terminal operator backed by a compressed sparse row matrix.
// The dictionary form is kept for structure queries such as transposition.
type Sparse struct {
	dok    utils.DOK
	csr    *sparse.CSR
	nr, nc int
}

// NewSparse compresses the DOK for repeated products and marks it read only,
// later writes to it panic instead of silently diverging from the operator.
func NewSparse(M *utils.DOK) *Sparse {
	nr, nc := M.Dims()
	M.SetReadOnly("sparse operator")
	return &Sparse{
		dok: *M,
		csr: M.ToCSR(),
		nr:  nr,
		nc:  nc,
	}
}

// NewSparseFromArrays builds an nr x nc sparse operator from coordinate triplets.
func NewSparseFromArrays(nr, nc int, rows, cols []int, vals []float64) (s *Sparse, err error) {
	var M utils.DOK
	if M, err = utils.NewDOKFromArrays(nr, nc, rows, cols, vals); err != nil {
		return
	}
	s = NewSparse(&M)
	return
}

func (s *Sparse) Rows() int           { return s.nr }
func (s *Sparse) Cols() int           { return s.nc }
func (s *Sparse) At(i, j int) float64 { return s.csr.At(i, j) }

func (s *Sparse) FillArrays() (vals []float64, rows, cols []int) {
	return s.dok.FillArrays()
}

// Transpose builds the explicit transpose by swapping the index arrays.
func (s *Sparse) Transpose() *Sparse {
	T := s.dok.Transpose()
	return NewSparse(&T)
}

func (s *Sparse) Mult(x []float64) (y []float64, err error) {
	if err = checkLen("Sparse.Mult", x, s.nc); err != nil {
		return
	}
	y = make([]float64, s.nr)
	s.csr.DoNonZero(func(i, j int, v float64) {
		y[i] += v * x[j]
	})
	return
}

func (s *Sparse) TransMult(x []float64) (y []float64, err error) {
	if err = checkLen("Sparse.TransMult", x, s.nr); err != nil {
		return
	}
	y = make([]float64, s.nc)
	s.csr.DoNonZero(func(i, j int, v float64) {
		y[j] += v * x[i]
	})
	return
}

// Identity is the n x n identity operator.
type Identity struct {
	n int
}

func NewIdentity(n int) *Identity { return &Identity{n: n} }

func (id *Identity) Rows() int { return id.n }
func (id *Identity) Cols() int { return id.n }

func (id *Identity) Mult(x []float64) (y []float64, err error) {
	if err = checkLen("Identity.Mult", x, id.n); err != nil {
		return
	}
	y = make([]float64, id.n)
	copy(y, x)
	return
}

func (id *Identity) TransMult(x []float64) ([]float64, error) {
	return id.Mult(x)
}
