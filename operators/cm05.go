package operators

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/geoinv/utils"
)

// Cm05 implicitly represents the inverse square root A^-1/2 of a symmetric
// positive definite matrix A. The eigendecomposition A = EV diag(ew) EV^T is
// computed once at construction and never changes, every product afterwards costs O(n^2):
//
//	A^-1/2 x = EV diag(1/sqrt(ew)) EV^T x
type Cm05 struct {
	size int
	ew   []float64
	ev   *mat.Dense
	mul  []float64
}

// NewCm05 decomposes A, which must be square, symmetric and positive definite.
func NewCm05(A mat.Matrix, verbose bool) (c *Cm05, err error) {
	var (
		nr, nc = A.Dims()
		S      mat.Symmetric
		es     mat.EigenSym
		t      = time.Now()
	)
	if !utils.IsSquare(A) {
		err = fmt.Errorf("matrix must be square (and symmetric): %w",
			&ShapeError{Op: "Cm05", Want: nr, Got: nc})
		return
	}
	if !utils.IsSymmetric(A, utils.SYMTOL) {
		err = ErrNotSymmetric
		return
	}
	if S, err = utils.SymmetricOf(A); err != nil {
		return
	}
	if !es.Factorize(S, true) {
		err = fmt.Errorf("eigenvalue decomposition failed")
		return
	}
	c = &Cm05{
		size: nr,
		ew:   es.Values(nil),
		ev:   mat.NewDense(nr, nr, nil),
		mul:  make([]float64, nr),
	}
	es.VectorsTo(c.ev)
	for i, ew := range c.ew {
		if !(ew > 0) {
			return nil, fmt.Errorf("eigenvalue %d is %g: %w", i, ew, ErrNotPositiveDefinite)
		}
		c.mul[i] = math.Sqrt(1. / ew)
	}
	if verbose {
		fmt.Printf("(C) Time for eigenvalue decomposition: %.1fs\n", time.Since(t).Seconds())
	}
	return
}

func (c *Cm05) Rows() int { return c.size }
func (c *Cm05) Cols() int { return c.size }

// Eigenvalues returns the eigenvalues of A in ascending order.
func (c *Cm05) Eigenvalues() []float64 {
	ew := make([]float64, len(c.ew))
	copy(ew, c.ew)
	return ew
}

// EigenVectors returns a copy of the eigenvectors of A, column i belongs to
// eigenvalue i.
func (c *Cm05) EigenVectors() *mat.Dense {
	return mat.DenseCopyOf(c.ev)
}

func (c *Cm05) Mult(x []float64) (y []float64, err error) {
	if err = checkLen("Cm05.Mult", x, c.size); err != nil {
		return
	}
	var (
		part1 = make([]float64, c.size)
		p1v   = mat.NewVecDense(c.size, part1)
	)
	// project onto the eigenbasis, scale, project back
	p1v.MulVec(c.ev.T(), mat.NewVecDense(c.size, x))
	floats.Mul(part1, c.mul)
	y = make([]float64, c.size)
	mat.NewVecDense(c.size, y).MulVec(c.ev, p1v)
	return
}

// TransMult equals Mult, A^-1/2 is symmetric.
func (c *Cm05) TransMult(x []float64) ([]float64, error) {
	return c.Mult(x)
}
