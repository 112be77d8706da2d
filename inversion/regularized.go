package inversion

import (
	"fmt"
	"math"

	"github.com/notargets/geoinv/operators"
	"github.com/notargets/geoinv/utils"
)

// RegularizedSystem stacks the forward operator G on top of the weighted
// constraints, so that ||b - Ax||^2 = ||d - Gm||^2 + lambda ||Cm||^2:
//
//	A = [ G            ]    b = [ d ]
//	    [ sqrt(lambda)C ]        [ 0 ]
func RegularizedSystem(G, C operators.Operator, lambda float64, d []float64) (A *operators.BlockMatrix, b []float64, err error) {
	if C.Cols() != G.Cols() {
		err = fmt.Errorf("constraints do not fit the model: %w",
			&operators.ShapeError{Op: "RegularizedSystem", Want: G.Cols(), Got: C.Cols()})
		return
	}
	if len(d) != G.Rows() {
		err = &operators.ShapeError{Op: "RegularizedSystem data", Want: G.Rows(), Got: len(d)}
		return
	}
	if lambda < 0 {
		err = fmt.Errorf("regularization strength must not be negative, is %g", lambda)
		return
	}
	A = operators.NewBlockMatrix()
	if _, err = A.AddMatrix(G, operators.At(0, 0)); err != nil {
		return
	}
	if _, err = A.AddMatrix(C, operators.At(G.Rows(), 0), operators.WithScale(math.Sqrt(lambda))); err != nil {
		return
	}
	b = utils.VecConcat(d, make([]float64, C.Rows()))
	return
}

// Invert solves min ||d - Gm||^2 + lambda ||Cm||^2 for m.
func Invert(G, C operators.Operator, d []float64, lambda float64, settings Settings) (res Result, err error) {
	var (
		A *operators.BlockMatrix
		b []float64
	)
	if A, b, err = RegularizedSystem(G, C, lambda, d); err != nil {
		return
	}
	return CGLS(A, b, settings)
}
