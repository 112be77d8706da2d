// Package operators provides implicit linear operators for regularized
// geophysical inversion. An operator only knows its shape and how to apply
// itself and its adjoint to a vector, so sums, products, scalings and block
// layouts of large or dense matrices can be combined without being formed.
//
// Operators are immutable once constructed, with the exception of BlockMatrix
// during its build phase, and may be applied repeatedly by an iterative solver.
package operators

import (
	"errors"
	"fmt"
)

// Operator is the capability set shared by every matrix in this package.
// Mult maps a vector of length Cols() to one of length Rows(), TransMult maps
// a vector of length Rows() to one of length Cols(). The input is never
// modified and the result is always a newly allocated slice.
type Operator interface {
	Rows() int
	Cols() int
	Mult(x []float64) ([]float64, error)
	TransMult(x []float64) ([]float64, error)
}

// TripletSource is implemented by sparse operators able to expose their
// non-zero structure, which is what allows an explicit transpose.
type TripletSource interface {
	FillArrays() (vals []float64, rows, cols []int)
}

var (
	ErrShapeMismatch        = errors.New("shape mismatch")
	ErrUnsupportedTranspose = errors.New("unsupported transpose")
	ErrNotPositiveDefinite  = errors.New("matrix is not positive definite")
	ErrNotSymmetric         = errors.New("matrix is not symmetric")
	ErrUnknownBlock         = errors.New("unknown block id")
)

// ShapeError reports an operand dimension that does not fit. It matches
// ErrShapeMismatch with errors.Is.
type ShapeError struct {
	Op        string
	Want, Got int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s, want %d, got %d", e.Op, ErrShapeMismatch, e.Want, e.Got)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShapeMismatch }

func checkLen(op string, x []float64, want int) error {
	if len(x) != want {
		return &ShapeError{Op: op, Want: want, Got: len(x)}
	}
	return nil
}
