package operators

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Scaling is either a scalar or a vector factor applied elementwise to one
// side of an operator. The zero value is the scalar 1 (identity scaling).
type Scaling struct {
	scalar float64
	vec    []float64
	isVec  bool
	isSet  bool
}

func ScalarScaling(a float64) Scaling { return Scaling{scalar: a, isSet: true} }

func VectorScaling(v []float64) Scaling { return Scaling{vec: v, isVec: true, isSet: true} }

func (s Scaling) IsVector() bool { return s.isVec }

// Scalar returns the scalar factor, 1 for the zero value.
func (s Scaling) Scalar() float64 {
	if !s.isSet {
		return 1
	}
	return s.scalar
}

func (s Scaling) Vector() []float64 { return s.vec }

func (s Scaling) check(op string, n int) error {
	if s.isVec {
		return checkLen(op, s.vec, n)
	}
	return nil
}

// apply scales x in place
func (s Scaling) apply(x []float64) {
	switch {
	case s.isVec:
		floats.Mul(x, s.vec)
	case s.isSet && s.scalar != 1:
		floats.Scale(s.scalar, x)
	}
}

// applied returns a scaled copy of x
func (s Scaling) applied(x []float64) []float64 {
	y := make([]float64, len(x))
	copy(y, x)
	s.apply(y)
	return y
}

// MultLeft represents diag(left) * A.
type MultLeft struct {
	a    Operator
	left Scaling
}

func NewMultLeft(A Operator, left Scaling) (m *MultLeft, err error) {
	if err = left.check("MultLeft", A.Rows()); err != nil {
		err = fmt.Errorf("matrix rows do not fit left vector length: %w", err)
		return
	}
	m = &MultLeft{a: A, left: left}
	return
}

func (m *MultLeft) A() Operator   { return m.a }
func (m *MultLeft) Left() Scaling { return m.left }
func (m *MultLeft) Rows() int     { return m.a.Rows() }
func (m *MultLeft) Cols() int     { return m.a.Cols() }

func (m *MultLeft) Mult(x []float64) (y []float64, err error) {
	if y, err = m.a.Mult(x); err != nil {
		return
	}
	m.left.apply(y)
	return
}

func (m *MultLeft) TransMult(x []float64) (y []float64, err error) {
	if err = checkLen("MultLeft.TransMult", x, m.Rows()); err != nil {
		return
	}
	return m.a.TransMult(m.left.applied(x))
}

// MultRight represents A * diag(right).
type MultRight struct {
	a     Operator
	right Scaling
}

// NewMultRight wraps A, a zero Scaling means a right vector of ones.
func NewMultRight(A Operator, right Scaling) (m *MultRight, err error) {
	if err = right.check("MultRight", A.Cols()); err != nil {
		err = fmt.Errorf("matrix columns do not fit right vector length: %w", err)
		return
	}
	m = &MultRight{a: A, right: right}
	return
}

func (m *MultRight) A() Operator    { return m.a }
func (m *MultRight) Right() Scaling { return m.right }
func (m *MultRight) Rows() int      { return m.a.Rows() }
func (m *MultRight) Cols() int      { return m.a.Cols() }

func (m *MultRight) Mult(x []float64) (y []float64, err error) {
	if err = checkLen("MultRight.Mult", x, m.Cols()); err != nil {
		return
	}
	return m.a.Mult(m.right.applied(x))
}

func (m *MultRight) TransMult(x []float64) (y []float64, err error) {
	if y, err = m.a.TransMult(x); err != nil {
		return
	}
	m.right.apply(y)
	return
}

// MultLeftRight represents diag(left) * A * diag(right).
type MultLeftRight struct {
	a           Operator
	left, right Scaling
}

func NewMultLeftRight(A Operator, left, right Scaling) (m *MultLeftRight, err error) {
	if err = right.check("MultLeftRight", A.Cols()); err != nil {
		err = fmt.Errorf("matrix columns do not fit right vector length: %w", err)
		return
	}
	if err = left.check("MultLeftRight", A.Rows()); err != nil {
		err = fmt.Errorf("matrix rows do not fit left vector length: %w", err)
		return
	}
	m = &MultLeftRight{a: A, left: left, right: right}
	return
}

func (m *MultLeftRight) A() Operator    { return m.a }
func (m *MultLeftRight) Left() Scaling  { return m.left }
func (m *MultLeftRight) Right() Scaling { return m.right }
func (m *MultLeftRight) Rows() int      { return m.a.Rows() }
func (m *MultLeftRight) Cols() int      { return m.a.Cols() }

func (m *MultLeftRight) Mult(x []float64) (y []float64, err error) {
	if err = checkLen("MultLeftRight.Mult", x, m.Cols()); err != nil {
		return
	}
	if y, err = m.a.Mult(m.right.applied(x)); err != nil {
		return
	}
	m.left.apply(y)
	return
}

func (m *MultLeftRight) TransMult(x []float64) (y []float64, err error) {
	if err = checkLen("MultLeftRight.TransMult", x, m.Rows()); err != nil {
		return
	}
	if y, err = m.a.TransMult(m.left.applied(x)); err != nil {
		return
	}
	m.right.apply(y)
	return
}
