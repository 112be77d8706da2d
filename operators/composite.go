package operators

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Add2 represents A + B.
type Add2 struct {
	A, B Operator
}

func NewAdd2(A, B Operator) (m *Add2, err error) {
	if A.Rows() != B.Rows() {
		err = &ShapeError{Op: "Add2 rows", Want: A.Rows(), Got: B.Rows()}
		return
	}
	if A.Cols() != B.Cols() {
		err = &ShapeError{Op: "Add2 cols", Want: A.Cols(), Got: B.Cols()}
		return
	}
	m = &Add2{A: A, B: B}
	return
}

func (m *Add2) Rows() int { return m.A.Rows() }
func (m *Add2) Cols() int { return m.A.Cols() }

func (m *Add2) Mult(x []float64) (y []float64, err error) {
	var yb []float64
	if y, err = m.A.Mult(x); err != nil {
		return
	}
	if yb, err = m.B.Mult(x); err != nil {
		return nil, err
	}
	floats.Add(y, yb)
	return
}

func (m *Add2) TransMult(x []float64) (y []float64, err error) {
	var yb []float64
	if y, err = m.A.TransMult(x); err != nil {
		return
	}
	if yb, err = m.B.TransMult(x); err != nil {
		return nil, err
	}
	floats.Add(y, yb)
	return
}

// Mult2 represents the product A * B.
type Mult2 struct {
	A, B Operator
}

func NewMult2(A, B Operator) (m *Mult2, err error) {
	if A.Cols() != B.Rows() {
		err = &ShapeError{Op: "Mult2 inner dimension", Want: A.Cols(), Got: B.Rows()}
		return
	}
	m = &Mult2{A: A, B: B}
	return
}

func (m *Mult2) Rows() int { return m.A.Rows() }
func (m *Mult2) Cols() int { return m.B.Cols() }

func (m *Mult2) Mult(x []float64) (y []float64, err error) {
	var bx []float64
	if bx, err = m.B.Mult(x); err != nil {
		return
	}
	return m.A.Mult(bx)
}

// TransMult applies B^T * A^T, the adjoint reverses the operand order.
func (m *Mult2) TransMult(x []float64) (y []float64, err error) {
	var atx []float64
	if atx, err = m.A.TransMult(x); err != nil {
		return
	}
	return m.B.TransMult(atx)
}

// Chain multiplies any number of operators left to right, A0 * A1 * ... * An.
func Chain(ops ...Operator) (m Operator, err error) {
	if len(ops) == 0 {
		err = fmt.Errorf("chain needs at least one operator")
		return
	}
	m = ops[len(ops)-1]
	for i := len(ops) - 2; i >= 0; i-- {
		if m, err = NewMult2(ops[i], m); err != nil {
			return nil, fmt.Errorf("chain position %d: %w", i, err)
		}
	}
	return
}

// Diagonal is the square matrix with d on its main diagonal.
type Diagonal struct {
	d []float64
}

func NewDiagonal(d []float64) *Diagonal { return &Diagonal{d: d} }

func (m *Diagonal) Diag() []float64 { return m.d }
func (m *Diagonal) Rows() int       { return len(m.d) }
func (m *Diagonal) Cols() int       { return len(m.d) }

func (m *Diagonal) Mult(x []float64) (y []float64, err error) {
	if err = checkLen("Diagonal.Mult", x, len(m.d)); err != nil {
		return
	}
	y = make([]float64, len(x))
	floats.MulTo(y, x, m.d)
	return
}

// TransMult equals Mult, a diagonal matrix is its own transpose.
func (m *Diagonal) TransMult(x []float64) ([]float64, error) {
	return m.Mult(x)
}
