package operators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/geoinv/utils"
)

func newTestDense(nr, nc int, data []float64) *Dense {
	return NewDense(mat.NewDense(nr, nc, data))
}

// denseMult is the reference product computed with gonum directly
func denseMult(M mat.Matrix, x []float64, trans bool) []float64 {
	var y mat.VecDense
	if trans {
		M = M.T()
	}
	y.MulVec(M, mat.NewVecDense(len(x), x))
	return y.RawVector().Data
}

func TestDense(t *testing.T) {
	A := newTestDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	assert.Equal(t, 2, A.Rows())
	assert.Equal(t, 3, A.Cols())
	y, err := A.Mult([]float64{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 15}, y)
	y, err = A.TransMult([]float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 12, 15}, y)
}

func TestAdd2(t *testing.T) {
	A := newTestDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	B := newTestDense(2, 3, []float64{
		-1, 0, 2,
		3, 1, -2,
	})
	M, err := NewAdd2(A, B)
	require.NoError(t, err)
	assert.Equal(t, 2, M.Rows())
	assert.Equal(t, 3, M.Cols())
	x := []float64{0.5, -1, 2}
	y, err := M.Mult(x)
	require.NoError(t, err)
	ya, _ := A.Mult(x)
	yb, _ := B.Mult(x)
	floats.Add(ya, yb)
	assert.InDeltaSlice(t, ya, y, 1e-14)

	xt := []float64{3, -2}
	y, err = M.TransMult(xt)
	require.NoError(t, err)
	ya, _ = A.TransMult(xt)
	yb, _ = B.TransMult(xt)
	floats.Add(ya, yb)
	assert.InDeltaSlice(t, ya, y, 1e-14)

	// Incompatible shapes are refused at construction
	_, err = NewAdd2(A, newTestDense(3, 2, make([]float64, 6)))
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestMult2(t *testing.T) {
	Am := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	Bm := mat.NewDense(3, 2, []float64{
		1, -1,
		0, 2,
		3, 1,
	})
	M, err := NewMult2(NewDense(Am), NewDense(Bm))
	require.NoError(t, err)
	assert.Equal(t, 2, M.Rows())
	assert.Equal(t, 2, M.Cols())

	var AB mat.Dense
	AB.Mul(Am, Bm)
	x := []float64{2, -3}
	y, err := M.Mult(x)
	require.NoError(t, err)
	assert.InDeltaSlice(t, denseMult(&AB, x, false), y, 1e-13)

	// The adjoint of a product reverses the order: B^T (A^T x)
	xt := []float64{1, 0.5}
	y, err = M.TransMult(xt)
	require.NoError(t, err)
	atx, _ := M.A.TransMult(xt)
	want, _ := M.B.TransMult(atx)
	assert.InDeltaSlice(t, want, y, 1e-14)
	assert.InDeltaSlice(t, denseMult(&AB, xt, true), y, 1e-13)

	_, err = NewMult2(NewDense(Am), NewDense(Am))
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestChain(t *testing.T) {
	D1 := NewDiagonal([]float64{1, 2})
	D2 := NewDiagonal([]float64{3, 4})
	D3 := NewDiagonal([]float64{-1, 0.5})
	M, err := Chain(D1, D2, D3)
	require.NoError(t, err)
	y, err := M.Mult([]float64{1, 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-3, 4}, y, 1e-14)

	_, err = Chain()
	assert.Error(t, err)
	_, err = Chain(D1, NewDiagonal([]float64{1, 2, 3}))
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestDiagonal(t *testing.T) {
	d := []float64{2, -1, 0.5, 4}
	D := NewDiagonal(d)
	assert.Equal(t, 4, D.Rows())
	assert.Equal(t, 4, D.Cols())
	x := []float64{1, 2, 3, 4}
	y, err := D.Mult(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, -2, 1.5, 16}, y)
	yt, err := D.TransMult(x)
	require.NoError(t, err)
	assert.Equal(t, y, yt)
	// input is not changed
	assert.Equal(t, []float64{1, 2, 3, 4}, x)
}

func TestIdentity(t *testing.T) {
	I := NewIdentity(3)
	x := []float64{1, 2, 3}
	y, err := I.Mult(x)
	require.NoError(t, err)
	assert.Equal(t, x, y)
	y[0] = 10
	assert.Equal(t, 1., x[0])
}

func TestSparse(t *testing.T) {
	// 3 x 4 with a duplicated entry at (0,1)
	S, err := NewSparseFromArrays(3, 4,
		[]int{0, 0, 1, 2, 0},
		[]int{1, 3, 0, 2, 1},
		[]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 3, S.Rows())
	assert.Equal(t, 4, S.Cols())
	assert.Equal(t, 6., S.At(0, 1))
	ref := mat.NewDense(3, 4, []float64{
		0, 6, 0, 2,
		3, 0, 0, 0,
		0, 0, 4, 0,
	})
	x := []float64{1, -1, 2, 0.5}
	y, err := S.Mult(x)
	require.NoError(t, err)
	assert.InDeltaSlice(t, denseMult(ref, x, false), y, 1e-14)
	xt := []float64{1, 2, 3}
	y, err = S.TransMult(xt)
	require.NoError(t, err)
	assert.InDeltaSlice(t, denseMult(ref, xt, true), y, 1e-14)

	St := S.Transpose()
	assert.Equal(t, 4, St.Rows())
	assert.Equal(t, 3, St.Cols())
	y, err = St.Mult(xt)
	require.NoError(t, err)
	assert.InDeltaSlice(t, denseMult(ref, xt, true), y, 1e-14)

	_, err = NewSparseFromArrays(2, 2, []int{2}, []int{0}, []float64{1})
	assert.Error(t, err)

	// The source dictionary is frozen once compressed
	D := utils.NewDOK(2, 2)
	D.Set(0, 1, 3)
	S = NewSparse(&D)
	assert.Panics(t, func() { D.Set(1, 1, 1) })
	y, err = S.Mult([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 0}, y)
}

func TestScaling(t *testing.T) {
	A := newTestDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	left := []float64{2, -1}
	right := []float64{1, 0.5, -2}
	x := []float64{1, 2, 3}
	xt := []float64{1, -1}
	// Reference values from explicit diagonal matrices
	L := mat.NewDiagDense(2, left)
	R := mat.NewDiagDense(3, right)
	var LA, AR, LAR mat.Dense
	LA.Mul(L, A.M)
	AR.Mul(A.M, R)
	LAR.Mul(&LA, R)

	// MultLeft
	{
		M, err := NewMultLeft(A, VectorScaling(left))
		require.NoError(t, err)
		y, err := M.Mult(x)
		require.NoError(t, err)
		assert.InDeltaSlice(t, denseMult(&LA, x, false), y, 1e-13)
		y, err = M.TransMult(xt)
		require.NoError(t, err)
		assert.InDeltaSlice(t, denseMult(&LA, xt, true), y, 1e-13)
		assert.Equal(t, []float64{1, -1}, xt)

		_, err = NewMultLeft(A, VectorScaling(right))
		assert.True(t, errors.Is(err, ErrShapeMismatch))
	}
	// MultRight
	{
		M, err := NewMultRight(A, VectorScaling(right))
		require.NoError(t, err)
		y, err := M.Mult(x)
		require.NoError(t, err)
		assert.InDeltaSlice(t, denseMult(&AR, x, false), y, 1e-13)
		assert.Equal(t, []float64{1, 2, 3}, x)
		y, err = M.TransMult(xt)
		require.NoError(t, err)
		assert.InDeltaSlice(t, denseMult(&AR, xt, true), y, 1e-13)

		_, err = NewMultRight(A, VectorScaling(left))
		assert.True(t, errors.Is(err, ErrShapeMismatch))
	}
	// MultRight without a right vector is the identity scaling
	{
		M, err := NewMultRight(A, Scaling{})
		require.NoError(t, err)
		y, err := M.Mult(x)
		require.NoError(t, err)
		ya, _ := A.Mult(x)
		assert.Equal(t, ya, y)
		assert.False(t, M.Right().IsVector())
		assert.Equal(t, 1., M.Right().Scalar())
	}
	// MultLeftRight
	{
		M, err := NewMultLeftRight(A, VectorScaling(left), VectorScaling(right))
		require.NoError(t, err)
		y, err := M.Mult(x)
		require.NoError(t, err)
		assert.InDeltaSlice(t, denseMult(&LAR, x, false), y, 1e-13)
		y, err = M.TransMult(xt)
		require.NoError(t, err)
		assert.InDeltaSlice(t, denseMult(&LAR, xt, true), y, 1e-13)

		_, err = NewMultLeftRight(A, VectorScaling(right), VectorScaling(left))
		assert.True(t, errors.Is(err, ErrShapeMismatch))
		_, err = NewMultLeftRight(A, VectorScaling(left), VectorScaling(left))
		assert.True(t, errors.Is(err, ErrShapeMismatch))
	}
	// Scalar factors
	{
		M, err := NewMultLeftRight(A, ScalarScaling(2), ScalarScaling(-0.5))
		require.NoError(t, err)
		y, err := M.Mult(x)
		require.NoError(t, err)
		ya, _ := A.Mult(x)
		floats.Scale(-1, ya)
		assert.InDeltaSlice(t, ya, y, 1e-14)
	}
}

func TestShapeMismatch(t *testing.T) {
	A := newTestDense(2, 3, make([]float64, 6))
	ml, _ := NewMultLeft(A, VectorScaling([]float64{1, 1}))
	mr, _ := NewMultRight(A, Scaling{})
	mlr, _ := NewMultLeftRight(A, Scaling{}, Scaling{})
	add, _ := NewAdd2(A, A)
	prod, _ := NewMult2(A, newTestDense(3, 3, make([]float64, 9)))
	S, _ := NewSparseFromArrays(2, 3, []int{0}, []int{0}, []float64{1})
	bm, _ := NewBlockDiagonal(A, A)
	ops := map[string]Operator{
		"Dense":         A,
		"Sparse":        S,
		"Identity":      NewIdentity(3),
		"Diagonal":      NewDiagonal([]float64{1, 2, 3}),
		"MultLeft":      ml,
		"MultRight":     mr,
		"MultLeftRight": mlr,
		"Add2":          add,
		"Mult2":         prod,
		"BlockMatrix":   bm,
	}
	for name, op := range ops {
		_, err := op.Mult(make([]float64, op.Cols()+1))
		assert.Truef(t, errors.Is(err, ErrShapeMismatch), "%s.Mult: %v", name, err)
		_, err = op.TransMult(make([]float64, op.Rows()+1))
		assert.Truef(t, errors.Is(err, ErrShapeMismatch), "%s.TransMult: %v", name, err)
	}
	var se *ShapeError
	_, err := A.Mult([]float64{1})
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 3, se.Want)
	assert.Equal(t, 1, se.Got)
}
