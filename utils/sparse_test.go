package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDOK(t *testing.T) {
	// Triplets with a repeated coordinate
	R, err := NewDOKFromArrays(2, 3,
		[]int{0, 1, 0, 1},
		[]int{2, 0, 0, 0},
		[]float64{3, 1, 2, 4})
	require.NoError(t, err)
	nr, nc := R.Dims()
	assert.Equal(t, 2, nr)
	assert.Equal(t, 3, nc)
	assert.Equal(t, 5., R.At(1, 0))
	assert.Equal(t, 3, R.NNZ())
	assert.True(t, mat.Equal(R, mat.NewDense(2, 3, []float64{
		2, 0, 3,
		5, 0, 0,
	})))

	vals, rows, cols := R.FillArrays()
	assert.Equal(t, []float64{2, 5, 3}, vals)
	assert.Equal(t, []int{0, 1, 0}, rows)
	assert.Equal(t, []int{0, 0, 2}, cols)

	RT := R.Transpose()
	nr, nc = RT.Dims()
	assert.Equal(t, 3, nr)
	assert.Equal(t, 2, nc)
	assert.True(t, mat.Equal(RT, R.T()))
	assert.True(t, mat.Equal(R, R.ToCSR()))

	R.Set(1, 2, 7)
	assert.Equal(t, 7., R.At(1, 2))
	R.SetReadOnly("R")
	assert.PanicsWithError(t, `attempt to write to a read only matrix named: "R"`,
		func() { R.Set(0, 1, 1) })
	// A read only source still transposes into a writable copy
	RT = R.Transpose()
	assert.NotPanics(t, func() { RT.Set(0, 0, 1) })

	_, err = NewDOKFromArrays(2, 2, []int{0}, []int{0, 1}, []float64{1})
	assert.Error(t, err)
	_, err = NewDOKFromArrays(2, 2, []int{2}, []int{0}, []float64{1})
	assert.Error(t, err)
}
