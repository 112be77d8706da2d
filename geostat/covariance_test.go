package geostat

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestModel(t *testing.T) {
	for _, tc := range []struct {
		label string
		want  Model
	}{
		{"", Exponential},
		{"exp", Exponential},
		{" Gauss ", Gaussian},
		{"spherical", Spherical},
	} {
		m, err := NewModel(tc.label)
		require.NoError(t, err)
		assert.Equal(t, tc.want, m)
	}
	_, err := NewModel("matern")
	assert.True(t, errors.Is(err, ErrInvalidParams))

	for _, m := range []Model{Exponential, Gaussian, Spherical} {
		assert.Equal(t, 1., m.Correlation(0), m.String())
		assert.Less(t, m.Correlation(0.5), 1., m.String())
	}
	assert.InDelta(t, math.Exp(-2), Exponential.Correlation(2), 1e-15)
	assert.InDelta(t, math.Exp(-4), Gaussian.Correlation(2), 1e-15)
	assert.InDelta(t, 0.3125, Spherical.Correlation(0.5), 1e-15)
	assert.Equal(t, 0., Spherical.Correlation(1.5))
}

func TestLengths(t *testing.T) {
	I, err := Params{I: []float64{4}}.Lengths(2)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{4, 4, 4}, I)

	I, err = Params{I: []float64{4, 2}}.Lengths(2)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{4, 2, 2}, I)

	I, err = Params{I: []float64{4, 2}}.Lengths(3)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{4, 4, 2}, I)

	I, err = Params{I: []float64{4, 3, 2}}.Lengths(3)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{4, 3, 2}, I)

	for _, p := range []Params{
		{},
		{I: []float64{1, 2, 3, 4}},
		{I: []float64{1, 0}},
		{I: []float64{-1}},
	} {
		_, err = p.Lengths(3)
		assert.True(t, errors.Is(err, ErrInvalidParams), "%v", p.I)
	}
}

func TestDistance(t *testing.T) {
	var (
		a = r3.Vec{}
		b = r3.Vec{X: 10}
	)
	// Anisotropic lengths along the unrotated axes
	p := Params{I: []float64{10, 2}}
	h, err := p.Distance(2, a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1., h, 1e-14)
	h, err = p.Distance(2, a, r3.Vec{Y: 10})
	require.NoError(t, err)
	assert.InDelta(t, 5., h, 1e-14)

	// A 90 degree dip swaps the 2D axes
	p.Dip = 90
	h, err = p.Distance(2, a, b)
	require.NoError(t, err)
	assert.InDelta(t, 5., h, 1e-12)

	// In 3D dip tilts x toward z, strike turns x toward y
	p = Params{I: []float64{10, 5, 2}, Dip: 90}
	h, err = p.Distance(3, a, r3.Vec{Z: 10})
	require.NoError(t, err)
	assert.InDelta(t, 1., h, 1e-12)
	p = Params{I: []float64{10, 5, 2}, Strike: 90}
	h, err = p.Distance(3, a, r3.Vec{Y: 10})
	require.NoError(t, err)
	assert.InDelta(t, 1., h, 1e-12)
}

type lineMesh []r3.Vec

func (l lineMesh) Dim() int              { return 1 }
func (l lineMesh) CellCenters() []r3.Vec { return l }

func TestCovarianceMatrix(t *testing.T) {
	var (
		m = lineMesh{{X: 0}, {X: 1}, {X: 3}}
		p = Params{I: []float64{2}, Variance: 4}
	)
	CM, err := CovarianceMatrix(m, p, false)
	require.NoError(t, err)
	require.Equal(t, 3, CM.SymmetricDim())
	for i := 0; i < 3; i++ {
		assert.Equal(t, 4., CM.At(i, i))
	}
	assert.InDelta(t, 4*math.Exp(-0.5), CM.At(0, 1), 1e-14)
	assert.InDelta(t, 4*math.Exp(-1.5), CM.At(2, 0), 1e-14)
	assert.InDelta(t, 4*math.Exp(-1), CM.At(1, 2), 1e-14)

	// Default variance is one
	p.Variance = 0
	CM, err = CovarianceMatrix(m, p, false)
	require.NoError(t, err)
	assert.Equal(t, 1., CM.At(1, 1))

	_, err = CovarianceMatrixPos(nil, 2, p)
	assert.True(t, errors.Is(err, ErrInvalidParams))
	_, err = CovarianceMatrix(m, Params{}, false)
	assert.True(t, errors.Is(err, ErrInvalidParams))
}

func TestCovarianceMatrixParallel(t *testing.T) {
	var (
		pos = make([]r3.Vec, 37)
	)
	for i := range pos {
		pos[i] = r3.Vec{X: float64(i % 7), Y: float64(i / 7), Z: 0.5 * float64(i%3)}
	}
	p := Params{I: []float64{3, 2, 1}, Dip: 20, Strike: 40, Model: Spherical, ProcLimit: 1}
	serial, err := CovarianceMatrixPos(pos, 3, p)
	require.NoError(t, err)
	for _, np := range []int{2, 5, 64} {
		p.ProcLimit = np
		CM, err := CovarianceMatrixPos(pos, 3, p)
		require.NoError(t, err)
		assert.Equal(t, serial.RawSymmetric().Data, CM.RawSymmetric().Data, "procLimit %d", np)
	}
}
