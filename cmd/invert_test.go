package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/geoinv/InputParameters"
	"github.com/notargets/geoinv/inversion"
	"github.com/notargets/geoinv/operators"
)

func testModel() *ModelGeostat {
	return &ModelGeostat{NX: 6, NY: 3, Size: [3]float64{60, 30, 30}}
}

func TestLoadMesh(t *testing.T) {
	mg := testModel()
	m, err := loadMesh(mg)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Dim())
	assert.Equal(t, 18, m.CellCount())

	mg.NZ = 2
	m, err = loadMesh(mg)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Dim())
	assert.Equal(t, 36, m.CellCount())

	mg.GridFile = "does_not_exist.su2"
	_, err = loadMesh(mg)
	assert.Error(t, err)
}

func TestInvertSynthetic(t *testing.T) {
	var (
		mg = testModel()
		ip = &InputParameters.GeostatParameters{
			I:      []float64{20, 10},
			Lambda: 1,
		}
	)
	m, C := buildConstraints(mg, ip)
	d := SyntheticField(m)
	require.Len(t, d, m.CellCount())

	res, err := inversion.Invert(operators.NewIdentity(m.CellCount()), C, d, ip.Lambda, ip.SolverSettings(false))
	require.NoError(t, err)
	// Regularization removes part of the alternating disturbance
	assert.Less(t, floats.Norm(res.X, 2), floats.Norm(d, 2))

	assert.NotPanics(t, func() { RunInvert(mg, ip) })
	assert.NotPanics(t, func() { RunGeostat(mg, ip) })
}
