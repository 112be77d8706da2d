package operators

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/geoinv/geostat"
	"github.com/notargets/geoinv/utils"
)

// GeostatOptions configure the geostatistical constraints operator. Params
// are only used when the covariance matrix is built from a mesh.
type GeostatOptions struct {
	geostat.Params
	// WithRef keeps the reference model effect, no spur correction is applied
	WithRef bool
	Verbose bool
}

// GeostatisticConstraints is the regularization operator of Jordi et al.
// (2018), C^-1/2 with the remaining damping part removed:
//
//	M x = C^-1/2 x - spur * x,  spur = C^-1/2 * 1
//
// Jordi, C., Doetsch, J., Günther, T., Schmelzbach, C. & Robertsson, J.O.A.
// (2018): Geostatistical regularisation operators for geophysical inverse
// problems on irregular meshes. Geoph. J. Int. 213, 1374-1386,
// doi:10.1093/gji/ggy055.
type GeostatisticConstraints struct {
	nModel int
	cm05   *Cm05
	spur   []float64
}

// NewGeostatisticConstraints builds the operator from a covariance matrix.
func NewGeostatisticConstraints(CM mat.Matrix, opt GeostatOptions) (g *GeostatisticConstraints, err error) {
	var (
		cm05 *Cm05
		spur []float64
	)
	if cm05, err = NewCm05(CM, opt.Verbose); err != nil {
		return
	}
	if opt.WithRef {
		spur = make([]float64, cm05.Rows())
	} else if spur, err = cm05.Mult(utils.ConstArray(cm05.Rows(), 1.)); err != nil {
		return
	}
	g = &GeostatisticConstraints{
		nModel: cm05.Rows(),
		cm05:   cm05,
		spur:   spur,
	}
	return
}

// NewGeostatisticConstraintsFromMesh computes the covariance matrix of the
// mesh cell centers first.
func NewGeostatisticConstraintsFromMesh(m geostat.Mesh, opt GeostatOptions) (g *GeostatisticConstraints, err error) {
	var (
		CM *mat.SymDense
	)
	if CM, err = geostat.CovarianceMatrix(m, opt.Params, opt.Verbose); err != nil {
		return
	}
	if g, err = NewGeostatisticConstraints(CM, opt); err != nil {
		err = fmt.Errorf("geostatistic constraints from %d cells: %w", CM.SymmetricDim(), err)
	}
	return
}

func (g *GeostatisticConstraints) Rows() int   { return g.nModel }
func (g *GeostatisticConstraints) Cols() int   { return g.nModel }
func (g *GeostatisticConstraints) CM05() *Cm05 { return g.cm05 }

func (g *GeostatisticConstraints) Spur() []float64 {
	spur := make([]float64, len(g.spur))
	copy(spur, g.spur)
	return spur
}

func (g *GeostatisticConstraints) Mult(x []float64) (y []float64, err error) {
	if y, err = g.cm05.Mult(x); err != nil {
		return
	}
	g.correct(y, x)
	return
}

func (g *GeostatisticConstraints) TransMult(x []float64) (y []float64, err error) {
	if y, err = g.cm05.TransMult(x); err != nil {
		return
	}
	g.correct(y, x)
	return
}

// correct subtracts spur * x from y
func (g *GeostatisticConstraints) correct(y, x []float64) {
	for i, s := range g.spur {
		y[i] -= s * x[i]
	}
}
