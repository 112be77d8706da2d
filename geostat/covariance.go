// Package geostat builds covariance matrices of model cells from their
// positions, using stationary correlation models with rotated, possibly
// anisotropic correlation lengths.
package geostat

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/geoinv/utils"
)

var ErrInvalidParams = errors.New("invalid geostatistical parameters")

// Mesh is the part of a mesh needed to build a covariance matrix.
type Mesh interface {
	Dim() int
	CellCenters() []r3.Vec
}

type Model uint8

const (
	Exponential Model = iota
	Gaussian
	Spherical
)

func NewModel(label string) (m Model, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "exp", "exponential":
		m = Exponential
	case "gauss", "gaussian":
		m = Gaussian
	case "sph", "spherical":
		m = Spherical
	default:
		err = fmt.Errorf("unknown covariance model %q: %w", label, ErrInvalidParams)
	}
	return
}

func (m Model) String() string {
	switch m {
	case Gaussian:
		return "gauss"
	case Spherical:
		return "spherical"
	default:
		return "exp"
	}
}

// Correlation returns the correlation at the normalized lag h, h being the
// distance measured in correlation lengths.
func (m Model) Correlation(h float64) float64 {
	switch m {
	case Gaussian:
		return math.Exp(-h * h)
	case Spherical:
		if h >= 1 {
			return 0
		}
		return 1 - 1.5*h + 0.5*h*h*h
	default:
		return math.Exp(-h)
	}
}

// Params are the geostatistical parameters of a covariance model.
//
// I holds one correlation length (isotropic) or one per axis. With two
// lengths in 3D the first is used for both horizontal axes. Dip rotates the
// main axis away from x in the x-y plane (2D) or in the x-z plane (3D),
// Strike rotates it in the horizontal x-y plane (3D only). Angles are in
// degrees. A zero Variance means 1.
type Params struct {
	I        []float64
	Dip      float64
	Strike   float64
	Model    Model
	Variance float64
	// ProcLimit bounds the go routines used to fill the covariance matrix,
	// 0 means one per CPU
	ProcLimit int
}

// Lengths expands I to one correlation length per axis.
func (p Params) Lengths(dim int) (I [3]float64, err error) {
	switch len(p.I) {
	case 0:
		err = fmt.Errorf("no correlation length given: %w", ErrInvalidParams)
		return
	case 1:
		I = [3]float64{p.I[0], p.I[0], p.I[0]}
	case 2:
		if dim == 3 {
			I = [3]float64{p.I[0], p.I[0], p.I[1]}
		} else {
			I = [3]float64{p.I[0], p.I[1], p.I[1]}
		}
	case 3:
		I = [3]float64{p.I[0], p.I[1], p.I[2]}
	default:
		err = fmt.Errorf("%d correlation lengths given, at most 3: %w", len(p.I), ErrInvalidParams)
		return
	}
	for _, l := range I {
		if !(l > 0) {
			err = fmt.Errorf("correlation length %g must be positive: %w", l, ErrInvalidParams)
			return
		}
	}
	return
}

func (p Params) variance() float64 {
	if p.Variance == 0 {
		return 1
	}
	return p.Variance
}

// rotate turns a lag vector into the frame of the correlation axes.
func (p Params) rotate(dim int, v r3.Vec) r3.Vec {
	var (
		sd, cd = math.Sincos(p.Dip * math.Pi / 180)
	)
	if dim < 3 {
		return r3.Vec{
			X: cd*v.X + sd*v.Y,
			Y: -sd*v.X + cd*v.Y,
			Z: v.Z,
		}
	}
	ss, cs := math.Sincos(p.Strike * math.Pi / 180)
	h := r3.Vec{
		X: cs*v.X + ss*v.Y,
		Y: -ss*v.X + cs*v.Y,
		Z: v.Z,
	}
	return r3.Vec{
		X: cd*h.X + sd*h.Z,
		Y: h.Y,
		Z: -sd*h.X + cd*h.Z,
	}
}

// Distance returns the lag between a and b in correlation lengths.
func (p Params) Distance(dim int, a, b r3.Vec) (h float64, err error) {
	var (
		I [3]float64
	)
	if I, err = p.Lengths(dim); err != nil {
		return
	}
	h = p.distance(dim, I, a, b)
	return
}

func (p Params) distance(dim int, I [3]float64, a, b r3.Vec) float64 {
	v := p.rotate(dim, r3.Sub(a, b))
	return r3.Norm(r3.Vec{X: v.X / I[0], Y: v.Y / I[1], Z: v.Z / I[2]})
}

// CovarianceMatrix computes the covariance between all cell centers of m.
func CovarianceMatrix(m Mesh, p Params, verbose bool) (CM *mat.SymDense, err error) {
	t := time.Now()
	if CM, err = CovarianceMatrixPos(m.CellCenters(), m.Dim(), p); err != nil {
		return
	}
	if verbose {
		fmt.Printf("Covariance matrix %d x %d (%s, I = %v) in %.2fs\n",
			CM.SymmetricDim(), CM.SymmetricDim(), p.Model, p.I, time.Since(t).Seconds())
	}
	return
}

// CovarianceMatrixPos computes the covariance between all positions.
func CovarianceMatrixPos(pos []r3.Vec, dim int, p Params) (CM *mat.SymDense, err error) {
	var (
		n = len(pos)
		I [3]float64
		v = p.variance()
	)
	if n == 0 {
		err = fmt.Errorf("no positions: %w", ErrInvalidParams)
		return
	}
	if I, err = p.Lengths(dim); err != nil {
		return
	}
	CM = mat.NewSymDense(n, nil)
	// Rows are shared out to go routines, each writes its own part of the
	// upper triangle
	pm := utils.NewPartitionMap(utils.ParallelDegree(p.ProcLimit, n), n)
	pm.Run(func(_, iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			CM.SetSym(i, i, v)
			for j := i + 1; j < n; j++ {
				CM.SetSym(i, j, v*p.Model.Correlation(p.distance(dim, I, pos[i], pos[j])))
			}
		}
	})
	return
}
