// Package inversion solves regularized linear least squares problems whose
// matrices are only available as operators.
package inversion

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/geoinv/operators"
)

var ErrIterationLimit = errors.New("iteration limit reached")

type Settings struct {
	Tolerance     float64   // relative tolerance on the normal equation residual, default 1e-10
	MaxIterations int       // default 2 * number of unknowns
	X0            []float64 // starting model, default zero
	Verbose       bool
}

type Stats struct {
	Iterations   int
	MatVec       int
	ResidualNorm float64 // ||b - Ax||
	NormalNorm   float64 // ||A^T (b - Ax)||
	StartTime    time.Time
	Runtime      time.Duration
}

type Result struct {
	X     []float64
	Stats Stats
}

func defaultSettings(s *Settings, dim int) {
	if s.Tolerance == 0 {
		s.Tolerance = 1e-10
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = 2 * dim
	}
}

// CGLS minimizes ||b - Ax|| with conjugate gradients on the normal equations,
// using only products with A and A^T.
func CGLS(A operators.Operator, b []float64, settings Settings) (res Result, err error) {
	var (
		n     = A.Cols()
		stats = Stats{StartTime: time.Now()}
		x     = make([]float64, n)
		r     = make([]float64, len(b))
		s, q  []float64
	)
	if len(b) != A.Rows() {
		err = &operators.ShapeError{Op: "CGLS rhs", Want: A.Rows(), Got: len(b)}
		return
	}
	if settings.X0 != nil && len(settings.X0) != n {
		err = &operators.ShapeError{Op: "CGLS starting model", Want: n, Got: len(settings.X0)}
		return
	}
	defaultSettings(&settings, n)
	defer func() {
		stats.Runtime = time.Since(stats.StartTime)
		res = Result{X: x, Stats: stats}
	}()

	copy(r, b)
	if settings.X0 != nil {
		copy(x, settings.X0)
		if q, err = A.Mult(x); err != nil {
			return
		}
		stats.MatVec++
		floats.Sub(r, q) // r = b - Ax
	}
	if s, err = A.TransMult(r); err != nil {
		return
	}
	stats.MatVec++
	var (
		p     = append([]float64(nil), s...)
		gamma = floats.Dot(s, s)
		snorm = math.Sqrt(gamma)
		tol   = settings.Tolerance * snorm
	)
	stats.ResidualNorm = floats.Norm(r, 2)
	stats.NormalNorm = snorm
	if gamma == 0 {
		return
	}
	for stats.Iterations < settings.MaxIterations {
		if q, err = A.Mult(p); err != nil {
			return
		}
		stats.MatVec++
		qq := floats.Dot(q, q)
		if qq == 0 {
			break
		}
		alpha := gamma / qq
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, q)
		if s, err = A.TransMult(r); err != nil {
			return
		}
		stats.MatVec++
		stats.Iterations++
		gammaNew := floats.Dot(s, s)
		stats.ResidualNorm = floats.Norm(r, 2)
		stats.NormalNorm = math.Sqrt(gammaNew)
		if settings.Verbose {
			fmt.Printf("CGLS iteration %4d: |r| = %10.4e, |A^T r| = %10.4e\n",
				stats.Iterations, stats.ResidualNorm, stats.NormalNorm)
		}
		if stats.NormalNorm <= tol {
			return
		}
		beta := gammaNew / gamma
		floats.AddScaledTo(p, s, beta, p) // p = s + beta p
		gamma = gammaNew
	}
	if stats.NormalNorm > tol {
		err = fmt.Errorf("CGLS after %d iterations, |A^T r| = %g > %g: %w",
			stats.Iterations, stats.NormalNorm, tol, ErrIterationLimit)
	}
	return
}
