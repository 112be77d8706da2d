package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// IsSquare reports whether M has as many rows as columns
func IsSquare(M mat.Matrix) bool {
	nr, nc := M.Dims()
	return nr == nc
}

// IsSymmetric checks M(i,j) == M(j,i) within a tolerance relative to the
// largest magnitude entry of M.
func IsSymmetric(M mat.Matrix, tol float64) bool {
	var (
		nr, nc = M.Dims()
		scale  float64
	)
	if nr != nc {
		return false
	}
	if _, ok := M.(mat.Symmetric); ok {
		return true
	}
	for j := 0; j < nc; j++ {
		for i := 0; i < nr; i++ {
			scale = math.Max(scale, math.Abs(M.At(i, j)))
		}
	}
	if scale == 0 {
		return true
	}
	for j := 0; j < nc; j++ {
		for i := j + 1; i < nr; i++ {
			if math.Abs(M.At(i, j)-M.At(j, i)) > tol*scale {
				return false
			}
		}
	}
	return true
}

// SymmetricOf returns M as a mat.Symmetric, copying the upper triangle when M
// is not already symmetric by type.
func SymmetricOf(M mat.Matrix) (S mat.Symmetric, err error) {
	var (
		nr, nc = M.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("matrix must be square, dims are %d x %d", nr, nc)
		return
	}
	if s, ok := M.(mat.Symmetric); ok {
		S = s
		return
	}
	sd := mat.NewSymDense(nr, nil)
	for i := 0; i < nr; i++ {
		for j := i; j < nc; j++ {
			sd.SetSym(i, j, M.At(i, j))
		}
	}
	S = sd
	return
}
