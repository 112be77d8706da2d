package utils

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK is a dictionary-of-keys sparse matrix, used to build sparse operators
// entry by entry before compressing them for repeated products.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// NewDOKFromArrays builds an nr x nc matrix from coordinate triplets. Repeated
// coordinates are summed.
func NewDOKFromArrays(nr, nc int, rows, cols []int, vals []float64) (R DOK, err error) {
	if len(rows) != len(vals) || len(cols) != len(vals) {
		err = fmt.Errorf("length of index and values are not equal: len(rows) = %v, len(cols) = %v, len(vals) = %v",
			len(rows), len(cols), len(vals))
		return
	}
	R = NewDOK(nr, nc)
	for n, val := range vals {
		i, j := rows[n], cols[n]
		if i < 0 || i >= nr || j < 0 || j >= nc {
			err = fmt.Errorf("index out of bounds: (%d,%d) in %d x %d matrix", i, j, nr, nc)
			return
		}
		R.Set(i, j, R.At(i, j)+val)
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)        { return m.M.Dims() }
func (m DOK) At(i, j int) float64     { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix           { return m.M.T() }
func (m DOK) NNZ() int                { return m.M.NNZ() }
func (m DOK) ToCSR() *sparse.CSR      { return m.M.ToCSR() }
func (m DOK) Set(i, j int, v float64) { m.checkWritable(); m.M.Set(i, j, v) }

// SetReadOnly makes later calls to Set through m panic, naming the matrix in
// the message.
func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

// FillArrays extracts the non-zero entries as coordinate triplets, ordered by
// column then row.
func (m DOK) FillArrays() (vals []float64, rows, cols []int) {
	type triplet struct {
		i, j int
		v    float64
	}
	var (
		nnz = m.NNZ()
		tr  = make([]triplet, 0, nnz)
	)
	m.M.DoNonZero(func(i, j int, v float64) {
		if v != 0 {
			tr = append(tr, triplet{i, j, v})
		}
	})
	// DOK iteration follows map order
	sort.Slice(tr, func(a, b int) bool {
		if tr[a].j != tr[b].j {
			return tr[a].j < tr[b].j
		}
		return tr[a].i < tr[b].i
	})
	vals = make([]float64, len(tr))
	rows = make([]int, len(tr))
	cols = make([]int, len(tr))
	for n, t := range tr {
		vals[n], rows[n], cols[n] = t.v, t.i, t.j
	}
	return
}

// Transpose returns a new DOK with rows and columns swapped, the receiver is
// not changed.
func (m DOK) Transpose() (R DOK) {
	var (
		nr, nc           = m.Dims()
		vals, rows, cols = m.FillArrays()
	)
	R = NewDOK(nc, nr)
	for n, val := range vals {
		R.Set(cols[n], rows[n], val)
	}
	return
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}
