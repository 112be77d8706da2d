// Package mesh holds the cell geometry needed by the geostatistical
// operators: vertices, cells as vertex lists, and cell centers.
package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

type Mesh struct {
	dim     int
	Verts   []r3.Vec
	Cells   [][]int
	Markers map[string][][]int // boundary elements by marker tag
}

func NewMesh(dim int, verts []r3.Vec, cells [][]int) (m *Mesh, err error) {
	if dim < 1 || dim > 3 {
		err = fmt.Errorf("mesh dimension %d not in 1..3", dim)
		return
	}
	for k, cell := range cells {
		if len(cell) == 0 {
			err = fmt.Errorf("cell %d has no vertices", k)
			return
		}
		for _, iv := range cell {
			if iv < 0 || iv >= len(verts) {
				err = fmt.Errorf("cell %d references vertex %d, mesh has %d", k, iv, len(verts))
				return
			}
		}
	}
	m = &Mesh{
		dim:     dim,
		Verts:   verts,
		Cells:   cells,
		Markers: make(map[string][][]int),
	}
	return
}

func (m *Mesh) Dim() int       { return m.dim }
func (m *Mesh) CellCount() int { return len(m.Cells) }

// CellCenters returns the vertex average of every cell.
func (m *Mesh) CellCenters() (C []r3.Vec) {
	C = make([]r3.Vec, len(m.Cells))
	for k, cell := range m.Cells {
		var c r3.Vec
		for _, iv := range cell {
			c = r3.Add(c, m.Verts[iv])
		}
		C[k] = r3.Scale(1/float64(len(cell)), c)
	}
	return
}

// NewGrid2D builds a structured grid of quadrilateral cells from the node
// coordinates along x and y. Cells are numbered x first.
func NewGrid2D(xs, ys []float64) (m *Mesh, err error) {
	var (
		nx, ny = len(xs), len(ys)
		verts  = make([]r3.Vec, 0, nx*ny)
		cells  = make([][]int, 0, max(nx-1, 0)*max(ny-1, 0))
	)
	if nx < 2 || ny < 2 {
		err = fmt.Errorf("grid needs at least 2 nodes per axis, have %d x %d", nx, ny)
		return
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			verts = append(verts, r3.Vec{X: xs[i], Y: ys[j]})
		}
	}
	node := func(i, j int) int { return i + nx*j }
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			cells = append(cells, []int{node(i, j), node(i+1, j), node(i+1, j+1), node(i, j+1)})
		}
	}
	return NewMesh(2, verts, cells)
}

// NewGrid3D builds a structured grid of hexahedral cells, numbered x first,
// then y, then z.
func NewGrid3D(xs, ys, zs []float64) (m *Mesh, err error) {
	var (
		nx, ny, nz = len(xs), len(ys), len(zs)
		verts      = make([]r3.Vec, 0, nx*ny*nz)
		cells      [][]int
	)
	if nx < 2 || ny < 2 || nz < 2 {
		err = fmt.Errorf("grid needs at least 2 nodes per axis, have %d x %d x %d", nx, ny, nz)
		return
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				verts = append(verts, r3.Vec{X: xs[i], Y: ys[j], Z: zs[k]})
			}
		}
	}
	node := func(i, j, k int) int { return i + nx*(j+ny*k) }
	for k := 0; k < nz-1; k++ {
		for j := 0; j < ny-1; j++ {
			for i := 0; i < nx-1; i++ {
				cells = append(cells, []int{
					node(i, j, k), node(i+1, j, k), node(i+1, j+1, k), node(i, j+1, k),
					node(i, j, k+1), node(i+1, j, k+1), node(i+1, j+1, k+1), node(i, j+1, k+1),
				})
			}
		}
	}
	return NewMesh(3, verts, cells)
}

// Linspace returns n equally spaced values from min to max inclusive.
func Linspace(min, max float64, n int) (x []float64) {
	x = make([]float64, n)
	if n == 1 {
		x[0] = min
		return
	}
	dx := (max - min) / float64(n-1)
	for i := range x {
		x[i] = min + float64(i)*dx
	}
	return
}
