package operators

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/geoinv/utils"
)

// BlockEntry places matrix MatrixID with its upper left corner at
// (RowStart, ColStart), multiplied by Scale. Transpose records that the
// matrix was added transposed, the stored matrix already is the transpose.
type BlockEntry struct {
	MatrixID           int
	RowStart, ColStart int
	Scale              float64
	Transpose          bool
}

// BlockMatrix assembles independently built operators into one larger
// operator without copying them. A matrix is stored once and can be placed
// at several offsets through entries. Regions not covered by any entry are
// zero, overlapping entries are summed.
//
// The block matrix holds a reference to every matrix added to it for its
// whole lifetime, the caller may drop its own references after adding.
//
// Adding matrices and entries is a build phase and must be finished before
// the block matrix is handed to a solver. Mutating it concurrently with
// Mult or TransMult is not supported.
type BlockMatrix struct {
	matrices   []Operator
	transposed []bool
	entries    []BlockEntry
	nr, nc     int
}

func NewBlockMatrix() *BlockMatrix {
	return &BlockMatrix{}
}

// NewBlockDiagonal places the blocks one after the other along the diagonal,
// a block-Jacobi layout.
func NewBlockDiagonal(blocks ...Operator) (bm *BlockMatrix, err error) {
	var (
		row, col int
	)
	bm = NewBlockMatrix()
	for n, B := range blocks {
		if _, err = bm.AddMatrix(B, At(row, col)); err != nil {
			return nil, fmt.Errorf("diagonal block %d: %w", n, err)
		}
		row += B.Rows()
		col += B.Cols()
	}
	return
}

type addOptions struct {
	placed    bool
	row, col  int
	scale     float64
	transpose bool
}

// AddOption configures AddMatrix and AddVector.
type AddOption func(*addOptions)

// At places the added matrix immediately at (row, col). Without it the
// matrix is held but contributes nothing until AddEntry is called.
func At(row, col int) AddOption {
	return func(o *addOptions) {
		o.placed = true
		o.row, o.col = row, col
	}
}

// WithScale multiplies the placed entry by scale, the default is 1.
func WithScale(scale float64) AddOption {
	return func(o *addOptions) { o.scale = scale }
}

// Transposed adds the transpose of the matrix.
func Transposed() AddOption {
	return func(o *addOptions) { o.transpose = true }
}

func newAddOptions(opts []AddOption) (o addOptions) {
	o.scale = 1
	for _, opt := range opts {
		opt(&o)
	}
	return
}

// AddMatrix stores M and returns its id. A transposed sparse matrix is
// converted to its explicit transpose first, which needs M to expose its
// triplet structure.
func (bm *BlockMatrix) AddMatrix(M Operator, opts ...AddOption) (id int, err error) {
	var (
		o = newAddOptions(opts)
	)
	if o.transpose {
		if M, err = explicitTranspose(M); err != nil {
			return
		}
	}
	return bm.add(M, o)
}

// AddVector stores v as a 1 x n row vector matrix, or as an n x 1 column
// vector matrix when Transposed is given.
func (bm *BlockMatrix) AddVector(v []float64, opts ...AddOption) (id int, err error) {
	var (
		o     = newAddOptions(opts)
		n     = len(v)
		zeros = make([]int, n)
		rng   = utils.NewRange(n)
		S     *Sparse
	)
	if o.transpose {
		S, err = NewSparseFromArrays(n, 1, rng, zeros, v)
	} else {
		S, err = NewSparseFromArrays(1, n, zeros, rng, v)
	}
	if err != nil {
		return
	}
	return bm.add(S, o)
}

func (bm *BlockMatrix) add(M Operator, o addOptions) (id int, err error) {
	id = len(bm.matrices)
	bm.matrices = append(bm.matrices, M)
	bm.transposed = append(bm.transposed, o.transpose)
	if o.placed {
		if err = bm.AddEntry(id, o.row, o.col, o.scale); err != nil {
			return
		}
	}
	return
}

func explicitTranspose(M Operator) (T Operator, err error) {
	switch m := M.(type) {
	case *Sparse:
		T = m.Transpose()
	case TripletSource:
		vals, rows, cols := m.FillArrays()
		T, err = NewSparseFromArrays(M.Cols(), M.Rows(), cols, rows, vals)
	default:
		err = fmt.Errorf("don't know how to add transpose of matrix type %T: %w", M, ErrUnsupportedTranspose)
	}
	return
}

// AddEntry places a previously added matrix at (row, col) with the given scale.
func (bm *BlockMatrix) AddEntry(id, row, col int, scale float64) (err error) {
	if id < 0 || id >= len(bm.matrices) {
		err = fmt.Errorf("matrix id %d of %d: %w", id, len(bm.matrices), ErrUnknownBlock)
		return
	}
	if row < 0 || col < 0 {
		err = fmt.Errorf("negative block offset (%d,%d): %w", row, col, ErrShapeMismatch)
		return
	}
	bm.entries = append(bm.entries, BlockEntry{
		MatrixID:  id,
		RowStart:  row,
		ColStart:  col,
		Scale:     scale,
		Transpose: bm.transposed[id],
	})
	bm.Recalc()
	return
}

// Recalc sets the size to the bounding box of all placed entries.
func (bm *BlockMatrix) Recalc() {
	var (
		nr, nc int
	)
	for _, e := range bm.entries {
		M := bm.matrices[e.MatrixID]
		nr = max(nr, e.RowStart+M.Rows())
		nc = max(nc, e.ColStart+M.Cols())
	}
	bm.nr, bm.nc = nr, nc
}

func (bm *BlockMatrix) Rows() int { return bm.nr }
func (bm *BlockMatrix) Cols() int { return bm.nc }

func (bm *BlockMatrix) NumMatrices() int { return len(bm.matrices) }

func (bm *BlockMatrix) Matrix(id int) (M Operator, err error) {
	if id < 0 || id >= len(bm.matrices) {
		err = fmt.Errorf("matrix id %d of %d: %w", id, len(bm.matrices), ErrUnknownBlock)
		return
	}
	M = bm.matrices[id]
	return
}

func (bm *BlockMatrix) Entries() []BlockEntry {
	entries := make([]BlockEntry, len(bm.entries))
	copy(entries, bm.entries)
	return entries
}

// checkExtent catches sub-operators that grew after the last Recalc, such as
// a nested BlockMatrix receiving more entries.
func (bm *BlockMatrix) checkExtent(e BlockEntry, M Operator) error {
	if end := e.RowStart + M.Rows(); end > bm.nr {
		return fmt.Errorf("block entry for matrix %d at (%d,%d): %w", e.MatrixID, e.RowStart, e.ColStart,
			&ShapeError{Op: "BlockMatrix rows", Want: bm.nr, Got: end})
	}
	if end := e.ColStart + M.Cols(); end > bm.nc {
		return fmt.Errorf("block entry for matrix %d at (%d,%d): %w", e.MatrixID, e.RowStart, e.ColStart,
			&ShapeError{Op: "BlockMatrix cols", Want: bm.nc, Got: end})
	}
	return nil
}

func (bm *BlockMatrix) Mult(x []float64) (y []float64, err error) {
	var (
		ys []float64
	)
	if err = checkLen("BlockMatrix.Mult", x, bm.nc); err != nil {
		return
	}
	y = make([]float64, bm.nr)
	for _, e := range bm.entries {
		M := bm.matrices[e.MatrixID]
		if err = bm.checkExtent(e, M); err != nil {
			return nil, err
		}
		if ys, err = M.Mult(x[e.ColStart : e.ColStart+M.Cols()]); err != nil {
			return nil, fmt.Errorf("block entry for matrix %d at (%d,%d): %w",
				e.MatrixID, e.RowStart, e.ColStart, err)
		}
		floats.AddScaled(y[e.RowStart:e.RowStart+M.Rows()], e.Scale, ys)
	}
	return
}

func (bm *BlockMatrix) TransMult(x []float64) (y []float64, err error) {
	var (
		ys []float64
	)
	if err = checkLen("BlockMatrix.TransMult", x, bm.nr); err != nil {
		return
	}
	y = make([]float64, bm.nc)
	for _, e := range bm.entries {
		M := bm.matrices[e.MatrixID]
		if err = bm.checkExtent(e, M); err != nil {
			return nil, err
		}
		if ys, err = M.TransMult(x[e.RowStart : e.RowStart+M.Rows()]); err != nil {
			return nil, fmt.Errorf("block entry for matrix %d at (%d,%d): %w",
				e.MatrixID, e.RowStart, e.ColStart, err)
		}
		floats.AddScaled(y[e.ColStart:e.ColStart+M.Cols()], e.Scale, ys)
	}
	return
}
