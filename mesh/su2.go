package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
	ELType_Tetrahedral   SU2ElementType = 10
	ELType_Hexahedral    SU2ElementType = 12
	ELType_Prism         SU2ElementType = 13
	ELType_Pyramid       SU2ElementType = 14
)

func (t SU2ElementType) NumVertices() (n int, err error) {
	switch t {
	case ELType_LINE:
		n = 2
	case ELType_Triangle:
		n = 3
	case ELType_Quadrilateral, ELType_Tetrahedral:
		n = 4
	case ELType_Pyramid:
		n = 5
	case ELType_Prism:
		n = 6
	case ELType_Hexahedral:
		n = 8
	default:
		err = fmt.Errorf("unknown SU2 element type %d", t)
	}
	return
}

func ReadSU2(filename string, verbose bool) (m *Mesh, err error) {
	var (
		file *os.File
	)
	if verbose {
		fmt.Printf("Reading SU2 file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		err = fmt.Errorf("unable to open file %s: %w", filename, err)
		return
	}
	defer file.Close()
	if m, err = ReadSU2From(file); err != nil {
		err = fmt.Errorf("reading %s: %w", filename, err)
		return
	}
	if verbose {
		fmt.Printf("Read %d dimensional mesh with %d cells, %d vertices and %d markers\n",
			m.Dim(), m.CellCount(), len(m.Verts), len(m.Markers))
	}
	return
}

func ReadSU2From(r io.Reader) (m *Mesh, err error) {
	var (
		reader = bufio.NewReader(r)
		dim    int
		cells  [][]int
		verts  []r3.Vec
	)
	if dim, err = readNumber(reader, "NDIME"); err != nil {
		return
	}
	if dim < 1 || dim > 3 {
		err = fmt.Errorf("NDIME = %d, must be 1, 2 or 3", dim)
		return
	}
	if cells, err = readElements(reader); err != nil {
		return
	}
	if verts, err = readVertices(reader, dim); err != nil {
		return
	}
	if m, err = NewMesh(dim, verts, cells); err != nil {
		return
	}
	if m.Markers, err = readMarkers(reader); err != nil {
		return nil, err
	}
	return
}

func readElements(reader *bufio.Reader) (cells [][]int, err error) {
	var (
		K int
	)
	if K, err = readCount(reader, "NELEM"); err != nil {
		return
	}
	cells = make([][]int, K)
	for k := 0; k < K; k++ {
		if cells[k], err = readElement(reader); err != nil {
			err = fmt.Errorf("element %d: %w", k, err)
			return
		}
	}
	return
}

// readElement parses "type v1 ... vn [index]"
func readElement(reader *bufio.Reader) (cell []int, err error) {
	var (
		fields []string
		nType  int
		nv     int
	)
	if fields, err = getFields(reader); err != nil {
		return
	}
	if nType, err = strconv.Atoi(fields[0]); err != nil {
		return
	}
	if nv, err = SU2ElementType(nType).NumVertices(); err != nil {
		return
	}
	if len(fields) < nv+1 {
		err = fmt.Errorf("element type %d needs %d vertices, line has %d fields", nType, nv, len(fields)-1)
		return
	}
	cell = make([]int, nv)
	for i := range cell {
		if cell[i], err = strconv.Atoi(fields[i+1]); err != nil {
			return
		}
	}
	return
}

func readVertices(reader *bufio.Reader, dim int) (verts []r3.Vec, err error) {
	var (
		Nv     int
		fields []string
		x      [3]float64
	)
	if Nv, err = readCount(reader, "NPOIN"); err != nil {
		return
	}
	verts = make([]r3.Vec, Nv)
	for i := 0; i < Nv; i++ {
		if fields, err = getFields(reader); err != nil {
			return
		}
		if len(fields) < dim {
			err = fmt.Errorf("unable to read %d coordinates from point %d", dim, i)
			return
		}
		for d := 0; d < dim; d++ {
			if x[d], err = strconv.ParseFloat(fields[d], 64); err != nil {
				return
			}
		}
		verts[i] = r3.Vec{X: x[0], Y: x[1], Z: x[2]}
	}
	return
}

// readMarkers reads the optional boundary marker section
func readMarkers(reader *bufio.Reader) (markers map[string][][]int, err error) {
	var (
		NMarks, nElems int
		label          string
	)
	markers = make(map[string][][]int)
	if NMarks, err = readCount(reader, "NMARK"); err != nil {
		if err == io.EOF {
			err = nil
		}
		return
	}
	for n := 0; n < NMarks; n++ {
		if label, err = readLabel(reader, "MARKER_TAG"); err != nil {
			return
		}
		if nElems, err = readCount(reader, "MARKER_ELEMS"); err != nil {
			return
		}
		// Repeated tags append, periodic pairs share a tag
		for i := 0; i < nElems; i++ {
			var elem []int
			if elem, err = readElement(reader); err != nil {
				err = fmt.Errorf("marker %s element %d: %w", label, i, err)
				return
			}
			markers[label] = append(markers[label], elem)
		}
	}
	return
}

func getToken(reader *bufio.Reader, key string) (token string, err error) {
	var (
		line string
	)
	if line, err = getLineNoComments(reader); err != nil {
		return
	}
	ind := strings.Index(line, "=")
	if ind < 0 {
		err = fmt.Errorf("badly formed input line [%s], should have an =", line)
		return
	}
	if k := strings.TrimSpace(line[:ind]); k != key {
		err = fmt.Errorf("expected keyword %s, found [%s]", key, k)
		return
	}
	token = strings.TrimSpace(line[ind+1:])
	return
}

func readLabel(reader *bufio.Reader, key string) (label string, err error) {
	if label, err = getToken(reader, key); err != nil {
		return
	}
	if len(label) == 0 {
		err = fmt.Errorf("empty label for %s", key)
	}
	return
}

func readNumber(reader *bufio.Reader, key string) (num int, err error) {
	var (
		token string
	)
	if token, err = getToken(reader, key); err != nil {
		return
	}
	// NELEM and friends may be followed by other text on the same line
	if fields := strings.Fields(token); len(fields) > 0 {
		token = fields[0]
	}
	if num, err = strconv.Atoi(token); err != nil {
		err = fmt.Errorf("unable to read number from token: [%s]", token)
	}
	return
}

// readCount reads a number used to size what follows, it must not be negative
func readCount(reader *bufio.Reader, key string) (num int, err error) {
	if num, err = readNumber(reader, key); err != nil {
		return
	}
	if num < 0 {
		err = fmt.Errorf("%s = %d, must not be negative", key, num)
	}
	return
}

func getFields(reader *bufio.Reader) (fields []string, err error) {
	var (
		line string
	)
	if line, err = getLineNoComments(reader); err != nil {
		return
	}
	if fields = strings.Fields(line); len(fields) == 0 {
		err = fmt.Errorf("unexpected empty line")
	}
	return
}

// getLineNoComments skips blank lines and lines starting with %
func getLineNoComments(reader *bufio.Reader) (line string, err error) {
	for {
		if line, err = getLine(reader); err != nil && len(line) == 0 {
			return
		}
		err = nil
		line = strings.TrimSpace(line)
		if len(line) != 0 && !strings.HasPrefix(line, "%") {
			return
		}
	}
}

func getLine(reader *bufio.Reader) (line string, err error) {
	line, err = reader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	return
}
