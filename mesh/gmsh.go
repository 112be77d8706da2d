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

type gmshElement struct {
	dim, nv int
}

// First order Gmsh element types
var gmshElementTypes = map[int]gmshElement{
	1:  {1, 2}, // line
	2:  {2, 3}, // triangle
	3:  {2, 4}, // quadrilateral
	4:  {3, 4}, // tetrahedron
	5:  {3, 8}, // hexahedron
	6:  {3, 6}, // prism
	7:  {3, 5}, // pyramid
	15: {0, 1}, // point
}

type gmshReader struct {
	scanner  *bufio.Scanner
	names    map[int]string
	nodeIdx  map[int]int
	verts    []r3.Vec
	elements [][]int // vertex indices
	elemDim  []int
	elemTag  []int // physical tag, 0 if none
}

// ReadGmsh reads an ASCII Gmsh 2.2 mesh. Elements of the highest dimension
// become cells, elements one dimension lower become markers named after
// their physical group.
func ReadGmsh(filename string, verbose bool) (m *Mesh, err error) {
	var (
		file *os.File
	)
	if verbose {
		fmt.Printf("Reading Gmsh file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		err = fmt.Errorf("unable to open file %s: %w", filename, err)
		return
	}
	defer file.Close()
	if m, err = ReadGmshFrom(file); err != nil {
		err = fmt.Errorf("reading %s: %w", filename, err)
		return
	}
	if verbose {
		fmt.Printf("Read %d dimensional mesh with %d cells, %d vertices and %d markers\n",
			m.Dim(), m.CellCount(), len(m.Verts), len(m.Markers))
	}
	return
}

func ReadGmshFrom(r io.Reader) (m *Mesh, err error) {
	gr := &gmshReader{
		scanner: bufio.NewScanner(r),
		names:   make(map[int]string),
		nodeIdx: make(map[int]int),
	}
	// Increase scanner buffer for large files
	const maxScanTokenSize = 1024 * 1024 * 10
	gr.scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)

	for gr.scanner.Scan() {
		switch line := strings.TrimSpace(gr.scanner.Text()); line {
		case "$MeshFormat":
			err = gr.readFormat()
		case "$PhysicalNames":
			err = gr.readPhysicalNames()
		case "$Nodes":
			err = gr.readNodes()
		case "$Elements":
			err = gr.readElements()
		default:
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				err = gr.skipSection("$End" + line[1:])
			}
		}
		if err != nil {
			return
		}
	}
	if err = gr.scanner.Err(); err != nil {
		return
	}
	return gr.mesh()
}

func (gr *gmshReader) mesh() (m *Mesh, err error) {
	var (
		dim   int
		cells [][]int
	)
	for _, d := range gr.elemDim {
		dim = max(dim, d)
	}
	if dim == 0 {
		err = fmt.Errorf("no cells found in Gmsh mesh")
		return
	}
	for k, elem := range gr.elements {
		if gr.elemDim[k] == dim {
			cells = append(cells, elem)
		}
	}
	if m, err = NewMesh(dim, gr.verts, cells); err != nil {
		return
	}
	for k, elem := range gr.elements {
		if gr.elemDim[k] != dim-1 || gr.elemTag[k] == 0 {
			continue
		}
		label, ok := gr.names[gr.elemTag[k]]
		if !ok {
			label = strconv.Itoa(gr.elemTag[k])
		}
		m.Markers[label] = append(m.Markers[label], elem)
	}
	return
}

func (gr *gmshReader) nextFields(section string) (fields []string, err error) {
	for gr.scanner.Scan() {
		if fields = strings.Fields(gr.scanner.Text()); len(fields) != 0 {
			return
		}
	}
	err = fmt.Errorf("unexpected EOF in %s", section)
	return
}

func (gr *gmshReader) readCount(section string) (n int, err error) {
	var (
		fields []string
	)
	if fields, err = gr.nextFields(section); err != nil {
		return
	}
	if n, err = strconv.Atoi(fields[0]); err != nil {
		err = fmt.Errorf("invalid count in %s: %w", section, err)
	} else if n < 0 {
		err = fmt.Errorf("negative count %d in %s", n, section)
	}
	return
}

func (gr *gmshReader) readFormat() (err error) {
	var (
		fields []string
	)
	if fields, err = gr.nextFields("MeshFormat"); err != nil {
		return
	}
	if len(fields) < 3 {
		return fmt.Errorf("invalid MeshFormat line %v", fields)
	}
	if !strings.HasPrefix(fields[0], "2") {
		return fmt.Errorf("unsupported Gmsh version %s, only 2.x is read", fields[0])
	}
	if fields[1] != "0" {
		return fmt.Errorf("binary Gmsh files are not supported")
	}
	return gr.skipSection("$EndMeshFormat")
}

func (gr *gmshReader) readPhysicalNames() (err error) {
	var (
		n      int
		fields []string
		tag    int
	)
	if n, err = gr.readCount("PhysicalNames"); err != nil {
		return
	}
	for i := 0; i < n; i++ {
		if fields, err = gr.nextFields("PhysicalNames"); err != nil {
			return
		}
		if len(fields) < 3 {
			return fmt.Errorf("invalid physical name entry %v", fields)
		}
		if tag, err = strconv.Atoi(fields[1]); err != nil {
			return
		}
		gr.names[tag] = strings.Trim(strings.Join(fields[2:], " "), "\"")
	}
	return gr.skipSection("$EndPhysicalNames")
}

func (gr *gmshReader) readNodes() (err error) {
	var (
		n, id  int
		fields []string
		x      [3]float64
	)
	if n, err = gr.readCount("Nodes"); err != nil {
		return
	}
	for i := 0; i < n; i++ {
		if fields, err = gr.nextFields("Nodes"); err != nil {
			return
		}
		if len(fields) < 4 {
			return fmt.Errorf("invalid node entry %d: %v", i, fields)
		}
		if id, err = strconv.Atoi(fields[0]); err != nil {
			return
		}
		for d := 0; d < 3; d++ {
			if x[d], err = strconv.ParseFloat(fields[d+1], 64); err != nil {
				return
			}
		}
		gr.nodeIdx[id] = len(gr.verts)
		gr.verts = append(gr.verts, r3.Vec{X: x[0], Y: x[1], Z: x[2]})
	}
	return gr.skipSection("$EndNodes")
}

// readElements parses "id type ntags tag1 ... node1 ... nodeN"
func (gr *gmshReader) readElements() (err error) {
	var (
		n, gType, nTags int
		fields          []string
	)
	if n, err = gr.readCount("Elements"); err != nil {
		return
	}
	for i := 0; i < n; i++ {
		if fields, err = gr.nextFields("Elements"); err != nil {
			return
		}
		if len(fields) < 3 {
			return fmt.Errorf("invalid element entry %d: %v", i, fields)
		}
		if gType, err = strconv.Atoi(fields[1]); err != nil {
			return
		}
		et, ok := gmshElementTypes[gType]
		if !ok {
			return fmt.Errorf("element %s: unsupported Gmsh element type %d", fields[0], gType)
		}
		if nTags, err = strconv.Atoi(fields[2]); err != nil {
			return
		}
		if len(fields) != 3+nTags+et.nv {
			return fmt.Errorf("element %s: expected %d fields, have %d", fields[0], 3+nTags+et.nv, len(fields))
		}
		var tag int
		if nTags > 0 {
			if tag, err = strconv.Atoi(fields[3]); err != nil {
				return
			}
		}
		elem := make([]int, et.nv)
		for j, f := range fields[3+nTags:] {
			var id int
			if id, err = strconv.Atoi(f); err != nil {
				return
			}
			idx, found := gr.nodeIdx[id]
			if !found {
				return fmt.Errorf("element %s references unknown node %d", fields[0], id)
			}
			elem[j] = idx
		}
		gr.elements = append(gr.elements, elem)
		gr.elemDim = append(gr.elemDim, et.dim)
		gr.elemTag = append(gr.elemTag, tag)
	}
	return gr.skipSection("$EndElements")
}

func (gr *gmshReader) skipSection(end string) error {
	for gr.scanner.Scan() {
		if strings.TrimSpace(gr.scanner.Text()) == end {
			return nil
		}
	}
	return fmt.Errorf("missing %s", end)
}
