package readers

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/vtkio/grid"
)

// ReadVTK reads a legacy ASCII VTK file holding an UNSTRUCTURED_GRID dataset
func ReadVTK(filename string) (*grid.Grid, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return DecodeVTK(file)
}

// DecodeVTK parses legacy ASCII VTK content. The whole input is loaded into
// memory before parsing. The returned grid is 3D, as the format always
// carries three coordinates per point and three components per vector.
func DecodeVTK(r io.Reader) (*grid.Grid, error) {
	cur, err := newLineCursor(r)
	if err != nil {
		return nil, err
	}

	dataset, err := readPreamble(cur)
	if err != nil {
		return nil, err
	}

	switch dataset {
	case "UNSTRUCTURED_GRID":
		return readUnstructuredGrid(cur)
	default:
		return nil, fmt.Errorf("%w: %w: DATASET %s", grid.ErrFormat, grid.ErrNotSupported, dataset)
	}
}

// readPreamble consumes the version, title, encoding and DATASET lines and
// returns the dataset type
func readPreamble(cur *lineCursor) (string, error) {
	signature, err := cur.next()
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(strings.ToLower(signature), "# vtk datafile version") {
		return "", cur.errorf("not a legacy VTK file, signature %q", signature)
	}

	// Title, free text
	if _, err = cur.next(); err != nil {
		return "", err
	}

	encoding, err := cur.next()
	if err != nil {
		return "", err
	}
	switch strings.ToUpper(encoding) {
	case "ASCII":
	case "BINARY":
		return "", fmt.Errorf("%w: %w: BINARY encoding", grid.ErrFormat, grid.ErrNotSupported)
	default:
		return "", cur.errorf("unknown encoding %q", encoding)
	}

	fields, err := cur.expectHeader("DATASET", 2)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(fields[1]), nil
}

func readUnstructuredGrid(cur *lineCursor) (*grid.Grid, error) {
	g, err := grid.New(3)
	if err != nil {
		return nil, err
	}

	if err = readPoints(cur, g); err != nil {
		return nil, err
	}

	cells, err := readCells(cur, g.NumPoints())
	if err != nil {
		return nil, err
	}

	if err = readCellTypes(cur, cells); err != nil {
		return nil, err
	}
	for _, c := range cells {
		if err = g.AddCell(c.Type, c.Indices...); err != nil {
			return nil, fmt.Errorf("%w: %w", grid.ErrFormat, err)
		}
	}

	if err = readAttributeSections(cur, g); err != nil {
		return nil, err
	}
	return g, nil
}

// readPoints reads "POINTS N datatype" followed by N lines of "x y z"
func readPoints(cur *lineCursor, g *grid.Grid) error {
	fields, err := cur.expectHeader("POINTS", 3)
	if err != nil {
		return err
	}
	n, err := cur.count(fields[1])
	if err != nil {
		return err
	}

	start := cur.pos
	lines, err := cur.take(n)
	if err != nil {
		return err
	}
	points := make([]grid.Point, n)
	for i, line := range lines {
		coords, err := parseFloats(line, 3)
		if err != nil {
			return cur.errorAt(start+i+1, "point %d: %v", i, err)
		}
		points[i] = grid.Point{coords[0], coords[1], coords[2]}
	}
	return g.AddPoints(points...)
}

// readCells reads "CELLS C total" followed by C lines of "k i0 ... ik-1".
// The cell types are filled in by readCellTypes.
func readCells(cur *lineCursor, numPoints int) ([]grid.Cell, error) {
	fields, err := cur.expectHeader("CELLS", 3)
	if err != nil {
		return nil, err
	}
	n, err := cur.count(fields[1])
	if err != nil {
		return nil, err
	}
	total, err := cur.count(fields[2])
	if err != nil {
		return nil, err
	}

	start := cur.pos
	lines, err := cur.take(n)
	if err != nil {
		return nil, err
	}
	cells := make([]grid.Cell, n)
	var size int
	for i, line := range lines {
		lineNo := start + i + 1
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			return nil, cur.errorAt(lineNo, "cell %d: empty line", i)
		}
		k, err := strconv.Atoi(tokens[0])
		if err != nil || k < 1 {
			return nil, cur.errorAt(lineNo, "cell %d: invalid vertex count %q", i, tokens[0])
		}
		if len(tokens) != k+1 {
			return nil, cur.errorAt(lineNo, "cell %d: declares %d points, has %d", i, k, len(tokens)-1)
		}
		indices := make([]int, k)
		for j, tok := range tokens[1:] {
			idx, err := strconv.Atoi(tok)
			if err != nil {
				return nil, cur.errorAt(lineNo, "cell %d: invalid point index %q", i, tok)
			}
			if idx < 0 || idx >= numPoints {
				return nil, cur.errorAt(lineNo, "cell %d: point index %d out of range [0,%d)",
					i, idx, numPoints)
			}
			indices[j] = idx
		}
		cells[i].Indices = indices
		size += k + 1
	}
	if size != total {
		return nil, cur.errorAt(start, "CELLS declares size %d, cells hold %d", total, size)
	}
	return cells, nil
}

// readCellTypes reads "CELL_TYPES C" followed by C lines each holding a cell type code
func readCellTypes(cur *lineCursor, cells []grid.Cell) error {
	fields, err := cur.expectHeader("CELL_TYPES", 2)
	if err != nil {
		return err
	}
	n, err := cur.count(fields[1])
	if err != nil {
		return err
	}
	if n != len(cells) {
		return cur.errorf("CELL_TYPES count %d does not match %d cells", n, len(cells))
	}

	start := cur.pos
	lines, err := cur.take(n)
	if err != nil {
		return err
	}
	for i, line := range lines {
		ct, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return cur.errorAt(start+i+1, "cell %d: invalid cell type %q", i, strings.TrimSpace(line))
		}
		cells[i].Type = grid.CellType(ct)
	}
	return nil
}

// readAttributeSections dispatches POINT_DATA and CELL_DATA blocks until end of file
func readAttributeSections(cur *lineCursor, g *grid.Grid) error {
	for {
		cur.skipBlank()
		if cur.eof() {
			return nil
		}
		line, _ := cur.next()
		fields := strings.Fields(line)
		keyword := strings.ToUpper(fields[0])
		if keyword != "POINT_DATA" && keyword != "CELL_DATA" {
			return cur.errorf("unexpected section %q", fields[0])
		}
		if len(fields) < 2 {
			return cur.errorf("%s needs a count", keyword)
		}
		n, err := cur.count(fields[1])
		if err != nil {
			return err
		}

		switch keyword {
		case "POINT_DATA":
			if n != g.NumPoints() {
				return cur.errorf("POINT_DATA count %d does not match %d points", n, g.NumPoints())
			}
			// Stored values are taken as written, no snapping on read
			err = readAttributes(cur, n, func(name string, v grid.AttributeValues) error {
				return g.AddPointData(name, v, 0)
			})
		case "CELL_DATA":
			if n != g.NumCells() {
				return cur.errorf("CELL_DATA count %d does not match %d cells", n, g.NumCells())
			}
			err = readAttributes(cur, n, g.AddCellData)
		}
		if err != nil {
			return err
		}
	}
}

// readAttributes consumes SCALARS and VECTORS records of n values each, it
// stops at the first line that starts neither
func readAttributes(cur *lineCursor, n int, add func(string, grid.AttributeValues) error) error {
	for {
		cur.skipBlank()
		line, ok := cur.peek()
		if !ok {
			return nil
		}
		fields := strings.Fields(line)

		var (
			values grid.AttributeValues
			err    error
		)
		switch strings.ToUpper(fields[0]) {
		case "SCALARS":
			cur.next()
			values, err = readScalars(cur, fields, n)
		case "VECTORS":
			cur.next()
			values, err = readVectors(cur, fields, n)
		case "NORMALS", "TENSORS", "FIELD", "TEXTURE_COORDINATES", "COLOR_SCALARS":
			return fmt.Errorf("%w: line %d: %w: %s attribute", grid.ErrFormat, cur.pos+1, grid.ErrNotSupported, fields[0])
		default:
			return nil
		}
		if err != nil {
			return err
		}
		if err = add(fields[1], values); err != nil {
			return fmt.Errorf("%w: %w", grid.ErrFormat, err)
		}
	}
}

// readScalars reads the body of "SCALARS name datatype [numcomp]", an optional
// "LOOKUP_TABLE name" line and n values. Only single component scalars are accepted.
func readScalars(cur *lineCursor, header []string, n int) (grid.AttributeValues, error) {
	if len(header) < 3 {
		return nil, cur.errorf("SCALARS needs a name and a data type")
	}
	if len(header) >= 4 {
		numComp, err := strconv.Atoi(header[3])
		if err != nil || numComp != 1 {
			return nil, cur.errorf("SCALARS %s: %s components, only 1 is supported", header[1], header[3])
		}
	}
	if line, ok := cur.peek(); ok && strings.HasPrefix(strings.ToUpper(line), "LOOKUP_TABLE") {
		cur.next()
	}

	start := cur.pos
	lines, err := cur.take(n)
	if err != nil {
		return nil, err
	}
	values := make(grid.Scalars, n)
	for i, line := range lines {
		v, err := parseFloats(line, 1)
		if err != nil {
			return nil, cur.errorAt(start+i+1, "SCALARS %s value %d: %v", header[1], i, err)
		}
		values[i] = v[0]
	}
	return values, nil
}

// readVectors reads the body of "VECTORS name datatype": n lines of 3 components
func readVectors(cur *lineCursor, header []string, n int) (grid.AttributeValues, error) {
	if len(header) < 3 {
		return nil, cur.errorf("VECTORS needs a name and a data type")
	}

	start := cur.pos
	lines, err := cur.take(n)
	if err != nil {
		return nil, err
	}
	values := make(grid.Vectors, n)
	for i, line := range lines {
		v, err := parseFloats(line, 3)
		if err != nil {
			return nil, cur.errorAt(start+i+1, "VECTORS %s value %d: %v", header[1], i, err)
		}
		values[i] = v
	}
	return values, nil
}
