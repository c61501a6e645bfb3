package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/vtkio/grid"
	"github.com/notargets/vtkio/utils"
)

// ReadSU2 reads an SU2 native format file into a grid. SU2 element lines
// already carry VTK cell type codes, so cells are copied across unchanged.
// Boundary markers have no VTK counterpart and are skipped.
func ReadSU2(filename string) (*grid.Grid, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var (
		g                 *grid.Grid
		ndime             int
		hasNPOIN, hasNELEM bool
	)

	for scanner.Scan() {
		line := stripSU2Comment(scanner.Text())

		// Skip empty lines
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "NDIME=") {
			if ndime, err = su2Value(line, "NDIME="); err != nil {
				return nil, err
			}
			if g, err = grid.New(ndime); err != nil {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d: %w", ndime, err)
			}

		} else if strings.HasPrefix(line, "NPOIN=") {
			if g == nil {
				return nil, fmt.Errorf("%w: NPOIN= before NDIME=", grid.ErrFormat)
			}
			hasNPOIN = true
			npoin, err := su2Value(line, "NPOIN=")
			if err != nil {
				return nil, err
			}

			// NPOIN is not trusted for preallocation, the file may be truncated
			var points []grid.Point
			for i := 0; i < npoin; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("%w: unexpected EOF reading nodes", grid.ErrFormat)
				}

				fields := strings.Fields(scanner.Text())
				if len(fields) < ndime {
					return nil, fmt.Errorf("%w: invalid node line: expected at least %d coordinates",
						grid.ErrFormat, ndime)
				}

				// 2D points keep z = 0, a trailing node ID is ignored
				var p grid.Point
				for j := 0; j < ndime; j++ {
					if p[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, fmt.Errorf("%w: invalid coordinate: %v", grid.ErrFormat, err)
					}
				}
				points = append(points, p)
			}
			if err = g.AddPoints(points...); err != nil {
				return nil, err
			}

		} else if strings.HasPrefix(line, "NELEM=") {
			if !hasNPOIN {
				return nil, fmt.Errorf("%w: NELEM= before NPOIN=", grid.ErrFormat)
			}
			hasNELEM = true
			nelem, err := su2Value(line, "NELEM=")
			if err != nil {
				return nil, err
			}

			for i := 0; i < nelem; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("%w: unexpected EOF reading elements", grid.ErrFormat)
				}
				if err = readSU2Element(g, strings.Fields(scanner.Text())); err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
			}

		} else if strings.HasPrefix(line, "NMARK=") {
			nmark, err := su2Value(line, "NMARK=")
			if err != nil {
				return nil, err
			}
			if err = skipSU2Markers(scanner, nmark); err != nil {
				return nil, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	// Validate that we read the required sections
	if g == nil {
		return nil, fmt.Errorf("%w: missing required NDIME= section", grid.ErrFormat)
	}
	if !hasNPOIN {
		return nil, fmt.Errorf("%w: missing required NPOIN= section", grid.ErrFormat)
	}
	if !hasNELEM {
		return nil, fmt.Errorf("%w: missing required NELEM= section", grid.ErrFormat)
	}

	return g, nil
}

// readSU2Element parses "vtkType n0 n1 ... [elemID]"
func readSU2Element(g *grid.Grid, fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("%w: invalid element line", grid.ErrFormat)
	}

	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("%w: invalid element type: %v", grid.ErrFormat, err)
	}
	cellType := grid.CellType(code)
	etype := utils.ElementTypeFromVTK(cellType)
	if etype == utils.Unknown {
		return fmt.Errorf("%w: unknown element type: %d", grid.ErrFormat, code)
	}

	if etype.GetDimension() > g.Dim() {
		return fmt.Errorf("%w: %v element in a %dD mesh", grid.ErrFormat, etype, g.Dim())
	}

	numNodes := etype.GetNumNodes()
	if len(fields) < numNodes+1 {
		return fmt.Errorf("%w: element type %v expects %d nodes, got %d fields",
			grid.ErrFormat, etype, numNodes, len(fields)-1)
	}

	nodes := make([]int, numNodes)
	for j := 0; j < numNodes; j++ {
		if nodes[j], err = strconv.Atoi(fields[1+j]); err != nil {
			return fmt.Errorf("%w: invalid node index: %v", grid.ErrFormat, err)
		}
	}
	if err = g.AddCell(cellType, nodes...); err != nil {
		return fmt.Errorf("%w: %w", grid.ErrFormat, err)
	}
	return nil
}

// skipSU2Markers consumes nmark MARKER_TAG= / MARKER_ELEMS= blocks
func skipSU2Markers(scanner *bufio.Scanner, nmark int) error {
	for i := 0; i < nmark; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("%w: unexpected EOF reading marker %d", grid.ErrFormat, i)
		}
		markerLine := stripSU2Comment(scanner.Text())
		if !strings.HasPrefix(markerLine, "MARKER_TAG=") {
			return fmt.Errorf("%w: expected MARKER_TAG=, got: %s", grid.ErrFormat, markerLine)
		}
		tagName := strings.TrimSpace(strings.TrimPrefix(markerLine, "MARKER_TAG="))

		if !scanner.Scan() {
			return fmt.Errorf("%w: unexpected EOF reading marker elements for %s", grid.ErrFormat, tagName)
		}
		nMarkerElems, err := su2Value(stripSU2Comment(scanner.Text()), "MARKER_ELEMS=")
		if err != nil {
			return err
		}
		for j := 0; j < nMarkerElems; j++ {
			if !scanner.Scan() {
				return fmt.Errorf("%w: unexpected EOF reading boundary elements for %s", grid.ErrFormat, tagName)
			}
		}
	}
	return nil
}

// stripSU2Comment trims the line and drops text after %
func stripSU2Comment(line string) string {
	if idx := strings.Index(line, "%"); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

// su2Value parses the first integer after a KEY= prefix, "NPOIN= 10 8" gives 10
func su2Value(line, key string) (int, error) {
	fields := strings.Fields(strings.TrimPrefix(line, key))
	if !strings.HasPrefix(line, key) || len(fields) == 0 {
		return 0, fmt.Errorf("%w: invalid %s line: %s", grid.ErrFormat, key, line)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s line: %s", grid.ErrFormat, key, line)
	}
	return n, nil
}
