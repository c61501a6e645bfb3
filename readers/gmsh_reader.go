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

// PhysicalTagArray names the cell data array holding the Gmsh physical tag of
// each cell. It is only attached when at least one element carries a tag.
const PhysicalTagArray = "PhysicalTag"

type gmshElement struct {
	etype       utils.ElementType
	physicalTag int
	nodeIDs     []int
}

// ReadGmsh22 reads an ASCII Gmsh MSH file format version 2.2. Elements of the
// highest dimension present become cells, lower dimension elements on the
// boundary are dropped. The grid is 2D when no element is 3D and every node
// lies in the z = 0 plane.
func ReadGmsh22(filename string) (*grid.Grid, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var (
		points    []grid.Point
		nodeIndex = make(map[int]int)
		elements  []gmshElement
		hasFormat bool
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "$MeshFormat":
			if err = readMeshFormat22(scanner); err != nil {
				return nil, err
			}
			hasFormat = true

		case "$Nodes":
			if points, err = readNodes22(scanner, nodeIndex); err != nil {
				return nil, err
			}

		case "$Elements":
			if elements, err = readElements22(scanner); err != nil {
				return nil, err
			}

		default:
			// $PhysicalNames, $Periodic and the data sections have no VTK counterpart
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				if err = skipGmshSection(scanner, "$End"+line[1:]); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if !hasFormat {
		return nil, fmt.Errorf("%w: missing required $MeshFormat section", grid.ErrFormat)
	}

	return buildGmshGrid(points, nodeIndex, elements)
}

// readMeshFormat22 accepts "2.x 0 dataSize", binary files are not supported
func readMeshFormat22(scanner *bufio.Scanner) error {
	if !scanner.Scan() {
		return fmt.Errorf("%w: unexpected EOF in MeshFormat", grid.ErrFormat)
	}

	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("%w: invalid MeshFormat line", grid.ErrFormat)
	}
	if !strings.HasPrefix(parts[0], "2.") {
		return fmt.Errorf("%w: Gmsh version %s", grid.ErrNotSupported, parts[0])
	}
	if parts[1] != "0" {
		return fmt.Errorf("%w: binary Gmsh file", grid.ErrNotSupported)
	}

	return skipGmshSection(scanner, "$EndMeshFormat")
}

// readNodes22 reads "id x y z" lines and records the index of each node ID
func readNodes22(scanner *bufio.Scanner, nodeIndex map[int]int) ([]grid.Point, error) {
	numNodes, err := gmshCount(scanner, "Nodes")
	if err != nil {
		return nil, err
	}

	var points []grid.Point
	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("%w: unexpected EOF reading nodes", grid.ErrFormat)
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return nil, fmt.Errorf("%w: invalid node line: %s", grid.ErrFormat, scanner.Text())
		}

		nodeID, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid node ID %q", grid.ErrFormat, parts[0])
		}
		if _, dup := nodeIndex[nodeID]; dup {
			return nil, fmt.Errorf("%w: duplicate node ID %d", grid.ErrFormat, nodeID)
		}

		var p grid.Point
		for j := 0; j < 3; j++ {
			if p[j], err = strconv.ParseFloat(parts[1+j], 64); err != nil {
				return nil, fmt.Errorf("%w: invalid coordinate: %v", grid.ErrFormat, err)
			}
		}
		nodeIndex[nodeID] = len(points)
		points = append(points, p)
	}

	return points, skipGmshSection(scanner, "$EndNodes")
}

// readElements22 reads "id type numTags tag1 ... node1 node2 ..." lines.
// Element types with no VTK counterpart are skipped.
func readElements22(scanner *bufio.Scanner) ([]gmshElement, error) {
	numElements, err := gmshCount(scanner, "Elements")
	if err != nil {
		return nil, err
	}

	var elements []gmshElement
	for i := 0; i < numElements; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("%w: unexpected EOF reading elements", grid.ErrFormat)
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			return nil, fmt.Errorf("%w: invalid element line: %s", grid.ErrFormat, scanner.Text())
		}

		ints := make([]int, len(parts))
		for j, s := range parts {
			if ints[j], err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("%w: element line %d: invalid integer %q", grid.ErrFormat, i, s)
			}
		}
		elemID, elemType, numTags := ints[0], ints[1], ints[2]
		if numTags < 0 || len(parts) < 3+numTags {
			return nil, fmt.Errorf("%w: element %d: invalid tags", grid.ErrFormat, elemID)
		}

		etype, ok := gmshElementTypes[elemType]
		if !ok {
			continue
		}

		expectedNodes := etype.GetNumNodes()
		nodeStart := 3 + numTags
		if len(parts) < nodeStart+expectedNodes {
			return nil, fmt.Errorf("%w: element %d: expected %d nodes, got %d",
				grid.ErrFormat, elemID, expectedNodes, len(parts)-nodeStart)
		}

		elem := gmshElement{
			etype:   etype,
			nodeIDs: ints[nodeStart : nodeStart+expectedNodes],
		}
		if numTags > 0 {
			elem.physicalTag = ints[3]
		}
		elements = append(elements, elem)
	}

	return elements, skipGmshSection(scanner, "$EndElements")
}

func buildGmshGrid(points []grid.Point, nodeIndex map[int]int, elements []gmshElement) (*grid.Grid, error) {
	meshDim := 0
	for _, e := range elements {
		meshDim = max(meshDim, e.etype.GetDimension())
	}

	dim := 3
	if meshDim < 3 && inPlaneZ0(points) {
		dim = 2
	}
	g, err := grid.New(dim)
	if err != nil {
		return nil, err
	}
	if err = g.AddPoints(points...); err != nil {
		return nil, err
	}

	var (
		tags    grid.Scalars
		hasTags bool
	)
	for _, e := range elements {
		if e.etype.GetDimension() < meshDim {
			continue
		}

		indices := make([]int, len(e.nodeIDs))
		for i, id := range e.nodeIDs {
			idx, ok := nodeIndex[id]
			if !ok {
				return nil, fmt.Errorf("%w: %v element references unknown node %d",
					grid.ErrFormat, e.etype, id)
			}
			indices[i] = idx
		}
		if order, ok := gmshToVTKOrder[e.etype]; ok {
			reordered := make([]int, len(order))
			for i, j := range order {
				reordered[i] = indices[j]
			}
			indices = reordered
		}

		if err = g.AddCell(e.etype.VTKCellType(), indices...); err != nil {
			return nil, err
		}
		tags = append(tags, float64(e.physicalTag))
		hasTags = hasTags || e.physicalTag != 0
	}

	if hasTags {
		if err = g.AddCellData(PhysicalTagArray, tags); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func inPlaneZ0(points []grid.Point) bool {
	for _, p := range points {
		if p[2] != 0 {
			return false
		}
	}
	return true
}

// gmshCount reads the entry count opening a section
func gmshCount(scanner *bufio.Scanner, section string) (int, error) {
	if !scanner.Scan() {
		return 0, fmt.Errorf("%w: unexpected EOF in %s", grid.ErrFormat, section)
	}
	n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s count %q", grid.ErrFormat, section, scanner.Text())
	}
	return n, nil
}

// skipGmshSection consumes lines up to and including endMarker
func skipGmshSection(scanner *bufio.Scanner, endMarker string) error {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == endMarker {
			return nil
		}
	}
	return fmt.Errorf("%w: missing %s", grid.ErrFormat, endMarker)
}

// gmshElementTypes maps Gmsh element type numbers to our ElementType
var gmshElementTypes = map[int]utils.ElementType{
	1:  utils.Line,      // 2-node line
	2:  utils.Triangle,  // 3-node triangle
	3:  utils.Quad,      // 4-node quadrangle
	4:  utils.Tet,       // 4-node tetrahedron
	5:  utils.Hex,       // 8-node hexahedron
	6:  utils.Prism,     // 6-node prism
	7:  utils.Pyramid,   // 5-node pyramid
	8:  utils.Line3,     // 3-node line
	9:  utils.Triangle6, // 6-node triangle
	10: utils.Quad9,     // 9-node quadrangle
	11: utils.Tet10,     // 10-node tetrahedron
	12: utils.Hex27,     // 27-node hexahedron
	15: utils.Point,     // 1-node point
	16: utils.Quad8,     // 8-node quadrangle
	17: utils.Hex20,     // 20-node hexahedron
	18: utils.Prism15,   // 15-node prism
	19: utils.Pyramid13, // 13-node pyramid
}

// gmshToVTKOrder lists, for each VTK node position, the Gmsh node that goes
// there. Element types not listed share the same ordering.
var gmshToVTKOrder = map[utils.ElementType][]int{
	utils.Tet10:     {0, 1, 2, 3, 4, 5, 6, 7, 9, 8},
	utils.Hex20:     {0, 1, 2, 3, 4, 5, 6, 7, 8, 11, 13, 9, 16, 18, 19, 17, 10, 12, 14, 15},
	utils.Hex27:     {0, 1, 2, 3, 4, 5, 6, 7, 8, 11, 13, 9, 16, 18, 19, 17, 10, 12, 14, 15, 22, 23, 21, 24, 20, 25, 26},
	utils.Prism15:   {0, 1, 2, 3, 4, 5, 6, 9, 7, 12, 14, 13, 8, 10, 11},
	utils.Pyramid13: {0, 1, 2, 3, 4, 5, 8, 10, 6, 7, 9, 11, 12},
}
