package utils

import "github.com/notargets/vtkio/grid"

// ElementType represents the element shapes that have a VTK cell type code
type ElementType int

const (
	Unknown ElementType = iota
	// 0D elements
	Point
	// 1D elements
	Line
	Line3 // 3-node line (quadratic)
	// 2D elements
	Triangle
	Quad
	Triangle6 // 6-node triangle (quadratic)
	Quad8     // 8-node quad (quadratic)
	Quad9     // 9-node quad (biquadratic)
	// 3D elements
	Tet
	Hex
	Prism
	Pyramid
	Tet10     // 10-node tetrahedron (quadratic)
	Hex20     // 20-node hexahedron (quadratic)
	Hex27     // 27-node hexahedron (triquadratic)
	Prism15   // 15-node prism (quadratic)
	Pyramid13 // 13-node pyramid (quadratic)
)

// String representation of element types
func (e ElementType) String() string {
	names := []string{
		"Unknown",
		"Point",
		"Line", "Line3",
		"Triangle", "Quad", "Triangle6", "Quad8", "Quad9",
		"Tet", "Hex", "Prism", "Pyramid",
		"Tet10", "Hex20", "Hex27", "Prism15", "Pyramid13",
	}
	if e >= 0 && int(e) < len(names) {
		return names[e]
	}
	return "Invalid"
}

// GetDimension returns the spatial dimension of the element
func (e ElementType) GetDimension() int {
	switch e {
	case Point:
		return 0
	case Line, Line3:
		return 1
	case Triangle, Quad, Triangle6, Quad8, Quad9:
		return 2
	case Tet, Hex, Prism, Pyramid, Tet10, Hex20, Hex27, Prism15, Pyramid13:
		return 3
	default:
		return -1
	}
}

// GetNumNodes returns the number of nodes for each element type
func (e ElementType) GetNumNodes() int {
	switch e {
	case Point:
		return 1
	case Line:
		return 2
	case Line3:
		return 3
	case Triangle:
		return 3
	case Quad:
		return 4
	case Triangle6:
		return 6
	case Quad8:
		return 8
	case Quad9:
		return 9
	case Tet:
		return 4
	case Hex:
		return 8
	case Prism:
		return 6
	case Pyramid:
		return 5
	case Tet10:
		return 10
	case Hex20:
		return 20
	case Hex27:
		return 27
	case Prism15:
		return 15
	case Pyramid13:
		return 13
	default:
		return 0
	}
}

// vtkCellTypes maps element types to the VTK cell type enumeration
var vtkCellTypes = map[ElementType]grid.CellType{
	Point:     grid.VTKVertex,
	Line:      grid.VTKLine,
	Line3:     21, // VTK_QUADRATIC_EDGE
	Triangle:  grid.VTKTriangle,
	Quad:      grid.VTKQuad,
	Triangle6: 22, // VTK_QUADRATIC_TRIANGLE
	Quad8:     23, // VTK_QUADRATIC_QUAD
	Quad9:     28, // VTK_BIQUADRATIC_QUAD
	Tet:       grid.VTKTetra,
	Hex:       grid.VTKHexahedron,
	Prism:     grid.VTKWedge,
	Pyramid:   grid.VTKPyramid,
	Tet10:     24, // VTK_QUADRATIC_TETRA
	Hex20:     25, // VTK_QUADRATIC_HEXAHEDRON
	Hex27:     29, // VTK_TRIQUADRATIC_HEXAHEDRON
	Prism15:   26, // VTK_QUADRATIC_WEDGE
	Pyramid13: 27, // VTK_QUADRATIC_PYRAMID
}

var elementTypesByVTK = func() map[grid.CellType]ElementType {
	m := make(map[grid.CellType]ElementType, len(vtkCellTypes))
	for et, ct := range vtkCellTypes {
		m[ct] = et
	}
	return m
}()

// VTKCellType returns the VTK code of the element type, 0 for Unknown
func (e ElementType) VTKCellType() grid.CellType {
	return vtkCellTypes[e]
}

// ElementTypeFromVTK returns Unknown for codes without an ElementType
func ElementTypeFromVTK(ct grid.CellType) ElementType {
	return elementTypesByVTK[ct]
}
