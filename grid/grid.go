package grid

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// DefaultThreshold is the magnitude below which point data values are stored as zero
const DefaultThreshold = 1.e-10

// Point is a vertex location, index in Grid.Points() is its ID
type Point [3]float64

// CellType is a VTK cell type code. The codec carries it without interpreting it.
type CellType int

const (
	VTKVertex     CellType = 1
	VTKLine       CellType = 3
	VTKTriangle   CellType = 5
	VTKQuad       CellType = 9
	VTKTetra      CellType = 10
	VTKHexahedron CellType = 12
	VTKWedge      CellType = 13
	VTKPyramid    CellType = 14
)

// Cell references the grid points that make it up
type Cell struct {
	Indices []int
	Type    CellType
}

// Grid is an unstructured grid: points, cells and the attribute arrays attached
// to each. All mutators append, and each one leaves the grid consistent:
//   - every point data array has NumPoints() values
//   - every cell data array has NumCells() values
//   - every cell index lies in [0, NumPoints())
//
// The zero Grid is an empty 3D grid. A Grid is not safe for concurrent mutation.
type Grid struct {
	dim       int
	points    []Point
	cells     []Cell
	pointData []DataArray
	cellData  []DataArray
}

// New returns an empty grid of spatial dimension 2 or 3
func New(dim int) (*Grid, error) {
	if dim != 2 && dim != 3 {
		return nil, fmt.Errorf("%w: grid dimension %d", ErrNotSupported, dim)
	}
	return &Grid{dim: dim}, nil
}

func (g *Grid) Dim() int {
	if g.dim == 0 {
		return 3
	}
	return g.dim
}

func (g *Grid) NumPoints() int { return len(g.points) }
func (g *Grid) NumCells() int  { return len(g.cells) }

// Points, Cells, PointData and CellData expose the grid storage, callers must not modify them
func (g *Grid) Points() []Point        { return g.points }
func (g *Grid) Cells() []Cell          { return g.cells }
func (g *Grid) PointData() []DataArray { return g.pointData }
func (g *Grid) CellData() []DataArray  { return g.cellData }

// AddPoints appends points. Points can't be added once point data is attached.
func (g *Grid) AddPoints(points ...Point) error {
	if len(points) != 0 && len(g.pointData) != 0 {
		return fmt.Errorf("%w: cannot add points after %d point data arrays are attached",
			ErrShape, len(g.pointData))
	}
	g.points = append(g.points, points...)
	return nil
}

// AddCell appends a cell built from existing points
func (g *Grid) AddCell(cellType CellType, indices ...int) error {
	if len(g.cellData) != 0 {
		return fmt.Errorf("%w: cannot add cells after %d cell data arrays are attached",
			ErrShape, len(g.cellData))
	}
	if len(indices) == 0 {
		return fmt.Errorf("%w: cell %d has no points", ErrShape, len(g.cells))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(g.points) {
			return fmt.Errorf("%w: cell %d point index %d out of range [0,%d)",
				ErrShape, len(g.cells), idx, len(g.points))
		}
	}
	ind := make([]int, len(indices))
	copy(ind, indices)
	g.cells = append(g.cells, Cell{Indices: ind, Type: cellType})
	return nil
}

// AddPointData attaches a copy of values to the points. Values (or vector
// components) with magnitude below threshold, DefaultThreshold if omitted, are
// stored as exactly zero.
func (g *Grid) AddPointData(name string, values AttributeValues, threshold ...float64) error {
	if err := checkArray(name, values, len(g.points), g.Dim()); err != nil {
		return err
	}
	thr := DefaultThreshold
	if len(threshold) != 0 {
		thr = threshold[0]
	}
	v := values.clone()
	snapToZero(v, thr)
	g.pointData = append(g.pointData, DataArray{Name: name, Values: v})
	return nil
}

// AddCellData attaches a copy of values to the cells, values are stored unchanged
func (g *Grid) AddCellData(name string, values AttributeValues) error {
	if err := checkArray(name, values, len(g.cells), g.Dim()); err != nil {
		return err
	}
	g.cellData = append(g.cellData, DataArray{Name: name, Values: values.clone()})
	return nil
}

// Validate re-checks the structural invariants of the grid
func (g *Grid) Validate() error {
	for i, c := range g.cells {
		if len(c.Indices) == 0 {
			return fmt.Errorf("%w: cell %d has no points", ErrShape, i)
		}
		for _, idx := range c.Indices {
			if idx < 0 || idx >= len(g.points) {
				return fmt.Errorf("%w: cell %d point index %d out of range [0,%d)",
					ErrShape, i, idx, len(g.points))
			}
		}
	}
	for _, d := range g.pointData {
		if err := checkArray(d.Name, d.Values, len(g.points), g.Dim()); err != nil {
			return fmt.Errorf("point data: %w", err)
		}
	}
	for _, d := range g.cellData {
		if err := checkArray(d.Name, d.Values, len(g.cells), g.Dim()); err != nil {
			return fmt.Errorf("cell data: %w", err)
		}
	}
	return nil
}

// PointMatrix returns the point coordinates as a NumPoints x 3 matrix, nil for an empty grid
func (g *Grid) PointMatrix() *mat.Dense {
	if len(g.points) == 0 {
		return nil
	}
	data := make([]float64, 0, 3*len(g.points))
	for _, p := range g.points {
		data = append(data, p[0], p[1], p[2])
	}
	return mat.NewDense(len(g.points), 3, data)
}

// Equal compares geometry and attributes of two grids, floats within tol
// absolute or relative. A 2 wide vector equals a 3 wide one with a zero third
// component, since that is how it reads back from a file. Dim is not
// compared, so a 2D grid equals the 3D grid it reads back as.
// Two nil grids are equal, a nil and a non nil grid are not.
func (g *Grid) Equal(other *Grid, tol float64) bool {
	if g == nil || other == nil {
		return g == other
	}
	if len(g.points) != len(other.points) || len(g.cells) != len(other.cells) ||
		len(g.pointData) != len(other.pointData) || len(g.cellData) != len(other.cellData) {
		return false
	}
	for i := range g.points {
		for j := 0; j < 3; j++ {
			if !scalar.EqualWithinAbsOrRel(g.points[i][j], other.points[i][j], tol, tol) {
				return false
			}
		}
	}
	for i, c := range g.cells {
		oc := other.cells[i]
		if c.Type != oc.Type || len(c.Indices) != len(oc.Indices) {
			return false
		}
		for j := range c.Indices {
			if c.Indices[j] != oc.Indices[j] {
				return false
			}
		}
	}
	for i := range g.pointData {
		if !arraysEqual(g.pointData[i], other.pointData[i], tol) {
			return false
		}
	}
	for i := range g.cellData {
		if !arraysEqual(g.cellData[i], other.cellData[i], tol) {
			return false
		}
	}
	return true
}

func arraysEqual(a, b DataArray, tol float64) bool {
	if a.Name != b.Name || a.Kind() != b.Kind() || a.Len() != b.Len() {
		return false
	}
	switch av := a.Values.(type) {
	case Scalars:
		bv := b.Scalars()
		for i := range av {
			if !scalar.EqualWithinAbsOrRel(av[i], bv[i], tol, tol) {
				return false
			}
		}
	case Vectors:
		bv := b.Vectors()
		for i := range av {
			for j := 0; j < 3; j++ {
				if !scalar.EqualWithinAbsOrRel(component(av[i], j), component(bv[i], j), tol, tol) {
					return false
				}
			}
		}
	}
	return true
}

func component(tuple []float64, j int) float64 {
	if j < len(tuple) {
		return tuple[j]
	}
	return 0.
}
