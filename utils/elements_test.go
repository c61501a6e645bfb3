package utils

import (
	"testing"

	"github.com/notargets/vtkio/grid"
	"github.com/stretchr/testify/assert"
)

func TestVTKCellTypeMapping(t *testing.T) {
	for et := Point; et <= Pyramid13; et++ {
		ct := et.VTKCellType()
		assert.NotZero(t, ct, "%v has no VTK code", et)
		assert.Equal(t, et, ElementTypeFromVTK(ct))
		assert.NotZero(t, et.GetNumNodes())
	}
	assert.Equal(t, Tet, ElementTypeFromVTK(grid.VTKTetra))
	assert.Equal(t, Hex, ElementTypeFromVTK(12))
	assert.Equal(t, Unknown, ElementTypeFromVTK(42))
	assert.Equal(t, grid.CellType(0), Unknown.VTKCellType())
}

func TestElementTypeString(t *testing.T) {
	assert.Equal(t, "Tet", Tet.String())
	assert.Equal(t, "Pyramid13", Pyramid13.String())
	assert.Equal(t, "Invalid", ElementType(99).String())
	assert.Equal(t, 3, Prism15.GetDimension())
	assert.Equal(t, 2, Quad9.GetDimension())
	assert.Equal(t, -1, Unknown.GetDimension())
}
