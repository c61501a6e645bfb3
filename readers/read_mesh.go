package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/vtkio/grid"
)

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*grid.Grid, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".vtk":
		return ReadVTK(filename)
	case ".su2":
		return ReadSU2(filename)
	case ".msh":
		return ReadGmsh22(filename)
	default:
		return nil, fmt.Errorf("%w: mesh format %q", grid.ErrNotSupported, ext)
	}
}
