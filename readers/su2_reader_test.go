package readers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/vtkio/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const su2TwoTriangles = `% unit square split in two
NDIME= 2
NPOIN= 4
0.0 0.0 0
1.0 0.0 1
1.0 1.0 2
0.0 1.0 3
NELEM= 2
5 0 1 2 0
5 0 2 3 1
NMARK= 1
MARKER_TAG= wall
MARKER_ELEMS= 4
3 0 1
3 1 2
3 2 3
3 3 0
`

// Helper function to create temporary test files
func createTempSU2File(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.su2")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

func TestReadSU2TwoDimensional(t *testing.T) {
	g, err := ReadSU2(createTempSU2File(t, su2TwoTriangles))
	require.NoError(t, err)

	assert.Equal(t, 2, g.Dim())
	require.Equal(t, 4, g.NumPoints())
	assert.Equal(t, grid.Point{1, 1, 0}, g.Points()[2])
	require.Equal(t, 2, g.NumCells())
	assert.Equal(t, grid.VTKTriangle, g.Cells()[1].Type)
	assert.Equal(t, []int{0, 2, 3}, g.Cells()[1].Indices)
}

func TestReadSU2ThreeDimensional(t *testing.T) {
	content := `NDIME= 3
NPOIN= 5
0 0 0
1 0 0
1 1 0
0 1 0
0.5 0.5 1   % apex
NELEM= 3
14 0 1 2 3 4
10 0 1 3 4
10 1 2 3 4
`
	g, err := ReadSU2(createTempSU2File(t, content))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Dim())
	assert.Equal(t, grid.Point{0.5, 0.5, 1}, g.Points()[4])
	require.Equal(t, 3, g.NumCells())
	assert.Equal(t, grid.VTKPyramid, g.Cells()[0].Type)
	assert.Equal(t, []int{1, 2, 3, 4}, g.Cells()[2].Indices)
}

func TestReadSU2ErrorHandling(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"Invalid dimension", "NDIME= 4\nNPOIN= 0\n", "unsupported dimension"},
		{"Missing dimension", "NPOIN= 0\n", "NDIME"},
		{"Missing elements", "NDIME= 2\nNPOIN= 0\n", "NELEM"},
		{"Truncated nodes", "NDIME= 2\nNPOIN= 2\n0 0\n", "EOF reading nodes"},
		{"Huge node count", "NDIME= 2\nNPOIN= 9223372036854775807\n0 0\n", "EOF reading nodes"},
		{"Huge element count", "NDIME= 2\nNPOIN= 1\n0 0\nNELEM= 9223372036854775807\n1 0\n", "EOF reading elements"},
		{"Short node", "NDIME= 3\nNPOIN= 1\n0 0\n", "at least 3"},
		{"Unknown element", "NDIME= 2\nNPOIN= 1\n0 0\nNELEM= 1\n42 0\n", "unknown element type"},
		{"Short element", "NDIME= 2\nNPOIN= 3\n0 0\n1 0\n0 1\nNELEM= 1\n5 0 1\n", "expects 3 nodes"},
		{"Volume element in 2D mesh", "NDIME= 2\nNPOIN= 4\n0 0\n1 0\n0 1\n1 1\nNELEM= 1\n10 0 1 2 3\n", "Tet element in a 2D mesh"},
		{"Node out of range", "NDIME= 2\nNPOIN= 3\n0 0\n1 0\n0 1\nNELEM= 1\n5 0 1 3\n", "out of range"},
		{"Bad marker", "NDIME= 2\nNPOIN= 0\nNELEM= 0\nNMARK= 1\nMARKER_ELEMS= 0\n", "MARKER_TAG"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadSU2(createTempSU2File(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
