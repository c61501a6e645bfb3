package readers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/vtkio/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gmshTwoTets = `$MeshFormat
2.2 0 8
$EndMeshFormat
$PhysicalNames
2
2 1 "wall"
3 2 "fluid"
$EndPhysicalNames
$Nodes
5
1 0.0 0.0 0.0
2 1.0 0.0 0.0
3 0.0 1.0 0.0
4 0.0 0.0 1.0
5 1.0 1.0 1.0
$EndNodes
$Elements
3
1 2 2 1 10 1 2 3
2 4 2 2 20 1 2 3 4
3 4 2 2 20 2 3 4 5
$EndElements
`

// Helper function to create temporary test files
func createTempMshFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.msh")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

func TestReadGmsh22Empty(t *testing.T) {
	content := `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
0
$EndNodes
$Elements
0
$EndElements`

	g, err := ReadGmsh22(createTempMshFile(t, content))
	require.NoError(t, err)
	assert.Equal(t, 0, g.NumPoints())
	assert.Equal(t, 0, g.NumCells())
	assert.Empty(t, g.CellData())
}

func TestReadGmsh22TwoTets(t *testing.T) {
	g, err := ReadGmsh22(createTempMshFile(t, gmshTwoTets))
	require.NoError(t, err)

	assert.Equal(t, 3, g.Dim())
	require.Equal(t, 5, g.NumPoints())
	assert.Equal(t, grid.Point{1, 1, 1}, g.Points()[4])

	// the boundary triangle is dropped
	require.Equal(t, 2, g.NumCells())
	for i, c := range g.Cells() {
		assert.Equal(t, grid.VTKTetra, c.Type, "cell %d", i)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, g.Cells()[0].Indices)
	assert.Equal(t, []int{1, 2, 3, 4}, g.Cells()[1].Indices)

	require.Len(t, g.CellData(), 1)
	assert.Equal(t, PhysicalTagArray, g.CellData()[0].Name)
	assert.Equal(t, grid.Scalars{2, 2}, g.CellData()[0].Scalars())
}

func TestReadGmsh22NodesWithArbitraryIDs(t *testing.T) {
	content := `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
5
10 0.0 0.0 0.0
25 1.0 0.0 0.0
30 1.0 1.0 0.0
100 0.0 1.0 0.0
200 0.5 0.5 0.5
$EndNodes
$Elements
1
1 4 0 10 25 30 200
$EndElements`

	g, err := ReadGmsh22(createTempMshFile(t, content))
	require.NoError(t, err)

	assert.Equal(t, []grid.Point{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0.5, 0.5, 0.5}}, g.Points())
	require.Equal(t, 1, g.NumCells())
	assert.Equal(t, []int{0, 1, 2, 4}, g.Cells()[0].Indices)
	// no tags, no array
	assert.Empty(t, g.CellData())
}

func TestReadGmsh22TwoDimensional(t *testing.T) {
	content := `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
6
1 0 0 0
2 1 0 0
3 2 0 0
4 0 1 0
5 1 1 0
6 2 1 0
$EndNodes
$Elements
4
1 1 2 5 1 1 2
2 1 2 5 1 2 3
3 3 2 7 2 1 2 5 4
4 3 2 7 2 2 3 6 5
$EndElements
`
	t.Run("Planar", func(t *testing.T) {
		g, err := ReadGmsh22(createTempMshFile(t, content))
		require.NoError(t, err)
		assert.Equal(t, 2, g.Dim())
		require.Equal(t, 2, g.NumCells())
		assert.Equal(t, grid.VTKQuad, g.Cells()[1].Type)
		assert.Equal(t, []int{1, 2, 5, 4}, g.Cells()[1].Indices)
		assert.Equal(t, grid.Scalars{7, 7}, g.CellData()[0].Scalars())
	})

	t.Run("OutOfPlane", func(t *testing.T) {
		lifted := `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
3
1 0 0 1
2 1 0 1
3 0 1 1
$EndNodes
$Elements
1
1 2 0 1 2 3
$EndElements
`
		g, err := ReadGmsh22(createTempMshFile(t, lifted))
		require.NoError(t, err)
		assert.Equal(t, 3, g.Dim())
		assert.Equal(t, grid.VTKTriangle, g.Cells()[0].Type)
	})
}

func TestReadGmsh22QuadraticTetOrdering(t *testing.T) {
	content := `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
10
1 0 0 0
2 1 0 0
3 0 1 0
4 0 0 1
5 0.5 0 0
6 0.5 0.5 0
7 0 0.5 0
8 0 0 0.5
9 0 0.5 0.5
10 0.5 0 0.5
$EndNodes
$Elements
1
1 11 0 1 2 3 4 5 6 7 8 9 10
$EndElements
`
	g, err := ReadGmsh22(createTempMshFile(t, content))
	require.NoError(t, err)
	require.Equal(t, 1, g.NumCells())

	c := g.Cells()[0]
	assert.Equal(t, grid.CellType(24), c.Type)
	// VTK wants edge (1,3) before edge (2,3)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 9, 8}, c.Indices)
	assert.Equal(t, grid.Point{0.5, 0, 0.5}, g.Points()[c.Indices[8]])
}

func TestReadGmsh22SkipsSections(t *testing.T) {
	content := `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
3
1 0 0 0
2 1 0 0
3 0 1 0
$EndNodes
$Elements
2
1 2 0 1 2 3
2 13 0 1 2 3 1 2 3 1 2 3 1 2 3 1 2 3
$EndElements
$Periodic
1
1 1 2
2
1 2
3 3
$EndPeriodic
$NodeData
1
"temperature"
1
0.0
3
3
1 10.0
2 20.0
3 30.0
$EndNodeData
`
	g, err := ReadGmsh22(createTempMshFile(t, content))
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumPoints())
	// the 18-node prism has no VTK counterpart
	assert.Equal(t, 1, g.NumCells())
	assert.Empty(t, g.PointData())
}

func TestReadGmsh22ErrorHandling(t *testing.T) {
	const format = "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n"
	const threeNodes = "$Nodes\n3\n1 0 0 0\n2 1 0 0\n3 0 1 0\n$EndNodes\n"

	testCases := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"Missing format", threeNodes, "$MeshFormat"},
		{"Short format", "$MeshFormat\n2.2\n$EndMeshFormat\n", "invalid MeshFormat"},
		{"Truncated format", "$MeshFormat\n2.2 0 8\n", "missing $EndMeshFormat"},
		{"Bad node count", format + "$Nodes\nmany\n$EndNodes\n", "invalid Nodes count"},
		{"Truncated nodes", format + "$Nodes\n2\n1 0 0 0\n", "EOF reading nodes"},
		{"Huge node count", format + "$Nodes\n9223372036854775807\n1 0 0 0\n", "EOF reading nodes"},
		{"Short node", format + "$Nodes\n1\n1 0 0\n$EndNodes\n", "invalid node line"},
		{"Bad coordinate", format + "$Nodes\n1\n1 0 zero 0\n$EndNodes\n", "invalid coordinate"},
		{"Duplicate node", format + "$Nodes\n2\n1 0 0 0\n1 1 0 0\n$EndNodes\n", "duplicate node ID 1"},
		{"Missing end of nodes", format + "$Nodes\n1\n1 0 0 0\n", "missing $EndNodes"},
		{"Huge element count", format + threeNodes + "$Elements\n9223372036854775807\n1 2 0 1 2 3\n", "EOF reading elements"},
		{"Bad element integer", format + threeNodes + "$Elements\n1\n1 2 0 1 two 3\n$EndElements\n", "invalid integer"},
		{"Bad tag count", format + threeNodes + "$Elements\n1\n1 2 5 1 2 3\n$EndElements\n", "invalid tags"},
		{"Short element", format + threeNodes + "$Elements\n1\n1 2 0 1 2\n$EndElements\n", "expected 3 nodes"},
		{"Unknown node", format + threeNodes + "$Elements\n1\n1 2 0 1 2 4\n$EndElements\n", "unknown node 4"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := ReadGmsh22(createTempMshFile(t, tc.content))
			require.Error(t, err)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, grid.ErrFormat)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}

	t.Run("Unsupported", func(t *testing.T) {
		_, err := ReadGmsh22(createTempMshFile(t, "$MeshFormat\n4.1 0 8\n$EndMeshFormat\n"))
		assert.ErrorIs(t, err, grid.ErrNotSupported)
		_, err = ReadGmsh22(createTempMshFile(t, "$MeshFormat\n2.2 1 8\n$EndMeshFormat\n"))
		assert.ErrorIs(t, err, grid.ErrNotSupported)
	})
}
