/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/vtkio/grid"
	"github.com/notargets/vtkio/readers"
	"github.com/notargets/vtkio/utils"
)

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the content summary of a VTK, SU2 or Gmsh mesh",
	Long:  `Print the content summary of a VTK, SU2 or Gmsh mesh`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename, _ := cmd.Flags().GetString("inputFile")
		g, err := readers.ReadMeshFile(filename)
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
		PrintStatistics(os.Stdout, g)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(InfoCmd)
	InfoCmd.Flags().StringP("inputFile", "F", "", "mesh file to read, .vtk, .su2 or .msh")
	InfoCmd.MarkFlagRequired("inputFile")
}

// PrintStatistics prints grid statistics
func PrintStatistics(w io.Writer, g *grid.Grid) {
	fmt.Fprintf(w, "Grid Statistics:\n")
	fmt.Fprintf(w, "  Dimension: %d\n", g.Dim())
	fmt.Fprintf(w, "  Points: %d\n", g.NumPoints())
	fmt.Fprintf(w, "  Cells: %d\n", g.NumCells())
	printBoundingBox(w, g.PointMatrix())

	// Count cell types
	typeCounts := make(map[grid.CellType]int)
	for _, c := range g.Cells() {
		typeCounts[c.Type]++
	}
	cellTypes := make([]grid.CellType, 0, len(typeCounts))
	for ct := range typeCounts {
		cellTypes = append(cellTypes, ct)
	}
	sort.Slice(cellTypes, func(i, j int) bool { return cellTypes[i] < cellTypes[j] })

	fmt.Fprintf(w, "  Cell types:\n")
	for _, ct := range cellTypes {
		fmt.Fprintf(w, "    %s (%d): %d\n", utils.ElementTypeFromVTK(ct), ct, typeCounts[ct])
	}

	printArrays(w, "Point data", g.PointData())
	printArrays(w, "Cell data", g.CellData())
}

// printBoundingBox prints the coordinate range per axis, nothing for an empty grid
func printBoundingBox(w io.Writer, points *mat.Dense) {
	if points == nil {
		return
	}
	rows, _ := points.Dims()
	col := make([]float64, rows)
	fmt.Fprintf(w, "  Bounding box:\n")
	for j, axis := range []string{"x", "y", "z"} {
		mat.Col(col, j, points)
		fmt.Fprintf(w, "    %s: [%g, %g]\n", axis, floats.Min(col), floats.Max(col))
	}
}

func printArrays(w io.Writer, label string, arrays []grid.DataArray) {
	if len(arrays) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", label)
	for _, d := range arrays {
		if d.Len() == 0 {
			fmt.Fprintf(w, "    %s %s: empty\n", d.Kind(), d.Name)
			continue
		}
		switch v := d.Values.(type) {
		case grid.Scalars:
			fmt.Fprintf(w, "    %s %s: min %g max %g\n", d.Kind(), d.Name, floats.Min(v), floats.Max(v))
		case grid.Vectors:
			norms := make([]float64, len(v))
			for i, tuple := range v {
				norms[i] = floats.Norm(tuple, 2)
			}
			fmt.Fprintf(w, "    %s %s: |min| %g |max| %g\n", d.Kind(), d.Name, floats.Min(norms), floats.Max(norms))
		}
	}
}
