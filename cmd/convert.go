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
	"math"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notargets/vtkio/InputParameters"
	"github.com/notargets/vtkio/grid"
	"github.com/notargets/vtkio/readers"
	"github.com/notargets/vtkio/writers"
)

type Conversion struct {
	InputFile      string
	OutputFile     string
	ParametersFile string
	Verify         bool
}

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a VTK, SU2 or Gmsh mesh to a legacy ASCII VTK file",
	Long: `Reads a .vtk, .su2 or .msh file and writes it as a legacy ASCII VTK UNSTRUCTURED_GRID,
point data values below the PointDataThreshold are written as zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cv := &Conversion{}
		cv.InputFile, _ = cmd.Flags().GetString("inputFile")
		cv.OutputFile, _ = cmd.Flags().GetString("outputFile")
		cv.ParametersFile, _ = cmd.Flags().GetString("parametersFile")
		cv.Verify, _ = cmd.Flags().GetBool("verify")
		return RunConversion(cv)
	},
}

func init() {
	rootCmd.AddCommand(ConvertCmd)
	ConvertCmd.Flags().StringP("inputFile", "F", "", "mesh file to read, .vtk, .su2 or .msh")
	ConvertCmd.Flags().StringP("outputFile", "O", "", "legacy VTK file to write")
	ConvertCmd.Flags().StringP("parametersFile", "I", "", "YAML file for conversion parameters like:\n\t- Title\n\t- Precision\n\t- PointDataThreshold")
	ConvertCmd.Flags().Bool("verify", false, "read the output back and compare it with the input")
	ConvertCmd.MarkFlagRequired("inputFile")
	ConvertCmd.MarkFlagRequired("outputFile")
}

func RunConversion(cv *Conversion) error {
	cp := InputParameters.Defaults()
	if len(cv.ParametersFile) != 0 {
		data, err := os.ReadFile(cv.ParametersFile)
		if err != nil {
			return err
		}
		if err = cp.Parse(data); err != nil {
			return fmt.Errorf("%s: %w", cv.ParametersFile, err)
		}
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		cp.Print()
	}

	g, err := readers.ReadMeshFile(cv.InputFile)
	if err != nil {
		return fmt.Errorf("%s: %w", cv.InputFile, err)
	}
	log.WithFields(log.Fields{
		"file":   cv.InputFile,
		"dim":    g.Dim(),
		"points": g.NumPoints(),
		"cells":  g.NumCells(),
	}).Info("read mesh")

	if g, err = applyThreshold(g, cp.PointDataThreshold); err != nil {
		return err
	}

	if err = writers.WriteVTK(g, cv.OutputFile, cp.WriterOptions()...); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"file":      cv.OutputFile,
		"pointData": len(g.PointData()),
		"cellData":  len(g.CellData()),
		"precision": cp.Precision,
	}).Info("wrote mesh")

	if cv.Verify {
		back, err := readers.ReadVTK(cv.OutputFile)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		if !g.Equal(back, verifyTolerance(cp.Precision)) {
			return fmt.Errorf("verify: %s does not match %s", cv.OutputFile, cv.InputFile)
		}
		log.Info("verified output")
	}
	return nil
}

// applyThreshold rebuilds g with its point data snapped to zero below threshold
func applyThreshold(g *grid.Grid, threshold float64) (*grid.Grid, error) {
	if threshold <= 0 || len(g.PointData()) == 0 {
		return g, nil
	}
	out, err := grid.New(g.Dim())
	if err != nil {
		return nil, err
	}
	if err = out.AddPoints(g.Points()...); err != nil {
		return nil, err
	}
	for _, c := range g.Cells() {
		if err = out.AddCell(c.Type, c.Indices...); err != nil {
			return nil, err
		}
	}
	for _, d := range g.PointData() {
		if err = out.AddPointData(d.Name, d.Values, threshold); err != nil {
			return nil, err
		}
	}
	for _, d := range g.CellData() {
		if err = out.AddCellData(d.Name, d.Values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// verifyTolerance is the relative error allowed by writing with precision significant digits
func verifyTolerance(precision int) float64 {
	if precision < 0 {
		return 0
	}
	if precision == 0 {
		precision = 1
	}
	return math.Pow(10, float64(1-precision))
}
