package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/vtkio/grid"
	"github.com/notargets/vtkio/writers"
)

// Parameters obtained from the YAML conversion file
type ConversionParameters struct {
	Title              string  `json:"Title"`
	Precision          int     `json:"Precision"`          // significant digits, -1 is the shortest exact form
	PointDataThreshold float64 `json:"PointDataThreshold"` // snapping threshold for generated point data
}

func Defaults() *ConversionParameters {
	return &ConversionParameters{
		Title:              writers.DefaultTitle,
		Precision:          -1,
		PointDataThreshold: grid.DefaultThreshold,
	}
}

// Parse overlays the YAML content on the current values
func (cp *ConversionParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, cp); err != nil {
		return err
	}
	if cp.Precision < -1 {
		return fmt.Errorf("invalid Precision %d, use -1 or a positive digit count", cp.Precision)
	}
	if cp.PointDataThreshold < 0 {
		return fmt.Errorf("invalid PointDataThreshold %g", cp.PointDataThreshold)
	}
	return nil
}

func (cp *ConversionParameters) WriterOptions() []writers.Option {
	return []writers.Option{
		writers.WithTitle(cp.Title),
		writers.WithPrecision(cp.Precision),
	}
}

func (cp *ConversionParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", cp.Title)
	fmt.Printf("[%d]\t\t\t= Precision\n", cp.Precision)
	fmt.Printf("%8.2e\t\t= PointDataThreshold\n", cp.PointDataThreshold)
}
