package writers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/vtkio/grid"
)

const DefaultTitle = "VTKio"

type Option func(*VTKWriter)

// WithTitle sets the free text second line of the file
func WithTitle(title string) Option {
	return func(w *VTKWriter) { w.title = title }
}

// WithPrecision sets the significant digits of every float, -1 writes the
// shortest text that parses back to the same float64
func WithPrecision(precision int) Option {
	return func(w *VTKWriter) { w.precision = precision }
}

// VTKWriter encodes grids as legacy ASCII VTK UNSTRUCTURED_GRID datasets
type VTKWriter struct {
	w         *bufio.Writer
	title     string
	precision int
}

func NewVTKWriter(w io.Writer, opts ...Option) *VTKWriter {
	vw := &VTKWriter{
		w:         bufio.NewWriter(w),
		title:     DefaultTitle,
		precision: -1,
	}
	for _, opt := range opts {
		opt(vw)
	}
	return vw
}

// WriteVTK creates or truncates filename and writes g into it
func WriteVTK(g *grid.Grid, filename string, opts ...Option) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	return NewVTKWriter(file, opts...).Encode(g)
}

// Encode writes the preamble, the geometry, then the POINT_DATA and CELL_DATA
// blocks, each omitted when the grid has no arrays of that kind
func (vw *VTKWriter) Encode(g *grid.Grid) error {
	if strings.ContainsAny(vw.title, "\r\n") {
		return fmt.Errorf("title %q spans more than one line", vw.title)
	}
	if err := g.Validate(); err != nil {
		return err
	}
	for _, arrays := range [][]grid.DataArray{g.PointData(), g.CellData()} {
		for _, d := range arrays {
			if strings.ContainsAny(d.Name, " \t\r\n") {
				return fmt.Errorf("%w: attribute name %q contains whitespace", grid.ErrFormat, d.Name)
			}
		}
	}

	vw.writePreamble()
	vw.writePoints(g.Points())
	vw.writeCells(g.Cells())
	if len(g.PointData()) != 0 {
		fmt.Fprintf(vw.w, "POINT_DATA %d\n", g.NumPoints())
		vw.writeArrays(g.PointData())
	}
	if len(g.CellData()) != 0 {
		fmt.Fprintf(vw.w, "CELL_DATA %d\n", g.NumCells())
		vw.writeArrays(g.CellData())
	}
	return vw.w.Flush()
}

// dataType names the declared value type, float32 holds about 7 significant digits
func (vw *VTKWriter) dataType() string {
	if vw.precision < 0 || vw.precision > 7 {
		return "double"
	}
	return "float"
}

func (vw *VTKWriter) writePreamble() {
	vw.w.WriteString("# vtk DataFile Version 2.0\n")
	vw.w.WriteString(vw.title + "\n")
	vw.w.WriteString("ASCII\n")
	vw.w.WriteString("DATASET UNSTRUCTURED_GRID\n")
}

func (vw *VTKWriter) writePoints(points []grid.Point) {
	fmt.Fprintf(vw.w, "POINTS %d %s\n", len(points), vw.dataType())
	for _, p := range points {
		vw.writeFloats(p[:])
	}
}

func (vw *VTKWriter) writeCells(cells []grid.Cell) {
	var size int
	for _, c := range cells {
		size += len(c.Indices) + 1
	}
	fmt.Fprintf(vw.w, "CELLS %d %d\n", len(cells), size)
	for _, c := range cells {
		vw.w.WriteString(strconv.Itoa(len(c.Indices)))
		for _, idx := range c.Indices {
			vw.w.WriteByte(' ')
			vw.w.WriteString(strconv.Itoa(idx))
		}
		vw.w.WriteByte('\n')
	}

	fmt.Fprintf(vw.w, "CELL_TYPES %d\n", len(cells))
	for _, c := range cells {
		vw.w.WriteString(strconv.Itoa(int(c.Type)))
		vw.w.WriteByte('\n')
	}
}

func (vw *VTKWriter) writeArrays(arrays []grid.DataArray) {
	for _, d := range arrays {
		switch v := d.Values.(type) {
		case grid.Scalars:
			fmt.Fprintf(vw.w, "SCALARS %s %s 1\n", d.Name, vw.dataType())
			vw.w.WriteString("LOOKUP_TABLE default\n")
			for _, s := range v {
				vw.writeFloats([]float64{s})
			}
		case grid.Vectors:
			fmt.Fprintf(vw.w, "VECTORS %s %s\n", d.Name, vw.dataType())
			for _, tuple := range v {
				if len(tuple) == 2 {
					// 2D vectors are stored 2 wide, the format wants 3
					tuple = []float64{tuple[0], tuple[1], 0.}
				}
				vw.writeFloats(tuple)
			}
		}
	}
}

// writeFloats writes one line of space separated values
func (vw *VTKWriter) writeFloats(vals []float64) {
	var buf [32]byte
	for i, v := range vals {
		if i != 0 {
			vw.w.WriteByte(' ')
		}
		vw.w.Write(strconv.AppendFloat(buf[:0], v, 'g', vw.precision, 64))
	}
	vw.w.WriteByte('\n')
}
