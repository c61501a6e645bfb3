package grid

import (
	"fmt"
	"math"
)

// AttributeKind distinguishes one-float-per-entity from tuple-per-entity arrays
type AttributeKind uint8

const (
	Scalar AttributeKind = iota
	Vector
)

func (k AttributeKind) String() string {
	switch k {
	case Scalar:
		return "SCALARS"
	case Vector:
		return "VECTORS"
	default:
		return "Invalid"
	}
}

// AttributeValues is implemented by Scalars and Vectors only, so the kind of
// an array always agrees with the shape of its elements.
type AttributeValues interface {
	Len() int
	Kind() AttributeKind
	clone() AttributeValues
}

// Scalars holds one value per point or cell
type Scalars []float64

func (s Scalars) Len() int            { return len(s) }
func (s Scalars) Kind() AttributeKind { return Scalar }

func (s Scalars) clone() AttributeValues {
	c := make(Scalars, len(s))
	copy(c, s)
	return c
}

// Vectors holds one tuple per point or cell. Tuples are 3 wide, or 2 wide on
// a 2D grid where the writer pads the third component.
type Vectors [][]float64

func (v Vectors) Len() int            { return len(v) }
func (v Vectors) Kind() AttributeKind { return Vector }

func (v Vectors) clone() AttributeValues {
	c := make(Vectors, len(v))
	for i, tuple := range v {
		c[i] = make([]float64, len(tuple))
		copy(c[i], tuple)
	}
	return c
}

// DataArray is a named attribute attached to the points or the cells of a grid
type DataArray struct {
	Name   string
	Values AttributeValues
}

func (d DataArray) Kind() AttributeKind { return d.Values.Kind() }
func (d DataArray) Len() int            { return d.Values.Len() }

// Scalars returns the values of a scalar array, nil for a vector array
func (d DataArray) Scalars() Scalars {
	s, _ := d.Values.(Scalars)
	return s
}

// Vectors returns the values of a vector array, nil for a scalar array
func (d DataArray) Vectors() Vectors {
	v, _ := d.Values.(Vectors)
	return v
}

// snapToZero zeroes every value (or vector component) with magnitude below threshold
func snapToZero(values AttributeValues, threshold float64) {
	switch v := values.(type) {
	case Scalars:
		for i := range v {
			if math.Abs(v[i]) < threshold {
				v[i] = 0.
			}
		}
	case Vectors:
		for _, tuple := range v {
			for j := range tuple {
				if math.Abs(tuple[j]) < threshold {
					tuple[j] = 0.
				}
			}
		}
	}
}

func checkArray(name string, values AttributeValues, count, dim int) error {
	if name == "" {
		return fmt.Errorf("%w: attribute name is empty", ErrShape)
	}
	if values == nil {
		return fmt.Errorf("%w: attribute %q has no values", ErrShape, name)
	}
	if values.Len() != count {
		return fmt.Errorf("%w: attribute %q has %d values, expected %d",
			ErrShape, name, values.Len(), count)
	}
	if vec, ok := values.(Vectors); ok {
		for i, tuple := range vec {
			if len(tuple) != dim && len(tuple) != 3 {
				return fmt.Errorf("%w: attribute %q vector %d has %d components, expected %d",
					ErrShape, name, i, len(tuple), dim)
			}
			if len(tuple) != len(vec[0]) {
				return fmt.Errorf("%w: attribute %q mixes %d and %d component vectors",
					ErrShape, name, len(vec[0]), len(tuple))
			}
		}
	}
	return nil
}
