package grid

import "errors"

var (
	// ErrShape reports an attribute or cell whose size does not fit the grid
	ErrShape = errors.New("shape mismatch")
	// ErrFormat reports file content that does not follow the legacy VTK grammar
	ErrFormat = errors.New("invalid VTK format")
	// ErrNotSupported reports a dataset type, encoding or dimension that is not implemented
	ErrNotSupported = errors.New("not supported")
)
