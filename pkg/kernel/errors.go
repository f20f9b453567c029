package kernel

import (
	"errors"
	"fmt"
)

// ErrGeometry is the sentinel wrapped by every GeometryError.
var ErrGeometry = errors.New("geometry construction failed")

// ErrNoFont is returned by Text when the kernel has no font loaded.
var ErrNoFont = errors.New("no font loaded")

// GeometryError reports a primitive or boolean the kernel refused to build.
type GeometryError struct {
	Op  string // e.g. "box", "extrude"
	Err error
}

func (e *GeometryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("kernel: %s: %v", e.Op, ErrGeometry)
	}
	return fmt.Sprintf("kernel: %s: %v", e.Op, e.Err)
}

func (e *GeometryError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrGeometry}
	}
	return []error{ErrGeometry, e.Err}
}
