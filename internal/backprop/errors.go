package backprop

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrStructure  = errors.New("backprop: network structure violated")
	ErrInputWidth = errors.New("backprop: feature width does not match network inputs")
	ErrNotTrained = errors.New("backprop: network has not been trained")
	ErrConfig     = errors.New("backprop: invalid config")
)

// StructureError describes a broken network invariant: mismatched layer or
// node counts, a missing bias slot, or a nominal target outside the output
// range. It matches ErrStructure under errors.Is.
type StructureError struct {
	Op      string // Operation that detected the problem ("forward", "backward", ...)
	Details string
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	return fmt.Sprintf("backprop: %s: %s", e.Op, e.Details)
}

// Is reports whether target is ErrStructure.
func (e *StructureError) Is(target error) bool {
	return target == ErrStructure
}

func structuref(op, format string, args ...any) error {
	return &StructureError{Op: op, Details: fmt.Sprintf(format, args...)}
}
