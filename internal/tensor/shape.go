// Package tensor provides the fixed-shape layered storage used by the
// backpropagation engine.
//
// A network's state is naturally ragged: every layer has its own width, and
// the weight matrix between two layers has its own row and column count. The
// types here keep each such family in a single contiguous []float64 and record
// the per-layer widths once, at construction time.
package tensor

import "fmt"

// Shape lists one width per layer.
type Shape []int

// NumElements returns the sum of all widths.
func (s Shape) NumElements() int {
	n := 0
	for _, dim := range s {
		n += dim
	}
	return n
}

// Validate checks that no width is negative. Zero widths are allowed: the
// error tensor carries an empty input layer.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid width at layer %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// offsets returns the start of every layer in a flat buffer where layer i
// occupies sizes[i] elements.
func offsets(sizes []int) []int {
	out := make([]int, len(sizes)+1)
	for i, n := range sizes {
		out[i+1] = out[i] + n
	}
	return out
}
