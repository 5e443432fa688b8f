package tensor

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when two tensors that must share a layout do not.
var ErrShapeMismatch = errors.New("tensor: shape mismatch")

// Vectors holds one vector per layer, indexed by (layer, node).
//
// All layers share one backing slice. Layer returns views into it, so writes
// through a view are writes to the tensor.
//
// Example:
//
//	acts := tensor.NewVectors(tensor.Shape{3, 5, 1})
//	in := acts.Layer(0) // len 3
//	in[2] = 1.0
type Vectors struct {
	data    []float64
	offsets []int
	shape   Shape
}

// NewVectors allocates a zero-filled tensor with the given per-layer widths.
// It panics on a negative width.
func NewVectors(widths Shape) *Vectors {
	if err := widths.Validate(); err != nil {
		panic(err)
	}
	off := offsets(widths)
	return &Vectors{
		data:    make([]float64, off[len(widths)]),
		offsets: off,
		shape:   widths.Clone(),
	}
}

// Len returns the number of layers.
func (v *Vectors) Len() int {
	return len(v.shape)
}

// Shape returns a copy of the per-layer widths.
func (v *Vectors) Shape() Shape {
	return v.shape.Clone()
}

// Width returns the number of nodes in layer.
func (v *Vectors) Width(layer int) int {
	return v.shape[layer]
}

// Layer returns the vector of one layer as a view into the tensor.
func (v *Vectors) Layer(layer int) []float64 {
	return v.data[v.offsets[layer]:v.offsets[layer+1]:v.offsets[layer+1]]
}

// At returns the value at (layer, node).
func (v *Vectors) At(layer, node int) float64 {
	return v.Layer(layer)[node]
}

// Set stores x at (layer, node).
func (v *Vectors) Set(layer, node int, x float64) {
	v.Layer(layer)[node] = x
}

// Data returns the backing slice.
func (v *Vectors) Data() []float64 {
	return v.data
}

// Clone returns a deep copy.
func (v *Vectors) Clone() *Vectors {
	c := &Vectors{
		data:    make([]float64, len(v.data)),
		offsets: append([]int(nil), v.offsets...),
		shape:   v.shape.Clone(),
	}
	copy(c.data, v.data)
	return c
}

// CopyFrom overwrites v with the contents of src. Both must have the same shape.
func (v *Vectors) CopyFrom(src *Vectors) error {
	if !v.shape.Equal(src.shape) {
		return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, v.shape, src.shape)
	}
	copy(v.data, src.data)
	return nil
}
