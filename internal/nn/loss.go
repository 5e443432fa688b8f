package nn

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// OneHot writes the one-hot encoding of class into dst: 1.0 at index class,
// 0.0 elsewhere. A class outside [0, len(dst)) leaves dst all zeros.
func OneHot(dst []float64, class int) {
	Fill(dst, 0)
	if class >= 0 && class < len(dst) {
		dst[class] = 1
	}
}

// UnitTarget is the training target of output unit k for a label.
//
// Continuous labels are used as-is. Nominal labels are one-hot: 1.0 when k is
// the label's class index, 0.0 otherwise. For a binary label collapsed onto a
// single unit this makes the unit's target 1.0 for class 0 and 0.0 for class 1.
func UnitTarget(label float64, k int, continuous bool) float64 {
	if continuous {
		return label
	}
	if int(label) == k {
		return 1
	}
	return 0
}

// SquaredError returns Σ (target_i − output_i)².
//
// Panics if the slices differ in length.
func SquaredError(target, output []float64) float64 {
	if len(target) != len(output) {
		panic(fmt.Sprintf("SquaredError: target has %d values, output has %d", len(target), len(output)))
	}
	var sse float64
	for i := range target {
		d := target[i] - output[i]
		sse += d * d
	}
	return sse
}

// MeanSquaredError returns SquaredError(target, output) / len(output).
func MeanSquaredError(target, output []float64) float64 {
	if len(output) == 0 {
		return 0
	}
	return SquaredError(target, output) / float64(len(output))
}

// ArgMax returns the index of the largest output. Ties resolve to the lowest
// index.
func ArgMax(output []float64) int {
	return floats.MaxIdx(output)
}
