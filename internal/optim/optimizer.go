// Package optim implements the weight-update rule of the backpropagation
// engine.
//
// This package provides:
//   - Optimizer: the interface the backward pass drives, one weight layer at a time
//   - SGD: gradient descent with a momentum term (the classic delta rule)
//
// Example usage:
//
//	opt := optim.NewSGD(optim.SGDConfig{LR: 0.6, Momentum: 0.2})
//
//	// After the error signals of layer l+1 are known:
//	err := opt.Step(l, state.Weights, state.Deltas, state.Errors.Layer(l+1), state.Activations.Layer(l))
package optim

import (
	"errors"

	"github.com/born-ml/backprop/internal/tensor"
)

// ErrShape is returned when a Step's operands disagree on layer dimensions.
var ErrShape = errors.New("optim: shape mismatch")

// Optimizer updates one weight layer from the error signals of the layer it
// feeds into.
//
// All optimizers must implement:
//   - Step: apply the update to weights in place, recording the applied deltas
//   - GetLR: report the current learning rate
type Optimizer interface {
	// Step updates every weight (layer, i, j) of weights using the error of
	// destination node j and the activation of source node i. deltas has the
	// same shape as weights and holds the previously applied update per
	// weight; Step overwrites it with the update it applies.
	Step(layer int, weights, deltas *tensor.Matrices, errs, inputs []float64) error

	// GetLR returns the current learning rate.
	GetLR() float64
}
