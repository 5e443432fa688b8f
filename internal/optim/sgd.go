package optim

import (
	"fmt"

	"github.com/born-ml/backprop/internal/tensor"
)

// SGD implements gradient descent on sigmoid units with a momentum term.
//
// Update rule for the weight from source node i to destination node j:
//
//	delta = lr * error_j * activation_i + momentum * previousDelta
//	weight += delta
//	previousDelta = delta
//
// The momentum term damps oscillation and keeps moving along directions the
// gradient agrees on across consecutive rows.
//
// Example:
//
//	sgd := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.6,
//	    Momentum: 0.2,
//	})
type SGD struct {
	lr       float64
	momentum float64
}

// SGDConfig holds configuration for the SGD optimizer.
//
// Zero values are taken literally: LR 0 and Momentum 0 make Step a no-op on
// the weights.
type SGDConfig struct {
	LR       float64 // Learning rate
	Momentum float64 // Fraction of the previous delta carried into the next, range [0, 1)
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	return &SGD{
		lr:       config.LR,
		momentum: config.Momentum,
	}
}

// Delta returns the update for one weight given its gradient term
// (error × incoming activation) and its previous delta.
func (s *SGD) Delta(grad, prevDelta float64) float64 {
	return s.lr*grad + s.momentum*prevDelta
}

// Step applies the delta rule to weight layer `layer`.
//
// Parameters:
//   - weights: weight tensor, layer is len(inputs) x len(errs)
//   - deltas: momentum tensor with the same shape as weights
//   - errs: error signals of the destination layer (bias units excluded)
//   - inputs: activations of the source layer (bias unit included)
//
// Returns an error wrapping ErrShape if the dimensions disagree; weights are
// left untouched in that case.
func (s *SGD) Step(layer int, weights, deltas *tensor.Matrices, errs, inputs []float64) error {
	if !weights.SameShape(deltas) {
		return fmt.Errorf("%w: weights and deltas differ", ErrShape)
	}
	if layer < 0 || layer >= weights.Len() {
		return fmt.Errorf("%w: layer %d of %d", ErrShape, layer, weights.Len())
	}
	rows, cols := weights.Dims(layer)
	if rows != len(inputs) || cols != len(errs) {
		return fmt.Errorf("%w: layer %d is %dx%d, got %d inputs and %d errors",
			ErrShape, layer, rows, cols, len(inputs), len(errs))
	}

	for i, in := range inputs {
		w := weights.Row(layer, i)
		prev := deltas.Row(layer, i)
		for j, e := range errs {
			d := s.Delta(e*in, prev[j])
			w[j] += d
			prev[j] = d
		}
	}
	return nil
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// GetMomentum returns the momentum factor.
func (s *SGD) GetMomentum() float64 {
	return s.momentum
}
