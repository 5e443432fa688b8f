package backprop

import (
	"fmt"

	"github.com/born-ml/backprop/internal/nn"
	"github.com/born-ml/backprop/internal/optim"
	"gonum.org/v1/gonum/floats"
)

// OutputError is the error signal of an output unit: (t − a)·a·(1 − a).
func OutputError(target, output float64) float64 {
	return (target - output) * nn.SigmoidDerivative(output)
}

// HiddenError is the error signal of a hidden unit given its outgoing
// weights and the errors of the layer it feeds.
func HiddenError(outgoing, nextErrors []float64, output float64) float64 {
	return floats.Dot(outgoing, nextErrors) * nn.SigmoidDerivative(output)
}

// Backward propagates the error for target through a network that has just
// run Forward, then updates every weight layer from right to left with opt.
//
// target is the raw label for a continuous network and the class index for
// a nominal one. Output unit k trains toward 1.0 when k is the target class
// and 0.0 otherwise; a single-output nominal network therefore trains toward
// 1.0 for class 0 and 0.0 for class 1.
func Backward(s *NetworkState, target float64, opt optim.Optimizer) error {
	if err := s.check("backward"); err != nil {
		return err
	}

	t := s.Topology
	last := s.Activations.Len() - 1
	if !t.Continuous() {
		k := int(target)
		if float64(k) != target || k < 0 || k >= t.Classes {
			return structuref("backward", "target %v is not a class index in [0, %d)", target, t.Classes)
		}
	}

	out := s.Activations.Layer(last)
	errs := s.Errors.Layer(last)
	for k, a := range out {
		errs[k] = OutputError(nn.UnitTarget(target, k, t.Continuous()), a)
	}

	for l := last - 1; l > 0; l-- {
		acts := s.Activations.Layer(l)
		next := s.Errors.Layer(l + 1)
		cur := s.Errors.Layer(l)
		for j := range cur {
			cur[j] = HiddenError(s.Weights.Row(l, j), next, acts[j])
		}
	}

	for l := last - 1; l >= 0; l-- {
		if err := opt.Step(l, s.Weights, s.Deltas, s.Errors.Layer(l+1), s.Activations.Layer(l)); err != nil {
			return fmt.Errorf("backward: layer %d: %w", l, err)
		}
	}
	return nil
}
