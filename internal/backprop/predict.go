package backprop

import (
	"github.com/born-ml/backprop/internal/nn"
)

// Predict runs a forward pass for features and converts the output layer
// into a label.
//
// A single-output nominal network predicts class 1 when the output unit's
// net input is negative and class 0 otherwise. A continuous network returns
// the output activation. A multi-output network returns the arg-max class.
//
// When mse is non-nil the squared error of the outputs against target is
// added to it: the mean over the output units for a multi-output network,
// the single unit's squared error otherwise.
func Predict(s *NetworkState, features []float64, target float64, mse *float64) (float64, error) {
	if err := s.SetInput(features); err != nil {
		return 0, err
	}
	if err := Forward(s); err != nil {
		return 0, err
	}

	t := s.Topology
	out := s.Output()

	if len(out) == 1 {
		if mse != nil {
			d := nn.UnitTarget(target, 0, t.Continuous()) - out[0]
			*mse += d * d
		}
		if t.Continuous() {
			return out[0], nil
		}
		if s.Nets.At(s.Nets.Len()-1, 0) < 0 {
			return 1, nil
		}
		return 0, nil
	}

	if mse != nil {
		onehot := make([]float64, len(out))
		nn.OneHot(onehot, int(target))
		*mse += nn.MeanSquaredError(onehot, out)
	}
	return float64(nn.ArgMax(out)), nil
}
