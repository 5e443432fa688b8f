package backprop

import (
	"github.com/born-ml/backprop/internal/nn"
	"gonum.org/v1/gonum/floats"
)

// Forward computes every layer's activations from left to right. The input
// layer must already hold the current row (see SetInput).
//
// For each non-bias node j of layer L:
//
//	net_j = Σ_i w(L-1, i, j) · a(L-1, i)
//	a_j   = sigmoid(net_j)
//
// Bias activations are never written.
func Forward(s *NetworkState) error {
	if err := s.check("forward"); err != nil {
		return err
	}

	for l := 1; l < s.Activations.Len(); l++ {
		prev := s.Activations.Layer(l - 1)
		_, n := s.Weights.Dims(l - 1)
		nets := s.Nets.Layer(l)[:n]
		out := s.Activations.Layer(l)[:n]

		nn.Fill(nets, 0)
		for i, a := range prev {
			floats.AddScaled(nets, a, s.Weights.Row(l-1, i))
		}
		for j, net := range nets {
			out[j] = nn.Sigmoid(net)
		}
	}
	return nil
}
