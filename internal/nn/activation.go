// Package nn holds the scalar building blocks of the multilayer perceptron:
// the sigmoid unit, weight initialization and the squared-error helpers shared
// by the backward pass and the predictor.
package nn

import "math"

// Sigmoid is the logistic unit: σ(net) = 1 / (1 + exp(-net)).
//
// The net input is negated before exponentiation, which is the standard
// logistic form.
func Sigmoid(net float64) float64 {
	return 1 / (1 + math.Exp(-net))
}

// SigmoidDerivative returns σ'(net) expressed through the unit's output:
// out × (1 − out).
func SigmoidDerivative(out float64) float64 {
	return out * (1 - out)
}
