package nn

import "math/rand/v2"

// InitStdDev is the standard deviation of the Gaussian used for weight init.
const InitStdDev = 0.10

// Normal fills data with samples from N(0, stdDev²) drawn from rng.
//
// Draws happen in slice order, so a fixed seed and a fixed layout always
// produce the same weights.
//
// Example:
//
//	rng := rand.New(rand.NewPCG(1, 1))
//	nn.Normal(weights.Data(), nn.InitStdDev, rng)
func Normal(data []float64, stdDev float64, rng *rand.Rand) {
	for i := range data {
		data[i] = rng.NormFloat64() * stdDev
	}
}

// Fill sets every element of data to v.
func Fill(data []float64, v float64) {
	for i := range data {
		data[i] = v
	}
}
