package nn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigmoid(t *testing.T) {
	assert.InDelta(t, 0.5, Sigmoid(0), 1e-12)
	assert.InDelta(t, 0.7310585786, Sigmoid(1), 1e-9)
	assert.InDelta(t, 0.2689414214, Sigmoid(-1), 1e-9)
	assert.InDelta(t, 1.0, Sigmoid(50), 1e-12)
	assert.InDelta(t, 0.0, Sigmoid(-50), 1e-12)

	// σ(−x) = 1 − σ(x)
	for _, x := range []float64{-3, -0.25, 0.1, 2.5} {
		assert.InDelta(t, 1-Sigmoid(x), Sigmoid(-x), 1e-12)
	}
}

func TestSigmoidDerivative(t *testing.T) {
	assert.InDelta(t, 0.25, SigmoidDerivative(0.5), 1e-12)
	assert.InDelta(t, 0.16, SigmoidDerivative(0.2), 1e-12)
	assert.Equal(t, 0.0, SigmoidDerivative(1))
	assert.Equal(t, 0.0, SigmoidDerivative(0))
}

func TestNormal_Deterministic(t *testing.T) {
	a := make([]float64, 64)
	b := make([]float64, 64)
	Normal(a, InitStdDev, rand.New(rand.NewPCG(7, 7)))
	Normal(b, InitStdDev, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, a, b)

	c := make([]float64, 64)
	Normal(c, InitStdDev, rand.New(rand.NewPCG(8, 8)))
	assert.NotEqual(t, a, c)
}

func TestNormal_Spread(t *testing.T) {
	data := make([]float64, 20000)
	Normal(data, InitStdDev, rand.New(rand.NewPCG(1, 2)))

	var sum, sq float64
	for _, v := range data {
		sum += v
		sq += v * v
	}
	mean := sum / float64(len(data))
	std := math.Sqrt(sq/float64(len(data)) - mean*mean)

	assert.InDelta(t, 0, mean, 0.01)
	assert.InDelta(t, InitStdDev, std, 0.01)
}

func TestFill(t *testing.T) {
	data := []float64{1, 2, 3}
	Fill(data, 0.5)
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, data)
}

func TestOneHot(t *testing.T) {
	dst := []float64{9, 9, 9}
	OneHot(dst, 1)
	assert.Equal(t, []float64{0, 1, 0}, dst)

	OneHot(dst, 5)
	assert.Equal(t, []float64{0, 0, 0}, dst)
}

func TestUnitTarget(t *testing.T) {
	assert.Equal(t, 0.37, UnitTarget(0.37, 0, true))
	assert.Equal(t, 1.0, UnitTarget(2, 2, false))
	assert.Equal(t, 0.0, UnitTarget(2, 1, false))

	// Binary labels on a single unit.
	assert.Equal(t, 1.0, UnitTarget(0, 0, false))
	assert.Equal(t, 0.0, UnitTarget(1, 0, false))
}

func TestSquaredError(t *testing.T) {
	target := []float64{0, 1, 0}
	output := []float64{0.1, 0.7, 0.2}

	require.InDelta(t, 0.14, SquaredError(target, output), 1e-12)
	assert.InDelta(t, 0.14/3, MeanSquaredError(target, output), 1e-12)
	assert.Equal(t, 0.0, MeanSquaredError(nil, nil))
	assert.Panics(t, func() { SquaredError([]float64{1}, []float64{1, 2}) })
}

func TestArgMax(t *testing.T) {
	assert.Equal(t, 1, ArgMax([]float64{0.1, 0.7, 0.2}))
	assert.Equal(t, 0, ArgMax([]float64{0.4, 0.4, 0.1}))
	assert.Equal(t, 2, ArgMax([]float64{-3, -2, -1}))
}
