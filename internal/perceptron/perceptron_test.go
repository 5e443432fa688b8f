package perceptron

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/born-ml/backprop/internal/learner"
	"github.com/born-ml/backprop/internal/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func truthTable(t *testing.T, out [4]float64, copies int) (*matrix.Matrix, *matrix.Matrix) {
	t.Helper()
	in := [4][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	var fr, lr [][]float64
	for c := 0; c < copies; c++ {
		for i := range in {
			fr = append(fr, in[i])
			lr = append(lr, []float64{out[i]})
		}
	}
	f, err := matrix.FromRows([]matrix.Attribute{matrix.Continuous("a"), matrix.Continuous("b")}, fr)
	require.NoError(t, err)
	l, err := matrix.FromRows([]matrix.Attribute{matrix.Nominal("y", "false", "true")}, lr)
	require.NoError(t, err)
	return f, l
}

func TestPerceptron_LearnsAnd(t *testing.T) {
	f, l := truthTable(t, [4]float64{0, 0, 0, 1}, 5)
	cfg := DefaultConfig()
	cfg.MaxEpochs = 200

	p, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, p.Train(f, l))

	acc, err := learner.MeasureAccuracy(p, f, l)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
	assert.Len(t, p.Weights(), 3)

	for _, tc := range []struct {
		in   []float64
		want float64
	}{
		{[]float64{0, 0}, 0},
		{[]float64{1, 1}, 1},
	} {
		got, err := p.Predict(tc.in)
		require.NoError(t, err)
		assert.Equal(t, []float64{tc.want}, got)
	}
}

func TestPerceptron_XorTerminates(t *testing.T) {
	f, l := truthTable(t, [4]float64{0, 1, 1, 0}, 2)
	p, err := New(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, p.Train(f, l))

	acc, err := learner.MeasureAccuracy(p, f, l)
	require.NoError(t, err)
	assert.Less(t, acc, 1.0)
	assert.Greater(t, p.Epochs(), 5)
}

func TestPerceptron_Deterministic(t *testing.T) {
	f, l := truthTable(t, [4]float64{0, 1, 1, 1}, 3)
	a, err := New(DefaultConfig())
	require.NoError(t, err)
	b, err := New(DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, a.Train(f, l))
	require.NoError(t, b.Train(f, l))
	assert.Equal(t, a.Weights(), b.Weights())
	assert.Equal(t, a.Epochs(), b.Epochs())
}

func TestPerceptron_Errors(t *testing.T) {
	p, err := New(DefaultConfig())
	require.NoError(t, err)

	_, err = p.Predict([]float64{1, 1})
	assert.ErrorIs(t, err, ErrNotTrained)

	f, _ := truthTable(t, [4]float64{0, 0, 0, 1}, 1)
	three, err := matrix.FromRows([]matrix.Attribute{matrix.Nominal("y", "a", "b", "c")},
		[][]float64{{0}, {1}, {2}, {0}})
	require.NoError(t, err)
	assert.ErrorIs(t, p.Train(f, three), ErrLabels)

	cont := matrix.New([]matrix.Attribute{matrix.Continuous("y")}, 4)
	assert.ErrorIs(t, p.Train(f, cont), ErrLabels)

	short, err := f.Part(0, 0, 2, 2)
	require.NoError(t, err)
	_, l := truthTable(t, [4]float64{0, 0, 0, 1}, 1)
	assert.ErrorIs(t, p.Train(short, l), learner.ErrRowMismatch)

	require.NoError(t, p.Train(f, l))
	_, err = p.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrInputWidth)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	_, err := New(Config{MaxEpochs: 0, LearningRate: 0.5})
	assert.ErrorIs(t, err, ErrConfig)
	_, err = New(Config{MaxEpochs: 10, LearningRate: 0})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestPerceptron_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	f, l := truthTable(t, [4]float64{0, 0, 0, 1}, 2)
	p, err := New(DefaultConfig(), WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, p.Train(f, l))

	assert.Contains(t, buf.String(), "perceptron trained")
	assert.NotContains(t, buf.String(), "perceptron epoch")
}
