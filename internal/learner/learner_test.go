package learner

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/born-ml/backprop/internal/matrix"
	"github.com/born-ml/backprop/internal/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echo predicts its first feature.
type echo struct{}

func (echo) Train(*matrix.Matrix, *matrix.Matrix) error { return nil }

func (echo) Predict(features []float64) ([]float64, error) {
	return []float64{features[0]}, nil
}

func (echo) PredictMSE(features []float64, target float64, mse *float64) ([]float64, error) {
	d := target - features[0]
	*mse += d * d
	return []float64{features[0]}, nil
}

// majority predicts the most common training label.
type majority struct {
	label     float64
	trainRows int
}

func (m *majority) Train(features, labels *matrix.Matrix) error {
	if err := CheckData(features, labels); err != nil {
		return err
	}
	m.label = labels.MostCommonValue(0)
	m.trainRows = features.Rows()
	return nil
}

func (m *majority) Predict([]float64) ([]float64, error) {
	return []float64{m.label}, nil
}

type failing struct{ echo }

var errBoom = errors.New("boom")

func (failing) Predict([]float64) ([]float64, error) { return nil, errBoom }

func dataset(t *testing.T, features []float64, labels []float64, classes ...string) (*matrix.Matrix, *matrix.Matrix) {
	t.Helper()
	fr := make([][]float64, len(features))
	lr := make([][]float64, len(labels))
	for i := range features {
		fr[i] = []float64{features[i]}
	}
	for i := range labels {
		lr[i] = []float64{labels[i]}
	}
	f, err := matrix.FromRows([]matrix.Attribute{matrix.Continuous("x")}, fr)
	require.NoError(t, err)
	l, err := matrix.FromRows([]matrix.Attribute{matrix.Nominal("y", classes...)}, lr)
	require.NoError(t, err)
	return f, l
}

func TestCheckData(t *testing.T) {
	f, l := dataset(t, []float64{0, 1}, []float64{0, 1}, "a", "b")
	assert.NoError(t, CheckData(f, l))

	short, _ := dataset(t, []float64{0}, []float64{0}, "a", "b")
	assert.ErrorIs(t, CheckData(short, l), ErrRowMismatch)

	wide := matrix.New([]matrix.Attribute{matrix.Continuous("a"), matrix.Continuous("b")}, 2)
	assert.ErrorIs(t, CheckData(f, wide), ErrLabelColumns)

	empty, emptyL := dataset(t, nil, nil, "a")
	assert.ErrorIs(t, CheckData(empty, emptyL), ErrEmpty)
}

func TestMeasureAccuracy_Nominal(t *testing.T) {
	f, l := dataset(t, []float64{0, 1, 2, 1}, []float64{0, 1, 2, 2}, "a", "b", "c")
	acc, err := MeasureAccuracy(echo{}, f, l)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, acc, 1e-12)
}

func TestMeasureAccuracy_LabelOutOfRange(t *testing.T) {
	f, l := dataset(t, []float64{0, 1}, []float64{0, 3}, "a", "b")
	_, err := MeasureAccuracy(echo{}, f, l)
	assert.ErrorIs(t, err, ErrLabelRange)
}

func TestMeasureAccuracy_Continuous(t *testing.T) {
	f, err := matrix.FromRows([]matrix.Attribute{matrix.Continuous("x")}, [][]float64{{1}, {2}})
	require.NoError(t, err)
	l, err := matrix.FromRows([]matrix.Attribute{matrix.Continuous("y")}, [][]float64{{2}, {4}})
	require.NoError(t, err)

	rmse, err := MeasureAccuracy(echo{}, f, l)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt((1+4)/2.0), rmse, 1e-12)
}

func TestMeasureAccuracy_PredictError(t *testing.T) {
	f, l := dataset(t, []float64{0}, []float64{0}, "a")
	_, err := MeasureAccuracy(failing{}, f, l)
	assert.ErrorIs(t, err, errBoom)
}

func TestConfusionMatrix(t *testing.T) {
	f, l := dataset(t, []float64{0, 1, 2, 1, 0}, []float64{0, 1, 2, 2, 0}, "a", "b", "c")
	c, err := ConfusionMatrix(echo{}, f, l)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, c.Labels)
	assert.Equal(t, [][]int{{2, 0, 0}, {0, 1, 1}, {0, 0, 1}}, c.Counts)
	assert.Equal(t, 5, c.Total())
	assert.InDelta(t, 0.8, c.Accuracy(), 1e-12)

	bad, badL := dataset(t, []float64{7}, []float64{0}, "a", "b")
	_, err = ConfusionMatrix(echo{}, bad, badL)
	assert.ErrorIs(t, err, ErrLabelRange)
}

func TestMeanSquaredError(t *testing.T) {
	f, l := dataset(t, []float64{0, 1, 1}, []float64{0, 0, 1}, "a", "b")
	mse, err := MeanSquaredError(echo{}, f, l)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, mse, 1e-12)
}

func TestSplitValidation(t *testing.T) {
	f, l := dataset(t, []float64{0, 1, 2, 3, 4, 5, 6, 7}, []float64{0, 1, 0, 1, 0, 1, 0, 1}, "a", "b")

	s, err := SplitValidation(f, l, 0.75)
	require.NoError(t, err)
	assert.Equal(t, 6, s.TrainFeatures.Rows())
	assert.Equal(t, 6, s.TrainLabels.Rows())
	assert.Equal(t, 2, s.TestFeatures.Rows())
	assert.Equal(t, 6.0, s.TestFeatures.At(0, 0))
	assert.Equal(t, 1.0, s.TestLabels.At(1, 0))

	// Copies, not views.
	s.TrainFeatures.Set(0, 0, 99)
	assert.Equal(t, 0.0, f.At(0, 0))

	all, err := SplitValidation(f, l, 1)
	require.NoError(t, err)
	assert.Equal(t, 8, all.TrainFeatures.Rows())
	assert.Equal(t, 0, all.TestFeatures.Rows())

	for _, frac := range []float64{0, -0.5, 1.5, math.NaN()} {
		_, err := SplitValidation(f, l, frac)
		assert.ErrorIs(t, err, ErrFraction)
	}
}

func TestCrossValidate(t *testing.T) {
	f, l := dataset(t,
		[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		[]float64{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1},
		"a", "b")
	before := f.Clone()

	var mu sync.Mutex
	learners := map[[2]int]*majority{}
	factory := func(rep, fold int) SupervisedLearner {
		m := &majority{}
		mu.Lock()
		learners[[2]int{rep, fold}] = m
		mu.Unlock()
		return m
	}

	res, err := CrossValidate(factory, f, l, rand.New(rand.NewPCG(1, 2)),
		CVConfig{Reps: 2, Folds: 5, Parallel: parallel.Config{Enabled: true, NumWorkers: 3}})
	require.NoError(t, err)

	require.Len(t, res.Folds, 10)
	assert.Len(t, learners, 10)
	for i, r := range res.Folds {
		assert.Equal(t, i/5, r.Rep)
		assert.Equal(t, i%5, r.Fold)
		// 11 rows, 5 folds of 2: every learner trains on 9 rows.
		assert.Equal(t, 9, learners[[2]int{r.Rep, r.Fold}].trainRows)
	}

	sum := 0.0
	for _, r := range res.Folds {
		sum += r.TestScore
	}
	assert.InDelta(t, sum/10, res.Mean, 1e-12)

	// Caller data untouched.
	for i := 0; i < f.Rows(); i++ {
		assert.Equal(t, before.Row(i), f.Row(i))
	}
}

func TestCrossValidate_Deterministic(t *testing.T) {
	f, l := dataset(t,
		[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		[]float64{0, 1, 1, 0, 1, 1, 0, 0, 1, 0},
		"a", "b")
	factory := func(int, int) SupervisedLearner { return &majority{} }

	seq, err := CrossValidate(factory, f, l, rand.New(rand.NewPCG(5, 5)),
		CVConfig{Reps: 3, Folds: 5, Parallel: parallel.Sequential()})
	require.NoError(t, err)
	par, err := CrossValidate(factory, f, l, rand.New(rand.NewPCG(5, 5)),
		CVConfig{Reps: 3, Folds: 5, Parallel: parallel.Config{Enabled: true, NumWorkers: 4}})
	require.NoError(t, err)

	assert.Equal(t, seq, par)
}

func TestCrossValidate_Errors(t *testing.T) {
	f, l := dataset(t, []float64{0, 1, 2}, []float64{0, 1, 0}, "a", "b")
	factory := func(int, int) SupervisedLearner { return &majority{} }
	rng := rand.New(rand.NewPCG(1, 1))

	_, err := CrossValidate(factory, f, l, rng, CVConfig{Reps: 1, Folds: 4})
	assert.ErrorIs(t, err, ErrFolds)
	_, err = CrossValidate(factory, f, l, rng, CVConfig{Reps: 0, Folds: 2})
	assert.ErrorIs(t, err, ErrFolds)

	_, err = CrossValidate(func(int, int) SupervisedLearner { return failing{} }, f, l, rng,
		CVConfig{Reps: 1, Folds: 3})
	assert.ErrorIs(t, err, errBoom)
}
