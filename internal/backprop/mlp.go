package backprop

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/born-ml/backprop/internal/learner"
	"github.com/born-ml/backprop/internal/matrix"
	"github.com/born-ml/backprop/internal/optim"
	"github.com/google/uuid"
)

// MeasureFunc scores a learner on a labelled set: accuracy for a nominal
// label, RMSE for a continuous one.
type MeasureFunc func(l learner.SupervisedLearner, features, labels *matrix.Matrix) (float64, error)

// MLP is a multilayer perceptron learner.
//
// An MLP is not safe for concurrent use: Predict reuses the network's
// activation buffers.
type MLP struct {
	cfg      Config
	rng      *rand.Rand
	observer Observer
	measure  MeasureFunc

	state   *NetworkState
	summary Summary
}

// Option configures an MLP.
type Option func(*MLP)

// WithRand sets the random source used for weight initialization and
// shuffling. The default is a PCG seeded with Config.Seed.
func WithRand(rng *rand.Rand) Option {
	return func(m *MLP) { m.rng = rng }
}

// WithObserver sets the diagnostics receiver. The default discards
// everything.
func WithObserver(o Observer) Option {
	return func(m *MLP) { m.observer = o }
}

// WithMeasure replaces the validation measurement, learner.MeasureAccuracy
// by default.
func WithMeasure(f MeasureFunc) Option {
	return func(m *MLP) { m.measure = f }
}

// New creates an untrained MLP.
func New(cfg Config, opts ...Option) (*MLP, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &MLP{
		cfg:      cfg,
		observer: NopObserver{},
		measure:  learner.MeasureAccuracy,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	return m, nil
}

// Config returns the hyperparameters.
func (m *MLP) Config() Config {
	return m.cfg
}

// State returns the live network, or nil before training.
func (m *MLP) State() *NetworkState {
	return m.state
}

// Summary returns the diagnostics of the last successful Train.
func (m *MLP) Summary() Summary {
	return m.summary
}

// Train builds a fresh network for the data and trains it.
//
// The rows are shuffled and split into training and validation sets by
// Config.TrainFraction; if no validation rows remain, the training rows
// validate. Each epoch shuffles the training rows and runs a forward and a
// backward pass per row, then scores the validation set (1 − RMSE for a
// continuous label). Whenever the score strictly beats the best so far the
// weights are snapshotted. Training ends after MaxEpochs/10 epochs (at
// least one) without improvement, or once the epoch count exceeds
// MaxEpochs, and the best snapshot becomes the live weights.
//
// The caller's matrices are not modified.
func (m *MLP) Train(features, labels *matrix.Matrix) (err error) {
	if err := learner.CheckData(features, labels); err != nil {
		return err
	}
	start := time.Now()

	topo := NewTopology(features.Cols(), labels.ValueCount(0), m.cfg)
	state, err := NewState(topo, m.rng)
	if err != nil {
		return err
	}

	f, l := features.Clone(), labels.Clone()
	if err := f.ShuffleRows(m.rng, l); err != nil {
		return err
	}
	split, err := learner.SplitValidation(f, l, m.cfg.TrainFraction)
	if err != nil {
		return err
	}
	trainF, trainL := split.TrainFeatures, split.TrainLabels
	validF, validL := split.TestFeatures, split.TestLabels
	if trainF.Rows() == 0 {
		return fmt.Errorf("%w: no training rows after a %v split of %d rows",
			learner.ErrEmpty, m.cfg.TrainFraction, f.Rows())
	}
	if validF.Rows() == 0 {
		validF, validL = trainF, trainL
	}

	m.state = state
	defer func() {
		if err != nil {
			m.state = nil
		}
	}()

	opt := optim.NewSGD(optim.SGDConfig{LR: m.cfg.LearningRate, Momentum: m.cfg.Momentum})
	runID := uuid.NewString()
	stop := newStopper(m.cfg.patience())
	best := state.Weights.Clone()

	epoch := 0
	for {
		epoch++
		epochStart := time.Now()

		if err := trainF.ShuffleRows(m.rng, trainL); err != nil {
			return err
		}
		for i := 0; i < trainF.Rows(); i++ {
			if err := state.SetInput(trainF.Row(i)); err != nil {
				return err
			}
			if err := Forward(state); err != nil {
				return fmt.Errorf("epoch %d row %d: %w", epoch, i, err)
			}
			if err := Backward(state, trainL.At(i, 0), opt); err != nil {
				return fmt.Errorf("epoch %d row %d: %w", epoch, i, err)
			}
		}

		score, err := m.measure(m, validF, validL)
		if err != nil {
			return fmt.Errorf("epoch %d: validation: %w", epoch, err)
		}
		if topo.Continuous() {
			score = 1 - score
		}

		improved, done := stop.observe(epoch, score)
		if improved {
			if err := best.CopyFrom(state.Weights); err != nil {
				return err
			}
		}
		m.observer.EpochCompleted(EpochStats{
			RunID:     runID,
			Epoch:     epoch,
			Score:     score,
			BestScore: stop.best,
			Improved:  improved,
			Elapsed:   time.Since(epochStart),
		})

		if done || epoch > m.cfg.MaxEpochs {
			break
		}
	}

	if err := state.Weights.CopyFrom(best); err != nil {
		return err
	}

	trainMSE, err := learner.MeanSquaredError(m, trainF, trainL)
	if err != nil {
		return err
	}
	validMSE, err := learner.MeanSquaredError(m, validF, validL)
	if err != nil {
		return err
	}

	m.summary = Summary{
		RunID:         runID,
		Epochs:        epoch,
		BestEpoch:     stop.bestEpoch,
		BestScore:     stop.best,
		TrainMSE:      trainMSE,
		ValidationMSE: validMSE,
		Elapsed:       time.Since(start),
	}
	m.observer.TrainingFinished(m.summary)
	return nil
}

// Predict returns the predicted label for one feature row.
func (m *MLP) Predict(features []float64) ([]float64, error) {
	if m.state == nil {
		return nil, ErrNotTrained
	}
	label, err := Predict(m.state, features, 0, nil)
	if err != nil {
		return nil, err
	}
	return []float64{label}, nil
}

// PredictMSE is Predict that also adds the squared output error against
// target to *mse. Single-output networks accumulate too, against the unit's
// training target; the classic formulation only did this for three or more
// output units.
func (m *MLP) PredictMSE(features []float64, target float64, mse *float64) ([]float64, error) {
	if m.state == nil {
		return nil, ErrNotTrained
	}
	label, err := Predict(m.state, features, target, mse)
	if err != nil {
		return nil, err
	}
	return []float64{label}, nil
}

var (
	_ learner.SupervisedLearner = (*MLP)(nil)
	_ learner.MSEPredictor      = (*MLP)(nil)
)
