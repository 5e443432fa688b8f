// Package perceptron implements a single-layer threshold perceptron for
// binary nominal labels.
package perceptron

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/born-ml/backprop/internal/learner"
	"github.com/born-ml/backprop/internal/matrix"
	"gonum.org/v1/gonum/floats"
)

// Common errors.
var (
	ErrLabels     = errors.New("perceptron: labels must be binary nominal")
	ErrNotTrained = errors.New("perceptron: not trained")
	ErrInputWidth = errors.New("perceptron: feature width does not match weights")
	ErrConfig     = errors.New("perceptron: invalid config")
)

// Config holds the perceptron hyperparameters.
type Config struct {
	MaxEpochs    int     `yaml:"max_epochs"`    // Sets the patience: MaxEpochs/10 epochs without improvement stop training
	LearningRate float64 `yaml:"learning_rate"` // Step size of the perceptron rule
	Seed         uint64  `yaml:"seed"`          // Seed of the default random source
}

// DefaultConfig returns the default hyperparameters.
func DefaultConfig() Config {
	return Config{
		MaxEpochs:    50,
		LearningRate: 0.5,
		Seed:         1,
	}
}

// Validate checks that every field is in range.
func (c Config) Validate() error {
	if c.MaxEpochs < 1 {
		return fmt.Errorf("%w: max epochs must be positive, got %d", ErrConfig, c.MaxEpochs)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("%w: learning rate must be positive, got %v", ErrConfig, c.LearningRate)
	}
	return nil
}

// Perceptron learns a linear decision boundary with the perceptron rule.
type Perceptron struct {
	cfg    Config
	rng    *rand.Rand
	logger *slog.Logger

	weights []float64 // one per feature, then the bias weight
	epochs  int
}

// Option configures a Perceptron.
type Option func(*Perceptron)

// WithRand sets the random source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(p *Perceptron) { p.rng = rng }
}

// WithLogger sets the logger for training diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Perceptron) { p.logger = logger }
}

// New creates an untrained perceptron.
func New(cfg Config, opts ...Option) (*Perceptron, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Perceptron{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p, nil
}

// Weights returns a copy of the learned weights, bias weight last.
func (p *Perceptron) Weights() []float64 {
	return append([]float64(nil), p.weights...)
}

// Epochs returns the number of epochs the last Train ran.
func (p *Perceptron) Epochs() int {
	return p.epochs
}

// Train fits the weights, starting from zero. Each epoch shuffles the rows
// and applies w += lr·(t − y)·x per row. Training ends after an epoch with
// no mistakes or once training accuracy has not improved for MaxEpochs/10
// epochs (at least one); the most accurate weights are kept.
func (p *Perceptron) Train(features, labels *matrix.Matrix) error {
	if err := learner.CheckData(features, labels); err != nil {
		return err
	}
	if n := labels.ValueCount(0); n != 2 {
		return fmt.Errorf("%w: label has %d values", ErrLabels, n)
	}

	f, l := features.Clone(), labels.Clone()
	p.weights = make([]float64, f.Cols()+1)
	best := p.Weights()
	bestAcc := -1.0
	patience := max(1, p.cfg.MaxEpochs/10)
	since := 0

	input := make([]float64, f.Cols()+1)
	input[f.Cols()] = 1

	p.epochs = 0
	for {
		p.epochs++
		if err := f.ShuffleRows(p.rng, l); err != nil {
			return err
		}

		mistakes := 0
		for i := 0; i < f.Rows(); i++ {
			copy(input, f.Row(i))
			target := l.At(i, 0)
			if target != 0 && target != 1 {
				return fmt.Errorf("%w: row %d has label %v", ErrLabels, i, target)
			}
			out := threshold(floats.Dot(p.weights, input))
			if out != target {
				mistakes++
				floats.AddScaled(p.weights, p.cfg.LearningRate*(target-out), input)
			}
		}

		acc, err := learner.MeasureAccuracy(p, f, l)
		if err != nil {
			return err
		}
		if acc > bestAcc {
			bestAcc = acc
			copy(best, p.weights)
			since = 0
		} else {
			since++
		}

		p.logger.Debug("perceptron epoch", "epoch", p.epochs, "mistakes", mistakes, "accuracy", acc)
		if mistakes == 0 || since >= patience {
			break
		}
	}

	copy(p.weights, best)
	p.logger.Info("perceptron trained", "epochs", p.epochs, "accuracy", bestAcc, "weights", p.weights)
	return nil
}

// Predict returns 1 when the weighted sum is positive and 0 otherwise.
func (p *Perceptron) Predict(features []float64) ([]float64, error) {
	if p.weights == nil {
		return nil, ErrNotTrained
	}
	n := len(p.weights) - 1
	if len(features) != n {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrInputWidth, len(features), n)
	}
	net := floats.Dot(p.weights[:n], features) + p.weights[n]
	return []float64{threshold(net)}, nil
}

func threshold(net float64) float64 {
	if net > 0 {
		return 1
	}
	return 0
}

var _ learner.SupervisedLearner = (*Perceptron)(nil)
