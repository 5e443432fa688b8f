package backprop

import "fmt"

// Config holds the hyperparameters of an MLP.
type Config struct {
	MaxEpochs     int     `yaml:"max_epochs"`     // Epoch ceiling; also sets the early-stopping patience to MaxEpochs/10
	LearningRate  float64 `yaml:"learning_rate"`  // Step size of the delta rule
	Momentum      float64 `yaml:"momentum"`       // Fraction of the previous delta added to the next, range [0, 1)
	HiddenLayers  int     `yaml:"hidden_layers"`  // Number of hidden layers
	HiddenNodes   int     `yaml:"hidden_nodes"`   // Non-bias nodes per hidden layer; 0 means twice the input count
	TrainFraction float64 `yaml:"train_fraction"` // Share of rows used for training, the rest validate
	Seed          uint64  `yaml:"seed"`           // Seed of the default random source
}

// DefaultConfig returns the default hyperparameters.
func DefaultConfig() Config {
	return Config{
		MaxEpochs:     1000,
		LearningRate:  0.6,
		Momentum:      0.2,
		HiddenLayers:  4,
		HiddenNodes:   0,
		TrainFraction: 0.75,
		Seed:          1,
	}
}

// Validate checks that every field is in range.
func (c Config) Validate() error {
	switch {
	case c.MaxEpochs < 1:
		return fmt.Errorf("%w: max epochs must be positive, got %d", ErrConfig, c.MaxEpochs)
	case c.LearningRate < 0:
		return fmt.Errorf("%w: learning rate must not be negative, got %v", ErrConfig, c.LearningRate)
	case c.Momentum < 0 || c.Momentum >= 1:
		return fmt.Errorf("%w: momentum must be in [0, 1), got %v", ErrConfig, c.Momentum)
	case c.HiddenLayers < 0:
		return fmt.Errorf("%w: hidden layers must not be negative, got %d", ErrConfig, c.HiddenLayers)
	case c.HiddenNodes < 0:
		return fmt.Errorf("%w: hidden nodes must not be negative, got %d", ErrConfig, c.HiddenNodes)
	case !(c.TrainFraction > 0 && c.TrainFraction <= 1):
		return fmt.Errorf("%w: train fraction must be in (0, 1], got %v", ErrConfig, c.TrainFraction)
	}
	return nil
}

// patience returns how many epochs without improvement end training.
func (c Config) patience() int {
	return max(1, c.MaxEpochs/10)
}
