package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/backprop/internal/backprop"
	"github.com/born-ml/backprop/internal/perceptron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Empty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
}

func TestParse_Overrides(t *testing.T) {
	doc := `
backprop:
  max_epochs: 200
  learning_rate: 0.3
  hidden_layers: 1
  hidden_nodes: 8
  seed: 99
perceptron:
  learning_rate: 0.1
`
	f, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	want := backprop.DefaultConfig()
	want.MaxEpochs = 200
	want.LearningRate = 0.3
	want.HiddenLayers = 1
	want.HiddenNodes = 8
	want.Seed = 99
	assert.Equal(t, want, f.Backprop)

	assert.Equal(t, 0.1, f.Perceptron.LearningRate)
	assert.Equal(t, perceptron.DefaultConfig().MaxEpochs, f.Perceptron.MaxEpochs)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader("backprop:\n  hidden_units: 3\n"))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("backprop:\n  momentum: 1.5\n"))
	assert.ErrorIs(t, err, backprop.ErrConfig)

	_, err = Parse(strings.NewReader("perceptron:\n  max_epochs: 0\n"))
	assert.ErrorIs(t, err, perceptron.ErrConfig)

	_, err = Parse(strings.NewReader("backprop: [1, 2"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learners.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backprop:\n  train_fraction: 0.5\n"), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, f.Backprop.TrainFraction)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
