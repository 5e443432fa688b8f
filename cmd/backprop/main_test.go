package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/born-ml/backprop/internal/backprop"
	"github.com/born-ml/backprop/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func separable(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("@relation separable\n@attribute x numeric\n@attribute y numeric\n@attribute class {lo, hi}\n@data\n")
	for i := 0; i < 20; i++ {
		v := float64(i) / 19 * 0.3
		b.WriteString(strings.Join([]string{ftoa(v), ftoa(v), "lo"}, ",") + "\n")
		b.WriteString(strings.Join([]string{ftoa(0.7 + v), ftoa(0.7 + v), "hi"}, ",") + "\n")
	}
	return writeFile(t, "separable.arff", b.String())
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"version"}, &out, &out))
	assert.Equal(t, "backprop "+version+"\n", out.String())
}

func TestRun_UsageErrors(t *testing.T) {
	path := separable(t)
	tests := [][]string{
		{},
		{"-arff", path, "-eval", "bogus"},
		{"-arff", path, "-eval", "static"},
		{"-arff", path, "-learner", "tree"},
		{"-arff", path, "extra"},
		{"-nope"},
	}
	for _, args := range tests {
		var out bytes.Buffer
		err := run(args, &out, &out)
		assert.ErrorIs(t, err, errUsage, "args %v", args)
	}
}

func TestRun_Training(t *testing.T) {
	var out, logs bytes.Buffer
	err := run([]string{"-arff", separable(t), "-seed", "3"}, &out, &logs)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Dataset: ")
	assert.Contains(t, s, "(40 rows, 2 features)")
	assert.Contains(t, s, "Label: class (2 classes)")
	assert.Contains(t, s, "Training set Accuracy: ")
	assert.Contains(t, s, "Training set MSE: ")
	assert.Empty(t, logs.String())
}

func TestRun_CrossValidationPerceptron(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{
		"-arff", separable(t), "-learner", "perceptron",
		"-eval", "cross", "-folds", "4", "-reps", "2", "-workers", "2",
	}, &out, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Rep 1, fold 3:")
	assert.Contains(t, s, "Accuracy (mean over 8 folds):")
}

func TestRun_RandomWithConfig(t *testing.T) {
	cfg := writeFile(t, "cfg.yaml", "backprop:\n  max_epochs: 50\n  hidden_layers: 1\n")
	var out, logs bytes.Buffer
	err := run([]string{
		"-arff", separable(t), "-eval", "random", "-split", "0.5",
		"-config", cfg, "-normalize", "-verbose",
	}, &out, &logs)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Test set Accuracy: ")
	assert.Contains(t, out.String(), "Confusion matrix")
	assert.Contains(t, logs.String(), "training finished")
}

func TestRun_Static(t *testing.T) {
	train := separable(t)
	test := writeFile(t, "test.arff",
		"@relation t\n@attribute x numeric\n@attribute y numeric\n@attribute class {lo, hi}\n@data\n0.1,0.1,lo\n0.9,0.9,hi\n")
	var out bytes.Buffer
	require.NoError(t, run([]string{"-arff", train, "-eval", "static", "-test", test}, &out, &out))
	assert.Contains(t, out.String(), "Test set Accuracy: ")

	bad := writeFile(t, "bad.arff", "@relation t\n@attribute x numeric\n@attribute class {a, b, c}\n@data\n0.1,a\n")
	err := run([]string{"-arff", train, "-eval", "static", "-test", bad}, &out, &out)
	assert.Error(t, err)
}

func TestRun_StaticNormalize(t *testing.T) {
	test := writeFile(t, "test.arff",
		"@relation t\n@attribute x numeric\n@attribute y numeric\n@attribute class {lo, hi}\n@data\n0.2,0.2,lo\n")
	var out bytes.Buffer
	err := run([]string{
		"-arff", separable(t), "-eval", "static", "-test", test, "-normalize", "-learner", "perceptron",
	}, &out, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Test set Accuracy: ")
}

func TestLearnerFactory(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	cfg := config.Default()
	factory, err := learnerFactory("mlp", cfg, logger)
	require.NoError(t, err)
	m, ok := factory(2, 3).(*backprop.MLP)
	require.True(t, ok)
	require.NotNil(t, m)
	assert.Equal(t, cfg.Backprop.Seed+2003, m.Config().Seed)

	factory, err = learnerFactory("perceptron", cfg, logger)
	require.NoError(t, err)
	assert.NotNil(t, factory(0, 1))

	bad := config.Default()
	bad.Backprop.Momentum = 1
	_, err = learnerFactory("backprop", bad, logger)
	assert.ErrorIs(t, err, backprop.ErrConfig)

	bad = config.Default()
	bad.Perceptron.LearningRate = 0
	_, err = learnerFactory("perceptron", bad, logger)
	assert.Error(t, err)

	_, err = learnerFactory("knn", cfg, logger)
	assert.ErrorIs(t, err, errUsage)
}

func TestRun_BadConfig(t *testing.T) {
	cfg := writeFile(t, "cfg.yaml", "backprop:\n  momentum: 2\n")
	var out bytes.Buffer
	err := run([]string{"-arff", separable(t), "-config", cfg}, &out, &out)
	assert.Error(t, err)
}
