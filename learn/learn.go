// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package learn

import (
	"log/slog"
	"math/rand/v2"

	"github.com/born-ml/backprop/internal/arff"
	"github.com/born-ml/backprop/internal/backprop"
	"github.com/born-ml/backprop/internal/config"
	"github.com/born-ml/backprop/internal/learner"
	"github.com/born-ml/backprop/internal/matrix"
	"github.com/born-ml/backprop/internal/perceptron"
)

// Data

// Matrix is a table of float64 values with attribute metadata.
type Matrix = matrix.Matrix

// Attribute describes one column of a Matrix.
type Attribute = matrix.Attribute

// UnknownValue marks a missing entry.
const UnknownValue = matrix.UnknownValue

// NewMatrix creates a zero-filled matrix.
func NewMatrix(attrs []Attribute, rows int) *Matrix {
	return matrix.New(attrs, rows)
}

// FromRows builds a matrix from row slices.
func FromRows(attrs []Attribute, rows [][]float64) (*Matrix, error) {
	return matrix.FromRows(attrs, rows)
}

// Continuous returns a continuous attribute.
func Continuous(name string) Attribute {
	return matrix.Continuous(name)
}

// Nominal returns a nominal attribute with the given values.
func Nominal(name string, values ...string) Attribute {
	return matrix.Nominal(name, values...)
}

// LoadARFF reads an ARFF dataset from disk.
func LoadARFF(filename string) (*Matrix, error) {
	return arff.Load(filename)
}

// SplitLabels separates the last column of data as the label.
func SplitLabels(data *Matrix) (features, labels *Matrix, err error) {
	return data.SplitLast()
}

// Learners

// Learner is the train/predict contract shared by every learner.
type Learner = learner.SupervisedLearner

// MLP is a multilayer perceptron trained by backpropagation.
type MLP = backprop.MLP

// MLPConfig holds the MLP hyperparameters.
type MLPConfig = backprop.Config

// MLPOption configures an MLP.
type MLPOption = backprop.Option

// Observer receives MLP training diagnostics.
type Observer = backprop.Observer

// EpochStats describes one finished MLP epoch.
type EpochStats = backprop.EpochStats

// Summary describes a finished MLP training run.
type Summary = backprop.Summary

// DefaultMLPConfig returns the default MLP hyperparameters: 1000 epochs,
// learning rate 0.6, momentum 0.2, 4 hidden layers of twice the input width
// and a 75/25 train/validation split.
func DefaultMLPConfig() MLPConfig {
	return backprop.DefaultConfig()
}

// NewMLP creates an untrained MLP.
//
// Example:
//
//	cfg := learn.DefaultMLPConfig()
//	cfg.HiddenLayers = 1
//	mlp, err := learn.NewMLP(cfg, learn.WithObserver(learn.NewLogObserver(nil, 50)))
func NewMLP(cfg MLPConfig, opts ...MLPOption) (*MLP, error) {
	return backprop.New(cfg, opts...)
}

// WithRand sets the random source of an MLP.
func WithRand(rng *rand.Rand) MLPOption {
	return backprop.WithRand(rng)
}

// WithObserver sets the diagnostics receiver of an MLP.
func WithObserver(o Observer) MLPOption {
	return backprop.WithObserver(o)
}

// NewLogObserver returns an Observer that logs every n-th epoch and the
// final summary through slog. A nil logger uses slog.Default().
var NewLogObserver = backprop.NewLogObserver

// Perceptron is a single-layer threshold perceptron.
type Perceptron = perceptron.Perceptron

// PerceptronConfig holds the perceptron hyperparameters.
type PerceptronConfig = perceptron.Config

// PerceptronOption configures a Perceptron.
type PerceptronOption = perceptron.Option

// WithPerceptronLogger sets the logger a Perceptron reports training to.
func WithPerceptronLogger(logger *slog.Logger) PerceptronOption {
	return perceptron.WithLogger(logger)
}

// DefaultPerceptronConfig returns the default perceptron hyperparameters.
func DefaultPerceptronConfig() PerceptronConfig {
	return perceptron.DefaultConfig()
}

// NewPerceptron creates an untrained perceptron.
func NewPerceptron(cfg PerceptronConfig, opts ...PerceptronOption) (*Perceptron, error) {
	return perceptron.New(cfg, opts...)
}

// Evaluation

// Confusion is a predicted x actual count table.
type Confusion = learner.Confusion

// Split is a hold-out partition of a dataset.
type Split = learner.Split

// CVConfig configures CrossValidate.
type CVConfig = learner.CVConfig

// CVResult holds the per-fold scores of CrossValidate.
type CVResult = learner.CVResult

// MeasureAccuracy returns the fraction of correct predictions for a nominal
// label, or the RMSE for a continuous one.
func MeasureAccuracy(l Learner, features, labels *Matrix) (float64, error) {
	return learner.MeasureAccuracy(l, features, labels)
}

// ConfusionMatrix tabulates predictions against a nominal label.
func ConfusionMatrix(l Learner, features, labels *Matrix) (*Confusion, error) {
	return learner.ConfusionMatrix(l, features, labels)
}

// SplitValidation copies the leading trainFraction of the rows into a
// training set and the rest into a test set.
func SplitValidation(features, labels *Matrix, trainFraction float64) (*Split, error) {
	return learner.SplitValidation(features, labels, trainFraction)
}

// DefaultCVConfig returns one repetition of 10 sequential folds.
func DefaultCVConfig() CVConfig {
	return learner.DefaultCVConfig()
}

// CrossValidate runs repeated n-fold cross-validation, building a fresh
// learner per fold with factory.
func CrossValidate(factory func(rep, fold int) Learner, features, labels *Matrix, rng *rand.Rand, cfg CVConfig) (*CVResult, error) {
	return learner.CrossValidate(factory, features, labels, rng, cfg)
}

// Configuration

// ConfigFile holds per-learner hyperparameters loaded from YAML.
type ConfigFile = config.File

// LoadConfig reads a YAML hyperparameter file layered over the defaults.
func LoadConfig(path string) (ConfigFile, error) {
	return config.Load(path)
}
