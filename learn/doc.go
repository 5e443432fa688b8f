// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package learn is the public API for training and evaluating supervised
// learners on tabular data.
//
// Data lives in a Matrix: a table of float64 values with per-column
// attribute metadata. Nominal columns hold value indices; continuous
// columns hold raw values.
//
// Two learners share the Learner contract:
//   - MLP: a multilayer perceptron trained by backpropagation with momentum
//     and validation-based early stopping
//   - Perceptron: a single-layer threshold perceptron for binary labels
//
// Example:
//
//	data, err := learn.LoadARFF("iris.arff")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	features, labels, err := learn.SplitLabels(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mlp, err := learn.NewMLP(learn.DefaultMLPConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := mlp.Train(features, labels); err != nil {
//	    log.Fatal(err)
//	}
//	acc, err := learn.MeasureAccuracy(mlp, features, labels)
package learn
