// Package backprop implements a multilayer perceptron of sigmoid units
// trained by error backpropagation with momentum.
//
// A network is described by a Topology and held in a NetworkState: the
// weight and momentum tensors indexed by (layer, source, destination) and
// the activation, net-input and error tensors indexed by (layer, node).
// Every non-output layer ends with a bias unit whose activation is fixed at
// 1.0; bias units have no incoming weights and carry no error.
//
// Forward and Backward operate on a NetworkState directly. MLP wraps them in
// a learner that holds out a validation split, trains epoch by epoch and
// stops early once validation performance stops improving, keeping the best
// weights it saw.
//
// Example:
//
//	mlp, err := backprop.New(backprop.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	if err := mlp.Train(features, labels); err != nil {
//	    return err
//	}
//	label, err := mlp.Predict(row)
package backprop
