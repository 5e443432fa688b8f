package backprop

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/backprop/internal/nn"
	"github.com/born-ml/backprop/internal/tensor"
)

// Topology describes the layer layout of a network.
type Topology struct {
	Inputs       int // Feature count, bias excluded
	Outputs      int // Output units: the class count for 3+ classes, else 1
	Classes      int // Nominal label cardinality, 0 for a continuous label
	HiddenLayers int
	HiddenNodes  int // Non-bias nodes per hidden layer; 0 removes the hidden layers
}

// NewTopology derives the layout for a dataset with the given feature count
// and label cardinality.
func NewTopology(inputs, classes int, cfg Config) Topology {
	outputs := 1
	if classes >= 3 {
		outputs = classes
	}
	hidden := cfg.HiddenNodes
	if hidden == 0 {
		hidden = 2 * inputs
	}
	return Topology{
		Inputs:       inputs,
		Outputs:      outputs,
		Classes:      classes,
		HiddenLayers: cfg.HiddenLayers,
		HiddenNodes:  hidden,
	}
}

// Continuous reports whether the network regresses a continuous label.
func (t Topology) Continuous() bool {
	return t.Classes == 0
}

func (t Topology) hiddenLayers() int {
	if t.HiddenNodes == 0 {
		return 0
	}
	return t.HiddenLayers
}

// NumLayers returns the layer count: input, hidden layers, output.
func (t Topology) NumLayers() int {
	return t.hiddenLayers() + 2
}

// OutputLayer returns the index of the output layer.
func (t Topology) OutputLayer() int {
	return t.NumLayers() - 1
}

// Widths returns the activation width of every layer, bias units included.
func (t Topology) Widths() tensor.Shape {
	w := make(tensor.Shape, 0, t.NumLayers())
	w = append(w, t.Inputs+1)
	for i := 0; i < t.hiddenLayers(); i++ {
		w = append(w, t.HiddenNodes+1)
	}
	return append(w, t.Outputs)
}

// Validate checks the topology for impossible sizes.
func (t Topology) Validate() error {
	switch {
	case t.Inputs < 1:
		return structuref("topology", "need at least one input, got %d", t.Inputs)
	case t.Outputs < 1:
		return structuref("topology", "need at least one output, got %d", t.Outputs)
	case t.Classes < 0:
		return structuref("topology", "negative class count %d", t.Classes)
	case t.Classes >= 3 && t.Outputs != t.Classes:
		return structuref("topology", "%d classes need %d outputs, got %d", t.Classes, t.Classes, t.Outputs)
	case t.Classes < 3 && t.Outputs != 1:
		return structuref("topology", "%d classes need a single output, got %d", t.Classes, t.Outputs)
	case t.HiddenLayers < 0 || t.HiddenNodes < 0:
		return structuref("topology", "negative hidden size %dx%d", t.HiddenLayers, t.HiddenNodes)
	}
	return nil
}

// NetworkState is the mutable state of one network.
//
// Weights and Deltas have one layer per pair of adjacent activation layers;
// layer l is a widths[l] x nonbias(l+1) matrix. Activations and Nets have
// one vector per layer. Errors has one vector per layer too, sized to the
// non-bias nodes, so its input layer is empty.
type NetworkState struct {
	Topology    Topology
	Weights     *tensor.Matrices
	Deltas      *tensor.Matrices // Previous applied delta per weight
	Activations *tensor.Vectors
	Nets        *tensor.Vectors // Pre-activation input of each node
	Errors      *tensor.Vectors
}

// NewState allocates a network for t. Weights are drawn from a zero-mean
// Gaussian with standard deviation nn.InitStdDev using rng; deltas, errors
// and activations start at zero except the bias slots, which hold 1.0.
func NewState(t Topology, rng *rand.Rand) (*NetworkState, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	widths := t.Widths()
	last := len(widths) - 1

	nonBias := make(tensor.Shape, len(widths))
	for l, w := range widths {
		nonBias[l] = w
		if l < last {
			nonBias[l] = w - 1
		}
	}

	rows := widths[:last].Clone()
	cols := nonBias[1:].Clone()

	errWidths := nonBias.Clone()
	errWidths[0] = 0

	s := &NetworkState{
		Topology:    t,
		Weights:     tensor.NewMatrices(rows, cols),
		Deltas:      tensor.NewMatrices(rows, cols),
		Activations: tensor.NewVectors(widths),
		Nets:        tensor.NewVectors(widths),
		Errors:      tensor.NewVectors(errWidths),
	}

	nn.Normal(s.Weights.Data(), nn.InitStdDev, rng)
	for l := 0; l < last; l++ {
		s.Activations.Set(l, widths[l]-1, 1)
	}
	return s, nil
}

// SetInput stages a feature row into the input layer. The bias slot is left
// untouched.
func (s *NetworkState) SetInput(features []float64) error {
	in := s.Activations.Layer(0)
	if len(features) != len(in)-1 {
		return fmt.Errorf("%w: got %d features, network has %d inputs", ErrInputWidth, len(features), len(in)-1)
	}
	copy(in, features)
	return nil
}

// Output returns the output-layer activations as a view.
func (s *NetworkState) Output() []float64 {
	return s.Activations.Layer(s.Activations.Len() - 1)
}

// check verifies the invariants Forward and Backward rely on.
func (s *NetworkState) check(op string) error {
	if s.Weights == nil || s.Deltas == nil || s.Activations == nil || s.Nets == nil || s.Errors == nil {
		return structuref(op, "state has unallocated tensors")
	}

	acts := s.Activations
	n := acts.Len()
	if n < 2 {
		return structuref(op, "need an input and an output layer, have %d layers", n)
	}
	if s.Weights.Len() != n-1 {
		return structuref(op, "%d weight layers for %d activation layers", s.Weights.Len(), n)
	}
	if !s.Weights.SameShape(s.Deltas) {
		return structuref(op, "weights and deltas differ in shape")
	}
	if !s.Nets.Shape().Equal(acts.Shape()) {
		return structuref(op, "nets and activations differ in shape")
	}
	if s.Errors.Len() != n {
		return structuref(op, "%d error layers for %d activation layers", s.Errors.Len(), n)
	}

	for l := 0; l < n-1; l++ {
		w := acts.Width(l)
		if w < 2 {
			return structuref(op, "layer %d needs a regular node and a bias node, has %d nodes", l, w)
		}
		if b := acts.At(l, w-1); b != 1 {
			return structuref(op, "layer %d bias activation is %v", l, b)
		}
		rows, cols := s.Weights.Dims(l)
		if rows != w {
			return structuref(op, "weight layer %d has %d source nodes, activation layer has %d", l, rows, w)
		}
		if next := nonBiasWidth(acts, l+1); cols != next {
			return structuref(op, "weight layer %d has %d destinations, layer %d has %d nodes", l, cols, l+1, next)
		}
	}
	if acts.Width(n-1) < 1 {
		return structuref(op, "output layer is empty")
	}
	for l := 1; l < n; l++ {
		if got, want := s.Errors.Width(l), nonBiasWidth(acts, l); got != want {
			return structuref(op, "error layer %d has %d nodes, want %d", l, got, want)
		}
	}
	return nil
}

func nonBiasWidth(acts *tensor.Vectors, layer int) int {
	if layer == acts.Len()-1 {
		return acts.Width(layer)
	}
	return acts.Width(layer) - 1
}
