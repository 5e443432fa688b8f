// Package config loads learner hyperparameters from YAML.
//
// A document has one optional section per learner. Omitted sections and
// fields keep their defaults:
//
//	backprop:
//	  max_epochs: 500
//	  hidden_layers: 2
//	  hidden_nodes: 8
//	perceptron:
//	  learning_rate: 0.1
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/backprop/internal/backprop"
	"github.com/born-ml/backprop/internal/perceptron"
	"gopkg.in/yaml.v3"
)

// File is the contents of a configuration document.
type File struct {
	Backprop   backprop.Config   `yaml:"backprop"`
	Perceptron perceptron.Config `yaml:"perceptron"`
}

// Default returns every learner's default configuration.
func Default() File {
	return File{
		Backprop:   backprop.DefaultConfig(),
		Perceptron: perceptron.DefaultConfig(),
	}
}

// Parse decodes a document layered over Default. Unknown keys are rejected.
func Parse(r io.Reader) (File, error) {
	f := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := f.Backprop.Validate(); err != nil {
		return File{}, err
	}
	if err := f.Perceptron.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Load reads and parses a configuration file.
func Load(path string) (File, error) {
	file, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	f, err := Parse(file)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
