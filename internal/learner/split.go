package learner

import (
	"fmt"

	"github.com/born-ml/backprop/internal/matrix"
)

// Split is a hold-out partition of a dataset.
type Split struct {
	TrainFeatures, TrainLabels *matrix.Matrix
	TestFeatures, TestLabels   *matrix.Matrix
}

// SplitValidation copies the first ⌊rows × trainFraction⌋ rows into the
// training half and the remainder into the test half. It does not shuffle.
func SplitValidation(features, labels *matrix.Matrix, trainFraction float64) (*Split, error) {
	if features.Rows() != labels.Rows() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrRowMismatch, features.Rows(), labels.Rows())
	}
	if !(trainFraction > 0 && trainFraction <= 1) {
		return nil, fmt.Errorf("%w: got %v", ErrFraction, trainFraction)
	}

	rows := features.Rows()
	n := int(float64(rows) * trainFraction)

	s := &Split{}
	var err error
	if s.TrainFeatures, err = features.Part(0, 0, n, features.Cols()); err != nil {
		return nil, err
	}
	if s.TrainLabels, err = labels.Part(0, 0, n, labels.Cols()); err != nil {
		return nil, err
	}
	if s.TestFeatures, err = features.Part(n, 0, rows-n, features.Cols()); err != nil {
		return nil, err
	}
	if s.TestLabels, err = labels.Part(n, 0, rows-n, labels.Cols()); err != nil {
		return nil, err
	}
	return s, nil
}
