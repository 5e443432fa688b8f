// Package learner defines the train/predict contract shared by the
// supervised learners and the harness that evaluates them: accuracy and
// RMSE measurement, confusion tables, hold-out splits and cross-validation.
package learner

import (
	"errors"
	"fmt"

	"github.com/born-ml/backprop/internal/matrix"
)

// Common errors.
var (
	ErrRowMismatch  = errors.New("learner: features and labels have different row counts")
	ErrLabelColumns = errors.New("learner: labels must have exactly one column")
	ErrEmpty        = errors.New("learner: expected at least one row")
	ErrLabelRange   = errors.New("learner: label out of range")
	ErrFraction     = errors.New("learner: fraction must be in (0, 1]")
	ErrFolds        = errors.New("learner: invalid fold count")
)

// SupervisedLearner is implemented by every learning strategy.
//
// Train fits the learner to the given rows. Predict returns the predicted
// label vector for one feature row; nominal labels are returned as value
// indices.
type SupervisedLearner interface {
	Train(features, labels *matrix.Matrix) error
	Predict(features []float64) ([]float64, error)
}

// MSEPredictor is a learner whose prediction can also accumulate the
// squared error of its raw outputs against the true label into *mse.
type MSEPredictor interface {
	PredictMSE(features []float64, target float64, mse *float64) ([]float64, error)
}

// CheckData verifies that features and labels describe the same non-empty
// set of rows with a one-dimensional label.
func CheckData(features, labels *matrix.Matrix) error {
	if features.Rows() != labels.Rows() {
		return fmt.Errorf("%w: %d vs %d", ErrRowMismatch, features.Rows(), labels.Rows())
	}
	if labels.Cols() != 1 {
		return fmt.Errorf("%w: got %d", ErrLabelColumns, labels.Cols())
	}
	if features.Rows() == 0 {
		return ErrEmpty
	}
	return nil
}
