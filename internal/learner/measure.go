package learner

import (
	"fmt"
	"math"

	"github.com/born-ml/backprop/internal/matrix"
)

// MeasureAccuracy scores l on the given rows.
//
// For a nominal label it returns the fraction of rows predicted correctly.
// For a continuous label it returns the root mean squared error, so lower is
// better in that case.
func MeasureAccuracy(l SupervisedLearner, features, labels *matrix.Matrix) (float64, error) {
	if err := CheckData(features, labels); err != nil {
		return 0, err
	}

	classes := labels.ValueCount(0)
	if classes == 0 {
		var sse float64
		for i := 0; i < features.Rows(); i++ {
			pred, err := l.Predict(features.Row(i))
			if err != nil {
				return 0, fmt.Errorf("row %d: %w", i, err)
			}
			d := labels.At(i, 0) - pred[0]
			sse += d * d
		}
		return math.Sqrt(sse / float64(features.Rows())), nil
	}

	correct := 0
	for i := 0; i < features.Rows(); i++ {
		targ, err := classIndex(labels.At(i, 0), classes)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		pred, err := l.Predict(features.Row(i))
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		if pred[0] == float64(targ) {
			correct++
		}
	}
	return float64(correct) / float64(features.Rows()), nil
}

// Confusion counts predictions against true labels for a nominal label.
// Counts[p][a] is the number of rows with actual class a predicted as p.
type Confusion struct {
	Labels []string
	Counts [][]int
}

// Total returns the number of counted rows.
func (c *Confusion) Total() int {
	n := 0
	for _, row := range c.Counts {
		for _, v := range row {
			n += v
		}
	}
	return n
}

// Accuracy returns the fraction of rows on the diagonal.
func (c *Confusion) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	hit := 0
	for i := range c.Counts {
		hit += c.Counts[i][i]
	}
	return float64(hit) / float64(total)
}

// ConfusionMatrix builds the confusion table of l on a nominal label.
func ConfusionMatrix(l SupervisedLearner, features, labels *matrix.Matrix) (*Confusion, error) {
	if err := CheckData(features, labels); err != nil {
		return nil, err
	}
	classes := labels.ValueCount(0)
	if classes == 0 {
		return nil, fmt.Errorf("%w: confusion needs a nominal label", ErrLabelRange)
	}

	c := &Confusion{
		Labels: labels.Attribute(0).Values,
		Counts: make([][]int, classes),
	}
	for i := range c.Counts {
		c.Counts[i] = make([]int, classes)
	}

	for i := 0; i < features.Rows(); i++ {
		targ, err := classIndex(labels.At(i, 0), classes)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out, err := l.Predict(features.Row(i))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		pred, err := classIndex(out[0], classes)
		if err != nil {
			return nil, fmt.Errorf("row %d prediction: %w", i, err)
		}
		c.Counts[pred][targ]++
	}
	return c, nil
}

// MeanSquaredError runs p over every row, letting it accumulate squared
// error against the true label, and returns the total divided by the row
// count.
func MeanSquaredError(p MSEPredictor, features, labels *matrix.Matrix) (float64, error) {
	if err := CheckData(features, labels); err != nil {
		return 0, err
	}
	var mse float64
	for i := 0; i < features.Rows(); i++ {
		if _, err := p.PredictMSE(features.Row(i), labels.At(i, 0), &mse); err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return mse / float64(features.Rows()), nil
}

func classIndex(v float64, classes int) (int, error) {
	k := int(v)
	if float64(k) != v || k < 0 || k >= classes {
		return 0, fmt.Errorf("%w: %v not in [0, %d)", ErrLabelRange, v, classes)
	}
	return k, nil
}
