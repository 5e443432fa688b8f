package learner

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/backprop/internal/matrix"
	"github.com/born-ml/backprop/internal/parallel"
	"gonum.org/v1/gonum/stat"
)

// CVConfig configures CrossValidate.
type CVConfig struct {
	Reps     int             // Number of times the data is reshuffled and re-folded.
	Folds    int             // Folds per repetition.
	Parallel parallel.Config // Concurrency of the folds within one repetition.
}

// DefaultCVConfig returns a single repetition of 10 folds, run sequentially.
func DefaultCVConfig() CVConfig {
	return CVConfig{
		Reps:     1,
		Folds:    10,
		Parallel: parallel.Sequential(),
	}
}

// FoldResult holds the scores of one fold.
type FoldResult struct {
	Rep        int
	Fold       int
	TrainScore float64
	TestScore  float64
}

// CVResult holds every fold in (rep, fold) order and the mean test score.
type CVResult struct {
	Folds []FoldResult
	Mean  float64
}

// Factory returns a fresh, untrained learner for one fold.
type Factory func(rep, fold int) SupervisedLearner

// CrossValidate runs repeated n-fold cross-validation.
//
// Each repetition shuffles copies of the data with rng, then fold i tests on
// rows [i·size, (i+1)·size) with size = ⌊rows/folds⌋ and trains on every
// other row. Scores come from MeasureAccuracy. The caller's matrices are
// not modified.
//
// All shuffling happens on the calling goroutine before the folds start, so
// the result does not depend on cfg.Parallel as long as factory returns
// independent learners.
func CrossValidate(factory Factory, features, labels *matrix.Matrix, rng *rand.Rand, cfg CVConfig) (*CVResult, error) {
	if err := CheckData(features, labels); err != nil {
		return nil, err
	}
	if cfg.Reps < 1 {
		return nil, fmt.Errorf("%w: reps %d", ErrFolds, cfg.Reps)
	}
	if cfg.Folds < 1 || cfg.Folds > features.Rows() {
		return nil, fmt.Errorf("%w: %d folds for %d rows", ErrFolds, cfg.Folds, features.Rows())
	}

	f := features.Clone()
	l := labels.Clone()
	res := &CVResult{Folds: make([]FoldResult, 0, cfg.Reps*cfg.Folds)}

	for rep := 0; rep < cfg.Reps; rep++ {
		if err := f.ShuffleRows(rng, l); err != nil {
			return nil, err
		}

		splits := make([]*Split, cfg.Folds)
		for fold := range splits {
			s, err := foldSplit(f, l, fold, cfg.Folds)
			if err != nil {
				return nil, err
			}
			splits[fold] = s
		}

		results := make([]FoldResult, cfg.Folds)
		err := parallel.ForEach(cfg.Folds, cfg.Parallel, func(fold int) error {
			s := splits[fold]
			lrn := factory(rep, fold)
			if err := lrn.Train(s.TrainFeatures, s.TrainLabels); err != nil {
				return fmt.Errorf("rep %d fold %d: train: %w", rep, fold, err)
			}
			train, err := MeasureAccuracy(lrn, s.TrainFeatures, s.TrainLabels)
			if err != nil {
				return fmt.Errorf("rep %d fold %d: %w", rep, fold, err)
			}
			test, err := MeasureAccuracy(lrn, s.TestFeatures, s.TestLabels)
			if err != nil {
				return fmt.Errorf("rep %d fold %d: %w", rep, fold, err)
			}
			results[fold] = FoldResult{Rep: rep, Fold: fold, TrainScore: train, TestScore: test}
			return nil
		})
		if err != nil {
			return nil, err
		}
		res.Folds = append(res.Folds, results...)
	}

	scores := make([]float64, len(res.Folds))
	for i, r := range res.Folds {
		scores[i] = r.TestScore
	}
	res.Mean = stat.Mean(scores, nil)
	return res, nil
}

// foldSplit carves fold out of f and l. Rows past folds·size always train.
func foldSplit(f, l *matrix.Matrix, fold, folds int) (*Split, error) {
	size := f.Rows() / folds
	begin := size * fold
	end := begin + size

	head, err := f.Part(0, 0, begin, f.Cols())
	if err != nil {
		return nil, err
	}
	tail, err := f.Part(end, 0, f.Rows()-end, f.Cols())
	if err != nil {
		return nil, err
	}
	headL, err := l.Part(0, 0, begin, l.Cols())
	if err != nil {
		return nil, err
	}
	tailL, err := l.Part(end, 0, l.Rows()-end, l.Cols())
	if err != nil {
		return nil, err
	}

	s := &Split{}
	if s.TrainFeatures, err = head.Append(tail); err != nil {
		return nil, err
	}
	if s.TrainLabels, err = headL.Append(tailL); err != nil {
		return nil, err
	}
	if s.TestFeatures, err = f.Part(begin, 0, size, f.Cols()); err != nil {
		return nil, err
	}
	if s.TestLabels, err = l.Part(begin, 0, size, l.Cols()); err != nil {
		return nil, err
	}
	return s, nil
}
