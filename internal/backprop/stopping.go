package backprop

import "math"

// stopper tracks the best validation score and the number of epochs since
// it last improved.
type stopper struct {
	best      float64
	bestEpoch int
	since     int
	patience  int
}

func newStopper(patience int) *stopper {
	return &stopper{best: math.Inf(-1), patience: patience}
}

// observe records the score of one epoch. improved is true only when score
// strictly beats the best so far; stop is true once patience epochs in a
// row have failed to improve.
func (s *stopper) observe(epoch int, score float64) (improved, stop bool) {
	if score > s.best {
		s.best = score
		s.bestEpoch = epoch
		s.since = 0
		return true, false
	}
	s.since++
	return false, s.since >= s.patience
}
