package backprop

import (
	"log/slog"
	"time"
)

// EpochStats describes one finished epoch.
type EpochStats struct {
	RunID     string
	Epoch     int
	Score     float64 // Validation score; higher is better
	BestScore float64
	Improved  bool // Whether this epoch produced a new weight snapshot
	Elapsed   time.Duration
}

// Summary describes a finished training run.
type Summary struct {
	RunID         string
	Epochs        int
	BestEpoch     int
	BestScore     float64
	TrainMSE      float64
	ValidationMSE float64
	Elapsed       time.Duration
}

// Observer receives training diagnostics. Calls happen on the training
// goroutine, between epochs.
type Observer interface {
	EpochCompleted(EpochStats)
	TrainingFinished(Summary)
}

// NopObserver discards everything.
type NopObserver struct{}

// EpochCompleted implements Observer.
func (NopObserver) EpochCompleted(EpochStats) {}

// TrainingFinished implements Observer.
func (NopObserver) TrainingFinished(Summary) {}

// LogObserver writes diagnostics to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
	every  int
}

// NewLogObserver logs every n-th epoch at debug level, plus every epoch
// that improves the best score, and the summary at info level. A nil logger
// uses slog.Default().
func NewLogObserver(logger *slog.Logger, every int) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger, every: max(1, every)}
}

// EpochCompleted implements Observer.
func (o *LogObserver) EpochCompleted(s EpochStats) {
	if !s.Improved && s.Epoch%o.every != 0 {
		return
	}
	o.logger.Debug("epoch completed",
		"run", s.RunID,
		"epoch", s.Epoch,
		"score", s.Score,
		"best", s.BestScore,
		"improved", s.Improved,
		"elapsed", s.Elapsed,
	)
}

// TrainingFinished implements Observer.
func (o *LogObserver) TrainingFinished(s Summary) {
	o.logger.Info("training finished",
		"run", s.RunID,
		"epochs", s.Epochs,
		"best_epoch", s.BestEpoch,
		"best_score", s.BestScore,
		"train_mse", s.TrainMSE,
		"validation_mse", s.ValidationMSE,
		"elapsed", s.Elapsed,
	)
}
