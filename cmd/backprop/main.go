// Package main provides the backprop command: load an ARFF dataset, train a
// learner on it and report how well it does.
//
// Usage:
//
//	backprop -arff iris.arff -learner backprop -eval cross -folds 10
//	backprop -arff train.arff -eval static -test test.arff -normalize
//	backprop version
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/born-ml/backprop/internal/arff"
	"github.com/born-ml/backprop/internal/backprop"
	"github.com/born-ml/backprop/internal/config"
	"github.com/born-ml/backprop/internal/learner"
	"github.com/born-ml/backprop/internal/matrix"
	"github.com/born-ml/backprop/internal/parallel"
	"github.com/born-ml/backprop/internal/perceptron"
)

const version = "v0.1.0-dev"

var errUsage = errors.New("usage error")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type options struct {
	arffPath   string
	learner    string
	eval       string
	split      float64
	folds      int
	reps       int
	workers    int
	testPath   string
	normalize  bool
	seed       int64
	configPath string
	verbose    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("backprop", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.arffPath, "arff", "", "ARFF dataset; the last column is the label")
	fs.StringVar(&o.learner, "learner", "backprop", "Learner: backprop or perceptron")
	fs.StringVar(&o.eval, "eval", "training", "Evaluation: training, random, cross or static")
	fs.Float64Var(&o.split, "split", 0.75, "Training fraction for -eval random")
	fs.IntVar(&o.folds, "folds", 10, "Folds for -eval cross")
	fs.IntVar(&o.reps, "reps", 1, "Repetitions for -eval cross")
	fs.IntVar(&o.workers, "workers", 1, "Folds trained concurrently for -eval cross")
	fs.StringVar(&o.testPath, "test", "", "Test ARFF for -eval static")
	fs.BoolVar(&o.normalize, "normalize", false, "Rescale continuous features to [0, 1]")
	fs.Int64Var(&o.seed, "seed", -1, "Random seed; negative keeps the configured seed")
	fs.StringVar(&o.configPath, "config", "", "YAML hyperparameter file")
	fs.BoolVar(&o.verbose, "verbose", false, "Log training progress")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}
	if o.arffPath == "" {
		return nil, fmt.Errorf("%w: -arff is required", errUsage)
	}
	switch o.eval {
	case "training", "random", "cross":
	case "static":
		if o.testPath == "" {
			return nil, fmt.Errorf("%w: -eval static needs -test", errUsage)
		}
	default:
		return nil, fmt.Errorf("%w: unknown evaluation %q", errUsage, o.eval)
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "version" {
		fmt.Fprintf(stdout, "backprop %s\n", version)
		return nil
	}

	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if o.configPath != "" {
		if cfg, err = config.Load(o.configPath); err != nil {
			return err
		}
	}
	if o.seed >= 0 {
		cfg.Backprop.Seed = uint64(o.seed)
		cfg.Perceptron.Seed = uint64(o.seed)
	}

	factory, err := learnerFactory(o.learner, cfg, logger)
	if err != nil {
		return err
	}

	data, err := arff.Load(o.arffPath)
	if err != nil {
		return err
	}
	features, labels, err := data.SplitLast()
	if err != nil {
		return err
	}
	var lo, hi []float64
	if o.normalize {
		lo, hi = features.Ranges()
		if err := features.NormalizeWith(lo, hi); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "Dataset: %s (%d rows, %d features)\n", o.arffPath, features.Rows(), features.Cols())
	fmt.Fprintf(stdout, "Learner: %s\n", o.learner)
	fmt.Fprintf(stdout, "Evaluation: %s\n", o.eval)
	if n := labels.ValueCount(0); n > 0 {
		fmt.Fprintf(stdout, "Label: %s (%d classes)\n", labels.AttrName(0), n)
	} else {
		fmt.Fprintf(stdout, "Label: %s (continuous)\n", labels.AttrName(0))
	}

	rng := rand.New(rand.NewPCG(cfg.Backprop.Seed, cfg.Perceptron.Seed))
	start := time.Now()

	switch o.eval {
	case "training":
		l := factory(0, 0)
		if err := l.Train(features, labels); err != nil {
			return err
		}
		if err := report(stdout, "Training set", l, features, labels, o.verbose); err != nil {
			return err
		}

	case "static":
		testData, err := arff.Load(o.testPath)
		if err != nil {
			return err
		}
		if err := data.CheckCompatibility(testData); err != nil {
			return fmt.Errorf("test set: %w", err)
		}
		testF, testL, err := testData.SplitLast()
		if err != nil {
			return err
		}
		if o.normalize {
			if err := testF.NormalizeWith(lo, hi); err != nil {
				return fmt.Errorf("test set: %w", err)
			}
		}
		l := factory(0, 0)
		if err := l.Train(features, labels); err != nil {
			return err
		}
		if err := report(stdout, "Training set", l, features, labels, false); err != nil {
			return err
		}
		if err := report(stdout, "Test set", l, testF, testL, o.verbose); err != nil {
			return err
		}

	case "random":
		f, lb := features.Clone(), labels.Clone()
		if err := f.ShuffleRows(rng, lb); err != nil {
			return err
		}
		split, err := learner.SplitValidation(f, lb, o.split)
		if err != nil {
			return err
		}
		if split.TestFeatures.Rows() == 0 {
			return fmt.Errorf("%w: -split %v leaves no test rows", errUsage, o.split)
		}
		l := factory(0, 0)
		if err := l.Train(split.TrainFeatures, split.TrainLabels); err != nil {
			return err
		}
		if err := report(stdout, "Training set", l, split.TrainFeatures, split.TrainLabels, false); err != nil {
			return err
		}
		if err := report(stdout, "Test set", l, split.TestFeatures, split.TestLabels, o.verbose); err != nil {
			return err
		}

	case "cross":
		par := parallel.Sequential()
		if o.workers > 1 {
			par = parallel.Config{Enabled: true, NumWorkers: o.workers}
		}
		res, err := learner.CrossValidate(learner.Factory(factory), features, labels, rng,
			learner.CVConfig{Reps: o.reps, Folds: o.folds, Parallel: par})
		if err != nil {
			return err
		}
		for _, fr := range res.Folds {
			fmt.Fprintf(stdout, "Rep %d, fold %d: training %.4f, test %.4f\n",
				fr.Rep, fr.Fold, fr.TrainScore, fr.TestScore)
		}
		fmt.Fprintf(stdout, "%s (mean over %d folds): %.4f\n", scoreName(labels), len(res.Folds), res.Mean)
	}

	fmt.Fprintf(stdout, "Time: %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// learnerFactory returns a constructor for the named learner. Each call
// gets its own seed so cross-validation folds are independent and
// reproducible.
func learnerFactory(name string, cfg config.File, logger *slog.Logger) (func(rep, fold int) learner.SupervisedLearner, error) {
	switch strings.ToLower(name) {
	case "backprop", "neuralnet", "mlp":
		if _, err := backprop.New(cfg.Backprop); err != nil {
			return nil, err
		}
		return func(rep, fold int) learner.SupervisedLearner {
			c := cfg.Backprop
			c.Seed += uint64(rep*1000 + fold)
			m, err := backprop.New(c, backprop.WithObserver(backprop.NewLogObserver(logger, 50)))
			if err != nil {
				panic(fmt.Sprintf("backprop: config accepted once then rejected: %v", err))
			}
			return m
		}, nil
	case "perceptron":
		if _, err := perceptron.New(cfg.Perceptron); err != nil {
			return nil, err
		}
		return func(rep, fold int) learner.SupervisedLearner {
			c := cfg.Perceptron
			c.Seed += uint64(rep*1000 + fold)
			p, err := perceptron.New(c, perceptron.WithLogger(logger))
			if err != nil {
				panic(fmt.Sprintf("perceptron: config accepted once then rejected: %v", err))
			}
			return p
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown learner %q", errUsage, name)
	}
}

func scoreName(labels *matrix.Matrix) string {
	if labels.ValueCount(0) == 0 {
		return "RMSE"
	}
	return "Accuracy"
}

func report(w io.Writer, name string, l learner.SupervisedLearner, features, labels *matrix.Matrix, confusion bool) error {
	score, err := learner.MeasureAccuracy(l, features, labels)
	if err != nil {
		return fmt.Errorf("%s: %w", strings.ToLower(name), err)
	}
	fmt.Fprintf(w, "%s %s: %.4f\n", name, scoreName(labels), score)

	if mp, ok := l.(learner.MSEPredictor); ok {
		mse, err := learner.MeanSquaredError(mp, features, labels)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s MSE: %.6f\n", name, mse)
	}

	if !confusion || labels.ValueCount(0) == 0 {
		return nil
	}
	c, err := learner.ConfusionMatrix(l, features, labels)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Confusion matrix (rows: predicted, columns: actual):")
	fmt.Fprintf(w, "  %-12s", "")
	for _, v := range c.Labels {
		fmt.Fprintf(w, " %8s", v)
	}
	fmt.Fprintln(w)
	for i, row := range c.Counts {
		fmt.Fprintf(w, "  %-12s", c.Labels[i])
		for _, n := range row {
			fmt.Fprintf(w, " %8d", n)
		}
		fmt.Fprintln(w)
	}
	return nil
}
