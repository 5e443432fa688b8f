// Package parallel provides bounded fan-out for coarse, independent work
// items such as cross-validation folds.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Maximum number of items in flight.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
	}
}

// Sequential returns a configuration that runs items one after another on
// the calling goroutine.
func Sequential() Config {
	return Config{}
}

// ForEach executes f(i) for i in [0, n) and returns the error of the lowest
// index that failed, or nil.
//
// Falls back to sequential execution if parallelism is disabled or there is
// only one item; the sequential path stops at the first error. The parallel
// path always runs every item, so callers must not rely on early exit.
func ForEach(n int, cfg Config, f func(i int) error) error {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := f(i); err != nil {
				return err
			}
		}
		return nil
	}

	errs := make([]error, n)
	sem := make(chan struct{}, cfg.NumWorkers)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = f(i)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
