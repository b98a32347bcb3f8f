// Package parallel runs independent per-sample work on a bounded set of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine.
}

// DefaultConfig uses one worker per CPU and chunks of at least minChunk
// items. Work heavier per item than a few arithmetic ops wants a small
// minChunk; image resizing uses 1.
func DefaultConfig(minChunk int) Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: max(minChunk, 1),
	}
}

// For executes f(i) for i in [0, n), in contiguous chunks spread over the
// workers. It runs sequentially when cfg is disabled or n is below one chunk.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < 2*cfg.MinChunkSize || cfg.NumWorkers < 2 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForErr is For for fallible work. Every index still runs; the error of the
// lowest failing index is returned.
func ForErr(n int, f func(i int) error, cfg Config) error {
	errs := make([]error, n)
	For(n, func(i int) { errs[i] = f(i) }, cfg)
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
