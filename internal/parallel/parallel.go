// Package parallel provides parallel execution utilities.
//
// Graph construction is single-threaded per scope, so parallel work over a
// model gives every goroutine its own child scope and only reads the shared
// parameter scope.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4, // One sample graph is already sizeable.
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	Chunks(n, func(_, start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}

// Chunks splits [0, n) into contiguous ranges and calls f(chunk, start, end)
// once per range, each on its own goroutine. It returns the number of chunks;
// chunk indices are dense in [0, result).
//
// When parallelism is disabled or n is too small, f runs once over the whole
// range on the calling goroutine.
func Chunks(n int, f func(chunk, start, end int), cfg Config) int {
	if n <= 0 {
		return 0
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize {
		f(0, 0, n)
		return 1
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	chunk := 0
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(c, s, e int) {
			defer wg.Done()
			f(c, s, e)
		}(chunk, start, end)
		chunk++
	}
	wg.Wait()
	return chunk
}

// NumChunks returns how many chunks Chunks will use for n items.
func NumChunks(n int, cfg Config) int {
	if n <= 0 {
		return 0
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize {
		return 1
	}
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
	return (n + chunkSize - 1) / chunkSize
}
