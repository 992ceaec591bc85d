// Package parallel provides chunked fan-out helpers for CPU-bound loops.
// Cross-validation folds and k-NN distance scans use these when the caller
// asks for fold-level parallelism; the orchestration loop itself stays
// strictly sequential.
package parallel

import (
	"runtime"
	"sync"
)

// For splits [0, items) into contiguous chunks, one per available CPU core,
// and runs fn(start, end) on each chunk concurrently. fn must not write to
// shared state without its own coordination.
func For(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ForThreshold runs fn sequentially when items is at or below threshold, and
// parallelizes otherwise. Small inputs are not worth the goroutine overhead.
func ForThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	For(items, fn)
}
