// Package batch runs one conversion function over many input files
// with a worker pool and periodic progress output.
package batch

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Result holds the outcome of processing one input.
type Result struct {
	Input string
	Err   error
}

// Run processes every input with fn across workers goroutines and
// returns one Result per input, in input order. fn must be safe for
// concurrent calls on distinct inputs.
func Run(workers int, inputs []string, fn func(string) error) []Result {
	if workers < 1 {
		workers = 1
	}

	total := len(inputs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	idxChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxChan {
				results[idx] = Result{Input: inputs[idx], Err: fn(inputs[idx])}
				processed.Add(1)
			}
		}()
	}

	for i := range inputs {
		idxChan <- i
	}
	close(idxChan)

	wg.Wait()
	close(done)

	return results
}
