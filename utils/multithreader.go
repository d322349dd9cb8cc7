// Package utils holds the data-parallel fan-out helper shared by the
// engine's tick, backpropagation, and parameter-update phases.
package utils

import (
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// serialThreshold is the range size below which MultiThread runs inline.
// Goroutine fan-out costs more than it saves on small ranges.
const serialThreshold = 64

var numWorkers = func() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}

	return runtime.NumCPU()
}()

// MultiThread runs f for every integer in [start, end), splitting the range
// into one contiguous chunk per logical core. It blocks until the whole
// range has been processed.
//
// f must be safe to call concurrently for distinct indices; MultiThread
// itself provides no synchronization beyond waiting for completion.
func MultiThread(start, end int, f func(int)) {
	if end-start < serialThreshold {
		for i := start; i < end; i++ {
			f(i)
		}

		return
	}

	chunk := (end - start + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for lo := start; lo < end; lo += chunk {
		hi := lo + chunk
		if hi > end {
			hi = end
		}

		wg.Add(1)
		go func(lo, hi int) {
			for i := lo; i < hi; i++ {
				f(i)
			}

			wg.Done()
		}(lo, hi)
	}

	wg.Wait()
}
