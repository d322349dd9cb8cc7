package utils

import (
	"sync/atomic"
	"testing"
)

func TestMultiThreadCoversRange(t *testing.T) {
	// both the inline path and the fan-out path must visit every index
	// exactly once
	for _, size := range []int{0, 1, serialThreshold - 1, serialThreshold, 10_000} {
		hits := make([]int32, size)
		MultiThread(0, size, func(i int) {
			atomic.AddInt32(&hits[i], 1)
		})

		for i, h := range hits {
			if h != 1 {
				t.Fatalf("size %d: index %d visited %d times", size, i, h)
			}
		}
	}
}

func TestMultiThreadOffsetRange(t *testing.T) {
	var sum int64
	MultiThread(100, 300, func(i int) {
		atomic.AddInt64(&sum, int64(i))
	})

	// Σ i for i in [100, 300)
	if want := int64(200 * (100 + 299) / 2); sum != want {
		t.Errorf("sum over [100, 300) = %d, want %d", sum, want)
	}
}

func TestMultiThreadEmptyRange(t *testing.T) {
	called := false
	MultiThread(5, 5, func(int) { called = true })
	MultiThread(5, 3, func(int) { called = true })

	if called {
		t.Error("f was called for an empty range")
	}
}
