package utils

import (
	"math"
	"runtime"
	"sync"

	goutils "go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// RangeParallel splits [0, n) into one contiguous chunk per worker and calls
// work for every index. Each index is visited exactly once; work must be safe
// to call concurrently for distinct indices.
func RangeParallel(n int, work func(i int)) {
	if n <= 0 {
		return
	}
	workers := ParallelFactor
	if workers > n {
		workers = n
	}
	chunk := int(math.Ceil(float64(n) / float64(workers)))

	var wait sync.WaitGroup
	for from := 0; from < n; from += chunk {
		to := from + chunk
		if to > n {
			to = n
		}
		fromCopy, toCopy := from, to
		wait.Add(1)
		goutils.PanicCapturingGo(func() {
			defer wait.Done()
			for i := fromCopy; i < toCopy; i++ {
				work(i)
			}
		})
	}
	wait.Wait()
}
