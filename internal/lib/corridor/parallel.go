package corridor

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelFor calls fn over [0, n) in contiguous chunks. Below threshold, or when
// threshold is negative, fn runs once on the calling goroutine. Each chunk owns a
// disjoint index range, so callers write results by index without locking.
func parallelFor(n, threshold int, fn func(lo, hi int)) {
	if n == 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if threshold < 0 || n < threshold || workers < 2 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
