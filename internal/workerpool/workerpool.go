// Package workerpool wraps golang.org/x/sync/errgroup with a bounded
// semaphore, giving every parallel stage of the engine (today: the scorer)
// a uniform "run these closures across N goroutines, stop at the first
// error, respect cancellation" primitive — spec.md §5's "worker-pool
// abstraction... do not shell out to OS processes".
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool runs a bounded number of goroutines concurrently.
type Pool struct {
	size int
}

// New returns a Pool capped at size concurrent goroutines. size <= 0 means
// unbounded (one goroutine per submitted task).
func New(size int) *Pool {
	return &Pool{size: size}
}

// Run executes n independently-indexed tasks, stopping at the first error
// and propagating ctx cancellation. The first non-nil error from any task
// is returned; other in-flight tasks are allowed to finish (errgroup's
// default behaviour) but their errors are discarded.
func (p *Pool) Run(ctx context.Context, n int, task func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if p.size > 0 {
		g.SetLimit(p.size)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return task(gctx, i)
		})
	}
	return g.Wait()
}
