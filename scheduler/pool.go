package scheduler

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// jobCount resolves Options.Jobs to a concrete worker count: spec.md §4.5
// "Pool size is max(1, cpu_count - 1) by default, user-overridable."
func jobCount(requested int) int64 {
	if requested > 0 {
		return int64(requested)
	}
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return int64(n)
}

// runPool dispatches one task per item in units to a pool bounded to
// jobs workers, grounded in the errgroup+semaphore fan-out pattern this
// corpus uses for per-target parallel builds. task is called for every
// index; a non-nil returned error cancels the group's context, which the
// caller's task closures must observe to stop spawning new compiler
// processes (spec.md §5 "before dequeue, before process spawn").
//
// The first error a task returns stops runPool from dispatching further
// tasks, and Wait returns it. Each task decides whether its own failure
// should stop the group (by returning an error) or merely be recorded
// (by returning nil and stashing the failure elsewhere), since spec.md §7
// requires every unit's outcome to be reported, not just the first failure.
func runPool(ctx context.Context, jobs int64, n int, task func(ctx context.Context, i int) error) error {
	sem := semaphore.NewWeighted(jobs)
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < n; i++ {
		i := i
		if err := sem.Acquire(gctx, 1); err != nil {
			// Group already cancelled (a prior task errored, or the
			// caller's context was cancelled); stop dispatching more.
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			return task(gctx, i)
		})
	}
	return g.Wait()
}
