package catalog

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	// minWorkers is the minimum number of concurrent tasks.
	minWorkers = 2
	// maxWorkersCap caps the default concurrency.
	maxWorkersCap = 8
)

// DefaultWorkers returns the default concurrency based on available CPUs.
func DefaultWorkers() int64 {
	numCPU := int64(runtime.NumCPU())

	return min(max(numCPU, minWorkers), maxWorkersCap)
}

// task is a unit of work run by runParallel.
type task func(ctx context.Context) error

// runParallel runs tasks with at most limit in flight. It returns the first
// error encountered; tasks not yet started observe the canceled context.
func runParallel(ctx context.Context, limit int64, tasks []task) error {
	if len(tasks) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultWorkers()
	}

	sem := semaphore.NewWeighted(limit)
	group, groupCtx := errgroup.WithContext(ctx)

	for _, t := range tasks {
		group.Go(func() error {
			if err := sem.Acquire(groupCtx, 1); err != nil {
				return fmt.Errorf("acquire semaphore: %w", err)
			}
			defer sem.Release(1)

			return t(groupCtx)
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("parallel execution: %w", err)
	}
	return nil
}
