package workers

import (
	"context"
	"sync"
)

// defaultPoolConcurrency bounds parallel tasks when no explicit limit is
// configured.
const defaultPoolConcurrency = 4

// Task is one unit of work executed by a Pool.
type Task func(ctx context.Context) error

// Pool runs batches of tasks with bounded concurrency. The sync service uses
// it to parallelise file downloads without flooding the server.
type Pool struct {
	concurrency int
}

// NewPool creates a Pool running at most concurrency tasks at once.
// concurrency <= 0 selects the default.
func NewPool(concurrency int) *Pool {
	if concurrency <= 0 {
		concurrency = defaultPoolConcurrency
	}
	return &Pool{concurrency: concurrency}
}

// RunAll executes every task and blocks until all have finished. Tasks
// started after ctx is cancelled return ctx.Err() without running. The first
// task error (or ctx error) is returned; remaining tasks still run to
// completion so partial results are not left half-written.
func (p *Pool) RunAll(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	var (
		wg        sync.WaitGroup
		once      sync.Once
		firstErr  error
		semaphore = make(chan struct{}, p.concurrency)
	)

	for _, task := range tasks {
		wg.Add(1)
		go func(task Task) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			err := ctx.Err()
			if err == nil {
				err = task(ctx)
			}
			if err != nil {
				once.Do(func() { firstErr = err })
			}
		}(task)
	}

	wg.Wait()
	return firstErr
}
