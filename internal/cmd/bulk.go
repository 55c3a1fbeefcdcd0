package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/takeme/profilectl/internal/api"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 5

// BulkResult is the outcome of one operation in a bulk run.
type BulkResult[T any] struct {
	UserID api.UserID
	Value  T
	Err    error
}

// runBulkOperation runs operation once per id with bounded parallelism.
// Results come back in the order of ids. An id whose turn never came
// because ctx was cancelled carries ctx's error.
func runBulkOperation[T any](
	ctx context.Context,
	ids []api.UserID,
	concurrency int64,
	progress bool,
	errOut io.Writer,
	operation func(ctx context.Context, id api.UserID) (T, error),
) []BulkResult[T] {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if errOut == nil {
		errOut = io.Discard
	}

	results := make([]BulkResult[T], len(ids))
	sem := semaphore.NewWeighted(concurrency)
	total := len(ids)
	var done int64
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		results[i].UserID = id
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i].Err = err
				return nil
			}
			defer sem.Release(1)

			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Value, results[i].Err = operation(gctx, id)

			if progress {
				current := atomic.AddInt64(&done, 1)
				mu.Lock()
				_, _ = fmt.Fprintf(errOut, "\rChecked %d/%d", current, total)
				mu.Unlock()
			}
			// Individual failures never cancel the rest of the run.
			return nil
		})
	}
	_ = g.Wait()

	if progress && total > 0 {
		_, _ = fmt.Fprintln(errOut)
	}
	return results
}

// countResults returns success and failure counts from bulk results
func countResults[T any](results []BulkResult[T]) (success, failure int) {
	for _, r := range results {
		if r.Err == nil {
			success++
		} else {
			failure++
		}
	}
	return success, failure
}
