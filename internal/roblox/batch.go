package roblox

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"server/internal/infra"
)

// Task is one fetch-and-transform unit for RunBatched. Run typically wraps a
// client call plus the mapping of its response into a domain value.
type Task[T any] struct {
	Label string
	Run   func(ctx context.Context) (T, error)
}

// BatchOptions bounds the parallelism of a batch run.
type BatchOptions struct {
	Concurrency int
	Delay       time.Duration
	Logger      infra.Logger
}

// RunBatched executes tasks in consecutive chunks of Concurrency, running
// each chunk in parallel and sleeping Delay between chunks to stay under
// upstream rate limits. A failing task is logged and dropped; it never aborts
// the batch. Successful results keep the relative order of their tasks.
func RunBatched[T any](ctx context.Context, tasks []Task[T], opts BatchOptions) []T {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 2
	}

	results := make([]T, 0, len(tasks))
	for start := 0; start < len(tasks); start += concurrency {
		end := start + concurrency
		if end > len(tasks) {
			end = len(tasks)
		}
		chunk := tasks[start:end]

		values := make([]T, len(chunk))
		ok := make([]bool, len(chunk))

		var g errgroup.Group
		for i, task := range chunk {
			i, task := i, task
			g.Go(func() error {
				v, err := task.Run(ctx)
				if err != nil {
					opts.Logger.Warn().Str("task", task.Label).Err(err).Msg("batch task failed, dropping")
					return nil
				}
				values[i] = v
				ok[i] = true
				return nil
			})
		}
		_ = g.Wait()

		for i := range chunk {
			if ok[i] {
				results = append(results, values[i])
			}
		}

		if end < len(tasks) && opts.Delay > 0 {
			if err := sleepCtx(ctx, opts.Delay); err != nil {
				return results
			}
		}
	}
	return results
}
