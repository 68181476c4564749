// Package workerpool bounds CPU-bound fan-out across the available cores
// while preserving the caller's original item order in the result slice,
// exactly as the teacher's fileproc helpers reassemble per-file analyzer
// results before anything downstream consumes them.
package workerpool

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// Map runs fn over items concurrently, bounded by runtime.NumCPU(), and
// returns results in the same order as items. If ctx is cancelled, Map
// stops launching new work and returns ctx.Err(); results for items that
// never ran are left as the zero value of T.
//
// fn is expected to check ctx itself for long-running work; Map only
// guards the per-item launch boundary, matching the spec's requirement
// that cancellation checks happen "at the start of every per-image
// iteration" rather than pre-empting in-flight compute.
func Map[T any](ctx context.Context, items []string, fn func(ctx context.Context, item string, index int) (T, error)) ([]T, error) {
	results := make([]T, len(items))
	if len(items) == 0 {
		return results, nil
	}

	maxWorkers := runtime.NumCPU()
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(maxWorkers).WithCancelOnError()
	for i, item := range items {
		i, item := i, item
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			result, err := fn(ctx, item, i)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
