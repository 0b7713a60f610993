package houdiniswap

import (
	"context"
	"sync"
)

// DefaultMaxWorkers bounds parallel dispatch when no limit is given.
const DefaultMaxWorkers = 5

// Operation is one unit of work dispatched by ExecuteParallel.
type Operation func(ctx context.Context) (any, error)

// Outcome is the result of one Operation. Exactly one of Value and Err is
// meaningful; a failed operation never disturbs the others.
type Outcome struct {
	Value any
	Err   error
}

// ExecuteParallel runs the operations with at most maxWorkers running
// concurrently and returns their outcomes in submission order. maxWorkers
// values <= 0 select DefaultMaxWorkers; the pool never exceeds the number
// of operations.
func ExecuteParallel(ctx context.Context, ops []Operation, maxWorkers int) []Outcome {
	results := make([]Outcome, len(ops))
	if len(ops) == 0 {
		return results
	}

	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	if maxWorkers > len(ops) {
		maxWorkers = len(ops)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(maxWorkers)
	for w := 0; w < maxWorkers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				op := ops[i]
				if op == nil {
					results[i] = Outcome{Err: newValidationError("operation at index %d is nil", i)}
					continue
				}
				value, err := op(ctx)
				results[i] = Outcome{Value: value, Err: err}
			}
		}()
	}

	for i := range ops {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
