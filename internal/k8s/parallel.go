package k8s

import (
	"context"
	"fmt"
)

// task is a named probe step.
type task struct {
	name string
	fn   func(context.Context) error
}

// runParallel starts all tasks and waits for them. The first failure is
// returned after every task has finished.
func runParallel(ctx context.Context, tasks []task) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}

	results := make(chan result, len(tasks))
	for _, t := range tasks {
		go func() {
			results <- result{name: t.name, err: t.fn(ctx)}
		}()
	}

	var firstError error
	for range len(tasks) {
		res := <-results
		if res.err != nil && firstError == nil {
			firstError = fmt.Errorf("failed to check %s: %w", res.name, res.err)
		}
	}
	return firstError
}
