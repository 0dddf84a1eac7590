package stageexec

import (
	"context"
	"fmt"
	"sync"
)

// Status tags an item's terminal state within a stage.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome is the terminal state of one item plus a human-oriented detail.
type Outcome struct {
	Status Status
	Detail string
	Err    error
}

// Succeed builds a succeeded outcome with a detail message.
func Succeed(detail string) Outcome {
	return Outcome{Status: StatusSucceeded, Detail: detail}
}

// Skip builds a skipped outcome with the skip reason.
func Skip(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Detail: reason}
}

// Fail builds a failed outcome from err.
func Fail(err error) Outcome {
	outcome := Outcome{Status: StatusFailed, Err: err}
	if err != nil {
		outcome.Detail = err.Error()
	}
	return outcome
}

// Result pairs an input item with its outcome.
type Result[T any] struct {
	Item    T
	Outcome Outcome
}

type options[T any] struct {
	onResult func(index int, result Result[T])
}

// Option customizes a Run call.
type Option[T any] func(*options[T])

// WithOnResult registers a hook invoked as each item resolves, carrying the
// item's input index. Invocations are serialized, so the hook may drive
// progress bars or counters without its own locking.
func WithOnResult[T any](fn func(index int, result Result[T])) Option[T] {
	return func(o *options[T]) {
		o.onResult = fn
	}
}

// Run executes fn for every item using at most workers concurrent
// goroutines and returns one result per item, in input order. workers
// below 1 is treated as 1. A panic inside fn is recovered into a failed
// outcome for that item only.
func Run[T any](ctx context.Context, items []T, workers int, fn func(context.Context, T) Outcome, opts ...Option[T]) []Result[T] {
	results := make([]Result[T], len(items))
	if len(items) == 0 {
		return results
	}
	if workers < 1 {
		workers = 1
	}

	var o options[T]
	for _, opt := range opts {
		opt(&o)
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var hookMu sync.Mutex

	for idx, item := range items {
		wg.Add(1)
		go func(i int, it T) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = Result[T]{Item: it, Outcome: guarded(ctx, it, fn)}

			if o.onResult != nil {
				hookMu.Lock()
				o.onResult(i, results[i])
				hookMu.Unlock()
			}
		}(idx, item)
	}

	wg.Wait()
	return results
}

func guarded[T any](ctx context.Context, item T, fn func(context.Context, T) Outcome) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Fail(fmt.Errorf("stage worker panicked: %v", r))
		}
	}()
	return fn(ctx, item)
}
