package engine

import (
	"context"
	"fmt"
	"time"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult passes evaluation results through channels.
type evalResult struct {
	script *Script
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, giving up after limit or when
// ctx ends. On timeout the evaluating goroutine may still be running; its
// result lands in the buffered channel and is dropped.
func waitWithTimeout(ctx context.Context, ch <-chan evalResult, limit time.Duration) (*Script, []EvalError, error) {
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.script, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", limit)
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("evaluation cancelled: %w", ctx.Err())
	}
}
