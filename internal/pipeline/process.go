package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// FailurePolicy decides what a stage does after a per-record failure.
type FailurePolicy int

const (
	// FailFast aborts the stage at the first failure.
	FailFast FailurePolicy = iota
	// ContinueOnError counts the failure and moves to the next record.
	ContinueOnError
)

func (p FailurePolicy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case ContinueOnError:
		return "continue-on-error"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// ErrSkipped is returned by a process function for records that need no work.
var ErrSkipped = errors.New("skipped")

// Summary counts the outcomes of one stage run.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int
}

func (s Summary) String() string {
	return fmt.Sprintf("attempted=%d succeeded=%d failed=%d skipped=%d",
		s.Attempted, s.Succeeded, s.Failed, s.Skipped)
}

// Process runs fn over items one at a time in order. fn returns nil on success,
// ErrSkipped to skip the item, or any other error for a failure. Under FailFast
// the first failure stops the walk and is returned wrapped in a *StageError.
// A cancelled context stops the walk before the next item.
func Process[T any](ctx context.Context, stage string, items []T, policy FailurePolicy, fn func(ctx context.Context, item T) error) (Summary, error) {
	var sum Summary
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return sum, &StageError{Stage: stage, Index: i, Cause: err}
		}

		err := fn(ctx, item)
		switch {
		case err == nil:
			sum.Attempted++
			sum.Succeeded++
		case errors.Is(err, ErrSkipped):
			sum.Skipped++
		default:
			sum.Attempted++
			sum.Failed++
			if policy == FailFast {
				return sum, &StageError{Stage: stage, Index: i, Cause: err}
			}
		}
	}
	return sum, nil
}
