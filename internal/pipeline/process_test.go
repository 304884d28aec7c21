package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(ctx context.Context, n int) error {
	switch {
	case n%3 == 0:
		return ErrSkipped
	case n == 4:
		return errBoom
	default:
		return nil
	}
}

func TestProcess_ContinueOnError(t *testing.T) {
	var seen []int
	sum, err := Process(context.Background(), "test", []int{1, 2, 3, 4, 5, 6}, ContinueOnError,
		func(ctx context.Context, n int) error {
			seen = append(seen, n)
			return classify(ctx, n)
		})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, seen)
	assert.Equal(t, Summary{Attempted: 4, Succeeded: 3, Failed: 1, Skipped: 2}, sum)
}

func TestProcess_FailFast(t *testing.T) {
	var seen []int
	sum, err := Process(context.Background(), "test", []int{1, 2, 3, 4, 5, 6}, FailFast,
		func(ctx context.Context, n int) error {
			seen = append(seen, n)
			return classify(ctx, n)
		})

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "test", stageErr.Stage)
	assert.Equal(t, 3, stageErr.Index)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []int{1, 2, 3, 4}, seen, "nothing after the failure is attempted")
	assert.Equal(t, Summary{Attempted: 3, Succeeded: 2, Failed: 1, Skipped: 1}, sum)
}

func TestProcess_Empty(t *testing.T) {
	sum, err := Process(context.Background(), "test", []string(nil), FailFast,
		func(context.Context, string) error { return errBoom })
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Process(ctx, "test", []int{1, 2, 3}, ContinueOnError, func(context.Context, int) error {
		calls++
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestProcess_WrappedSkip(t *testing.T) {
	sum, err := Process(context.Background(), "test", []int{1}, FailFast, func(context.Context, int) error {
		return errors.Join(ErrSkipped)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Skipped)
}

func TestFailurePolicy_String(t *testing.T) {
	assert.Equal(t, "fail-fast", FailFast.String())
	assert.Equal(t, "continue-on-error", ContinueOnError.String())
	assert.Equal(t, "FailurePolicy(7)", FailurePolicy(7).String())
}
