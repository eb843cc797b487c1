package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier(attempts int) *Retrier {
	return New(
		WithMaxAttempts(attempts),
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(5*time.Millisecond),
		WithJitter(0),
	)
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := fastRetrier(3).Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesRetryableErrors(t *testing.T) {
	calls := 0
	err := fastRetrier(3).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	cause := errors.New("still down")
	calls := 0
	err := fastRetrier(3).Do(context.Background(), func(context.Context) error {
		calls++
		return Retryable(cause)
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	// The final error is unwrapped to the cause.
	assert.Equal(t, cause, err)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	cause := errors.New("no such table")
	calls := 0
	err := fastRetrier(5).Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(cause)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, cause, err)
}

func TestDo_PlainErrorNotRetried(t *testing.T) {
	calls := 0
	err := fastRetrier(5).Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("plain")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetryIfOverridesMarkers(t *testing.T) {
	sentinel := errors.New("conflict")
	calls := 0

	retrier := New(
		WithMaxAttempts(4),
		WithInitialDelay(time.Millisecond),
		WithJitter(0),
		WithRetryIf(func(err error) bool { return errors.Is(err, sentinel) }),
	)

	err := retrier.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 2 {
			return sentinel
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := fastRetrier(3).Do(ctx, func(context.Context) error {
		calls++
		return Retryable(errors.New("transient"))
	})

	require.Error(t, err)
	assert.Equal(t, 0, calls)
}

func TestDo_OnRetryCallback(t *testing.T) {
	var attempts []int
	retrier := New(
		WithMaxAttempts(3),
		WithInitialDelay(time.Millisecond),
		WithJitter(0),
		WithOnRetry(func(attempt int, _ error, _ time.Duration) {
			attempts = append(attempts, attempt)
		}),
	)

	_ = retrier.Do(context.Background(), func(context.Context) error {
		return Retryable(errors.New("transient"))
	})

	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDoWithData(t *testing.T) {
	calls := 0
	result, err := DoWithData(context.Background(), func(context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, Retryable(errors.New("transient"))
		}
		return 42, nil
	}, WithMaxAttempts(3), WithInitialDelay(time.Millisecond), WithJitter(0))

	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestMarkers(t *testing.T) {
	cause := errors.New("boom")

	assert.True(t, IsRetryable(Retryable(cause)))
	assert.False(t, IsRetryable(cause))
	assert.True(t, IsPermanent(Permanent(cause)))
	assert.False(t, IsPermanent(Retryable(cause)))

	assert.Nil(t, Retryable(nil))
	assert.Nil(t, Permanent(nil))

	// Markers wrap: errors.Is still reaches the cause.
	assert.True(t, errors.Is(Retryable(cause), cause))
}

func TestPresets(t *testing.T) {
	assert.NotNil(t, DatabaseRetrier())
	assert.NotNil(t, CacheRetrier())

	// ConflictRetrier retries on its predicate.
	sentinel := errors.New("version conflict")
	calls := 0
	err := ConflictRetrier(func(err error) bool { return errors.Is(err, sentinel) }).
		Do(context.Background(), func(context.Context) error {
			calls++
			if calls < 3 {
				return sentinel
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}
