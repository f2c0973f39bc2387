package clock

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

// TestFake_SleepAdvances verifies that sleeping moves virtual time and is accounted for.
func TestFake_SleepAdvances(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	require.NoError(t, f.Sleep(context.Background(), 200*time.Millisecond))
	f.Advance(time.Second)

	require.Equal(t, start.Add(1200*time.Millisecond), f.Now())
	require.Equal(t, 200*time.Millisecond, f.Slept())
}

// TestFake_SleepCanceled ensures a done context is reported and time stays put.
func TestFake_SleepCanceled(t *testing.T) {
	t.Parallel()

	f := NewFake(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, f.Sleep(ctx, time.Second), context.Canceled)
	require.Equal(t, time.Unix(0, 0), f.Now())
}

// TestSystem_Sleep checks wall-clock sleeping inside a synctest bubble.
func TestSystem_Sleep(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var c System

		before := c.Now()
		require.NoError(t, c.Sleep(context.Background(), 2*time.Second))
		require.Equal(t, 2*time.Second, c.Now().Sub(before))

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		require.ErrorIs(t, c.Sleep(ctx, time.Minute), context.DeadlineExceeded)
	})
}
