package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func TestIntervalLimiter_FirstCallImmediate(t *testing.T) {
	clock := newFakeClock()
	lim := NewIntervalLimiter(time.Second).WithClock(clock.Now, clock.Sleep)

	require.NoError(t, lim.Wait(context.Background()))
	assert.Empty(t, clock.sleeps)
}

func TestIntervalLimiter_BackToBackCalls(t *testing.T) {
	clock := newFakeClock()
	lim := NewIntervalLimiter(time.Second).WithClock(clock.Now, clock.Sleep)

	for i := 0; i < 3; i++ {
		require.NoError(t, lim.Wait(context.Background()))
	}

	assert.Equal(t, []time.Duration{time.Second, time.Second}, clock.sleeps)
}

func TestIntervalLimiter_PartialElapsed(t *testing.T) {
	clock := newFakeClock()
	lim := NewIntervalLimiter(time.Second).WithClock(clock.Now, clock.Sleep)

	require.NoError(t, lim.Wait(context.Background()))
	clock.now = clock.now.Add(400 * time.Millisecond)
	require.NoError(t, lim.Wait(context.Background()))

	require.Len(t, clock.sleeps, 1)
	assert.InDelta(t, float64(600*time.Millisecond), float64(clock.sleeps[0]), float64(time.Millisecond))
}

func TestIntervalLimiter_IdleLongerThanInterval(t *testing.T) {
	clock := newFakeClock()
	lim := NewIntervalLimiter(time.Second).WithClock(clock.Now, clock.Sleep)

	require.NoError(t, lim.Wait(context.Background()))
	clock.now = clock.now.Add(5 * time.Second)
	require.NoError(t, lim.Wait(context.Background()))

	assert.Empty(t, clock.sleeps)
}

func TestIntervalLimiter_Disabled(t *testing.T) {
	clock := newFakeClock()
	lim := NewIntervalLimiter(0).WithClock(clock.Now, clock.Sleep)

	for i := 0; i < 5; i++ {
		require.NoError(t, lim.Wait(context.Background()))
	}
	assert.Empty(t, clock.sleeps)
}

func TestIntervalLimiter_CancelledContext(t *testing.T) {
	lim := NewIntervalLimiter(time.Hour)
	require.NoError(t, lim.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := lim.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
