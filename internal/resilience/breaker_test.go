package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("down")

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(target string, minCalls int) (*Breaker, *clock) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	b := NewBreaker(target, minCalls, 0.5, time.Minute)
	b.now = c.now
	return b, c
}

func fail(context.Context) error { return errDown }

func succeed(context.Context) error { return nil }

func TestBreakerOpensAndRecovers(t *testing.T) {
	b, c := newTestBreaker("test_recover", 2)
	ctx := context.Background()

	require.ErrorIs(t, b.Do(ctx, fail, nil), errDown)
	require.ErrorIs(t, b.Do(ctx, fail, nil), errDown)
	require.Equal(t, Open, b.State())

	called := false
	err := b.Do(ctx, func(context.Context) error { called = true; return nil }, nil)
	require.ErrorIs(t, err, ErrOpenCircuit)
	require.False(t, called)

	c.advance(2 * time.Minute)
	require.NoError(t, b.Do(ctx, succeed, nil))
	require.Equal(t, Closed, b.State())

	require.Equal(t, 1.0, testutil.ToFloat64(breakerOpened.WithLabelValues("test_recover")))
	require.Equal(t, 1.0, testutil.ToFloat64(breakerTransitions.WithLabelValues("test_recover", "open", "half_open")))
	require.Equal(t, 0.0, testutil.ToFloat64(breakerState.WithLabelValues("test_recover")))
}

func TestBreakerFailedTrialReopens(t *testing.T) {
	b, c := newTestBreaker("test_trial", 1)
	ctx := context.Background()

	require.Error(t, b.Do(ctx, fail, nil))
	require.Equal(t, Open, b.State())

	c.advance(time.Minute)
	require.ErrorIs(t, b.Do(ctx, fail, nil), errDown)
	require.Equal(t, Open, b.State())
	require.Equal(t, 1.0, testutil.ToFloat64(breakerState.WithLabelValues("test_trial")))
}

func TestBreakerIgnoredErrorsCountAsSuccess(t *testing.T) {
	b, _ := newTestBreaker("test_ignore", 2)
	ctx := context.Background()
	ignore := func(err error) bool { return errors.Is(err, errDown) }

	for i := 0; i < 5; i++ {
		require.ErrorIs(t, b.Do(ctx, fail, ignore), errDown)
	}
	require.Equal(t, Closed, b.State())
}

func TestNilBreakerPassesThrough(t *testing.T) {
	var b *Breaker
	require.ErrorIs(t, b.Do(context.Background(), fail, nil), errDown)
}
