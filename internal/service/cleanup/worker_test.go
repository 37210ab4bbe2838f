package cleanup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSweeper struct {
	mu      sync.Mutex
	calls   int
	maxIdle time.Duration
}

func (f *fakeSweeper) CleanupIdle(maxIdle time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.maxIdle = maxIdle
	return 0
}

func (f *fakeSweeper) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePruner struct {
	days int
	err  error
}

func (f *fakePruner) DeleteOlderThan(_ context.Context, days int) (int64, error) {
	f.days = days
	return 4, f.err
}

func TestRunOnce(t *testing.T) {
	sweeper := &fakeSweeper{}
	pruner := &fakePruner{}
	w := NewWorker(sweeper, pruner, 15*time.Minute, 30, time.Hour, nil)

	w.RunOnce(context.Background())

	assert.Equal(t, 1, sweeper.count())
	assert.Equal(t, 15*time.Minute, sweeper.maxIdle)
	assert.Equal(t, 30, pruner.days)
}

func TestRunOnceWithoutResultsStore(t *testing.T) {
	sweeper := &fakeSweeper{}
	w := NewWorker(sweeper, nil, time.Minute, 30, time.Hour, nil)

	assert.NotPanics(t, func() { w.RunOnce(context.Background()) })
	assert.Equal(t, 1, sweeper.count())
}

func TestRunOncePrunerError(t *testing.T) {
	pruner := &fakePruner{err: errors.New("db gone")}
	w := NewWorker(&fakeSweeper{}, pruner, time.Minute, 7, time.Hour, nil)

	assert.NotPanics(t, func() { w.RunOnce(context.Background()) })
	assert.Equal(t, 7, pruner.days)
}

func TestRunStopsWithContext(t *testing.T) {
	sweeper := &fakeSweeper{}
	w := NewWorker(sweeper, nil, time.Minute, 0, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sweeper.count() >= 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestNonPositiveIntervalFallsBack(t *testing.T) {
	for _, interval := range []time.Duration{0, -5 * time.Minute} {
		w := NewWorker(&fakeSweeper{}, nil, time.Minute, 0, interval, nil)
		assert.Equal(t, DefaultInterval, w.Interval)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NotPanics(t, func() { w.Run(ctx) })
	}

	// a zero Interval set directly on the struct must not panic either
	w := &Worker{Sessions: &fakeSweeper{}, log: zap.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NotPanics(t, func() { w.Run(ctx) })
}

func TestNonPositiveMaxIdleKeepsSessions(t *testing.T) {
	sweeper := &fakeSweeper{}
	w := NewWorker(sweeper, nil, 0, 0, time.Hour, nil)

	w.RunOnce(context.Background())

	assert.Equal(t, 0, sweeper.count())
}
