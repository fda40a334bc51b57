package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingGenerator struct {
	calls atomic.Int32
	weeks atomic.Int32
	err   error
}

func (g *countingGenerator) GenerateUpcoming(ctx context.Context, weeksAhead int) (int, error) {
	g.calls.Add(1)
	g.weeks.Store(int32(weeksAhead))
	return 1, g.err
}

func TestSchedulerRunsImmediatelyAndOnTick(t *testing.T) {
	gen := &countingGenerator{}
	s := NewScheduler(gen, 4, 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	require.Eventually(t, func() bool { return gen.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(4), gen.weeks.Load())

	// после Stop новых запусков нет
	calls := gen.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, gen.calls.Load())
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	gen := &countingGenerator{err: errors.New("db down")}
	s := NewScheduler(gen, 2, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestNewSchedulerDefaultInterval(t *testing.T) {
	s := NewScheduler(&countingGenerator{}, 4, 0, zap.NewNop())
	assert.Equal(t, 24*time.Hour, s.interval)
}
