package application

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerFiresOnInterval(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int64
	scheduler := NewScheduler(10 * time.Millisecond)

	scheduler.Start(func(context.Context) {
		ticks.Add(1)
	})
	defer scheduler.Stop()

	require.Eventually(t, func() bool {
		return ticks.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestSchedulerStopPreventsFurtherTicks(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int64
	scheduler := NewScheduler(10 * time.Millisecond)

	scheduler.Start(func(context.Context) {
		ticks.Add(1)
	})

	require.Eventually(t, func() bool {
		return ticks.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	scheduler.Stop()
	assert.False(t, scheduler.IsRunning())

	settled := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, ticks.Load(), settled+1)
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	t.Parallel()

	scheduler := NewScheduler(time.Minute)

	scheduler.Stop()
	scheduler.Stop()
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerRestartReplacesRunningTimer(t *testing.T) {
	t.Parallel()

	var first, second atomic.Int64
	scheduler := NewScheduler(10 * time.Millisecond)

	scheduler.Start(func(context.Context) { first.Add(1) })
	scheduler.Start(func(context.Context) { second.Add(1) })
	defer scheduler.Stop()

	require.Eventually(t, func() bool {
		return second.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	settled := first.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, first.Load(), settled+1)
	assert.True(t, scheduler.IsRunning())
}

func TestSchedulerDefaultsInterval(t *testing.T) {
	t.Parallel()

	scheduler := NewScheduler(0)
	assert.Equal(t, DefaultRefreshInterval, scheduler.interval)

	scheduler = NewScheduler(-time.Second)
	assert.Equal(t, DefaultRefreshInterval, scheduler.interval)
}
