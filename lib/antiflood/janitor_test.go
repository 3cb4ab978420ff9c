package antiflood

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJanitor_Sweeps(t *testing.T) {
	s := NewStore()
	s.Append(rec("g1", "u1", "old", -time.Hour))
	s.Append(rec("g1", "u2", "fresh", time.Hour))

	j := NewJanitor(s, func() time.Duration { return time.Minute }, 10*time.Millisecond)
	j.now = func() time.Time { return baseTime }
	j.Start(context.Background())
	defer j.Stop()

	assert.Eventually(t, func() bool { return s.Stats().Records == 1 }, time.Second, 5*time.Millisecond)
	assert.Nil(t, s.Lookup("g1", "u1"))
	assert.Len(t, s.Lookup("g1", "u2"), 1)
}

func TestJanitor_MaxAgeRequestedEachTick(t *testing.T) {
	s := NewStore()
	s.Append(rec("g1", "u1", "msg", -30*time.Second))

	var maxAge atomic.Int64
	maxAge.Store(int64(time.Minute))
	var calls atomic.Int32
	j := NewJanitor(s, func() time.Duration {
		calls.Add(1)
		return time.Duration(maxAge.Load())
	}, 10*time.Millisecond)
	j.now = func() time.Time { return baseTime }
	j.Start(context.Background())
	defer j.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, s.Stats().Records, "record inside horizon kept")

	maxAge.Store(int64(10 * time.Second))
	assert.Eventually(t, func() bool { return s.Stats().Records == 0 }, time.Second, 5*time.Millisecond)
}

func TestJanitor_PanicRecovered(t *testing.T) {
	s := NewStore()
	s.Append(rec("g1", "u1", "old", -time.Hour))

	var calls atomic.Int32
	j := NewJanitor(s, func() time.Duration {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		return time.Minute
	}, 10*time.Millisecond)
	j.now = func() time.Time { return baseTime }
	j.Start(context.Background())
	defer j.Stop()

	assert.Eventually(t, func() bool { return s.Stats().Records == 0 }, time.Second, 5*time.Millisecond,
		"loop continues after panic")
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestJanitor_SweepDirect(t *testing.T) {
	s := NewStore()
	s.Append(rec("g1", "u1", "old", -time.Hour))
	s.Append(rec("g1", "u1", "fresh", 0))
	j := NewJanitor(s, func() time.Duration { return time.Minute }, 0)
	j.now = func() time.Time { return baseTime }
	assert.Equal(t, 1, j.sweep())

	j = NewJanitor(s, func() time.Duration { panic("boom") }, 0)
	assert.Equal(t, 0, j.sweep(), "panic recovered")
	assert.Equal(t, 1, s.Stats().Records)
}

func TestJanitor_StartStop(t *testing.T) {
	s := NewStore()
	var calls atomic.Int32
	j := NewJanitor(s, func() time.Duration { calls.Add(1); return time.Minute }, 5*time.Millisecond)

	j.Stop() // not started, no-op

	j.Start(context.Background())
	j.Start(context.Background()) // second start ignored
	require.Eventually(t, func() bool { return calls.Load() > 0 }, time.Second, time.Millisecond)
	j.Stop()
	j.Stop()

	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load(), "no sweeps after stop")

	// restart after stop
	j.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() > stopped }, time.Second, time.Millisecond)
	j.Stop()
}

func TestJanitor_ContextCancel(t *testing.T) {
	var calls atomic.Int32
	j := NewJanitor(NewStore(), func() time.Duration { calls.Add(1); return time.Minute }, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	j.Start(ctx)
	require.Eventually(t, func() bool { return calls.Load() > 0 }, time.Second, time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		j.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop blocked after context cancel")
	}
}

func TestJanitor_DefaultInterval(t *testing.T) {
	j := NewJanitor(NewStore(), func() time.Duration { return time.Minute }, 0)
	assert.Equal(t, time.Minute, j.interval)
	j = NewJanitor(NewStore(), func() time.Duration { return time.Minute }, -time.Second)
	assert.Equal(t, time.Minute, j.interval)
	j = NewJanitor(NewStore(), func() time.Duration { return time.Minute }, time.Second)
	assert.Equal(t, time.Second, j.interval)
}
