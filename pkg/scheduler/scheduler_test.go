package scheduler_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rescache/pkg/scheduler"
)

func TestVirtual_Advance(t *testing.T) {
	t.Run("fires exactly at deadline", func(t *testing.T) {
		clock := scheduler.NewVirtual()
		fired := 0
		clock.Schedule(time.Second, func() { fired++ })

		clock.Advance(time.Second - time.Millisecond)
		assert.Equal(t, 0, fired)
		assert.Equal(t, 1, clock.Pending())

		clock.Advance(time.Millisecond)
		assert.Equal(t, 1, fired)
		assert.Equal(t, 0, clock.Pending())
		assert.Equal(t, time.Second, clock.Now())
	})

	t.Run("fires in deadline order", func(t *testing.T) {
		clock := scheduler.NewVirtual()
		var order []string
		clock.Schedule(3*time.Second, func() { order = append(order, "c") })
		clock.Schedule(time.Second, func() { order = append(order, "a") })
		clock.Schedule(2*time.Second, func() { order = append(order, "b") })

		clock.Advance(5 * time.Second)
		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("same deadline fires in scheduling order", func(t *testing.T) {
		clock := scheduler.NewVirtual()
		var order []int
		for i := range 3 {
			clock.Schedule(time.Second, func() { order = append(order, i) })
		}
		clock.Advance(time.Second)
		assert.Equal(t, []int{0, 1, 2}, order)
	})

	t.Run("callback scheduled during advance fires if due", func(t *testing.T) {
		clock := scheduler.NewVirtual()
		fired := 0
		clock.Schedule(time.Second, func() {
			clock.Schedule(time.Second, func() { fired++ })
		})

		clock.Advance(2 * time.Second)
		assert.Equal(t, 1, fired)
	})

	t.Run("negative durations are clamped", func(t *testing.T) {
		clock := scheduler.NewVirtual()
		fired := 0
		clock.Schedule(-time.Second, func() { fired++ })
		clock.Advance(-time.Second)
		assert.Equal(t, 1, fired)
		assert.Equal(t, time.Duration(0), clock.Now())
	})
}

func TestVirtual_Stop(t *testing.T) {
	clock := scheduler.NewVirtual()
	fired := 0
	h := clock.Schedule(time.Second, func() { fired++ })

	assert.True(t, h.Stop())
	assert.False(t, h.Stop(), "second stop reports nothing was stopped")

	clock.Advance(time.Hour)
	assert.Equal(t, 0, fired)
}

func TestReal_Schedule(t *testing.T) {
	s := scheduler.New()

	var fired atomic.Int32
	done := make(chan struct{})
	s.Schedule(5*time.Millisecond, func() {
		fired.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback did not fire")
	}
	assert.Equal(t, int32(1), fired.Load())

	h := s.Schedule(time.Hour, func() { fired.Add(1) })
	require.True(t, h.Stop())
	assert.Equal(t, int32(1), fired.Load())
}
