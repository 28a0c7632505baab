package appstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock, so the toast lifecycle can be
// driven step by step instead of sleeping.
type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return !t.fired
}

// advance moves the clock forward, firing due timers. Callbacks may schedule
// new timers; those fire too if they fall within the advanced window.
func (c *fakeClock) advance(d time.Duration) {
	target := c.now + d
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		next.fn()
	}
	c.now = target
}

func TestNotifierShowAndExpire(t *testing.T) {
	st := NewStore()
	clock := &fakeClock{}
	n := NewNotifierWithClock(st, clock)

	id := n.Show("Producto agregado al carrito", ToastSuccess, 0)
	require.NotEmpty(t, id)

	s := st.Snapshot()
	require.Len(t, s.Toasts, 1)
	assert.Equal(t, "Producto agregado al carrito", s.Toasts[0].Message)
	assert.Equal(t, ToastSuccess, s.Toasts[0].Type)
	assert.Equal(t, DefaultToastDuration, s.Toasts[0].Duration)
	assert.False(t, s.Toasts[0].Exiting)

	// At expiry the toast is marked exiting but still present.
	clock.advance(DefaultToastDuration)
	s = st.Snapshot()
	require.Len(t, s.Toasts, 1)
	assert.True(t, s.Toasts[0].Exiting)

	// After the exit grace period it is removed.
	clock.advance(exitGrace)
	assert.Empty(t, st.Snapshot().Toasts)
}

func TestNotifierManualDismiss(t *testing.T) {
	st := NewStore()
	clock := &fakeClock{}
	n := NewNotifierWithClock(st, clock)

	id := n.Show("hola", ToastInfo, time.Second)
	n.Dismiss(id)

	s := st.Snapshot()
	require.Len(t, s.Toasts, 1)
	assert.True(t, s.Toasts[0].Exiting, "dismiss marks the toast exiting first")
	assert.True(t, clock.timers[0].stopped, "manual dismiss stops the auto timer")

	clock.advance(exitGrace)
	assert.Empty(t, st.Snapshot().Toasts)
}

func TestNotifierDoubleDismiss(t *testing.T) {
	st := NewStore()
	clock := &fakeClock{}
	n := NewNotifierWithClock(st, clock)

	first := n.Show("uno", ToastInfo, time.Second)
	second := n.Show("dos", ToastInfo, time.Second)

	n.Dismiss(first)
	n.Dismiss(first)
	clock.advance(exitGrace)

	s := st.Snapshot()
	require.Len(t, s.Toasts, 1, "dismissing twice removes the toast exactly once")
	assert.Equal(t, second, s.Toasts[0].ID)
	assert.False(t, s.Toasts[0].Exiting)
}

func TestNotifierEachToastOwnsItsTimer(t *testing.T) {
	st := NewStore()
	clock := &fakeClock{}
	n := NewNotifierWithClock(st, clock)

	n.Show("uno", ToastInfo, time.Second)
	b := n.Show("dos", ToastInfo, 5*time.Second)

	// The first toast runs its full lifecycle; the second is untouched.
	clock.advance(time.Second + exitGrace)

	s := st.Snapshot()
	require.Len(t, s.Toasts, 1)
	assert.Equal(t, b, s.Toasts[0].ID)
	assert.False(t, s.Toasts[0].Exiting)
}

func TestNotifierClose(t *testing.T) {
	st := NewStore()
	clock := &fakeClock{}
	n := NewNotifierWithClock(st, clock)

	n.Show("uno", ToastInfo, time.Second)
	n.Show("dos", ToastInfo, time.Second)
	n.Close()

	clock.advance(time.Minute)
	s := st.Snapshot()
	assert.Len(t, s.Toasts, 2, "closed notifier fires no expirations")
	for _, timer := range clock.timers {
		assert.True(t, timer.stopped)
	}
}
