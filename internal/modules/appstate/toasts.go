package appstate

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultToastDuration is how long a toast stays visible when the caller
// does not specify a duration.
const DefaultToastDuration = 3 * time.Second

// exitGrace is the delay between marking a toast as exiting and removing it,
// matching the exit animation length.
const exitGrace = 300 * time.Millisecond

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. The real implementation wraps time.AfterFunc;
// tests substitute a manual clock to drive toast expiry deterministically.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Notifier manages the toast queue on top of a Store. Every toast owns its
// own auto-dismiss timer; manual dismissal cancels the timer and runs the
// same two-phase exit path, guarded so a toast is never removed twice.
type Notifier struct {
	store *Store
	clock Clock

	mu      sync.Mutex
	timers  map[string]Timer
	closing map[string]bool
}

// NewNotifier creates a notifier dispatching into the given store.
func NewNotifier(store *Store) *Notifier {
	return NewNotifierWithClock(store, realClock{})
}

// NewNotifierWithClock creates a notifier with an injected clock.
func NewNotifierWithClock(store *Store, clock Clock) *Notifier {
	return &Notifier{
		store:   store,
		clock:   clock,
		timers:  map[string]Timer{},
		closing: map[string]bool{},
	}
}

// Show enqueues a toast and schedules its auto-dismiss. It returns the
// toast ID so callers can dismiss early.
func (n *Notifier) Show(message string, typ ToastType, duration time.Duration) string {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	t := Toast{
		ID:       uuid.NewString(),
		Message:  message,
		Type:     typ,
		Duration: duration,
	}
	n.store.Dispatch(PushToast{Toast: t})

	n.mu.Lock()
	n.timers[t.ID] = n.clock.AfterFunc(duration, func() { n.Dismiss(t.ID) })
	n.mu.Unlock()
	return t.ID
}

// Dismiss starts the two-phase removal of a toast: mark it exiting, then
// remove it after the exit grace period. Both the auto timer and a manual
// close land here; the closing marker makes the second call a no-op.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	if n.closing[id] {
		n.mu.Unlock()
		return
	}
	n.closing[id] = true
	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}
	n.mu.Unlock()

	n.store.Dispatch(MarkToastExiting{ID: id})
	n.clock.AfterFunc(exitGrace, func() {
		n.store.Dispatch(RemoveToast{ID: id})
		n.mu.Lock()
		delete(n.closing, id)
		n.mu.Unlock()
	})
}

// Close cancels every pending timer. Queued toasts are left in the state;
// the session is going away with them.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, t := range n.timers {
		t.Stop()
		delete(n.timers, id)
	}
}
