package appstate

import "sync"

// Store is a single-writer state container around Reduce. Components read
// snapshots and dispatch actions; only Dispatch mutates the held state, so
// no observer ever sees a half-applied transition.
type Store struct {
	mu        sync.Mutex
	state     State
	nextSub   int
	listeners map[int]func(State)
}

// NewStore creates a store holding the initial session state.
func NewStore() *Store {
	return &Store{state: NewState(), listeners: map[int]func(State){}}
}

// Dispatch applies an action atomically and returns the resulting state.
// Listeners are notified outside the lock with the snapshot they observed.
func (st *Store) Dispatch(a Action) State {
	st.mu.Lock()
	st.state = Reduce(st.state, a)
	next := st.state
	subs := make([]func(State), 0, len(st.listeners))
	for _, fn := range st.listeners {
		subs = append(subs, fn)
	}
	st.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers a listener invoked after every dispatch. The returned
// function unsubscribes; calling it more than once is harmless.
func (st *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	st.mu.Lock()
	id := st.nextSub
	st.nextSub++
	st.listeners[id] = fn
	st.mu.Unlock()

	return func() {
		st.mu.Lock()
		delete(st.listeners, id)
		st.mu.Unlock()
	}
}

// Snapshot returns the current state.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Manager hands out one isolated Store per session, so each shopper's cart
// and UI state lives independently of every other session.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
}

// NewManager creates an empty session-store registry.
func NewManager() *Manager {
	return &Manager{stores: map[string]*Store{}}
}

// Get returns the store for a session ID, creating it on first use.
func (m *Manager) Get(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stores[sessionID]
	if !ok {
		st = NewStore()
		m.stores[sessionID] = st
	}
	return st
}

// Drop discards a session's store. Dropping an unknown session is a no-op.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}
