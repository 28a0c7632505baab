package appstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDispatchReturnsNewState(t *testing.T) {
	st := NewStore()

	next := st.Dispatch(AddToCart{Item: CartLine{ID: "p1", Price: 149}})
	require.Len(t, next.CartItems, 1)
	assert.Equal(t, next, st.Snapshot())
}

func TestStoreSubscribe(t *testing.T) {
	st := NewStore()

	var seen []State
	unsubscribe := st.Subscribe(func(s State) { seen = append(seen, s) })

	st.Dispatch(ToggleCart{})
	st.Dispatch(AddToCart{Item: CartLine{ID: "p1", Price: 149}})
	require.Len(t, seen, 2)
	assert.True(t, seen[0].CartOpen)
	assert.Len(t, seen[1].CartItems, 1)

	unsubscribe()
	st.Dispatch(ToggleCart{})
	assert.Len(t, seen, 2, "no notifications after unsubscribe")

	// Unsubscribing again is harmless.
	unsubscribe()
}

func TestStoreConcurrentDispatch(t *testing.T) {
	st := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Dispatch(UpdateQuantity{ID: "p1", Delta: 1})
		}()
	}
	st.Dispatch(AddToCart{Item: CartLine{ID: "p1", Price: 149}})
	wg.Wait()

	s := st.Snapshot()
	require.Len(t, s.CartItems, 1, "concurrent dispatches never duplicate a line")
}

func TestManagerIsolatesSessions(t *testing.T) {
	m := NewManager()

	a := m.Get("session-a")
	b := m.Get("session-b")
	require.NotSame(t, a, b)

	a.Dispatch(AddToCart{Item: CartLine{ID: "p1", Price: 149}})
	assert.Len(t, a.Snapshot().CartItems, 1)
	assert.Empty(t, b.Snapshot().CartItems)

	assert.Same(t, a, m.Get("session-a"), "same id returns the same store")

	m.Drop("session-a")
	fresh := m.Get("session-a")
	assert.Empty(t, fresh.Snapshot().CartItems, "dropped session starts over")
}
