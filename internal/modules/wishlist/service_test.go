package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	entries map[string]bool // "user/product"
}

func newFakeRepo() *fakeRepo { return &fakeRepo{entries: map[string]bool{}} }

func key(userID, productID string) string { return userID + "/" + productID }

func (f *fakeRepo) Add(_ context.Context, userID, productID string) (*Entry, error) {
	f.entries[key(userID, productID)] = true
	return &Entry{ID: uuid.New(), ProductID: productID}, nil
}

func (f *fakeRepo) Remove(_ context.Context, userID, productID string) error {
	delete(f.entries, key(userID, productID))
	return nil
}

func (f *fakeRepo) Contains(_ context.Context, userID, productID string) (bool, error) {
	return f.entries[key(userID, productID)], nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID string) ([]*Entry, error) {
	var out []*Entry
	for k := range f.entries {
		if len(k) > len(userID) && k[:len(userID)] == userID {
			out = append(out, &Entry{ProductID: k[len(userID)+1:]})
		}
	}
	return out, nil
}

func TestToggle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	added, err := svc.Toggle(ctx, "u1", "polo-chimu")
	require.NoError(t, err)
	assert.True(t, added)

	present, err := svc.Contains(ctx, "u1", "polo-chimu")
	require.NoError(t, err)
	assert.True(t, present)

	// Toggling again removes the product: toggle twice is the identity.
	added, err = svc.Toggle(ctx, "u1", "polo-chimu")
	require.NoError(t, err)
	assert.False(t, added)

	present, err = svc.Contains(ctx, "u1", "polo-chimu")
	require.NoError(t, err)
	assert.False(t, present)
}

func TestToggleRequiresProduct(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.Toggle(context.Background(), "u1", "")
	assert.Error(t, err)
}

func TestToggleIsPerUser(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "u1", "polo-chimu")
	require.NoError(t, err)

	present, err := svc.Contains(ctx, "u2", "polo-chimu")
	require.NoError(t, err)
	assert.False(t, present, "one user's wishlist never leaks into another's")

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
