package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/bonafide-backend/internal/config"
	"github.com/stemsi/bonafide-backend/internal/model"
)

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	user := model.User{ID: "u-1", FullName: "Dr. Evelyn Reed", Email: "admin@greenwood.edu", Role: model.RoleAdmin}

	require.NoError(t, store.Save(ctx, Slot{TokenID: "jti-1", User: user}, time.Hour))

	slot, err := store.Load(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "jti-1", slot.TokenID)
	assert.Equal(t, user.Email, slot.User.Email)

	require.NoError(t, store.Delete(ctx, "u-1"))
	_, err = store.Load(ctx, "u-1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStore_SaveReplacesSlot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	user := model.User{ID: "u-1"}

	require.NoError(t, store.Save(ctx, Slot{TokenID: "old", User: user}, time.Hour))
	require.NoError(t, store.Save(ctx, Slot{TokenID: "new", User: user}, time.Hour))

	slot, err := store.Load(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "new", slot.TokenID)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, Slot{TokenID: "jti", User: model.User{ID: "u-1"}}, time.Minute))

	now = now.Add(59 * time.Second)
	_, err := store.Load(ctx, "u-1")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Load(ctx, "u-1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStore_SaveSweepsAbandonedSlots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, Slot{TokenID: "a", User: model.User{ID: "u-1"}}, time.Minute))
	require.NoError(t, store.Save(ctx, Slot{TokenID: "b", User: model.User{ID: "u-2"}}, time.Hour))

	// u-1 never comes back; the next save after the sweep interval drops it.
	now = now.Add(2 * sweepInterval)
	require.NoError(t, store.Save(ctx, Slot{TokenID: "c", User: model.User{ID: "u-3"}}, time.Hour))

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.slots, 2)
	assert.NotContains(t, store.slots, config.CacheKey.SessionKey("u-1"))
}
