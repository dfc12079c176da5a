package store_test

import (
	"context"
	"testing"

	"room-rental-backend/internal/models"
	"room-rental-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSeededWithDemoRooms(t *testing.T) {
	s := store.NewMemoryRoomStore()
	defer s.Close()

	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap, 2)
	assert.Contains(t, snap, "101")
	assert.Contains(t, snap, "102")
}

func TestMemoryStorePutGetDelete(t *testing.T) {
	s := store.NewMemoryRoomStore()
	defer s.Close()
	ctx := context.Background()

	room := models.Room{Name: "Phòng 201", Status: models.StatusVacant}
	require.NoError(t, s.PutRoom(ctx, "201", room))

	got, ok, err := s.GetRoom(ctx, "201")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "201", got.ID)
	assert.Equal(t, "Phòng 201", got.Name)

	require.NoError(t, s.DeleteRoom(ctx, "201"))
	_, ok, err = s.GetRoom(ctx, "201")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is not an error.
	require.NoError(t, s.DeleteRoom(ctx, "201"))
}

func TestMemoryStoreSubscribePushesFullSnapshot(t *testing.T) {
	s := store.NewMemoryRoomStore()
	defer s.Close()
	ctx := context.Background()

	var snapshots []store.Snapshot
	unsub, err := s.Subscribe(ctx, func(snap store.Snapshot) {
		snapshots = append(snapshots, snap)
	})
	require.NoError(t, err)
	defer unsub()

	// The current snapshot is delivered on registration.
	require.Len(t, snapshots, 1)
	assert.Len(t, snapshots[0], 2)

	require.NoError(t, s.PutRoom(ctx, "201", models.Room{Name: "Phòng 201"}))
	require.Len(t, snapshots, 2)
	assert.Len(t, snapshots[1], 3)

	require.NoError(t, s.DeleteRoom(ctx, "201"))
	require.Len(t, snapshots, 3)
	assert.Len(t, snapshots[2], 2)
}

func TestMemoryStoreUnsubscribeStopsDelivery(t *testing.T) {
	s := store.NewMemoryRoomStore()
	defer s.Close()
	ctx := context.Background()

	calls := 0
	unsub, err := s.Subscribe(ctx, func(store.Snapshot) { calls++ })
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	unsub()
	unsub() // releasing twice is safe

	require.NoError(t, s.PutRoom(ctx, "201", models.Room{Name: "Phòng 201"}))
	assert.Equal(t, 1, calls)
}

func TestMemoryStoreNextRoomIDUnique(t *testing.T) {
	s := store.NewMemoryRoomStore()
	defer s.Close()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := s.NextRoomID(ctx)
		require.NoError(t, err)
		assert.False(t, seen[id], "id %s issued twice", id)
		seen[id] = true
	}
}

func TestMemoryStoreTenantBindings(t *testing.T) {
	s := store.NewMemoryRoomStore()
	defer s.Close()
	ctx := context.Background()

	_, ok, err := s.GetTenantBinding(ctx, "uid-1")
	require.NoError(t, err)
	assert.False(t, ok)

	binding := models.TenantBinding{RoomID: "103", LinkedAt: 1700000000000}
	require.NoError(t, s.PutTenantBinding(ctx, "uid-1", binding))

	got, ok, err := s.GetTenantBinding(ctx, "uid-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, binding, got)
}
