package state_test

import (
	"context"
	"errors"
	"testing"

	"room-rental-backend/internal/models"
	"room-rental-backend/internal/repository"
	"room-rental-backend/internal/state"
	"room-rental-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore wraps the memory store and refuses writes on demand, standing
// in for an unreachable remote store.
type flakyStore struct {
	*store.MemoryRoomStore
	failWrites bool
}

var errWriteRefused = errors.New("write refused")

func (s *flakyStore) PutRoom(ctx context.Context, id string, room models.Room) error {
	if s.failWrites {
		return errWriteRefused
	}
	return s.MemoryRoomStore.PutRoom(ctx, id, room)
}

func (s *flakyStore) DeleteRoom(ctx context.Context, id string) error {
	if s.failWrites {
		return errWriteRefused
	}
	return s.MemoryRoomStore.DeleteRoom(ctx, id)
}

func newProvider(t *testing.T) (*state.RoomsProvider, *flakyStore) {
	t.Helper()

	fs := &flakyStore{MemoryRoomStore: store.NewMemoryRoomStore()}
	repo := repository.NewRoomRepo(fs, false)
	provider := state.NewRoomsProvider(repo)
	require.NoError(t, provider.Start(context.Background()))
	t.Cleanup(provider.Close)
	return provider, fs
}

func TestProviderServesInitialSnapshot(t *testing.T) {
	provider, _ := newProvider(t)

	rooms := provider.Rooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].ID)
	assert.Equal(t, "102", rooms[1].ID)
}

func TestProviderFallsBackToDemoOnEmptySnapshot(t *testing.T) {
	provider, fs := newProvider(t)
	ctx := context.Background()

	// Empty the store; the final empty snapshot must not leave the
	// provider with an empty list.
	require.NoError(t, fs.MemoryRoomStore.DeleteRoom(ctx, "101"))
	require.NoError(t, fs.MemoryRoomStore.DeleteRoom(ctx, "102"))

	rooms := provider.Rooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].ID)
	assert.Equal(t, "102", rooms[1].ID)
}

func TestProviderCounts(t *testing.T) {
	provider, fs := newProvider(t)
	ctx := context.Background()

	require.NoError(t, fs.PutRoom(ctx, "103", models.Room{
		Name: "Phòng 103", Status: models.StatusOccupied,
	}))
	require.NoError(t, fs.PutRoom(ctx, "104", models.Room{
		Name: "Phòng 104", Status: models.StatusMaintenance,
	}))

	rooms := provider.Rooms()
	require.Len(t, rooms, 4)

	// Maintenance rooms count in neither bucket.
	assert.Equal(t, 2, provider.OccupiedCount())
	assert.Equal(t, 1, provider.EmptyCount())
	assert.LessOrEqual(t, provider.OccupiedCount()+provider.EmptyCount(), len(rooms))
}

func TestProviderGetRoomByIDNormalizesIDs(t *testing.T) {
	provider, _ := newProvider(t)

	room, ok := provider.GetRoomByID(" 101 ")
	require.True(t, ok)
	assert.Equal(t, "101", room.ID)

	_, ok = provider.GetRoomByID("999")
	assert.False(t, ok)
}

func TestProviderSetDeviceAppliesRemotely(t *testing.T) {
	provider, fs := newProvider(t)
	ctx := context.Background()

	on := true
	require.NoError(t, provider.SetDevice(ctx, "102", models.RoomPatch{LightOn: &on}))

	room, ok := provider.GetRoomByID("102")
	require.True(t, ok)
	assert.True(t, room.LightOn)

	stored, ok, err := fs.GetRoom(ctx, "102")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.LightOn)
	// Merge semantics: nothing else was erased.
	assert.Equal(t, "Phòng 102", stored.Name)
	assert.Equal(t, "3.200.000 VND/tháng", stored.Price)
}

func TestProviderSetDeviceRollsBackOnWriteFailure(t *testing.T) {
	provider, fs := newProvider(t)
	ctx := context.Background()

	fs.failWrites = true

	off := false
	err := provider.SetDevice(ctx, "101", models.RoomPatch{LightOn: &off})
	require.Error(t, err)

	// The optimistic change was rolled back to the pre-update value.
	room, ok := provider.GetRoomByID("101")
	require.True(t, ok)
	assert.True(t, room.LightOn)
}

func TestProviderAddRoomFallsBackToLocalOnWriteFailure(t *testing.T) {
	provider, fs := newProvider(t)
	ctx := context.Background()

	fs.failWrites = true

	created, err := provider.AddRoom(ctx, models.Room{
		Name:  "Phòng 201",
		Price: "4.000.000 VND/tháng",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	// Local list carries the room even though the store never saw it.
	_, ok := provider.GetRoomByID(created.ID)
	assert.True(t, ok)

	_, stored, err := fs.MemoryRoomStore.GetRoom(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored)
}

func TestProviderAddRoomValidation(t *testing.T) {
	provider, _ := newProvider(t)

	_, err := provider.AddRoom(context.Background(), models.Room{Name: "Phòng 201"})
	assert.ErrorIs(t, err, repository.ErrMissingFields)
}

func TestProviderDeleteRoomFallsBackToLocalOnFailure(t *testing.T) {
	provider, fs := newProvider(t)
	ctx := context.Background()

	fs.failWrites = true

	require.NoError(t, provider.DeleteRoom(ctx, "102"))

	_, ok := provider.GetRoomByID("102")
	assert.False(t, ok)

	// The store still holds the record until the next full snapshot:
	// the accepted local/remote divergence.
	_, stored, err := fs.MemoryRoomStore.GetRoom(ctx, "102")
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestProviderUpdateRoomFallsBackToLocalMerge(t *testing.T) {
	provider, fs := newProvider(t)
	ctx := context.Background()

	fs.failWrites = true

	name := "Phòng 102 (sửa)"
	require.NoError(t, provider.UpdateRoom(ctx, "102", models.RoomPatch{Name: &name}))

	room, ok := provider.GetRoomByID("102")
	require.True(t, ok)
	assert.Equal(t, name, room.Name)
	assert.Equal(t, "3.200.000 VND/tháng", room.Price)
}

func TestProviderCloseStopsDelivery(t *testing.T) {
	fs := &flakyStore{MemoryRoomStore: store.NewMemoryRoomStore()}
	repo := repository.NewRoomRepo(fs, false)
	provider := state.NewRoomsProvider(repo)
	require.NoError(t, provider.Start(context.Background()))

	provider.Close()

	require.NoError(t, fs.PutRoom(context.Background(), "103", models.Room{Name: "Phòng 103"}))
	rooms := provider.Rooms()
	assert.Len(t, rooms, 2)
}

func TestProviderWatch(t *testing.T) {
	provider, fs := newProvider(t)

	var seen [][]models.Room
	stop := provider.Watch(func(rooms []models.Room) {
		seen = append(seen, rooms)
	})
	defer stop()

	require.NoError(t, fs.PutRoom(context.Background(), "103", models.Room{Name: "Phòng 103"}))
	require.Len(t, seen, 1)
	assert.Len(t, seen[0], 3)

	stop()
	require.NoError(t, fs.PutRoom(context.Background(), "104", models.Room{Name: "Phòng 104"}))
	assert.Len(t, seen, 1)
}
