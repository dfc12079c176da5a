package repository_test

import (
	"context"
	"testing"

	"room-rental-backend/internal/models"
	"room-rental-backend/internal/repository"
	"room-rental-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *repository.RoomRepository {
	t.Helper()
	s := store.NewMemoryRoomStore()
	t.Cleanup(func() { _ = s.Close() })
	return repository.NewRoomRepo(s, false)
}

func TestCreateRoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Room{
		Name:  "Phòng 201",
		Price: "4.000.000 VND/tháng",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, ok, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// Required fields equal the input; everything else is defaulted.
	assert.Equal(t, "Phòng 201", got.Name)
	assert.Equal(t, "4.000.000 VND/tháng", got.Price)
	assert.Equal(t, models.StatusVacant, got.Status)
	assert.Equal(t, "26°C", got.Temperature)
	assert.Equal(t, 50, got.Humidity)
	assert.Equal(t, models.ColorVacant, got.Color)
	assert.Equal(t, models.IconHomeOutlined, got.Icon)
	assert.False(t, got.LightOn)
	assert.False(t, got.FanOn)
	assert.False(t, got.GasAlert)
	assert.NotZero(t, got.CreatedAt)
	assert.NotZero(t, got.UpdatedAt)
}

func TestCreateRequiresNameAndPrice(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, models.Room{Price: "3.000.000 VND/tháng"})
	assert.ErrorIs(t, err, repository.ErrMissingFields)

	_, err = repo.Create(ctx, models.Room{Name: "Phòng 201"})
	assert.ErrorIs(t, err, repository.ErrMissingFields)

	_, err = repo.Create(ctx, models.Room{Name: "   ", Price: "  "})
	assert.ErrorIs(t, err, repository.ErrMissingFields)
}

func TestUpdateMergePreservesUnpatchedFields(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	// "102" is part of the seeded demo dataset.
	on := true
	updated, err := repo.Update(ctx, "102", models.RoomPatch{LightOn: &on})
	require.NoError(t, err)

	assert.True(t, updated.LightOn)
	assert.Equal(t, "Phòng 102", updated.Name)
	assert.Equal(t, "3.200.000 VND/tháng", updated.Price)
	assert.Equal(t, models.StatusVacant, updated.Status)
	assert.NotZero(t, updated.UpdatedAt)
}

func TestUpdateRederivesPresentationOnStatusChange(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	status := models.StatusMaintenance
	updated, err := repo.Update(ctx, "102", models.RoomPatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.ColorMaintenance, updated.Color)
	assert.Equal(t, models.IconBuild, updated.Icon)
}

func TestUpdateUnknownID(t *testing.T) {
	repo := newRepo(t)

	on := true
	_, err := repo.Update(context.Background(), "nope", models.RoomPatch{LightOn: &on})
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestDeleteIdempotent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, "102"))

	_, ok, err := repo.Get(ctx, "102")
	require.NoError(t, err)
	assert.False(t, ok)

	// Second delete of the same id produces the same final state, no error.
	require.NoError(t, repo.Delete(ctx, "102"))
}

func TestSubscribeDeliversOrderedList(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	var lists [][]models.Room
	unsub, err := repo.Subscribe(ctx, func(rooms []models.Room) {
		lists = append(lists, rooms)
	})
	require.NoError(t, err)
	defer unsub()

	require.NotEmpty(t, lists)
	first := lists[0]
	require.Len(t, first, 2)
	assert.Equal(t, "101", first[0].ID)
	assert.Equal(t, "102", first[1].ID)

	for _, room := range first {
		assert.NotEmpty(t, room.Color)
		assert.NotEmpty(t, room.Icon)
	}

	_, err = repo.Create(ctx, models.Room{Name: "Phòng 201", Price: "4.000.000 VND/tháng"})
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Len(t, lists[1], 3)
}

func TestCloudEnabledFlag(t *testing.T) {
	s := store.NewMemoryRoomStore()
	defer s.Close()

	assert.False(t, repository.NewRoomRepo(s, false).CloudEnabled())
	assert.True(t, repository.NewRoomRepo(s, true).CloudEnabled())
}
