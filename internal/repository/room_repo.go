package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"room-rental-backend/internal/models"
	"room-rental-backend/internal/store"
)

var (
	// ErrRoomNotFound is returned when an update targets an unknown id.
	ErrRoomNotFound = errors.New("room not found")
	// ErrMissingFields is returned when a create request omits name or price.
	ErrMissingFields = errors.New("name and price are required")
)

// RoomRepository translates room CRUD and subscribe calls into room store
// operations. It owns normalization: presentation defaults derived from
// status, sensor/device zero values, and write timestamps.
type RoomRepository struct {
	store        store.RoomStore
	cloudEnabled bool
}

// NewRoomRepo wraps the given store. cloudEnabled reports whether the store
// is the remote one; it is informational only and surfaced to the UI.
func NewRoomRepo(s store.RoomStore, cloudEnabled bool) *RoomRepository {
	return &RoomRepository{store: s, cloudEnabled: cloudEnabled}
}

// CloudEnabled reports whether the repository operates against the remote
// store. False means local/demo mode, which is a degraded-mode contract,
// not an error.
func (r *RoomRepository) CloudEnabled() bool {
	return r.cloudEnabled
}

// Subscribe registers onChange to receive the full room list on every store
// mutation. The list is rebuilt from each snapshot, ordered by id, with
// presentation defaults applied. The caller must release the returned
// handle on every exit path.
func (r *RoomRepository) Subscribe(ctx context.Context, onChange func([]models.Room)) (store.UnsubscribeFunc, error) {
	return r.store.Subscribe(ctx, func(snap store.Snapshot) {
		onChange(snapshotToList(snap))
	})
}

func snapshotToList(snap store.Snapshot) []models.Room {
	rooms := make([]models.Room, 0, len(snap))
	for id, room := range snap {
		room.ID = id
		room.EnsurePresentation()
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms
}

// Create validates and writes a new room at a fresh key. Name and price are
// required; everything else gets a default. The new record becomes visible
// to subscribers asynchronously; callers must not assume the next read
// already reflects it.
func (r *RoomRepository) Create(ctx context.Context, room models.Room) (models.Room, error) {
	if strings.TrimSpace(room.Name) == "" || strings.TrimSpace(room.Price) == "" {
		return models.Room{}, ErrMissingFields
	}

	if room.Status == "" {
		room.Status = models.StatusVacant
	}
	if room.Temperature == "" {
		room.Temperature = "26°C"
	}
	if room.Humidity == 0 {
		room.Humidity = 50
	}
	room.EnsurePresentation()

	id, err := r.store.NextRoomID(ctx)
	if err != nil {
		return models.Room{}, fmt.Errorf("failed to allocate room id: %w", err)
	}
	room.ID = id

	now := time.Now().UnixMilli()
	room.CreatedAt = now
	room.UpdatedAt = now

	if err := r.store.PutRoom(ctx, id, room); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

// Update applies a field-level merge of patch onto the record at id.
// Fields absent from the patch are preserved; a device toggle can never
// erase name, price or status. Unknown ids fail with ErrRoomNotFound.
func (r *RoomRepository) Update(ctx context.Context, id string, patch models.RoomPatch) (models.Room, error) {
	room, ok, err := r.store.GetRoom(ctx, id)
	if err != nil {
		return models.Room{}, err
	}
	if !ok {
		return models.Room{}, ErrRoomNotFound
	}

	patch.Apply(&room)
	if patch.Status != nil {
		// Status changed: re-derive presentation unless the patch set it.
		if patch.Color == nil {
			room.Color = models.StatusColorOf(room.Status)
		}
		if patch.Icon == nil {
			room.Icon = models.StatusIconOf(room.Status)
		}
	}
	room.EnsurePresentation()
	room.UpdatedAt = time.Now().UnixMilli()

	if err := r.store.PutRoom(ctx, id, room); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

// Delete removes the record at id. Idempotent: deleting a nonexistent id
// succeeds.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	return r.store.DeleteRoom(ctx, id)
}

// Get reads a single room with presentation defaults applied.
func (r *RoomRepository) Get(ctx context.Context, id string) (models.Room, bool, error) {
	room, ok, err := r.store.GetRoom(ctx, id)
	if err != nil || !ok {
		return models.Room{}, ok, err
	}
	room.EnsurePresentation()
	return room, true, nil
}

// GetTenantBinding reads the tenant-room binding for a user.
func (r *RoomRepository) GetTenantBinding(ctx context.Context, uid string) (models.TenantBinding, bool, error) {
	return r.store.GetTenantBinding(ctx, uid)
}

// PutTenantBinding persists the tenant-room binding for a user.
func (r *RoomRepository) PutTenantBinding(ctx context.Context, uid string, binding models.TenantBinding) error {
	return r.store.PutTenantBinding(ctx, uid, binding)
}
