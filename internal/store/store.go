package store

import (
	"context"
	"errors"

	"room-rental-backend/internal/models"
)

// ErrStoreUnavailable is returned when the backing store cannot be reached.
var ErrStoreUnavailable = errors.New("room store unavailable")

// Snapshot is the full current mapping of room id to room record.
// The store pushes the entire snapshot to every subscriber on each mutation.
type Snapshot map[string]models.Room

// SnapshotFunc receives the full room snapshot after every mutation.
type SnapshotFunc func(Snapshot)

// UnsubscribeFunc releases a subscription. Safe to call more than once.
type UnsubscribeFunc func()

// RoomStore is the push-capable key-value store holding room records and
// tenant-room bindings. Implementations: Redis-backed (cloud mode) and
// in-memory (local/demo fallback).
type RoomStore interface {
	// Snapshot returns the current mapping of all room records.
	Snapshot(ctx context.Context) (Snapshot, error)

	// GetRoom reads a single room record. The bool reports existence.
	GetRoom(ctx context.Context, id string) (models.Room, bool, error)

	// PutRoom writes the full record at id, creating or replacing it,
	// and notifies all subscribers with a fresh snapshot.
	PutRoom(ctx context.Context, id string, room models.Room) error

	// DeleteRoom removes the record at id. Deleting a nonexistent id is
	// not an error.
	DeleteRoom(ctx context.Context, id string) error

	// NextRoomID returns a fresh key for a new room record.
	NextRoomID(ctx context.Context) (string, error)

	// Subscribe registers fn to receive the full snapshot on every
	// mutation. The current snapshot is delivered once on registration.
	// The caller owns the returned handle and must release it on every
	// exit path; a leaked handle keeps the listener alive for the
	// session lifetime.
	Subscribe(ctx context.Context, fn SnapshotFunc) (UnsubscribeFunc, error)

	// GetTenantBinding reads the tenant-room binding for a user.
	GetTenantBinding(ctx context.Context, uid string) (models.TenantBinding, bool, error)

	// PutTenantBinding writes the tenant-room binding for a user.
	PutTenantBinding(ctx context.Context, uid string, binding models.TenantBinding) error

	// Close releases all store resources and active subscriptions.
	Close() error
}
