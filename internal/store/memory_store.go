package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"room-rental-backend/internal/models"
)

// MemoryRoomStore is the local fallback used when no Redis endpoint is
// configured or reachable. It implements the same push semantics as the
// Redis store: every mutation hands the full snapshot to each subscriber.
// Seeded with the fixed demo dataset so the dashboard never starts empty.
type MemoryRoomStore struct {
	mu      sync.Mutex
	rooms   map[string]models.Room
	tenants map[string]models.TenantBinding
	subs    map[int]SnapshotFunc
	nextSub int
	lastID  int64
}

// NewMemoryRoomStore builds a store seeded with the demo rooms.
func NewMemoryRoomStore() *MemoryRoomStore {
	s := &MemoryRoomStore{
		rooms:   make(map[string]models.Room),
		tenants: make(map[string]models.TenantBinding),
		subs:    make(map[int]SnapshotFunc),
	}
	for _, room := range models.DemoRooms() {
		s.rooms[room.ID] = room
	}
	return s
}

func (s *MemoryRoomStore) snapshotLocked() Snapshot {
	snap := make(Snapshot, len(s.rooms))
	for id, room := range s.rooms {
		snap[id] = room
	}
	return snap
}

// notifyLocked delivers the current snapshot to every subscriber.
// Delivery is synchronous; all state transitions run on the caller's
// goroutine, matching the single event loop the providers assume.
func (s *MemoryRoomStore) notifyLocked() {
	snap := s.snapshotLocked()
	fns := make([]SnapshotFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
	s.mu.Lock()
}

// Snapshot returns the current mapping of all room records.
func (s *MemoryRoomStore) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// GetRoom reads a single room record.
func (s *MemoryRoomStore) GetRoom(ctx context.Context, id string) (models.Room, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	return room, ok, nil
}

// PutRoom writes the full record at id and notifies subscribers.
func (s *MemoryRoomStore) PutRoom(ctx context.Context, id string, room models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room.ID = id
	s.rooms[id] = room
	s.notifyLocked()
	return nil
}

// DeleteRoom removes the record at id. Idempotent.
func (s *MemoryRoomStore) DeleteRoom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	s.notifyLocked()
	return nil
}

// NextRoomID returns a timestamp-based key, bumped on collision so two
// rooms created within the same millisecond still get distinct ids.
func (s *MemoryRoomStore) NextRoomID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10), nil
}

// Subscribe registers fn and delivers the current snapshot immediately.
func (s *MemoryRoomStore) Subscribe(ctx context.Context, fn SnapshotFunc) (UnsubscribeFunc, error) {
	s.mu.Lock()
	key := s.nextSub
	s.nextSub++
	s.subs[key] = fn
	snap := s.snapshotLocked()
	s.mu.Unlock()

	fn(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, key)
			s.mu.Unlock()
		})
	}, nil
}

// GetTenantBinding reads the tenant-room binding for a user.
func (s *MemoryRoomStore) GetTenantBinding(ctx context.Context, uid string) (models.TenantBinding, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	binding, ok := s.tenants[uid]
	return binding, ok, nil
}

// PutTenantBinding writes the tenant-room binding for a user.
func (s *MemoryRoomStore) PutTenantBinding(ctx context.Context, uid string, binding models.TenantBinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[uid] = binding
	return nil
}

// Close drops all subscribers.
func (s *MemoryRoomStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = make(map[int]SnapshotFunc)
	return nil
}
