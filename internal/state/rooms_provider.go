package state

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"room-rental-backend/internal/models"
	"room-rental-backend/internal/repository"
	"room-rental-backend/internal/store"
)

// RoomsProvider is the single source of truth for the room collection
// within a session. It subscribes to the repository on Start and replaces
// its entire list atomically on every snapshot, so stale entries from a
// previous snapshot never coexist with a newer one.
//
// Policy: an empty snapshot swaps in the fixed demo dataset instead of an
// empty list. The dashboard never shows nothing.
type RoomsProvider struct {
	repo *repository.RoomRepository

	mu          sync.RWMutex
	rooms       []models.Room
	unsubscribe store.UnsubscribeFunc

	watchMu   sync.Mutex
	watchers  map[int]func([]models.Room)
	nextWatch int
}

// NewRoomsProvider builds an unstarted provider over the repository.
func NewRoomsProvider(repo *repository.RoomRepository) *RoomsProvider {
	return &RoomsProvider{
		repo:     repo,
		rooms:    models.DemoRooms(),
		watchers: make(map[int]func([]models.Room)),
	}
}

// Start subscribes to the repository. The subscription is held until Close;
// failing to Close leaks a listener for the session lifetime.
func (p *RoomsProvider) Start(ctx context.Context) error {
	unsub, err := p.repo.Subscribe(ctx, p.onSnapshot)
	if err != nil {
		// Non-fatal: the provider keeps serving the demo dataset.
		log.Printf("Room subscription failed, serving demo dataset: %v", err)
		return err
	}

	p.mu.Lock()
	p.unsubscribe = unsub
	p.mu.Unlock()
	return nil
}

// Close releases the subscription and all watchers. Must run on every exit
// path of the owning scope.
func (p *RoomsProvider) Close() {
	p.mu.Lock()
	unsub := p.unsubscribe
	p.unsubscribe = nil
	p.mu.Unlock()

	if unsub != nil {
		unsub()
	}

	p.watchMu.Lock()
	p.watchers = make(map[int]func([]models.Room))
	p.watchMu.Unlock()
}

func (p *RoomsProvider) onSnapshot(rooms []models.Room) {
	if len(rooms) == 0 {
		rooms = models.DemoRooms()
	}

	p.mu.Lock()
	p.rooms = rooms
	p.mu.Unlock()

	p.notifyWatchers(rooms)
}

func (p *RoomsProvider) notifyWatchers(rooms []models.Room) {
	p.watchMu.Lock()
	fns := make([]func([]models.Room), 0, len(p.watchers))
	for _, fn := range p.watchers {
		fns = append(fns, fn)
	}
	p.watchMu.Unlock()

	for _, fn := range fns {
		fn(rooms)
	}
}

// Watch registers fn to receive the room list after every change.
// The returned handle must be released when the watcher goes away.
func (p *RoomsProvider) Watch(fn func([]models.Room)) store.UnsubscribeFunc {
	p.watchMu.Lock()
	key := p.nextWatch
	p.nextWatch++
	p.watchers[key] = fn
	p.watchMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.watchMu.Lock()
			delete(p.watchers, key)
			p.watchMu.Unlock()
		})
	}
}

// Rooms returns a copy of the current room list.
func (p *RoomsProvider) Rooms() []models.Room {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Room, len(p.rooms))
	copy(out, p.rooms)
	return out
}

// GetRoomByID looks a room up by id with string-normalized comparison.
func (p *RoomsProvider) GetRoomByID(id string) (models.Room, bool) {
	want := strings.TrimSpace(id)
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, room := range p.rooms {
		if strings.TrimSpace(room.ID) == want {
			return room, true
		}
	}
	return models.Room{}, false
}

// OccupiedCount counts rooms with status "Có người". Linear scan; fine at
// the target dataset size of tens of rooms.
func (p *RoomsProvider) OccupiedCount() int {
	return p.countByStatus(models.StatusOccupied)
}

// EmptyCount counts rooms with status "Trống". Maintenance rooms count in
// neither bucket.
func (p *RoomsProvider) EmptyCount() int {
	return p.countByStatus(models.StatusVacant)
}

func (p *RoomsProvider) countByStatus(status string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, room := range p.rooms {
		if room.Status == status {
			n++
		}
	}
	return n
}

// CloudEnabled reports whether the backing repository runs in cloud mode.
func (p *RoomsProvider) CloudEnabled() bool {
	return p.repo.CloudEnabled()
}

// AddRoom creates a room through the repository. On remote failure the
// room is appended to the local list only, which diverges from the store
// until the next full snapshot arrives. The divergence is part of the
// fallback contract, not a bug to patch over.
func (p *RoomsProvider) AddRoom(ctx context.Context, room models.Room) (models.Room, error) {
	if strings.TrimSpace(room.Name) == "" || strings.TrimSpace(room.Price) == "" {
		return models.Room{}, repository.ErrMissingFields
	}

	created, err := p.repo.Create(ctx, room)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, repository.ErrMissingFields) {
		return models.Room{}, err
	}

	log.Printf("Remote room create failed, keeping local copy: %v", err)
	local := room
	local.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	if local.Status == "" {
		local.Status = models.StatusVacant
	}
	local.EnsurePresentation()

	p.mu.Lock()
	p.rooms = append(p.rooms, local)
	rooms := make([]models.Room, len(p.rooms))
	copy(rooms, p.rooms)
	p.mu.Unlock()

	p.notifyWatchers(rooms)
	return local, nil
}

// DeleteRoom removes a room through the repository, falling back to a
// local-only removal when the remote delete fails.
func (p *RoomsProvider) DeleteRoom(ctx context.Context, id string) error {
	if err := p.repo.Delete(ctx, id); err != nil {
		log.Printf("Remote room delete failed, removing local copy: %v", err)
		p.removeLocal(id)
	}
	return nil
}

// UpdateRoom merges a patch through the repository, falling back to a
// local-only merge when the remote write fails. Unknown ids are an error.
func (p *RoomsProvider) UpdateRoom(ctx context.Context, id string, patch models.RoomPatch) error {
	_, err := p.repo.Update(ctx, id, patch)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrRoomNotFound) {
		return err
	}

	log.Printf("Remote room update failed, merging into local copy: %v", err)
	p.mergeLocal(id, patch)
	return nil
}

// SetDevice applies a device patch optimistically: the local copy changes
// first, the remote write follows, and on failure the local copy is rolled
// back to its previous value. A snapshot notification arriving before the
// write is acknowledged may briefly overwrite the optimistic value; that
// flicker is inherent to the write-then-notify race and tolerated.
func (p *RoomsProvider) SetDevice(ctx context.Context, id string, patch models.RoomPatch) error {
	want := strings.TrimSpace(id)

	p.mu.Lock()
	idx := -1
	for i := range p.rooms {
		if strings.TrimSpace(p.rooms[i].ID) == want {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.mu.Unlock()
		return repository.ErrRoomNotFound
	}
	prev := p.rooms[idx]
	patch.Apply(&p.rooms[idx])
	rooms := make([]models.Room, len(p.rooms))
	copy(rooms, p.rooms)
	p.mu.Unlock()

	p.notifyWatchers(rooms)

	if _, err := p.repo.Update(ctx, id, patch); err != nil {
		log.Printf("Device update failed, rolling back %s: %v", id, err)
		p.restoreLocal(id, prev)
		return err
	}
	return nil
}

func (p *RoomsProvider) removeLocal(id string) {
	want := strings.TrimSpace(id)
	p.mu.Lock()
	kept := p.rooms[:0]
	for _, room := range p.rooms {
		if strings.TrimSpace(room.ID) != want {
			kept = append(kept, room)
		}
	}
	p.rooms = kept
	rooms := make([]models.Room, len(p.rooms))
	copy(rooms, p.rooms)
	p.mu.Unlock()

	p.notifyWatchers(rooms)
}

func (p *RoomsProvider) mergeLocal(id string, patch models.RoomPatch) {
	want := strings.TrimSpace(id)
	p.mu.Lock()
	for i := range p.rooms {
		if strings.TrimSpace(p.rooms[i].ID) == want {
			patch.Apply(&p.rooms[i])
			p.rooms[i].EnsurePresentation()
			break
		}
	}
	rooms := make([]models.Room, len(p.rooms))
	copy(rooms, p.rooms)
	p.mu.Unlock()

	p.notifyWatchers(rooms)
}

func (p *RoomsProvider) restoreLocal(id string, prev models.Room) {
	want := strings.TrimSpace(id)
	p.mu.Lock()
	for i := range p.rooms {
		if strings.TrimSpace(p.rooms[i].ID) == want {
			p.rooms[i] = prev
			break
		}
	}
	rooms := make([]models.Room, len(p.rooms))
	copy(rooms, p.rooms)
	p.mu.Unlock()

	p.notifyWatchers(rooms)
}
