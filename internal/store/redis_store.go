package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/go-redis/redis/v8"

	"room-rental-backend/internal/models"
)

const (
	roomsKey      = "rooms"
	roomsChannel  = "rooms:changed"
	roomsIDKey    = "rooms:next_id"
	tenantsPrefix = "tenants:"
)

// RedisRoomStore keeps room records in a Redis hash ("rooms", field = id,
// value = JSON record) and pushes change notifications over pub/sub.
// Subscribers reload and receive the entire snapshot on every notification,
// mirroring the realtime-database semantics the dashboard was built on.
type RedisRoomStore struct {
	rdb *redis.Client

	mu   sync.Mutex
	subs []*redis.PubSub
}

// NewRedisRoomStore connects to Redis and verifies the connection.
func NewRedisRoomStore(ctx context.Context, addr, password string, db int) (*RedisRoomStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &RedisRoomStore{rdb: rdb}, nil
}

func tenantKey(uid string) string {
	return tenantsPrefix + uid
}

// Snapshot returns the current mapping of all room records.
func (s *RedisRoomStore) Snapshot(ctx context.Context) (Snapshot, error) {
	vals, err := s.rdb.HGetAll(ctx, roomsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read rooms snapshot: %w", err)
	}

	snap := make(Snapshot, len(vals))
	for id, raw := range vals {
		var room models.Room
		if err := json.Unmarshal([]byte(raw), &room); err != nil {
			// A malformed record must not take down the whole snapshot.
			log.Printf("Skipping malformed room record %s: %v", id, err)
			continue
		}
		room.ID = id
		snap[id] = room
	}
	return snap, nil
}

// GetRoom reads a single room record.
func (s *RedisRoomStore) GetRoom(ctx context.Context, id string) (models.Room, bool, error) {
	raw, err := s.rdb.HGet(ctx, roomsKey, id).Result()
	if err == redis.Nil {
		return models.Room{}, false, nil
	}
	if err != nil {
		return models.Room{}, false, fmt.Errorf("failed to read room %s: %w", id, err)
	}

	var room models.Room
	if err := json.Unmarshal([]byte(raw), &room); err != nil {
		return models.Room{}, false, fmt.Errorf("malformed room record %s: %w", id, err)
	}
	room.ID = id
	return room, true, nil
}

// PutRoom writes the full record at id and notifies subscribers.
func (s *RedisRoomStore) PutRoom(ctx context.Context, id string, room models.Room) error {
	room.ID = id
	b, err := json.Marshal(room)
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, roomsKey, id, b)
	pipe.Publish(ctx, roomsChannel, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write room %s: %w", id, err)
	}
	return nil
}

// DeleteRoom removes the record at id. Idempotent.
func (s *RedisRoomStore) DeleteRoom(ctx context.Context, id string) error {
	pipe := s.rdb.TxPipeline()
	pipe.HDel(ctx, roomsKey, id)
	pipe.Publish(ctx, roomsChannel, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete room %s: %w", id, err)
	}
	return nil
}

// NextRoomID returns a store-generated key for a new room record.
func (s *RedisRoomStore) NextRoomID(ctx context.Context) (string, error) {
	n, err := s.rdb.Incr(ctx, roomsIDKey).Result()
	if err != nil {
		return "", fmt.Errorf("failed to allocate room id: %w", err)
	}
	return strconv.FormatInt(n, 10), nil
}

// Subscribe registers fn against the rooms channel. The current snapshot is
// delivered once up front, then again after every mutation.
func (s *RedisRoomStore) Subscribe(ctx context.Context, fn SnapshotFunc) (UnsubscribeFunc, error) {
	ps := s.rdb.Subscribe(ctx, roomsChannel)

	// Force the subscription to be established before the initial snapshot
	// so no mutation can slip between the two.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to room changes: %w", err)
	}

	s.mu.Lock()
	s.subs = append(s.subs, ps)
	s.mu.Unlock()

	go func() {
		if snap, err := s.Snapshot(ctx); err == nil {
			fn(snap)
		} else {
			log.Printf("Initial room snapshot failed: %v", err)
		}

		for range ps.Channel() {
			snap, err := s.Snapshot(ctx)
			if err != nil {
				log.Printf("Room snapshot reload failed: %v", err)
				continue
			}
			fn(snap)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = ps.Close()
			s.mu.Lock()
			for i, sub := range s.subs {
				if sub == ps {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
		})
	}, nil
}

// GetTenantBinding reads the tenant-room binding for a user.
func (s *RedisRoomStore) GetTenantBinding(ctx context.Context, uid string) (models.TenantBinding, bool, error) {
	raw, err := s.rdb.Get(ctx, tenantKey(uid)).Result()
	if err == redis.Nil {
		return models.TenantBinding{}, false, nil
	}
	if err != nil {
		return models.TenantBinding{}, false, fmt.Errorf("failed to read tenant binding %s: %w", uid, err)
	}

	var binding models.TenantBinding
	if err := json.Unmarshal([]byte(raw), &binding); err != nil {
		return models.TenantBinding{}, false, fmt.Errorf("malformed tenant binding %s: %w", uid, err)
	}
	return binding, true, nil
}

// PutTenantBinding writes the tenant-room binding for a user.
func (s *RedisRoomStore) PutTenantBinding(ctx context.Context, uid string, binding models.TenantBinding) error {
	b, err := json.Marshal(binding)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, tenantKey(uid), b, 0).Err(); err != nil {
		return fmt.Errorf("failed to write tenant binding %s: %w", uid, err)
	}
	return nil
}

// Close releases the client and all active subscriptions.
func (s *RedisRoomStore) Close() error {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, ps := range subs {
		_ = ps.Close()
	}
	return s.rdb.Close()
}
