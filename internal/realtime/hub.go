package realtime

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"room-rental-backend/internal/models"
	"room-rental-backend/internal/service"
)

const writeWait = 10 * time.Second

// RoomsMessage is the payload pushed to every connected dashboard whenever
// the room snapshot changes.
type RoomsMessage struct {
	Type  string        `json:"type"`
	Rooms []models.Room `json:"rooms"`
	Count int           `json:"count"`
}

// Hub fans room snapshots out to connected WebSocket dashboards. It mirrors
// the store's push model: clients always receive the whole list they are
// allowed to see, never a delta. Each connection carries the actor it was
// authenticated as, and every push is filtered through the same view
// predicate the REST listing uses, so a tenant dashboard never receives
// rooms outside its binding.
type Hub struct {
	clients map[*websocket.Conn]service.Actor

	broadcast  chan []models.Room
	register   chan registration
	unregister chan *websocket.Conn
	done       chan struct{}

	mu sync.RWMutex
}

type registration struct {
	conn  *websocket.Conn
	actor service.Actor
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]service.Actor),
		broadcast:  make(chan []models.Room, 16),
		register:   make(chan registration),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case reg := <-h.register:
			h.mu.Lock()
			h.clients[reg.conn] = reg.actor
			h.mu.Unlock()
			log.Printf("Dashboard connected (%d active)", h.ClientCount())

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				_ = conn.Close()
			}
			h.mu.Unlock()
			log.Printf("Dashboard disconnected (%d active)", h.ClientCount())

		case rooms := <-h.broadcast:
			h.push(rooms)
		}
	}
}

// Register attaches a client connection to the hub under the given actor.
// From this point the hub is the connection's sole writer. After shutdown
// the connection is closed instead of registered.
func (h *Hub) Register(conn *websocket.Conn, actor service.Actor) {
	select {
	case h.register <- registration{conn: conn, actor: actor}:
	case <-h.done:
		_ = conn.Close()
	}
}

// Unregister detaches and closes a client connection. Safe to call after
// shutdown; the connection is closed either way.
func (h *Hub) Unregister(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
		_ = conn.Close()
	}
}

// BroadcastRooms queues a snapshot for delivery to all clients. Drops the
// update when the hub is backed up; the next snapshot supersedes it anyway.
func (h *Hub) BroadcastRooms(rooms []models.Room) {
	select {
	case h.broadcast <- rooms:
	default:
		log.Println("Room broadcast dropped: hub busy")
	}
}

func (h *Hub) push(rooms []models.Room) {
	h.mu.RLock()
	clients := make(map[*websocket.Conn]service.Actor, len(h.clients))
	for conn, actor := range h.clients {
		clients[conn] = actor
	}
	h.mu.RUnlock()

	for conn, actor := range clients {
		visible := visibleRooms(actor, rooms)
		msg := RoomsMessage{Type: "rooms", Rooms: visible, Count: len(visible)}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("Dashboard write failed, dropping client: %v", err)
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				_ = conn.Close()
			}
			h.mu.Unlock()
		}
	}
}

// visibleRooms filters a snapshot down to what the actor may see, matching
// the listing semantics: landlords get everything, tenants only the bound
// room.
func visibleRooms(actor service.Actor, rooms []models.Room) []models.Room {
	if actor.IsLandlord() {
		return rooms
	}
	visible := make([]models.Room, 0, 1)
	for _, room := range rooms {
		if actor.CanViewRoom(room.ID) {
			visible = append(visible, room)
		}
	}
	return visible
}

// ClientCount reports the number of attached dashboard connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
	}
	h.clients = make(map[*websocket.Conn]service.Actor)
}
