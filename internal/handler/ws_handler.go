package handler

import (
	"log"
	"net/http"

	"room-rental-backend/internal/middleware"
	"room-rental-backend/internal/realtime"
	"room-rental-backend/internal/service"
	"room-rental-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin enforcement happens in the CORS middleware; the token check in
	// AuthMiddleware already gates this route.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub         *realtime.Hub
	roomService *service.RoomService
}

func NewWSHandler(hub *realtime.Hub, roomService *service.RoomService) *WSHandler {
	return &WSHandler{
		hub:         hub,
		roomService: roomService,
	}
}

// Watch upgrades the request and streams the full room snapshot to the
// client on every change. The client receives the current list immediately
// so a freshly opened dashboard is never blank.
func (h *WSHandler) Watch(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "WebSocket upgrade failed")
		return
	}

	// Initial snapshot, scoped to what the actor may see. Written before
	// registration: once the hub holds the connection it is the sole
	// writer, so no other goroutine may touch it afterwards.
	rooms := h.roomService.ListRooms(actor)
	if err := conn.WriteJSON(realtime.RoomsMessage{Type: "rooms", Rooms: rooms, Count: len(rooms)}); err != nil {
		log.Printf("Initial snapshot write failed: %v", err)
		_ = conn.Close()
		return
	}

	h.hub.Register(conn, actor)

	// Drain the connection to detect close; the dashboard stream is
	// one-way, so any inbound payload is discarded.
	go func() {
		defer h.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
