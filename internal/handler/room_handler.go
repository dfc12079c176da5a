package handler

import (
	"errors"
	"net/http"

	"room-rental-backend/internal/middleware"
	"room-rental-backend/internal/models"
	"room-rental-backend/internal/repository"
	"room-rental-backend/internal/service"
	"room-rental-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
	}
}

type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Price       string `json:"price" binding:"required"`
	Status      string `json:"status" binding:"omitempty"`
	Temperature string `json:"temperature"`
	Occupant    string `json:"occupant"`
}

type DeviceRequest struct {
	LightOn  *bool `json:"lightOn"`
	FanOn    *bool `json:"fanOn"`
	FanSpeed *int  `json:"fanSpeed" binding:"omitempty,min=0,max=100"`
}

type LinkRoomRequest struct {
	RoomID string `json:"room_id" binding:"required"`
}

// ListRooms returns the rooms visible to the actor
func (h *RoomHandler) ListRooms(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	rooms := h.roomService.ListRooms(actor)

	utils.SuccessResponse(c, gin.H{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// GetRoom returns a single room by id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	room, err := h.roomService.GetRoom(actor, c.Param("id"))
	if err != nil {
		respondRoomError(c, err)
		return
	}

	utils.SuccessResponse(c, room)
}

// GetSummary returns the derived dashboard counts and the cloud flag
func (h *RoomHandler) GetSummary(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	utils.SuccessResponse(c, h.roomService.Summary(actor))
}

// CreateRoom creates a new room (landlord only)
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	room := models.Room{
		Name:        req.Name,
		Price:       req.Price,
		Status:      req.Status,
		Temperature: req.Temperature,
	}
	if req.Occupant != "" {
		room.Occupant = &req.Occupant
	}

	actor := middleware.CurrentActor(c)
	created, err := h.roomService.CreateRoom(c.Request.Context(), actor, room)
	if err != nil {
		respondRoomError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Room created successfully",
		"room":    created,
	})
}

// UpdateRoom merges a partial update into a room (landlord only).
// Fields absent from the body are preserved.
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	var patch models.RoomPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	actor := middleware.CurrentActor(c)
	if err := h.roomService.UpdateRoom(c.Request.Context(), actor, c.Param("id"), patch); err != nil {
		respondRoomError(c, err)
		return
	}

	utils.MessageResponse(c, "Room updated successfully")
}

// DeleteRoom removes a room (landlord only)
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if err := h.roomService.DeleteRoom(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondRoomError(c, err)
		return
	}

	utils.MessageResponse(c, "Room deleted successfully")
}

// ControlDevice toggles light/fan state or sets fan speed on a room.
// Tenants may control only the room bound to their account.
func (h *RoomHandler) ControlDevice(c *gin.Context) {
	var req DeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	patch := models.RoomPatch{
		LightOn:  req.LightOn,
		FanOn:    req.FanOn,
		FanSpeed: req.FanSpeed,
	}

	actor := middleware.CurrentActor(c)
	if err := h.roomService.ControlDevice(c.Request.Context(), actor, c.Param("id"), patch); err != nil {
		respondRoomError(c, err)
		return
	}

	utils.MessageResponse(c, "Device state updated")
}

// LinkTenantRoom binds the calling tenant to a room
func (h *RoomHandler) LinkTenantRoom(c *gin.Context) {
	var req LinkRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	actor := middleware.CurrentActor(c)
	binding, err := h.roomService.LinkTenantRoom(c.Request.Context(), actor, req.RoomID)
	if err != nil {
		respondRoomError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Room linked successfully",
		"binding": binding,
	})
}

// respondRoomError maps service errors onto HTTP statuses.
func respondRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrRoomNotFound), errors.Is(err, repository.ErrRoomNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "room not found")
	case errors.Is(err, repository.ErrMissingFields), errors.Is(err, service.ErrNotTenant):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, "Operation failed")
	}
}
