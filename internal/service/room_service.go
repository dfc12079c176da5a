package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"room-rental-backend/internal/models"
	"room-rental-backend/internal/repository"
	"room-rental-backend/internal/state"
)

type RoomService struct {
	provider  *state.RoomsProvider
	roomRepo  *repository.RoomRepository
	auditRepo AuditLogger
}

func NewRoomService(
	provider *state.RoomsProvider,
	roomRepo *repository.RoomRepository,
	auditRepo AuditLogger,
) *RoomService {
	return &RoomService{
		provider:  provider,
		roomRepo:  roomRepo,
		auditRepo: auditRepo,
	}
}

// Summary is the dashboard header payload: derived counts plus the cloud
// flag so the UI can surface demo mode.
type Summary struct {
	Total        int  `json:"total"`
	Occupied     int  `json:"occupied"`
	Empty        int  `json:"empty"`
	CloudEnabled bool `json:"cloud_enabled"`
}

// ListRooms returns the rooms the actor may see: all of them for a
// landlord, only the bound room for a tenant.
func (s *RoomService) ListRooms(actor Actor) []models.Room {
	rooms := s.provider.Rooms()
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

// GetRoom returns a single room, rejecting actors outside its reach.
func (s *RoomService) GetRoom(actor Actor, id string) (models.Room, error) {
	if !actor.CanViewRoom(id) {
		return models.Room{}, ErrPermissionDenied
	}
	room, ok := s.provider.GetRoomByID(id)
	if !ok {
		return models.Room{}, ErrRoomNotFound
	}
	return room, nil
}

// CreateRoom creates a new room (landlord only).
func (s *RoomService) CreateRoom(ctx context.Context, actor Actor, room models.Room) (models.Room, error) {
	if !actor.IsLandlord() {
		return models.Room{}, ErrPermissionDenied
	}

	created, err := s.provider.AddRoom(ctx, room)
	if err != nil {
		return models.Room{}, err
	}

	details := fmt.Sprintf("Created room: %s (id: %s)", created.Name, created.ID)
	_ = s.auditRepo.CreateAuditLog(actor.UID, "room_create", details)

	return created, nil
}

// UpdateRoom merges a patch into a room's record (landlord only).
func (s *RoomService) UpdateRoom(ctx context.Context, actor Actor, id string, patch models.RoomPatch) error {
	if !actor.IsLandlord() {
		return ErrPermissionDenied
	}
	if err := s.provider.UpdateRoom(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	_ = s.auditRepo.CreateAuditLog(actor.UID, "room_update", fmt.Sprintf("Updated room %s", id))
	return nil
}

// DeleteRoom removes a room (landlord only). Idempotent.
func (s *RoomService) DeleteRoom(ctx context.Context, actor Actor, id string) error {
	if !actor.IsLandlord() {
		return ErrPermissionDenied
	}
	if err := s.provider.DeleteRoom(ctx, id); err != nil {
		return err
	}

	_ = s.auditRepo.CreateAuditLog(actor.UID, "room_delete", fmt.Sprintf("Deleted room %s", id))
	return nil
}

// ControlDevice applies a device patch (light, fan, fan speed) through the
// provider's optimistic path. Tenants may control only their bound room.
func (s *RoomService) ControlDevice(ctx context.Context, actor Actor, id string, patch models.RoomPatch) error {
	if !actor.CanControlRoom(id) {
		return ErrPermissionDenied
	}
	if patch.IsEmpty() {
		return nil
	}

	if err := s.provider.SetDevice(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	_ = s.auditRepo.CreateAuditLog(actor.UID, "device_control", fmt.Sprintf("Device update on room %s", id))
	return nil
}

// LinkTenantRoom binds a tenant actor to a room id. The binding is
// persisted in the store; the caller's session picks it up on the next
// token refresh (the local claim is updated optimistically by the handler).
func (s *RoomService) LinkTenantRoom(ctx context.Context, actor Actor, roomID string) (models.TenantBinding, error) {
	if actor.Role != models.RoleTenant {
		return models.TenantBinding{}, ErrNotTenant
	}
	if _, ok := s.provider.GetRoomByID(roomID); !ok {
		return models.TenantBinding{}, ErrRoomNotFound
	}

	binding := models.TenantBinding{
		RoomID:   roomID,
		LinkedAt: time.Now().UnixMilli(),
	}
	if err := s.roomRepo.PutTenantBinding(ctx, actor.UID, binding); err != nil {
		return models.TenantBinding{}, fmt.Errorf("failed to persist tenant binding: %w", err)
	}

	_ = s.auditRepo.CreateAuditLog(actor.UID, "tenant_link", fmt.Sprintf("Linked tenant to room %s", roomID))
	return binding, nil
}

// Summary computes the dashboard counts over the rooms the actor may see.
func (s *RoomService) Summary(actor Actor) Summary {
	rooms := s.ListRooms(actor)
	sum := Summary{
		Total:        len(rooms),
		CloudEnabled: s.provider.CloudEnabled(),
	}
	for _, room := range rooms {
		switch room.Status {
		case models.StatusOccupied:
			sum.Occupied++
		case models.StatusVacant:
			sum.Empty++
		}
	}
	return sum
}
