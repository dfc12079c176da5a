package service

import (
	"strings"

	"room-rental-backend/internal/models"
)

// Actor is the role context attached to every service call. It travels with
// the request instead of living in ambient global state, and every mutating
// entry point checks it before touching the store.
type Actor struct {
	UID          string
	Role         string
	TenantRoomID string
}

// IsLandlord reports whether the actor holds the landlord role.
func (a Actor) IsLandlord() bool {
	return a.Role == models.RoleLandlord
}

// CanControlRoom reports whether the actor may mutate device state in the
// given room: landlords control every room, tenants only the bound one.
func (a Actor) CanControlRoom(roomID string) bool {
	if a.IsLandlord() {
		return true
	}
	if a.Role != models.RoleTenant || a.TenantRoomID == "" {
		return false
	}
	return strings.TrimSpace(a.TenantRoomID) == strings.TrimSpace(roomID)
}

// CanViewRoom gates read access with the same predicate as control.
func (a Actor) CanViewRoom(roomID string) bool {
	return a.CanControlRoom(roomID)
}
