package service

import "errors"

var (
	// ErrPermissionDenied is returned when an actor issues an operation
	// outside its role's reach. Authorization is enforced here, at the
	// data-access boundary, not only in whatever UI hides the button.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrRoomNotFound mirrors the repository sentinel for handlers that
	// only import the service layer.
	ErrRoomNotFound = errors.New("room not found")

	// ErrNotTenant is returned when a non-tenant actor tries to link a
	// tenant room binding.
	ErrNotTenant = errors.New("only tenant accounts can be linked to a room")
)
