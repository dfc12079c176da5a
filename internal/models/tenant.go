package models

// TenantBinding maps a tenant account to the single room it may view and
// control. Stored in the room store under tenants:{uid}, set once via the
// explicit link action and read at sign-in.
type TenantBinding struct {
	RoomID   string `json:"roomID"`
	LinkedAt int64  `json:"linkedAt"`
}
