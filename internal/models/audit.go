package models

import "time"

// AuditLog represents the audit_logs table.
// Records sign-ins and every room mutation issued by a landlord or tenant.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorUID  string    `gorm:"size:36;index" json:"actor_uid"`
	Action    string    `gorm:"size:100;not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
