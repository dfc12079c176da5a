package repository

import (
	"room-rental-backend/internal/models"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog records an actor action (sign-in, room mutation, device
// control). Failures are deliberately swallowed by callers; auditing never
// blocks the action itself.
func (r *AuditRepository) CreateAuditLog(actorUID, action, details string) error {
	entry := &models.AuditLog{
		ActorUID: actorUID,
		Action:   action,
		Details:  details,
	}
	return r.db.Create(entry).Error
}

// ListRecent returns the most recent audit entries, newest first.
func (r *AuditRepository) ListRecent(limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
