package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of a mutation. The application never
// updates or deletes these rows.
type AuditLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  string         `gorm:"size:50;not null;index" json:"tenant_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Method    string         `gorm:"size:10;not null" json:"method"`
	Path      string         `gorm:"size:255;not null" json:"path"`
	OldData   datatypes.JSON `gorm:"type:jsonb" json:"old_data"`
	NewData   datatypes.JSON `gorm:"type:jsonb" json:"new_data"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
