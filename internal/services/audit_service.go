package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEntry describes one mutation. OldData and NewData are marshalled to
// JSON as-is.
type AuditEntry struct {
	TenantID string
	ActorID  uuid.UUID
	Method   string
	Path     string
	OldData  any
	NewData  any
}

// AuditMeta is the request context a handler passes to audited flows.
// A zero ActorID means the affected user is recorded as the actor.
type AuditMeta struct {
	ActorID uuid.UUID
	Method  string
	Path    string
}

func (m AuditMeta) entry(tenantID string, subject uuid.UUID, oldData, newData any) AuditEntry {
	actor := m.ActorID
	if actor == uuid.Nil {
		actor = subject
	}
	return AuditEntry{
		TenantID: tenantID,
		ActorID:  actor,
		Method:   m.Method,
		Path:     m.Path,
		OldData:  oldData,
		NewData:  newData,
	}
}

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends an audit row. Failures are logged and never reach the caller.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	oldData, err := json.Marshal(entry.OldData)
	if err != nil {
		s.fail(ctx, entry, err)
		return
	}
	newData, err := json.Marshal(entry.NewData)
	if err != nil {
		s.fail(ctx, entry, err)
		return
	}

	row := models.AuditLog{
		TenantID: entry.TenantID,
		UserID:   entry.ActorID,
		Method:   entry.Method,
		Path:     entry.Path,
		OldData:  datatypes.JSON(oldData),
		NewData:  datatypes.JSON(newData),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.fail(ctx, entry, err)
	}
}

func (s *AuditService) fail(ctx context.Context, entry AuditEntry, err error) {
	slog.ErrorContext(ctx, "audit write failed",
		"tenant_id", entry.TenantID,
		"user_id", entry.ActorID.String(),
		"action", entry.Method+" "+entry.Path,
		"error", err,
	)
}
