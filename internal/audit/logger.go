package audit

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/client-onboarding/internal/models"
)

// Sink persists one audit event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// GormSink writes events to the audit_logs table.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Log(ctx context.Context, ev Event) error {
	row := models.AuditLog{
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: encodeMetadata(ev.Metadata),
	}

	return s.db.WithContext(ctx).Create(&row).Error
}

// LogSink writes events to the structured log. Used when the store is the
// hosted table API and there is no local database to hold an audit table.
type LogSink struct {
	lggr *zap.Logger
}

func NewLogSink(lggr *zap.Logger) *LogSink {
	return &LogSink{lggr: lggr}
}

func (s *LogSink) Log(_ context.Context, ev Event) error {
	s.lggr.Info("audit",
		zap.String("action", ev.Action),
		zap.String("entity", ev.Entity),
		zap.String("entity_id", ev.EntityID),
		zap.String("metadata", encodeMetadata(ev.Metadata)),
	)
	return nil
}

func encodeMetadata(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}
