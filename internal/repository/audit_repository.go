package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/model"
)

// AuditLogRepository is an append-only sink. Entries are never read back
// within the transaction that produced them.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Append(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
