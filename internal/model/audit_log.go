package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditActionAppealCreated       AuditAction = "appeal-created"
	AuditActionAppealStatusChanged AuditAction = "appeal-status-changed"
)

// AuditDetails is an arbitrary key/value payload stored as JSON.
type AuditDetails map[string]interface{}

func (d AuditDetails) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *AuditDetails) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return errors.New("audit details: unsupported scan type")
	}
}

// AuditLog is an immutable fact about who did what, when, from where.
// Rows are appended and never updated or deleted.
type AuditLog struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Action      AuditAction  `gorm:"type:varchar(32);not null;index" json:"action"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	AppealID    *uuid.UUID   `gorm:"type:uuid;index" json:"appeal_id,omitempty"`
	PerformedBy uuid.UUID    `gorm:"type:uuid;not null;index" json:"performed_by"`
	Details     AuditDetails `gorm:"type:text" json:"details,omitempty"`
	IPAddress   string       `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	UserAgent   string       `gorm:"type:text" json:"user_agent,omitempty"`
	Timestamp   time.Time    `gorm:"not null;index" json:"timestamp"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
