package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppealStatusHistory is the append-only log of status changes for an appeal.
// Rows are written together with the status mutation and never updated.
type AppealStatusHistory struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	AppealID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"appeal_id"`
	Status    AppealStatus `gorm:"type:varchar(16);not null" json:"status"`
	ChangedBy uuid.UUID    `gorm:"type:uuid;not null" json:"changed_by"`
	ChangedAt time.Time    `gorm:"not null" json:"changed_at"`
	Notes     string       `gorm:"type:text" json:"notes,omitempty"`
	Reason    string       `gorm:"type:text" json:"reason,omitempty"`
}

func (AppealStatusHistory) TableName() string {
	return "appeal_status_history"
}

func (h *AppealStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
