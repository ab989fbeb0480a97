package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeStatusChange  NotificationType = "status-change"
	NotificationTypeReviewStarted NotificationType = "review-started"
)

type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

// Notification is a user-facing message created as a side effect of an appeal
// operation. Immutable once written except for the recipient's read flag.
type Notification struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	AppealID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"appeal_id"`
	Type      NotificationType   `gorm:"type:varchar(32);not null" json:"type"`
	Title     string             `gorm:"type:varchar(255);not null" json:"title"`
	Message   string             `gorm:"type:text;not null" json:"message"`
	Status    NotificationStatus `gorm:"type:varchar(8);not null;default:'unread'" json:"status"`
	ReadAt    *time.Time         `json:"read_at,omitempty"`
	CreatedAt time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// MarkRead flips the read flag, the sole mutation a notification allows.
func (n *Notification) MarkRead(at time.Time) {
	n.Status = NotificationStatusRead
	n.ReadAt = &at
}
