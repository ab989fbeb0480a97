package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/model"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/repository"
)

// NotificationService serves the recipient-facing notification endpoints.
type NotificationService struct {
	repo *repository.NotificationRepository
	now  func() time.Time
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo, now: time.Now}
}

type NotificationPage struct {
	Notifications []model.Notification `json:"notifications"`
	Total         int64                `json:"total"`
	Unread        int64                `json:"unread"`
}

func (s *NotificationService) ListOwn(ctx context.Context, principal model.Principal, onlyUnread bool, limit, offset int) (*NotificationPage, error) {
	notifications, total, err := s.repo.ListByUser(ctx, principal.UserID, onlyUnread, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return &NotificationPage{Notifications: notifications, Total: total, Unread: unread}, nil
}

// MarkRead is restricted to the recipient; a miss is indistinguishable from a
// foreign notification on purpose.
func (s *NotificationService) MarkRead(ctx context.Context, principal model.Principal, notificationID uuid.UUID) error {
	ok, err := s.repo.MarkRead(ctx, notificationID, principal.UserID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, principal model.Principal) (int64, error) {
	return s.repo.MarkAllRead(ctx, principal.UserID, s.now())
}
