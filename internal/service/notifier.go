package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/model"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/repository"
)

// AdminDirectory resolves the recipients of new-appeal notifications. The
// notifier depends on this interface rather than on the user storage itself.
type AdminDirectory interface {
	ListActiveAdmins(ctx context.Context) ([]model.User, error)
}

// Notifier builds and stores user-facing notification records. Fire-and-forget
// relative to the calling operation: every failure is logged, never returned.
type Notifier struct {
	repo   *repository.NotificationRepository
	admins AdminDirectory
	log    zerolog.Logger
}

func NewNotifier(repo *repository.NotificationRepository, admins AdminDirectory, log zerolog.Logger) *Notifier {
	return &Notifier{repo: repo, admins: admins, log: log}
}

// NotifyNewAppeal fans out one notification per active admin.
func (n *Notifier) NotifyNewAppeal(ctx context.Context, appealID uuid.UUID, violationID, citizenName string) {
	admins, err := n.admins.ListActiveAdmins(ctx)
	if err != nil {
		n.log.Error().Err(err).Str("appeal_id", appealID.String()).Msg("failed to resolve admin recipients")
		return
	}
	if len(admins) == 0 {
		return
	}

	notifications := make([]model.Notification, 0, len(admins))
	for _, admin := range admins {
		notifications = append(notifications, model.Notification{
			UserID:   admin.ID,
			AppealID: appealID,
			Type:     model.NotificationTypeReviewStarted,
			Title:    "New Appeal Submitted",
			Message:  fmt.Sprintf("A new appeal has been submitted by %s for violation %s. Please review it.", citizenName, violationID),
			Status:   model.NotificationStatusUnread,
		})
	}

	if err := n.repo.CreateBatch(ctx, notifications); err != nil {
		n.log.Error().Err(err).Str("appeal_id", appealID.String()).Msg("failed to notify admins of new appeal")
	}
}

// NotifyStatusChange sends the citizen a status-specific message. Transitions
// into pending produce nothing, that is the initial state, not a change.
func (n *Notifier) NotifyStatusChange(ctx context.Context, userID, appealID uuid.UUID, oldStatus, newStatus model.AppealStatus, violationID string) {
	var title, message string
	switch newStatus {
	case model.AppealStatusUnderReview:
		title = "Appeal Under Review"
		message = fmt.Sprintf("Your appeal for violation %s is now under review by an administrator.", violationID)
	case model.AppealStatusApproved:
		title = "Appeal Approved"
		message = fmt.Sprintf("Great news! Your appeal for violation %s has been approved.", violationID)
	case model.AppealStatusRejected:
		title = "Appeal Rejected"
		message = fmt.Sprintf("Your appeal for violation %s has been rejected. Please check the admin notes for details.", violationID)
	default:
		return
	}

	notification := &model.Notification{
		UserID:   userID,
		AppealID: appealID,
		Type:     model.NotificationTypeStatusChange,
		Title:    title,
		Message:  message,
		Status:   model.NotificationStatusUnread,
	}

	if err := n.repo.Create(ctx, notification); err != nil {
		n.log.Error().Err(err).
			Str("appeal_id", appealID.String()).
			Str("old_status", string(oldStatus)).
			Str("new_status", string(newStatus)).
			Msg("failed to notify citizen of status change")
	}
}
