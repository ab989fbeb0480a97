package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/model"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/repository"
)

// RequestContext carries client metadata captured at the HTTP boundary.
type RequestContext struct {
	IPAddress string
	UserAgent string
}

// AuditRecorder appends immutable audit facts. Failures are logged and
// swallowed: audit is observability, not a transactional participant, and
// must never abort the primary state change.
type AuditRecorder struct {
	repo *repository.AuditLogRepository
	log  zerolog.Logger
}

func NewAuditRecorder(repo *repository.AuditLogRepository, log zerolog.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, log: log}
}

func (r *AuditRecorder) Log(ctx context.Context, action model.AuditAction, subjectUserID, performedBy uuid.UUID, details model.AuditDetails, reqCtx RequestContext) {
	r.append(ctx, &model.AuditLog{
		Action:      action,
		UserID:      subjectUserID,
		PerformedBy: performedBy,
		Details:     details,
		IPAddress:   reqCtx.IPAddress,
		UserAgent:   reqCtx.UserAgent,
		Timestamp:   time.Now(),
	})
}

func (r *AuditRecorder) LogAppealAction(ctx context.Context, action model.AuditAction, appealID, subjectUserID, performedBy uuid.UUID, details model.AuditDetails, reqCtx RequestContext) {
	id := appealID
	r.append(ctx, &model.AuditLog{
		Action:      action,
		UserID:      subjectUserID,
		AppealID:    &id,
		PerformedBy: performedBy,
		Details:     details,
		IPAddress:   reqCtx.IPAddress,
		UserAgent:   reqCtx.UserAgent,
		Timestamp:   time.Now(),
	})
}

func (r *AuditRecorder) append(ctx context.Context, entry *model.AuditLog) {
	if err := r.repo.Append(ctx, entry); err != nil {
		r.log.Error().Err(err).
			Str("action", string(entry.Action)).
			Str("performed_by", entry.PerformedBy.String()).
			Msg("audit append failed")
	}
}
