package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/model"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/repository"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/validate"
)

// AppealService orchestrates the appeal lifecycle: submission, staged review,
// and the audit/notification side effects of each transition.
type AppealService struct {
	appealRepo *repository.AppealRepository
	audit      *AuditRecorder
	notifier   *Notifier
	now        func() time.Time
}

func NewAppealService(appealRepo *repository.AppealRepository, audit *AuditRecorder, notifier *Notifier) *AppealService {
	return &AppealService{
		appealRepo: appealRepo,
		audit:      audit,
		notifier:   notifier,
		now:        time.Now,
	}
}

type CreateAppealInput struct {
	ViolationID   string
	AppealReason  string
	Description   string
	EvidenceRef   string
	EvidenceName  string
	EvidenceType  string
	ViolationDate *time.Time
}

// Create runs the submission pipeline: validation, duplicate check, evidence
// requirement, persistence, audit, admin fan-out. Every precondition is
// checked before anything is written; audit and notification failures never
// surface to the caller.
func (s *AppealService) Create(ctx context.Context, principal model.Principal, input CreateAppealInput, reqCtx RequestContext) (*model.Appeal, error) {
	fields := map[string]string{}

	violationID, err := validate.ViolationID(input.ViolationID)
	if err != nil {
		fields["violation_id"] = err.Error()
	}

	reason := model.AppealReason(strings.TrimSpace(input.AppealReason))
	if reason == "" {
		fields["appeal_reason"] = "Appeal reason is required"
	} else if !reason.Valid() {
		fields["appeal_reason"] = "Invalid appeal context"
	}

	description, err := validate.Description(input.Description)
	if err != nil {
		fields["description"] = err.Error()
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	existing, err := s.appealRepo.FindActiveDuplicate(ctx, violationID, principal.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateAppealError{
			ViolationID: violationID,
			ExistingID:  existing.ID,
			Status:      existing.Status,
			SubmittedAt: existing.SubmittedAt,
		}
	}

	if strings.TrimSpace(input.EvidenceRef) == "" {
		return nil, newFieldError("evidence", "Evidence upload is mandatory for all appeals. Please provide supporting documents.")
	}

	now := s.now()
	violationDate := now
	if input.ViolationDate != nil && !input.ViolationDate.IsZero() {
		violationDate = *input.ViolationDate
	}

	appeal := &model.Appeal{
		ViolationID:    violationID,
		UserID:         principal.UserID,
		AppealReason:   reason,
		Description:    description,
		Evidence:       input.EvidenceRef,
		EvidenceType:   classifyEvidence(input.EvidenceType, input.EvidenceName),
		Status:         model.AppealStatusPending,
		ViolationDate:  violationDate,
		AppealDeadline: model.AppealDeadline(violationDate),
		SubmittedAt:    now,
	}

	if err := s.appealRepo.Create(ctx, appeal); err != nil {
		// The partial unique index is the backstop against a race between
		// the duplicate check and the insert; surface the same shape.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, dupErr := s.appealRepo.FindActiveDuplicate(ctx, violationID, principal.UserID); dupErr == nil && existing != nil {
				return nil, &DuplicateAppealError{
					ViolationID: violationID,
					ExistingID:  existing.ID,
					Status:      existing.Status,
					SubmittedAt: existing.SubmittedAt,
				}
			}
			return nil, &DuplicateAppealError{ViolationID: violationID, Status: model.AppealStatusPending}
		}
		return nil, err
	}

	s.audit.LogAppealAction(ctx, model.AuditActionAppealCreated, appeal.ID, principal.UserID, principal.UserID, model.AuditDetails{
		"violation_id":  appeal.ViolationID,
		"appeal_reason": string(appeal.AppealReason),
		"has_evidence":  true,
	}, reqCtx)

	s.notifier.NotifyNewAppeal(ctx, appeal.ID, appeal.ViolationID, principal.FullName)

	return appeal, nil
}

// UpdateStatus moves an appeal one step through the review workflow. The
// transition-legality check and the mutation are atomic relative to other
// writers: the persisted update is guarded by the expected current status,
// and a lost race is reported as an illegal transition from the new state.
func (s *AppealService) UpdateStatus(ctx context.Context, reviewer model.Principal, appealID uuid.UUID, newStatus model.AppealStatus, adminNotes string, reqCtx RequestContext) (*model.StatusUpdateResult, error) {
	if !reviewer.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if !newStatus.Valid() {
		return nil, newFieldError("status", "Invalid status. Must be one of: pending, under-review, approved, rejected")
	}

	appeal, err := s.appealRepo.GetByID(ctx, appealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Conflict-of-interest rule: a reviewer never decides their own appeal,
	// regardless of role or target status.
	if appeal.UserID == reviewer.UserID {
		return nil, ErrSelfReview
	}

	if !appeal.Status.CanTransitionTo(newStatus) {
		return nil, &TransitionError{
			Current: appeal.Status,
			Target:  newStatus,
			Allowed: appeal.Status.AllowedNext(),
		}
	}

	adminNotes = strings.TrimSpace(adminNotes)
	if newStatus == model.AppealStatusRejected && len(adminNotes) < 10 {
		return nil, newFieldError("admin_notes", "Admin notes are required when rejecting an appeal (minimum 10 characters)")
	}

	oldStatus := appeal.Status
	now := s.now()

	history := appeal.Transition(newStatus, reviewer.UserID, adminNotes,
		"Status changed from "+string(oldStatus)+" to "+string(newStatus), now)
	if adminNotes != "" {
		appeal.AdminNotes = adminNotes
	}
	reviewerID := reviewer.UserID
	appeal.ReviewedBy = &reviewerID
	appeal.ReviewedAt = &now

	applied, err := s.appealRepo.ApplyTransition(ctx, appeal, oldStatus, history)
	if err != nil {
		return nil, err
	}
	if !applied {
		current, loadErr := s.appealRepo.GetByID(ctx, appealID)
		if loadErr != nil {
			return nil, loadErr
		}
		return nil, &TransitionError{
			Current: current.Status,
			Target:  newStatus,
			Allowed: current.Status.AllowedNext(),
		}
	}

	// Audit is written whether or not the notification below succeeds.
	s.audit.LogAppealAction(ctx, model.AuditActionAppealStatusChanged, appeal.ID, appeal.UserID, reviewer.UserID, model.AuditDetails{
		"old_status":   string(oldStatus),
		"new_status":   string(newStatus),
		"violation_id": appeal.ViolationID,
		"admin_notes":  adminNotes,
	}, reqCtx)

	s.notifier.NotifyStatusChange(ctx, appeal.UserID, appeal.ID, oldStatus, newStatus, appeal.ViolationID)

	return &model.StatusUpdateResult{
		ID:          appeal.ID,
		ViolationID: appeal.ViolationID,
		Status:      appeal.Status,
		ReviewedBy:  appeal.ReviewedBy,
		ReviewedAt:  appeal.ReviewedAt,
		AdminNotes:  appeal.AdminNotes,
	}, nil
}

type ListOptions struct {
	Statuses []model.AppealStatus
	Reasons  []model.AppealReason
	DateFrom *time.Time
	DateTo   *time.Time
	SortBy   string
	SortAsc  bool
	Page     int
	Limit    int
}

// ListOwn returns the caller's appeals. Evidence paths are never part of the
// list projection.
func (s *AppealService) ListOwn(ctx context.Context, principal model.Principal, opts ListOptions) (*model.AppealPage, error) {
	userID := principal.UserID
	return s.list(ctx, repository.AppealFilter{UserID: &userID}, opts)
}

// ListAll is the admin view over every appeal.
func (s *AppealService) ListAll(ctx context.Context, principal model.Principal, opts ListOptions) (*model.AppealPage, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.list(ctx, repository.AppealFilter{}, opts)
}

func (s *AppealService) list(ctx context.Context, filter repository.AppealFilter, opts ListOptions) (*model.AppealPage, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 10
	}

	filter.Statuses = opts.Statuses
	filter.Reasons = opts.Reasons
	filter.DateFrom = opts.DateFrom
	filter.DateTo = opts.DateTo
	filter.SortBy = opts.SortBy
	filter.SortAsc = opts.SortAsc
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	appeals, total, err := s.appealRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return &model.AppealPage{
		Appeals: appeals,
		Count:   len(appeals),
		Total:   total,
		Page:    page,
		Pages:   pages,
	}, nil
}

// Get returns the full record including the evidence URL. Citizens may only
// see their own appeals; the denial does not reveal whether the record exists.
func (s *AppealService) Get(ctx context.Context, principal model.Principal, appealID uuid.UUID) (*model.AppealDetail, error) {
	appeal, err := s.appealRepo.GetByID(ctx, appealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !principal.IsAdmin() && appeal.UserID != principal.UserID {
		return nil, ErrPermissionDenied
	}

	detail := &model.AppealDetail{Appeal: *appeal}
	if appeal.Evidence != "" {
		detail.EvidenceURL = "/uploads/" + filepath.Base(appeal.Evidence)
	}
	return detail, nil
}

func (s *AppealService) Statistics(ctx context.Context, principal model.Principal, from, to *time.Time) (*model.AppealStatistics, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.appealRepo.Statistics(ctx, from, to)
}

// classifyEvidence derives the descriptive evidence type from the explicit
// input or the original filename's extension. Best effort only.
func classifyEvidence(explicit, filename string) model.EvidenceType {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return model.EvidenceType(explicit)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return model.EvidenceTypeImage
	case ".pdf":
		return model.EvidenceTypePDF
	case ".mp4", ".avi", ".mov", ".wmv":
		return model.EvidenceTypeVideoRecording
	default:
		return model.EvidenceTypeDocument
	}
}
