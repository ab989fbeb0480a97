package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppealStatus string

const (
	AppealStatusPending     AppealStatus = "pending"
	AppealStatusUnderReview AppealStatus = "under-review"
	AppealStatusApproved    AppealStatus = "approved"
	AppealStatusRejected    AppealStatus = "rejected"
)

// AllAppealStatuses lists every status the workflow knows about.
var AllAppealStatuses = []AppealStatus{
	AppealStatusPending,
	AppealStatusUnderReview,
	AppealStatusApproved,
	AppealStatusRejected,
}

// appealTransitions is the single source of truth for the review workflow.
// approved and rejected are terminal, nothing may leave them.
var appealTransitions = map[AppealStatus][]AppealStatus{
	AppealStatusPending:     {AppealStatusUnderReview},
	AppealStatusUnderReview: {AppealStatusApproved, AppealStatusRejected},
	AppealStatusApproved:    {},
	AppealStatusRejected:    {},
}

func (s AppealStatus) Valid() bool {
	_, ok := appealTransitions[s]
	return ok
}

func (s AppealStatus) Terminal() bool {
	return s == AppealStatusApproved || s == AppealStatusRejected
}

// AllowedNext returns the statuses reachable from s in a single step.
func (s AppealStatus) AllowedNext() []AppealStatus {
	next := appealTransitions[s]
	out := make([]AppealStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether a single-step move from s to next is legal.
// Moving to the same status is never legal.
func (s AppealStatus) CanTransitionTo(next AppealStatus) bool {
	if s == next {
		return false
	}
	for _, allowed := range appealTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type AppealReason string

const (
	AppealReasonRoadObstruction    AppealReason = "road-obstruction"
	AppealReasonMedicalEmergency   AppealReason = "medical-emergency"
	AppealReasonTrafficDiversion   AppealReason = "traffic-diversion"
	AppealReasonEnvironmentWeather AppealReason = "environmental-weather"
	AppealReasonIncorrectDetection AppealReason = "incorrect-detection"
	AppealReasonOther              AppealReason = "other"
)

var validAppealReasons = map[AppealReason]struct{}{
	AppealReasonRoadObstruction:    {},
	AppealReasonMedicalEmergency:   {},
	AppealReasonTrafficDiversion:   {},
	AppealReasonEnvironmentWeather: {},
	AppealReasonIncorrectDetection: {},
	AppealReasonOther:              {},
}

func (r AppealReason) Valid() bool {
	_, ok := validAppealReasons[r]
	return ok
}

// EvidenceType is a best-effort classification of the uploaded artifact,
// derived from the file extension or supplied by the caller. Descriptive only,
// never authoritative.
type EvidenceType string

const (
	EvidenceTypeImage          EvidenceType = "image"
	EvidenceTypePDF            EvidenceType = "pdf"
	EvidenceTypeVideoRecording EvidenceType = "video-recording"
	EvidenceTypeDocument       EvidenceType = "document"
	EvidenceTypeAccidentPhoto  EvidenceType = "accident-photo"
	EvidenceTypeMedicalProof   EvidenceType = "medical-proof"
	EvidenceTypeWitnessProof   EvidenceType = "witness-proof"
)

// AppealDeadlineDays is the statutory window for filing an appeal.
const AppealDeadlineDays = 14

// AppealDeadline derives the filing deadline from the violation date.
// Computed once at creation and never recomputed.
func AppealDeadline(violationDate time.Time) time.Time {
	return violationDate.AddDate(0, 0, AppealDeadlineDays)
}

type Appeal struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ViolationID    string       `gorm:"type:varchar(20);not null;index" json:"violation_id"`
	UserID         uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	AppealReason   AppealReason `gorm:"type:varchar(32);not null" json:"appeal_reason"`
	Description    string       `gorm:"type:text;not null" json:"description"`
	Evidence       string       `gorm:"type:text;not null" json:"-"`
	EvidenceType   EvidenceType `gorm:"type:varchar(32)" json:"evidence_type,omitempty"`
	Status         AppealStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	AdminNotes     string       `gorm:"type:text" json:"admin_notes,omitempty"`
	ReviewedBy     *uuid.UUID   `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time   `json:"reviewed_at,omitempty"`
	ViolationDate  time.Time    `gorm:"not null" json:"violation_date"`
	AppealDeadline time.Time    `gorm:"not null" json:"appeal_deadline"`
	SubmittedAt    time.Time    `gorm:"not null" json:"submitted_at"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	User          *User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reviewer      *User                 `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	StatusHistory []AppealStatusHistory `gorm:"foreignKey:AppealID" json:"status_history,omitempty"`
}

func (Appeal) TableName() string {
	return "appeals"
}

func (a *Appeal) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Active reports whether the appeal still occupies the one-active-appeal slot
// for its (violation, user) pair. Resolved appeals do not block resubmission.
func (a *Appeal) Active() bool {
	return a.Status == AppealStatusPending || a.Status == AppealStatusUnderReview
}

// ActiveAppealStatuses are the statuses counted by the duplicate check.
var ActiveAppealStatuses = []AppealStatus{AppealStatusPending, AppealStatusUnderReview}

// Transition mutates the status and returns the matching history entry.
// Status never changes except through here or InitialHistory, so every
// mutation is paired with exactly one history row.
func (a *Appeal) Transition(newStatus AppealStatus, changedBy uuid.UUID, notes, reason string, at time.Time) AppealStatusHistory {
	a.Status = newStatus
	a.UpdatedAt = at
	return AppealStatusHistory{
		AppealID:  a.ID,
		Status:    newStatus,
		ChangedBy: changedBy,
		ChangedAt: at,
		Notes:     notes,
		Reason:    reason,
	}
}

// InitialHistory records the implicit move into pending at submission time.
func (a *Appeal) InitialHistory() AppealStatusHistory {
	return AppealStatusHistory{
		AppealID:  a.ID,
		Status:    AppealStatusPending,
		ChangedBy: a.UserID,
		ChangedAt: a.SubmittedAt,
		Notes:     "Appeal submitted",
		Reason:    "initial_submission",
	}
}
