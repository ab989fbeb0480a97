package model

import (
	"time"

	"github.com/google/uuid"
)

type UserBrief struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

// AppealPublic is the projection returned from submission. The evidence path
// is never part of it.
type AppealPublic struct {
	ID           uuid.UUID    `json:"id"`
	ViolationID  string       `json:"violation_id"`
	AppealReason AppealReason `json:"appeal_reason"`
	Status       AppealStatus `json:"status"`
	SubmittedAt  time.Time    `json:"submitted_at"`
}

func (a *Appeal) Public() AppealPublic {
	return AppealPublic{
		ID:           a.ID,
		ViolationID:  a.ViolationID,
		AppealReason: a.AppealReason,
		Status:       a.Status,
		SubmittedAt:  a.SubmittedAt,
	}
}

// AppealDetail is the single-record view. EvidenceURL is only populated for
// callers that passed the ownership check.
type AppealDetail struct {
	Appeal
	EvidenceURL string `json:"evidence_url,omitempty"`
}

// StatusUpdateResult is the projection returned after a status transition.
type StatusUpdateResult struct {
	ID          uuid.UUID    `json:"id"`
	ViolationID string       `json:"violation_id"`
	Status      AppealStatus `json:"status"`
	ReviewedBy  *uuid.UUID   `json:"reviewed_by"`
	ReviewedAt  *time.Time   `json:"reviewed_at"`
	AdminNotes  string       `json:"admin_notes,omitempty"`
}

type AppealPage struct {
	Appeals []Appeal `json:"appeals"`
	Count   int      `json:"count"`
	Total   int64    `json:"total"`
	Page    int      `json:"page"`
	Pages   int64    `json:"pages"`
}

type StatusCount struct {
	Status AppealStatus `json:"status"`
	Count  int64        `json:"count"`
}

type ReasonCount struct {
	Reason AppealReason `json:"reason"`
	Count  int64        `json:"count"`
}

type StatisticsOverview struct {
	Total        int64   `json:"total"`
	Pending      int64   `json:"pending"`
	UnderReview  int64   `json:"under_review"`
	Approved     int64   `json:"approved"`
	Rejected     int64   `json:"rejected"`
	ApprovalRate float64 `json:"approval_rate"`
}

type AppealStatistics struct {
	Overview StatisticsOverview `json:"overview"`
	ByReason []ReasonCount      `json:"by_reason"`
	ByStatus []StatusCount      `json:"by_status"`
	Recent   []AppealPublic     `json:"recent_appeals"`
}
