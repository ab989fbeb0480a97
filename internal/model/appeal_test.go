package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitionTable(t *testing.T) {
	assert.True(t, AppealStatusPending.CanTransitionTo(AppealStatusUnderReview))
	assert.True(t, AppealStatusUnderReview.CanTransitionTo(AppealStatusApproved))
	assert.True(t, AppealStatusUnderReview.CanTransitionTo(AppealStatusRejected))

	// pending never skips review
	assert.False(t, AppealStatusPending.CanTransitionTo(AppealStatusApproved))
	assert.False(t, AppealStatusPending.CanTransitionTo(AppealStatusRejected))
}

// Terminal states absorb: every candidate next status must be rejected,
// including the state itself.
func TestTerminalStatesAbsorb(t *testing.T) {
	for _, terminal := range []AppealStatus{AppealStatusApproved, AppealStatusRejected} {
		require.True(t, terminal.Terminal())
		assert.Empty(t, terminal.AllowedNext())
		for _, next := range AllAppealStatuses {
			assert.False(t, terminal.CanTransitionTo(next),
				"%s -> %s must be illegal", terminal, next)
		}
	}
}

func TestSameStateTransitionIllegal(t *testing.T) {
	for _, status := range AllAppealStatuses {
		assert.False(t, status.CanTransitionTo(status), "%s -> %s", status, status)
	}
}

func TestStatusValid(t *testing.T) {
	for _, status := range AllAppealStatuses {
		assert.True(t, status.Valid())
	}
	assert.False(t, AppealStatus("closed").Valid())
	assert.False(t, AppealStatus("").Valid())
}

func TestAppealReasonValid(t *testing.T) {
	for _, reason := range []AppealReason{
		AppealReasonRoadObstruction,
		AppealReasonMedicalEmergency,
		AppealReasonTrafficDiversion,
		AppealReasonEnvironmentWeather,
		AppealReasonIncorrectDetection,
		AppealReasonOther,
	} {
		assert.True(t, reason.Valid())
	}
	assert.False(t, AppealReason("camera-error").Valid())
}

func TestAppealDeadline(t *testing.T) {
	tests := []struct {
		name      string
		violation string
		deadline  string
	}{
		{name: "plain", violation: "2026-03-01", deadline: "2026-03-15"},
		{name: "month boundary", violation: "2026-01-25", deadline: "2026-02-08"},
		{name: "leap day window", violation: "2024-02-16", deadline: "2024-03-01"},
		{name: "over leap day", violation: "2024-02-28", deadline: "2024-03-13"},
		{name: "non leap year", violation: "2023-02-16", deadline: "2023-03-02"},
		{name: "year boundary", violation: "2025-12-25", deadline: "2026-01-08"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violation, err := time.Parse("2006-01-02", tt.violation)
			require.NoError(t, err)
			want, err := time.Parse("2006-01-02", tt.deadline)
			require.NoError(t, err)
			assert.Equal(t, want, AppealDeadline(violation))
		})
	}
}

func TestTransitionPairsHistory(t *testing.T) {
	userID := uuid.New()
	reviewerID := uuid.New()
	now := time.Now()

	appeal := &Appeal{
		ID:          uuid.New(),
		ViolationID: "ABC12345",
		UserID:      userID,
		Status:      AppealStatusPending,
		SubmittedAt: now,
	}

	entry := appeal.Transition(AppealStatusUnderReview, reviewerID, "", "Status changed from pending to under-review", now)

	assert.Equal(t, AppealStatusUnderReview, appeal.Status)
	assert.Equal(t, appeal.ID, entry.AppealID)
	assert.Equal(t, AppealStatusUnderReview, entry.Status)
	assert.Equal(t, reviewerID, entry.ChangedBy)
	assert.Equal(t, now, entry.ChangedAt)
	assert.Equal(t, "Status changed from pending to under-review", entry.Reason)
}

func TestInitialHistory(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	appeal := &Appeal{ID: uuid.New(), UserID: userID, Status: AppealStatusPending, SubmittedAt: now}

	entry := appeal.InitialHistory()

	assert.Equal(t, AppealStatusPending, entry.Status)
	assert.Equal(t, userID, entry.ChangedBy)
	assert.Equal(t, "initial_submission", entry.Reason)
	assert.Equal(t, now, entry.ChangedAt)
}

func TestActive(t *testing.T) {
	assert.True(t, (&Appeal{Status: AppealStatusPending}).Active())
	assert.True(t, (&Appeal{Status: AppealStatusUnderReview}).Active())
	assert.False(t, (&Appeal{Status: AppealStatusApproved}).Active())
	assert.False(t, (&Appeal{Status: AppealStatusRejected}).Active())
}
