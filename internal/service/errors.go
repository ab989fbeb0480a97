package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/model"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	// ErrSelfReview rejects a reviewer deciding their own appeal. Distinct
	// from TransitionError so callers can tell the two rules apart.
	ErrSelfReview = errors.New("you cannot review your own appeal, please assign it to another administrator")
)

// ValidationError carries field-level rejection reasons. Produced before any
// store write, so a rejected request never leaves a partial record.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newFieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// DuplicateAppealError reports an existing active appeal for the same
// (violation, user) pair, with enough state for the caller to route the user
// to the existing record instead of retrying.
type DuplicateAppealError struct {
	ViolationID string
	ExistingID  uuid.UUID
	Status      model.AppealStatus
	SubmittedAt time.Time
}

func (e *DuplicateAppealError) Error() string {
	return fmt.Sprintf("an appeal for violation %s is already %s, please wait for it to be processed", e.ViolationID, e.Status)
}

// TransitionError reports an illegal status transition together with the
// current status and the legal next states, programmatically inspectable.
type TransitionError struct {
	Current model.AppealStatus
	Target  model.AppealStatus
	Allowed []model.AppealStatus
}

func (e *TransitionError) Error() string {
	if e.Current == e.Target {
		return fmt.Sprintf("appeal is already %s", e.Current)
	}
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot change status of a finalized appeal (current: %s)", e.Current)
	}
	allowed := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		allowed = append(allowed, string(s))
	}
	return fmt.Sprintf("cannot transition from %s to %s, valid transitions: %s", e.Current, e.Target, strings.Join(allowed, ", "))
}
