package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/model"
)

type AppealRepository struct {
	db *gorm.DB
}

func NewAppealRepository(db *gorm.DB) *AppealRepository {
	return &AppealRepository{db: db}
}

type AppealFilter struct {
	UserID   *uuid.UUID
	Statuses []model.AppealStatus
	Reasons  []model.AppealReason
	DateFrom *time.Time
	DateTo   *time.Time
	SortBy   string
	SortAsc  bool
	Limit    int
	Offset   int
}

var sortableColumns = map[string]string{
	"created_at":   "created_at",
	"submitted_at": "submitted_at",
	"updated_at":   "updated_at",
	"status":       "status",
	"violation_id": "violation_id",
}

func (r *AppealRepository) List(ctx context.Context, filter AppealFilter) ([]model.Appeal, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Appeal{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Reasons) > 0 {
		query = query.Where("appeal_reason IN ?", filter.Reasons)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortableColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := column + " DESC"
	if filter.SortAsc {
		order = column + " ASC"
	}
	query = query.Order(order)

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(100)
	}

	var appeals []model.Appeal
	if err := query.
		Preload("User").
		Preload("Reviewer").
		Find(&appeals).Error; err != nil {
		return nil, 0, err
	}

	return appeals, total, nil
}

func (r *AppealRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appeal, error) {
	var appeal model.Appeal
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Reviewer").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("appeal_status_history.changed_at ASC")
		}).
		First(&appeal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appeal, nil
}

// FindActiveDuplicate returns the existing active appeal for the
// (violation, user) pair, or nil when the slot is free.
func (r *AppealRepository) FindActiveDuplicate(ctx context.Context, violationID string, userID uuid.UUID) (*model.Appeal, error) {
	var appeal model.Appeal
	err := r.db.WithContext(ctx).
		Where("violation_id = ? AND user_id = ? AND status IN ?", violationID, userID, model.ActiveAppealStatuses).
		First(&appeal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appeal, nil
}

// Create persists the appeal together with its initial history entry. The
// partial unique index on (violation_id, user_id) is the final arbiter
// against concurrent submissions; a lost race surfaces as
// gorm.ErrDuplicatedKey.
func (r *AppealRepository) Create(ctx context.Context, appeal *model.Appeal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(appeal).Error; err != nil {
			return err
		}
		history := appeal.InitialHistory()
		return tx.Create(&history).Error
	})
}

// ApplyTransition persists a status change guarded by the expected current
// status. Returns false when another writer got there first; nothing is
// written in that case.
func (r *AppealRepository) ApplyTransition(ctx context.Context, appeal *model.Appeal, expected model.AppealStatus, history model.AppealStatusHistory) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Appeal{}).
			Where("id = ? AND status = ?", appeal.ID, expected).
			Updates(map[string]interface{}{
				"status":      appeal.Status,
				"admin_notes": appeal.AdminNotes,
				"reviewed_by": appeal.ReviewedBy,
				"reviewed_at": appeal.ReviewedAt,
				"updated_at":  appeal.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		return tx.Create(&history).Error
	})
	return applied, err
}

func (r *AppealRepository) Statistics(ctx context.Context, from, to *time.Time) (*model.AppealStatistics, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.Appeal{})
		if from != nil {
			q = q.Where("created_at >= ?", *from)
		}
		if to != nil {
			q = q.Where("created_at <= ?", *to)
		}
		return q
	}

	stats := &model.AppealStatistics{}

	if err := scoped().Count(&stats.Overview.Total).Error; err != nil {
		return nil, err
	}

	var byStatus []model.StatusCount
	if err := scoped().
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	stats.ByStatus = byStatus

	for _, sc := range byStatus {
		switch sc.Status {
		case model.AppealStatusPending:
			stats.Overview.Pending = sc.Count
		case model.AppealStatusUnderReview:
			stats.Overview.UnderReview = sc.Count
		case model.AppealStatusApproved:
			stats.Overview.Approved = sc.Count
		case model.AppealStatusRejected:
			stats.Overview.Rejected = sc.Count
		}
	}

	if processed := stats.Overview.Approved + stats.Overview.Rejected; processed > 0 {
		stats.Overview.ApprovalRate = float64(stats.Overview.Approved) / float64(processed) * 100
	}

	var byReason []model.ReasonCount
	if err := scoped().
		Select("appeal_reason AS reason, COUNT(*) AS count").
		Group("appeal_reason").
		Order("count DESC").
		Scan(&byReason).Error; err != nil {
		return nil, err
	}
	stats.ByReason = byReason

	var recent []model.Appeal
	if err := scoped().
		Order("created_at DESC").
		Limit(10).
		Find(&recent).Error; err != nil {
		return nil, err
	}
	stats.Recent = make([]model.AppealPublic, 0, len(recent))
	for i := range recent {
		stats.Recent = append(stats.Recent, recent[i].Public())
	}

	return stats, nil
}
