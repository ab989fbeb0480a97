package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/model"
)

// UserRepository reads account projections owned by the identity service.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListActiveAdmins backs the notifier's recipient directory.
func (r *UserRepository) ListActiveAdmins(ctx context.Context) ([]model.User, error) {
	var admins []model.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", model.UserRoleAdmin, true).
		Find(&admins).Error
	return admins, err
}
