package repository

import (
	"context"

	"github.com/chorebattle/backend/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindHouseholdMember(ctx context.Context, householdID, userID string) (*model.User, error)
	ListByHousehold(ctx context.Context, householdID string) ([]model.User, error)
	SetHousehold(ctx context.Context, userID string, householdID *string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).
		Preload("Household").
		Where("email = ?", email).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindHouseholdMember(ctx context.Context, householdID, userID string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND household_id = ?", userID, householdID).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ListByHousehold(ctx context.Context, householdID string) ([]model.User, error) {
	var list []model.User
	if err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("total_points DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *userRepository) SetHousehold(ctx context.Context, userID string, householdID *string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("household_id", householdID).Error
}
