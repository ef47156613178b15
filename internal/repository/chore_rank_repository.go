package repository

import (
	"context"

	"github.com/chorebattle/backend/internal/model"
	"gorm.io/gorm"
)

type ChoreRankRepository interface {
	Create(ctx context.Context, rank *model.ChoreRank) error
	FindByID(ctx context.Context, id string) (*model.ChoreRank, error)
	// FindByName matches case-insensitively within the household.
	FindByName(ctx context.Context, householdID, name string) (*model.ChoreRank, error)
	ListByHousehold(ctx context.Context, householdID string) ([]model.ChoreRank, error)
	Update(ctx context.Context, rank *model.ChoreRank) error
	Delete(ctx context.Context, id string) error
	ChoreCount(ctx context.Context, rankID string) (int64, error)
}

type choreRankRepository struct {
	db *gorm.DB
}

func NewChoreRankRepository(db *gorm.DB) ChoreRankRepository {
	return &choreRankRepository{db: db}
}

func (r *choreRankRepository) Create(ctx context.Context, rank *model.ChoreRank) error {
	return r.db.WithContext(ctx).Create(rank).Error
}

func (r *choreRankRepository) FindByID(ctx context.Context, id string) (*model.ChoreRank, error) {
	var rank model.ChoreRank
	if err := r.db.WithContext(ctx).First(&rank, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rank, nil
}

func (r *choreRankRepository) FindByName(ctx context.Context, householdID, name string) (*model.ChoreRank, error) {
	var rank model.ChoreRank
	if err := r.db.WithContext(ctx).
		Where("household_id = ? AND LOWER(name) = LOWER(?)", householdID, name).
		First(&rank).Error; err != nil {
		return nil, err
	}
	return &rank, nil
}

func (r *choreRankRepository) ListByHousehold(ctx context.Context, householdID string) ([]model.ChoreRank, error) {
	var list []model.ChoreRank
	if err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("point_value ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *choreRankRepository) Update(ctx context.Context, rank *model.ChoreRank) error {
	return r.db.WithContext(ctx).Save(rank).Error
}

func (r *choreRankRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.ChoreRank{}, "id = ?", id).Error
}

func (r *choreRankRepository) ChoreCount(ctx context.Context, rankID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Chore{}).
		Where("rank_id = ?", rankID).
		Count(&count).Error
	return count, err
}
