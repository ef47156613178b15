package repository

import (
	"context"
	"time"

	"github.com/chorebattle/backend/internal/model"
	"gorm.io/gorm"
)

type LeaderboardRow struct {
	User             *model.User
	TotalCompletions int64
	PeriodPoints     int64
}

type PointsByType struct {
	Type   model.PointType `json:"type"`
	Points int64           `json:"points"`
}

type PointRepository interface {
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.PointHistory, int64, error)
	ListByHousehold(ctx context.Context, householdID string, offset, limit int) ([]model.PointHistory, int64, error)
	ListByChore(ctx context.Context, choreID string, offset, limit int) ([]model.PointHistory, int64, error)
	// CreateWithBalance appends a ledger entry and moves the user's cached
	// balance by the same delta, atomically.
	CreateWithBalance(ctx context.Context, entry *model.PointHistory) error
	SumByUser(ctx context.Context, userID string) (int64, error)
	SumByUserSince(ctx context.Context, userID string, since time.Time) (int64, error)
	SumByType(ctx context.Context, userID string) ([]PointsByType, error)
	CompletionCount(ctx context.Context, userID string) (int64, error)
}

type pointRepository struct {
	db *gorm.DB
}

func NewPointRepository(db *gorm.DB) PointRepository {
	return &pointRepository{db: db}
}

func historyWithRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Chore").
		Preload("RewardClaim").
		Preload("RewardClaim.Reward")
}

func (r *pointRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.PointHistory, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.PointHistory{}).Where("user_id = ?", userID)
	return r.list(q, offset, limit)
}

func (r *pointRepository) ListByHousehold(ctx context.Context, householdID string, offset, limit int) ([]model.PointHistory, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.PointHistory{}).Where("household_id = ?", householdID)
	return r.list(q, offset, limit)
}

func (r *pointRepository) ListByChore(ctx context.Context, choreID string, offset, limit int) ([]model.PointHistory, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.PointHistory{}).Where("chore_id = ?", choreID)
	return r.list(q, offset, limit)
}

func (r *pointRepository) list(q *gorm.DB, offset, limit int) ([]model.PointHistory, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.PointHistory
	if err := historyWithRelations(q).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *pointRepository) CreateWithBalance(ctx context.Context, entry *model.PointHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", entry.UserID).
			Update("total_points", gorm.Expr("total_points + ?", entry.Points)).Error
	})
}

func (r *pointRepository) SumByUser(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&model.PointHistory{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *pointRepository) SumByUserSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&model.PointHistory{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *pointRepository) SumByType(ctx context.Context, userID string) ([]PointsByType, error) {
	var rows []PointsByType
	err := r.db.WithContext(ctx).
		Model(&model.PointHistory{}).
		Where("user_id = ?", userID).
		Select("type, COALESCE(SUM(points), 0) AS points").
		Group("type").
		Scan(&rows).Error
	return rows, err
}

func (r *pointRepository) CompletionCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChoreCompletion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
