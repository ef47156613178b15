package repository

import (
	"context"
	"errors"
	"time"

	"github.com/chorebattle/backend/internal/model"
	"gorm.io/gorm"
)

// CompletionParams carries the values the settlement transaction writes.
// Streak and points are computed by the caller before the transaction
// starts; the already-complete check is repeated inside it.
type CompletionParams struct {
	ChoreID      string
	ChoreTitle   string
	UserID       string
	HouseholdID  string
	Streak       int
	PointsEarned int
	Reason       string
	Note         string
	PhotoURL     string
	DaysInterval int
	Now          time.Time
}

type CompletionResult struct {
	Completion   *model.ChoreCompletion
	History      *model.PointHistory
	Chore        *model.Chore
	PointsEarned int
}

type ChoreRepository interface {
	Create(ctx context.Context, chore *model.Chore) error
	FindByID(ctx context.Context, id string) (*model.Chore, error)
	ListByHousehold(ctx context.Context, householdID string) ([]model.Chore, error)
	Update(ctx context.Context, chore *model.Chore) error
	// Delete removes the chore together with its completion records and
	// detaches its ledger entries, atomically.
	Delete(ctx context.Context, id string) error
	LatestCompletion(ctx context.Context, choreID string) (*model.ChoreCompletion, error)
	RecentCompletions(ctx context.Context, choreID string, limit int) ([]model.ChoreCompletion, error)
	// ResetIfExpired flips an elapsed chore back to incomplete. The
	// conditional WHERE makes a second call a no-op.
	ResetIfExpired(ctx context.Context, choreID string, daysInterval int, now time.Time) (bool, error)
	// ApplyCompletion runs the settlement transaction: completion record,
	// ledger entry, user balance, chore state. Returns ErrAlreadyComplete
	// when another completion won the race.
	ApplyCompletion(ctx context.Context, p CompletionParams) (*CompletionResult, error)
	UnassignUser(ctx context.Context, householdID, userID string) error
	// ActiveStreaks lists household chores whose running streak belongs to
	// the given user.
	ActiveStreaks(ctx context.Context, householdID, userID string) ([]model.Chore, error)
}

type choreRepository struct {
	db *gorm.DB
}

func NewChoreRepository(db *gorm.DB) ChoreRepository {
	return &choreRepository{db: db}
}

func choreWithRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Rank").
		Preload("Frequency").
		Preload("AssignedTo").
		Preload("CreatedBy")
}

func (r *choreRepository) Create(ctx context.Context, chore *model.Chore) error {
	return r.db.WithContext(ctx).Create(chore).Error
}

func (r *choreRepository) FindByID(ctx context.Context, id string) (*model.Chore, error) {
	var chore model.Chore
	if err := choreWithRelations(r.db.WithContext(ctx)).
		First(&chore, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &chore, nil
}

func (r *choreRepository) ListByHousehold(ctx context.Context, householdID string) ([]model.Chore, error) {
	var list []model.Chore
	if err := choreWithRelations(r.db.WithContext(ctx)).
		Where("household_id = ?", householdID).
		Order("is_complete ASC").
		Order("next_reset ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *choreRepository) Update(ctx context.Context, chore *model.Chore) error {
	return r.db.WithContext(ctx).Save(chore).Error
}

func (r *choreRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.PointHistory{}).
			Where("chore_id = ?", id).
			Update("chore_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("chore_id = ?", id).Delete(&model.ChoreCompletion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Chore{}, "id = ?", id).Error
	})
}

func (r *choreRepository) LatestCompletion(ctx context.Context, choreID string) (*model.ChoreCompletion, error) {
	var completion model.ChoreCompletion
	err := r.db.WithContext(ctx).
		Where("chore_id = ?", choreID).
		Order("completed_at DESC").
		First(&completion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

func (r *choreRepository) RecentCompletions(ctx context.Context, choreID string, limit int) ([]model.ChoreCompletion, error) {
	var list []model.ChoreCompletion
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("chore_id = ?", choreID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *choreRepository) ResetIfExpired(ctx context.Context, choreID string, daysInterval int, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Chore{}).
		Where("id = ? AND next_reset <= ?", choreID, now).
		Updates(map[string]interface{}{
			"is_complete":    false,
			"current_streak": 0,
			"last_reset":     now,
			"next_reset":     now.Add(time.Duration(daysInterval) * 24 * time.Hour),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *choreRepository) ApplyCompletion(ctx context.Context, p CompletionParams) (*CompletionResult, error) {
	var result CompletionResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claimed := tx.Model(&model.Chore{}).
			Where("id = ? AND is_complete = ?", p.ChoreID, false).
			Updates(map[string]interface{}{
				"is_complete":       true,
				"current_streak":    p.Streak,
				"longest_streak":    gorm.Expr("CASE WHEN longest_streak >= ? THEN longest_streak ELSE ? END", p.Streak, p.Streak),
				"total_completions": gorm.Expr("total_completions + 1"),
				"last_completed_by": p.UserID,
				"next_reset":        p.Now.Add(time.Duration(p.DaysInterval) * 24 * time.Hour),
			})
		if claimed.Error != nil {
			return claimed.Error
		}
		if claimed.RowsAffected == 0 {
			return ErrAlreadyComplete
		}

		completion := &model.ChoreCompletion{
			ChoreID:      p.ChoreID,
			UserID:       p.UserID,
			HouseholdID:  p.HouseholdID,
			PointsEarned: p.PointsEarned,
			StreakCount:  p.Streak,
			Note:         p.Note,
			PhotoURL:     p.PhotoURL,
		}
		if err := tx.Create(completion).Error; err != nil {
			return err
		}

		choreID := p.ChoreID
		history := &model.PointHistory{
			Points:      p.PointsEarned,
			Type:        model.PointTypeChoreComplete,
			Reason:      p.Reason,
			UserID:      p.UserID,
			HouseholdID: p.HouseholdID,
			ChoreID:     &choreID,
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).
			Where("id = ?", p.UserID).
			Update("total_points", gorm.Expr("total_points + ?", p.PointsEarned)).Error; err != nil {
			return err
		}

		var updated model.Chore
		if err := choreWithRelations(tx).First(&updated, "id = ?", p.ChoreID).Error; err != nil {
			return err
		}

		result = CompletionResult{
			Completion:   completion,
			History:      history,
			Chore:        &updated,
			PointsEarned: p.PointsEarned,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *choreRepository) UnassignUser(ctx context.Context, householdID, userID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Chore{}).
		Where("household_id = ? AND assigned_to_id = ?", householdID, userID).
		Update("assigned_to_id", nil).Error
}

func (r *choreRepository) ActiveStreaks(ctx context.Context, householdID, userID string) ([]model.Chore, error) {
	var list []model.Chore
	if err := r.db.WithContext(ctx).
		Where("household_id = ? AND current_streak > 0 AND last_completed_by = ?", householdID, userID).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
