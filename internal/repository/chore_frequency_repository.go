package repository

import (
	"context"
	"time"

	"github.com/chorebattle/backend/internal/model"
	"gorm.io/gorm"
)

type ChoreFrequencyRepository interface {
	Create(ctx context.Context, freq *model.ChoreFrequency) error
	FindByID(ctx context.Context, id string) (*model.ChoreFrequency, error)
	FindByName(ctx context.Context, householdID, name string) (*model.ChoreFrequency, error)
	ListByHousehold(ctx context.Context, householdID string) ([]model.ChoreFrequency, error)
	// UpdateWithReschedule saves the frequency and, when rescheduleChores is
	// set, recomputes nextReset for every dependent chore from its lastReset,
	// in the same transaction.
	UpdateWithReschedule(ctx context.Context, freq *model.ChoreFrequency, rescheduleChores bool) error
	Delete(ctx context.Context, id string) error
	ChoreCount(ctx context.Context, freqID string) (int64, error)
}

type choreFrequencyRepository struct {
	db *gorm.DB
}

func NewChoreFrequencyRepository(db *gorm.DB) ChoreFrequencyRepository {
	return &choreFrequencyRepository{db: db}
}

func (r *choreFrequencyRepository) Create(ctx context.Context, freq *model.ChoreFrequency) error {
	return r.db.WithContext(ctx).Create(freq).Error
}

func (r *choreFrequencyRepository) FindByID(ctx context.Context, id string) (*model.ChoreFrequency, error) {
	var freq model.ChoreFrequency
	if err := r.db.WithContext(ctx).First(&freq, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &freq, nil
}

func (r *choreFrequencyRepository) FindByName(ctx context.Context, householdID, name string) (*model.ChoreFrequency, error) {
	var freq model.ChoreFrequency
	if err := r.db.WithContext(ctx).
		Where("household_id = ? AND LOWER(name) = LOWER(?)", householdID, name).
		First(&freq).Error; err != nil {
		return nil, err
	}
	return &freq, nil
}

func (r *choreFrequencyRepository) ListByHousehold(ctx context.Context, householdID string) ([]model.ChoreFrequency, error) {
	var list []model.ChoreFrequency
	if err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("days_interval ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *choreFrequencyRepository) UpdateWithReschedule(ctx context.Context, freq *model.ChoreFrequency, rescheduleChores bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(freq).Error; err != nil {
			return err
		}
		if !rescheduleChores {
			return nil
		}
		var chores []model.Chore
		if err := tx.Where("frequency_id = ?", freq.ID).Find(&chores).Error; err != nil {
			return err
		}
		interval := time.Duration(freq.DaysInterval) * 24 * time.Hour
		for i := range chores {
			nextReset := chores[i].LastReset.Add(interval)
			if err := tx.Model(&model.Chore{}).
				Where("id = ?", chores[i].ID).
				Update("next_reset", nextReset).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *choreFrequencyRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.ChoreFrequency{}, "id = ?", id).Error
}

func (r *choreFrequencyRepository) ChoreCount(ctx context.Context, freqID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Chore{}).
		Where("frequency_id = ?", freqID).
		Count(&count).Error
	return count, err
}
