package repository

import (
	"context"

	"github.com/chorebattle/backend/internal/model"
	"gorm.io/gorm"
)

type HouseholdRepository interface {
	// Create persists the household, its seed taxonomies, and the owner's
	// membership in one transaction.
	Create(ctx context.Context, h *model.Household, ranks []model.ChoreRank, freqs []model.ChoreFrequency) error
	FindByID(ctx context.Context, id string) (*model.Household, error)
	FindByInviteCode(ctx context.Context, code string) (*model.Household, error)
	FindByOwner(ctx context.Context, ownerID string) (*model.Household, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdateOwner(ctx context.Context, id, newOwnerID string) error
	UpdateInviteCode(ctx context.Context, id, code string) error
	DeleteCascade(ctx context.Context, id string) error
}

type householdRepository struct {
	db *gorm.DB
}

func NewHouseholdRepository(db *gorm.DB) HouseholdRepository {
	return &householdRepository{db: db}
}

func (r *householdRepository) Create(ctx context.Context, h *model.Household, ranks []model.ChoreRank, freqs []model.ChoreFrequency) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(h).Error; err != nil {
			return err
		}
		for i := range ranks {
			ranks[i].HouseholdID = h.ID
		}
		if err := tx.Create(&ranks).Error; err != nil {
			return err
		}
		for i := range freqs {
			freqs[i].HouseholdID = h.ID
		}
		if err := tx.Create(&freqs).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", h.OwnerID).
			Update("household_id", h.ID).Error
	})
}

func (r *householdRepository) FindByID(ctx context.Context, id string) (*model.Household, error) {
	var h model.Household
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members").
		First(&h, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *householdRepository) FindByInviteCode(ctx context.Context, code string) (*model.Household, error) {
	var h model.Household
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("invite_code = ?", code).
		First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *householdRepository) FindByOwner(ctx context.Context, ownerID string) (*model.Household, error) {
	var h model.Household
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *householdRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.db.WithContext(ctx).
		Model(&model.Household{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (r *householdRepository) UpdateOwner(ctx context.Context, id, newOwnerID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Household{}).
		Where("id = ?", id).
		Update("owner_id", newOwnerID).Error
}

func (r *householdRepository) UpdateInviteCode(ctx context.Context, id, code string) error {
	return r.db.WithContext(ctx).
		Model(&model.Household{}).
		Where("id = ?", id).
		Update("invite_code", code).Error
}

// DeleteCascade removes every household-scoped row in FK-safe order:
// ledger entries, completions, chores, claims, rewards, frequencies, ranks,
// member detachment, and finally the household itself. All-or-nothing.
func (r *householdRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("household_id = ?", id).Delete(&model.PointHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("household_id = ?", id).Delete(&model.ChoreCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("household_id = ?", id).Delete(&model.Chore{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reward_id IN (?)",
			tx.Model(&model.Reward{}).Select("id").Where("household_id = ?", id),
		).Delete(&model.RewardClaim{}).Error; err != nil {
			return err
		}
		if err := tx.Where("household_id = ?", id).Delete(&model.Reward{}).Error; err != nil {
			return err
		}
		if err := tx.Where("household_id = ?", id).Delete(&model.ChoreFrequency{}).Error; err != nil {
			return err
		}
		if err := tx.Where("household_id = ?", id).Delete(&model.ChoreRank{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.User{}).
			Where("household_id = ?", id).
			Update("household_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Household{}, "id = ?", id).Error
	})
}
