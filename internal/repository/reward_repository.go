package repository

import (
	"context"
	"time"

	"github.com/chorebattle/backend/internal/model"
	"gorm.io/gorm"
)

type ClaimParams struct {
	Reward      *model.Reward
	UserID      string
	HouseholdID string
	Notes       string
}

type ClaimResult struct {
	Claim           *model.RewardClaim
	History         *model.PointHistory
	RemainingPoints int
}

type ResolveParams struct {
	ClaimID     string
	UserID      string // claim owner, refund target on cancellation
	HouseholdID string
	RewardTitle string
	PointsCost  int
	Status      model.ClaimStatus
	Notes       *string
	Now         time.Time
}

type RewardRepository interface {
	Create(ctx context.Context, reward *model.Reward) error
	FindByID(ctx context.Context, id string) (*model.Reward, error)
	ListByHousehold(ctx context.Context, householdID string, offset, limit int) ([]model.Reward, int64, error)
	CompletedClaimCount(ctx context.Context, rewardID string) (int64, error)
	PendingClaimCount(ctx context.Context, rewardID string) (int64, error)
	LatestClaimByUser(ctx context.Context, rewardID, userID string) (*model.RewardClaim, error)
	SoftDelete(ctx context.Context, rewardID string, now time.Time) error
	Delete(ctx context.Context, rewardID string) error

	FindClaimByID(ctx context.Context, claimID string) (*model.RewardClaim, error)
	ListClaimsByUser(ctx context.Context, userID string, status model.ClaimStatus, offset, limit int) ([]model.RewardClaim, int64, error)
	ListClaimsByHousehold(ctx context.Context, householdID string, status model.ClaimStatus, offset, limit int) ([]model.RewardClaim, int64, error)
	// ApplyClaim debits the user and creates the PENDING claim plus its
	// ledger entry in one transaction. The balance check is a conditional
	// update, so a racing claim cannot drive the balance negative; a lost
	// race returns ErrInsufficientPoints.
	ApplyClaim(ctx context.Context, p ClaimParams) (*ClaimResult, error)
	// ResolveClaim transitions a PENDING claim and, on cancellation, refunds
	// the snapshotted cost. Non-PENDING claims return ErrClaimNotPending.
	ResolveClaim(ctx context.Context, p ResolveParams) (*model.RewardClaim, error)
}

type rewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) Create(ctx context.Context, reward *model.Reward) error {
	return r.db.WithContext(ctx).Create(reward).Error
}

func (r *rewardRepository) FindByID(ctx context.Context, id string) (*model.Reward, error) {
	var reward model.Reward
	if err := r.db.WithContext(ctx).First(&reward, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *rewardRepository) ListByHousehold(ctx context.Context, householdID string, offset, limit int) ([]model.Reward, int64, error) {
	var list []model.Reward
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Reward{}).Where("household_id = ?", householdID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *rewardRepository) CompletedClaimCount(ctx context.Context, rewardID string) (int64, error) {
	return r.countClaims(ctx, rewardID, model.ClaimStatusCompleted)
}

func (r *rewardRepository) PendingClaimCount(ctx context.Context, rewardID string) (int64, error) {
	return r.countClaims(ctx, rewardID, model.ClaimStatusPending)
}

func (r *rewardRepository) countClaims(ctx context.Context, rewardID string, status model.ClaimStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RewardClaim{}).
		Where("reward_id = ? AND status = ?", rewardID, status).
		Count(&count).Error
	return count, err
}

func (r *rewardRepository) LatestClaimByUser(ctx context.Context, rewardID, userID string) (*model.RewardClaim, error) {
	var claim model.RewardClaim
	err := r.db.WithContext(ctx).
		Where("reward_id = ? AND user_id = ?", rewardID, userID).
		Order("claimed_at DESC").
		First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *rewardRepository) SoftDelete(ctx context.Context, rewardID string, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Reward{}).
		Where("id = ?", rewardID).
		Updates(map[string]interface{}{
			"is_deleted":    true,
			"deleted_at":    now,
			"is_repeatable": false,
			"max_claims":    0,
		}).Error
}

func (r *rewardRepository) Delete(ctx context.Context, rewardID string) error {
	return r.db.WithContext(ctx).Delete(&model.Reward{}, "id = ?", rewardID).Error
}

func (r *rewardRepository) FindClaimByID(ctx context.Context, claimID string) (*model.RewardClaim, error) {
	var claim model.RewardClaim
	if err := r.db.WithContext(ctx).
		Preload("Reward").
		Preload("User").
		First(&claim, "id = ?", claimID).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *rewardRepository) ListClaimsByUser(ctx context.Context, userID string, status model.ClaimStatus, offset, limit int) ([]model.RewardClaim, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.RewardClaim{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return r.listClaims(q, offset, limit)
}

func (r *rewardRepository) ListClaimsByHousehold(ctx context.Context, householdID string, status model.ClaimStatus, offset, limit int) ([]model.RewardClaim, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.RewardClaim{}).
		Joins("JOIN rewards ON rewards.id = reward_claims.reward_id").
		Where("rewards.household_id = ?", householdID)
	if status != "" {
		q = q.Where("reward_claims.status = ?", status)
	}
	return r.listClaims(q, offset, limit)
}

func (r *rewardRepository) listClaims(q *gorm.DB, offset, limit int) ([]model.RewardClaim, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.RewardClaim
	if err := q.
		Preload("Reward").
		Preload("User").
		Order("claimed_at DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *rewardRepository) ApplyClaim(ctx context.Context, p ClaimParams) (*ClaimResult, error) {
	var result ClaimResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		debit := tx.Model(&model.User{}).
			Where("id = ? AND total_points >= ?", p.UserID, p.Reward.PointsCost).
			Update("total_points", gorm.Expr("total_points - ?", p.Reward.PointsCost))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return ErrInsufficientPoints
		}

		claim := &model.RewardClaim{
			UserID:     p.UserID,
			RewardID:   p.Reward.ID,
			PointsCost: p.Reward.PointsCost,
			Status:     model.ClaimStatusPending,
			Notes:      p.Notes,
		}
		if err := tx.Create(claim).Error; err != nil {
			return err
		}

		claimID := claim.ID
		history := &model.PointHistory{
			Points:        -p.Reward.PointsCost,
			Type:          model.PointTypeRewardClaimed,
			Reason:        "Claimed Reward: " + p.Reward.Title,
			UserID:        p.UserID,
			HouseholdID:   p.HouseholdID,
			RewardClaimID: &claimID,
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}

		var user model.User
		if err := tx.First(&user, "id = ?", p.UserID).Error; err != nil {
			return err
		}

		result = ClaimResult{Claim: claim, History: history, RemainingPoints: user.TotalPoints}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *rewardRepository) ResolveClaim(ctx context.Context, p ResolveParams) (*model.RewardClaim, error) {
	var resolved model.RewardClaim
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": p.Status}
		if p.Notes != nil {
			updates["notes"] = *p.Notes
		}
		switch p.Status {
		case model.ClaimStatusCompleted:
			updates["completed_at"] = p.Now
		case model.ClaimStatusCancelled:
			updates["cancelled_at"] = p.Now
		}

		res := tx.Model(&model.RewardClaim{}).
			Where("id = ? AND status = ?", p.ClaimID, model.ClaimStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrClaimNotPending
		}

		if p.Status == model.ClaimStatusCancelled {
			claimID := p.ClaimID
			refund := &model.PointHistory{
				Points:        p.PointsCost,
				Type:          model.PointTypeRewardClaimed,
				Reason:        "Refund for cancelled reward: " + p.RewardTitle,
				UserID:        p.UserID,
				HouseholdID:   p.HouseholdID,
				RewardClaimID: &claimID,
			}
			if err := tx.Create(refund).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.User{}).
				Where("id = ?", p.UserID).
				Update("total_points", gorm.Expr("total_points + ?", p.PointsCost)).Error; err != nil {
				return err
			}
		}

		return tx.Preload("Reward").Preload("User").First(&resolved, "id = ?", p.ClaimID).Error
	})
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}
