package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chorebattle/backend/internal/model"
	"github.com/chorebattle/backend/internal/repository"
	"gorm.io/gorm"
)

// RewardSummary decorates a reward with claim state for the listing view.
type RewardSummary struct {
	Reward      *model.Reward
	TotalClaims int64
	IsClaimable bool
	LastClaim   *model.RewardClaim
}

type RewardCreate struct {
	Title        string
	Description  string
	PointsCost   int
	IsRepeatable bool
	MaxClaims    *int
}

type ClaimPage struct {
	Claims []model.RewardClaim
	Total  int64
}

type RewardService interface {
	List(ctx context.Context, userID, householdID string, offset, limit int) ([]RewardSummary, int64, error)
	Create(ctx context.Context, householdID string, in RewardCreate) (*model.Reward, error)
	Get(ctx context.Context, householdID, id string) (*model.Reward, error)
	// Delete keeps rewards with completed claims as soft-deleted history;
	// rewards with pending claims cannot be deleted at all.
	Delete(ctx context.Context, householdID, id string) error
	Claim(ctx context.Context, userID, householdID, id, notes string) (*repository.ClaimResult, error)
	ResolveClaim(ctx context.Context, householdID, claimID string, status model.ClaimStatus, notes *string) (*model.RewardClaim, error)
	MyClaims(ctx context.Context, userID string, status model.ClaimStatus, offset, limit int) (*ClaimPage, error)
	HouseholdClaims(ctx context.Context, householdID string, status model.ClaimStatus, offset, limit int) (*ClaimPage, error)
}

type rewardService struct {
	rewardRepo repository.RewardRepository
	userRepo   repository.UserRepository
	now        func() time.Time
}

func NewRewardService(rewardRepo repository.RewardRepository, userRepo repository.UserRepository) RewardService {
	return &rewardService{rewardRepo: rewardRepo, userRepo: userRepo, now: time.Now}
}

// claimable reports whether the reward can still be claimed. Repeatable
// rewards always are; non-repeatable ones are capped by maxClaims counted
// over COMPLETED claims, or unlimited when no cap is set. Soft-deleted
// rewards never are.
func (s *rewardService) claimable(ctx context.Context, reward *model.Reward) (bool, int64, error) {
	completed, err := s.rewardRepo.CompletedClaimCount(ctx, reward.ID)
	if err != nil {
		return false, 0, err
	}
	if reward.IsDeleted {
		return false, completed, nil
	}
	if reward.IsRepeatable || reward.MaxClaims == nil {
		return true, completed, nil
	}
	return completed < int64(*reward.MaxClaims), completed, nil
}

func (s *rewardService) List(ctx context.Context, userID, householdID string, offset, limit int) ([]RewardSummary, int64, error) {
	if householdID == "" {
		return nil, 0, ErrNoHousehold
	}
	rewards, total, err := s.rewardRepo.ListByHousehold(ctx, householdID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	summaries := make([]RewardSummary, 0, len(rewards))
	for i := range rewards {
		ok, completed, err := s.claimable(ctx, &rewards[i])
		if err != nil {
			return nil, 0, err
		}
		last, err := s.rewardRepo.LatestClaimByUser(ctx, rewards[i].ID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, err
		}
		summaries = append(summaries, RewardSummary{
			Reward:      &rewards[i],
			TotalClaims: completed,
			IsClaimable: ok,
			LastClaim:   last,
		})
	}
	return summaries, total, nil
}

func (s *rewardService) Create(ctx context.Context, householdID string, in RewardCreate) (*model.Reward, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || len(in.Title) > 100 {
		return nil, fmt.Errorf("%w: title must be 1-100 characters", ErrInvalid)
	}
	if in.PointsCost <= 0 {
		return nil, fmt.Errorf("%w: points cost must be positive", ErrInvalid)
	}
	if in.MaxClaims != nil && *in.MaxClaims <= 0 {
		return nil, fmt.Errorf("%w: max claims must be positive", ErrInvalid)
	}

	reward := &model.Reward{
		Title:        in.Title,
		Description:  in.Description,
		PointsCost:   in.PointsCost,
		IsRepeatable: in.IsRepeatable,
		MaxClaims:    in.MaxClaims,
		HouseholdID:  householdID,
	}
	if err := s.rewardRepo.Create(ctx, reward); err != nil {
		return nil, translateErr(err)
	}
	return reward, nil
}

func (s *rewardService) findHouseholdReward(ctx context.Context, householdID, id string) (*model.Reward, error) {
	reward, err := s.rewardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateErr(err)
	}
	if reward.HouseholdID != householdID {
		return nil, ErrNotFound
	}
	return reward, nil
}

func (s *rewardService) Get(ctx context.Context, householdID, id string) (*model.Reward, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	return s.findHouseholdReward(ctx, householdID, id)
}

func (s *rewardService) Delete(ctx context.Context, householdID, id string) error {
	if householdID == "" {
		return ErrNoHousehold
	}
	reward, err := s.findHouseholdReward(ctx, householdID, id)
	if err != nil {
		return err
	}
	pending, err := s.rewardRepo.PendingClaimCount(ctx, reward.ID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return ErrConflict
	}
	completed, err := s.rewardRepo.CompletedClaimCount(ctx, reward.ID)
	if err != nil {
		return err
	}
	if completed > 0 {
		return s.rewardRepo.SoftDelete(ctx, reward.ID, s.now())
	}
	return s.rewardRepo.Delete(ctx, reward.ID)
}

func (s *rewardService) Claim(ctx context.Context, userID, householdID, id, notes string) (*repository.ClaimResult, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	reward, err := s.findHouseholdReward(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	ok, _, err := s.claimable(ctx, reward)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, translateErr(err)
	}
	if user.TotalPoints < reward.PointsCost {
		return nil, ErrConflict
	}

	result, err := s.rewardRepo.ApplyClaim(ctx, repository.ClaimParams{
		Reward:      reward,
		UserID:      userID,
		HouseholdID: householdID,
		Notes:       notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientPoints) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return result, nil
}

func (s *rewardService) ResolveClaim(ctx context.Context, householdID, claimID string, status model.ClaimStatus, notes *string) (*model.RewardClaim, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	if status != model.ClaimStatusCompleted && status != model.ClaimStatusCancelled {
		return nil, fmt.Errorf("%w: status must be COMPLETED or CANCELLED", ErrInvalid)
	}
	claim, err := s.rewardRepo.FindClaimByID(ctx, claimID)
	if err != nil {
		return nil, translateErr(err)
	}
	if claim.Reward == nil || claim.Reward.HouseholdID != householdID {
		return nil, ErrNotFound
	}

	resolved, err := s.rewardRepo.ResolveClaim(ctx, repository.ResolveParams{
		ClaimID:     claim.ID,
		UserID:      claim.UserID,
		HouseholdID: householdID,
		RewardTitle: claim.Reward.Title,
		PointsCost:  claim.PointsCost,
		Status:      status,
		Notes:       notes,
		Now:         s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrClaimNotPending) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return resolved, nil
}

func (s *rewardService) MyClaims(ctx context.Context, userID string, status model.ClaimStatus, offset, limit int) (*ClaimPage, error) {
	if err := validateClaimStatus(status); err != nil {
		return nil, err
	}
	claims, total, err := s.rewardRepo.ListClaimsByUser(ctx, userID, status, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ClaimPage{Claims: claims, Total: total}, nil
}

func (s *rewardService) HouseholdClaims(ctx context.Context, householdID string, status model.ClaimStatus, offset, limit int) (*ClaimPage, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	if err := validateClaimStatus(status); err != nil {
		return nil, err
	}
	claims, total, err := s.rewardRepo.ListClaimsByHousehold(ctx, householdID, status, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ClaimPage{Claims: claims, Total: total}, nil
}

func validateClaimStatus(status model.ClaimStatus) error {
	switch status {
	case "", model.ClaimStatusPending, model.ClaimStatusCompleted, model.ClaimStatusCancelled:
		return nil
	default:
		return fmt.Errorf("%w: unknown claim status %q", ErrInvalid, status)
	}
}
