package service

import (
	"context"
	"testing"

	"github.com/chorebattle/backend/internal/model"
	"github.com/stretchr/testify/require"
)

func TestClaimReward(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	env.grantPoints(t, household.ID, owner.ID, 100)

	reward, err := env.rewardSvc.Create(ctx, household.ID, RewardCreate{
		Title: "Movie night", PointsCost: 60, IsRepeatable: true,
	})
	require.NoError(t, err)

	result, err := env.rewardSvc.Claim(ctx, owner.ID, household.ID, reward.ID, "saturday please")
	require.NoError(t, err)
	require.Equal(t, model.ClaimStatusPending, result.Claim.Status)
	require.Equal(t, 60, result.Claim.PointsCost)
	require.Equal(t, 40, result.RemainingPoints)
	require.Equal(t, -60, result.History.Points)
	require.Equal(t, model.PointTypeRewardClaimed, result.History.Type)
	require.Equal(t, "Claimed Reward: Movie night", result.History.Reason)

	// Balance reconciles with the ledger after the debit.
	sum, err := env.pointRepo.SumByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(40), sum)
}

func TestClaimRewardInsufficientPoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	env.grantPoints(t, household.ID, owner.ID, 30)

	reward, err := env.rewardSvc.Create(ctx, household.ID, RewardCreate{
		Title: "Movie night", PointsCost: 60, IsRepeatable: true,
	})
	require.NoError(t, err)

	_, err = env.rewardSvc.Claim(ctx, owner.ID, household.ID, reward.ID, "")
	require.ErrorIs(t, err, ErrConflict)

	// No claim, no ledger entry, balance untouched.
	var claims int64
	require.NoError(t, env.db.Model(&model.RewardClaim{}).Count(&claims).Error)
	require.Zero(t, claims)
	user, err := env.userRepo.FindByID(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 30, user.TotalPoints)
}

func TestCancelClaimRefunds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	env.grantPoints(t, household.ID, owner.ID, 100)

	reward, err := env.rewardSvc.Create(ctx, household.ID, RewardCreate{
		Title: "Movie night", PointsCost: 60, IsRepeatable: true,
	})
	require.NoError(t, err)
	result, err := env.rewardSvc.Claim(ctx, owner.ID, household.ID, reward.ID, "")
	require.NoError(t, err)

	cancelled, err := env.rewardSvc.ResolveClaim(ctx, household.ID, result.Claim.ID, model.ClaimStatusCancelled, nil)
	require.NoError(t, err)
	require.Equal(t, model.ClaimStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	user, err := env.userRepo.FindByID(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 100, user.TotalPoints)
	sum, err := env.pointRepo.SumByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), sum)

	// A resolved claim cannot be resolved again.
	_, err = env.rewardSvc.ResolveClaim(ctx, household.ID, result.Claim.ID, model.ClaimStatusCompleted, nil)
	require.ErrorIs(t, err, ErrConflict)
}

func TestCompleteClaimKeepsDebit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	env.grantPoints(t, household.ID, owner.ID, 100)

	reward, err := env.rewardSvc.Create(ctx, household.ID, RewardCreate{
		Title: "Movie night", PointsCost: 60, IsRepeatable: true,
	})
	require.NoError(t, err)
	result, err := env.rewardSvc.Claim(ctx, owner.ID, household.ID, reward.ID, "")
	require.NoError(t, err)

	done, err := env.rewardSvc.ResolveClaim(ctx, household.ID, result.Claim.ID, model.ClaimStatusCompleted, nil)
	require.NoError(t, err)
	require.Equal(t, model.ClaimStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	user, err := env.userRepo.FindByID(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 40, user.TotalPoints)
}

func TestClaimExhaustedReward(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	env.grantPoints(t, household.ID, owner.ID, 200)

	one := 1
	reward, err := env.rewardSvc.Create(ctx, household.ID, RewardCreate{
		Title: "One-shot", PointsCost: 10, IsRepeatable: false, MaxClaims: &one,
	})
	require.NoError(t, err)

	// IsRepeatable=false survives the round trip to the database.
	stored, err := env.rewardRepo.FindByID(ctx, reward.ID)
	require.NoError(t, err)
	require.False(t, stored.IsRepeatable)

	first, err := env.rewardSvc.Claim(ctx, owner.ID, household.ID, reward.ID, "")
	require.NoError(t, err)
	_, err = env.rewardSvc.ResolveClaim(ctx, household.ID, first.Claim.ID, model.ClaimStatusCompleted, nil)
	require.NoError(t, err)

	_, err = env.rewardSvc.Claim(ctx, owner.ID, household.ID, reward.ID, "")
	require.ErrorIs(t, err, ErrConflict)
}

func TestClaimNonRepeatableUnderCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	env.grantPoints(t, household.ID, owner.ID, 200)

	// The cap, not the first completed claim, exhausts a non-repeatable
	// reward.
	two := 2
	reward, err := env.rewardSvc.Create(ctx, household.ID, RewardCreate{
		Title: "Two-shot", PointsCost: 10, IsRepeatable: false, MaxClaims: &two,
	})
	require.NoError(t, err)

	first, err := env.rewardSvc.Claim(ctx, owner.ID, household.ID, reward.ID, "")
	require.NoError(t, err)
	_, err = env.rewardSvc.ResolveClaim(ctx, household.ID, first.Claim.ID, model.ClaimStatusCompleted, nil)
	require.NoError(t, err)

	second, err := env.rewardSvc.Claim(ctx, owner.ID, household.ID, reward.ID, "")
	require.NoError(t, err)
	_, err = env.rewardSvc.ResolveClaim(ctx, household.ID, second.Claim.ID, model.ClaimStatusCompleted, nil)
	require.NoError(t, err)

	_, err = env.rewardSvc.Claim(ctx, owner.ID, household.ID, reward.ID, "")
	require.ErrorIs(t, err, ErrConflict)

	// Without a cap a non-repeatable reward stays claimable.
	uncapped, err := env.rewardSvc.Create(ctx, household.ID, RewardCreate{
		Title: "Uncapped", PointsCost: 10, IsRepeatable: false,
	})
	require.NoError(t, err)
	claim, err := env.rewardSvc.Claim(ctx, owner.ID, household.ID, uncapped.ID, "")
	require.NoError(t, err)
	_, err = env.rewardSvc.ResolveClaim(ctx, household.ID, claim.Claim.ID, model.ClaimStatusCompleted, nil)
	require.NoError(t, err)
	_, err = env.rewardSvc.Claim(ctx, owner.ID, household.ID, uncapped.ID, "")
	require.NoError(t, err)
}

func TestRewardListSummaries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	env.grantPoints(t, household.ID, owner.ID, 100)

	reward, err := env.rewardSvc.Create(ctx, household.ID, RewardCreate{
		Title: "Movie night", PointsCost: 10, IsRepeatable: true,
	})
	require.NoError(t, err)
	claim, err := env.rewardSvc.Claim(ctx, owner.ID, household.ID, reward.ID, "")
	require.NoError(t, err)
	_, err = env.rewardSvc.ResolveClaim(ctx, household.ID, claim.Claim.ID, model.ClaimStatusCompleted, nil)
	require.NoError(t, err)

	summaries, total, err := env.rewardSvc.List(ctx, owner.ID, household.ID, 0, 50)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, summaries, 1)
	require.Equal(t, int64(1), summaries[0].TotalClaims)
	require.True(t, summaries[0].IsClaimable)
	require.NotNil(t, summaries[0].LastClaim)
}

func TestDeleteRewardRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	env.grantPoints(t, household.ID, owner.ID, 100)

	// No claims: hard delete.
	fresh, err := env.rewardSvc.Create(ctx, household.ID, RewardCreate{
		Title: "Untouched", PointsCost: 10, IsRepeatable: true,
	})
	require.NoError(t, err)
	require.NoError(t, env.rewardSvc.Delete(ctx, household.ID, fresh.ID))
	_, err = env.rewardSvc.Get(ctx, household.ID, fresh.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// A pending claim blocks deletion.
	blocked, err := env.rewardSvc.Create(ctx, household.ID, RewardCreate{
		Title: "Blocked", PointsCost: 10, IsRepeatable: true,
	})
	require.NoError(t, err)
	pending, err := env.rewardSvc.Claim(ctx, owner.ID, household.ID, blocked.ID, "")
	require.NoError(t, err)
	require.ErrorIs(t, env.rewardSvc.Delete(ctx, household.ID, blocked.ID), ErrConflict)

	// Completed claims force a soft delete that also disables claiming.
	_, err = env.rewardSvc.ResolveClaim(ctx, household.ID, pending.Claim.ID, model.ClaimStatusCompleted, nil)
	require.NoError(t, err)
	require.NoError(t, env.rewardSvc.Delete(ctx, household.ID, blocked.ID))

	kept, err := env.rewardSvc.Get(ctx, household.ID, blocked.ID)
	require.NoError(t, err)
	require.True(t, kept.IsDeleted)
	require.NotNil(t, kept.DeletedAt)

	_, err = env.rewardSvc.Claim(ctx, owner.ID, household.ID, blocked.ID, "")
	require.ErrorIs(t, err, ErrConflict)
}

func TestClaimListings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	member := env.registerUser(t, "ben@example.com", "Ben")
	_, _, err := env.householdSvc.Join(ctx, member.ID, member.Email, household.InviteCode)
	require.NoError(t, err)
	env.grantPoints(t, household.ID, owner.ID, 100)
	env.grantPoints(t, household.ID, member.ID, 100)

	reward, err := env.rewardSvc.Create(ctx, household.ID, RewardCreate{
		Title: "Movie night", PointsCost: 10, IsRepeatable: true,
	})
	require.NoError(t, err)
	_, err = env.rewardSvc.Claim(ctx, owner.ID, household.ID, reward.ID, "")
	require.NoError(t, err)
	_, err = env.rewardSvc.Claim(ctx, member.ID, household.ID, reward.ID, "")
	require.NoError(t, err)

	mine, err := env.rewardSvc.MyClaims(ctx, owner.ID, "", 0, 50)
	require.NoError(t, err)
	require.Equal(t, int64(1), mine.Total)

	all, err := env.rewardSvc.HouseholdClaims(ctx, household.ID, "", 0, 50)
	require.NoError(t, err)
	require.Equal(t, int64(2), all.Total)

	pending, err := env.rewardSvc.HouseholdClaims(ctx, household.ID, model.ClaimStatusPending, 0, 50)
	require.NoError(t, err)
	require.Equal(t, int64(2), pending.Total)

	completed, err := env.rewardSvc.HouseholdClaims(ctx, household.ID, model.ClaimStatusCompleted, 0, 50)
	require.NoError(t, err)
	require.Zero(t, completed.Total)

	_, err = env.rewardSvc.MyClaims(ctx, owner.ID, model.ClaimStatus("BOGUS"), 0, 50)
	require.ErrorIs(t, err, ErrInvalid)
}
