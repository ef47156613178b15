package service

import (
	"context"
	"testing"

	"github.com/chorebattle/backend/internal/model"
	"github.com/stretchr/testify/require"
)

func TestCreateHouseholdSeedsTaxonomies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household, token, err := env.householdSvc.Create(ctx, owner.ID, owner.Email, "Home")
	require.NoError(t, err)
	require.Len(t, household.InviteCode, 8)
	require.Equal(t, owner.ID, household.OwnerID)

	claims, err := env.tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, household.ID, claims.HouseholdID)

	ranks, err := env.rankSvc.List(ctx, household.ID)
	require.NoError(t, err)
	require.Len(t, ranks, 5)
	for _, r := range ranks {
		require.True(t, r.IsSystem)
	}

	freqs, err := env.freqSvc.List(ctx, household.ID)
	require.NoError(t, err)
	require.Len(t, freqs, 4)
	require.Equal(t, 1, freqs[0].DaysInterval)
}

func TestCreateHouseholdAlreadyMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	env.createHousehold(t, owner, "Home")

	_, _, err := env.householdSvc.Create(ctx, owner.ID, owner.Email, "Second Home")
	require.ErrorIs(t, err, ErrConflict)
}

func TestJoinHousehold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	joiner := env.registerUser(t, "ben@example.com", "Ben")

	joined, token, err := env.householdSvc.Join(ctx, joiner.ID, joiner.Email, household.InviteCode)
	require.NoError(t, err)
	require.Equal(t, household.ID, joined.ID)

	claims, err := env.tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, household.ID, claims.HouseholdID)

	_, _, err = env.householdSvc.Join(ctx, joiner.ID, joiner.Email, household.InviteCode)
	require.ErrorIs(t, err, ErrConflict)

	_, _, err = env.householdSvc.Join(ctx, joiner.ID, joiner.Email, "NOPE9999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLeaveHousehold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	member := env.registerUser(t, "ben@example.com", "Ben")
	_, _, err := env.householdSvc.Join(ctx, member.ID, member.Email, household.InviteCode)
	require.NoError(t, err)

	// The owner cannot leave; they must delete or transfer first.
	_, err = env.householdSvc.Leave(ctx, owner.ID, owner.Email)
	require.ErrorIs(t, err, ErrForbidden)

	chore := env.createChore(t, owner, household.ID, "Dishes", "QUICK_WIN", "DAILY")
	_, err = env.choreSvc.Update(ctx, household.ID, chore.ID, ChoreUpdate{AssignedToID: &member.ID})
	require.NoError(t, err)

	token, err := env.householdSvc.Leave(ctx, member.ID, member.Email)
	require.NoError(t, err)
	claims, err := env.tokens.Verify(token)
	require.NoError(t, err)
	require.Empty(t, claims.HouseholdID)

	// Leaving unassigns the member's chores.
	updated, err := env.choreRepo.FindByID(ctx, chore.ID)
	require.NoError(t, err)
	require.Nil(t, updated.AssignedToID)
}

func TestRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	member := env.registerUser(t, "ben@example.com", "Ben")
	outsider := env.registerUser(t, "zoe@example.com", "Zoe")
	_, _, err := env.householdSvc.Join(ctx, member.ID, member.Email, household.InviteCode)
	require.NoError(t, err)

	// A non-owner cannot remove somebody else.
	err = env.householdSvc.RemoveMember(ctx, member.ID, household.ID, owner.ID)
	require.Error(t, err)

	// Nobody can remove the owner.
	err = env.householdSvc.RemoveMember(ctx, owner.ID, household.ID, owner.ID)
	require.ErrorIs(t, err, ErrInvalid)

	// Removing an outsider is a not-found.
	err = env.householdSvc.RemoveMember(ctx, owner.ID, household.ID, outsider.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.householdSvc.RemoveMember(ctx, owner.ID, household.ID, member.ID))
	removed, err := env.userRepo.FindByID(ctx, member.ID)
	require.NoError(t, err)
	require.Nil(t, removed.HouseholdID)
}

func TestTransferOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	member := env.registerUser(t, "ben@example.com", "Ben")
	outsider := env.registerUser(t, "zoe@example.com", "Zoe")
	_, _, err := env.householdSvc.Join(ctx, member.ID, member.Email, household.InviteCode)
	require.NoError(t, err)

	err = env.householdSvc.TransferOwnership(ctx, member.ID, household.ID, member.ID)
	require.ErrorIs(t, err, ErrForbidden)

	err = env.householdSvc.TransferOwnership(ctx, owner.ID, household.ID, outsider.ID)
	require.ErrorIs(t, err, ErrInvalid)

	require.NoError(t, env.householdSvc.TransferOwnership(ctx, owner.ID, household.ID, member.ID))
	updated, err := env.householdSvc.Get(ctx, household.ID)
	require.NoError(t, err)
	require.Equal(t, member.ID, updated.OwnerID)
}

func TestRegenerateInviteCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	member := env.registerUser(t, "ben@example.com", "Ben")
	_, _, err := env.householdSvc.Join(ctx, member.ID, member.Email, household.InviteCode)
	require.NoError(t, err)

	_, err = env.householdSvc.RegenerateInviteCode(ctx, member.ID)
	require.ErrorIs(t, err, ErrForbidden)

	code, err := env.householdSvc.RegenerateInviteCode(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, code, 8)
	require.NotEqual(t, household.InviteCode, code)
}

func TestMembersListing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	member := env.registerUser(t, "ben@example.com", "Ben")
	_, _, err := env.householdSvc.Join(ctx, member.ID, member.Email, household.InviteCode)
	require.NoError(t, err)

	env.createChore(t, owner, household.ID, "Dishes", "QUICK_WIN", "DAILY")
	chores, err := env.choreSvc.List(ctx, household.ID)
	require.NoError(t, err)
	_, err = env.choreSvc.Complete(ctx, member.ID, household.ID, chores[0].ID, "", "")
	require.NoError(t, err)

	members, err := env.householdSvc.Members(ctx, household.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	// Ordered by points: the member just earned some.
	require.Equal(t, member.ID, members[0].User.ID)
	require.Equal(t, int64(1), members[0].Completions)
	require.False(t, members[0].IsOwner)
	require.True(t, members[1].IsOwner)
}

func TestDeleteHouseholdCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	member := env.registerUser(t, "ben@example.com", "Ben")
	_, _, err := env.householdSvc.Join(ctx, member.ID, member.Email, household.InviteCode)
	require.NoError(t, err)

	chore := env.createChore(t, owner, household.ID, "Dishes", "QUICK_WIN", "DAILY")
	_, err = env.choreSvc.Complete(ctx, member.ID, household.ID, chore.ID, "", "")
	require.NoError(t, err)

	reward, err := env.rewardSvc.Create(ctx, household.ID, RewardCreate{
		Title: "Movie night", PointsCost: 5, IsRepeatable: true,
	})
	require.NoError(t, err)
	_, err = env.rewardSvc.Claim(ctx, member.ID, household.ID, reward.ID, "")
	require.NoError(t, err)

	_, err = env.householdSvc.Delete(ctx, member.ID, member.Email, household.ID)
	require.ErrorIs(t, err, ErrForbidden)

	token, err := env.householdSvc.Delete(ctx, owner.ID, owner.Email, household.ID)
	require.NoError(t, err)
	claims, err := env.tokens.Verify(token)
	require.NoError(t, err)
	require.Empty(t, claims.HouseholdID)

	// Every household-scoped table is empty and members are detached.
	for _, m := range []interface{}{
		&model.PointHistory{}, &model.ChoreCompletion{}, &model.Chore{},
		&model.RewardClaim{}, &model.Reward{}, &model.ChoreFrequency{},
		&model.ChoreRank{}, &model.Household{},
	} {
		var count int64
		require.NoError(t, env.db.Model(m).Count(&count).Error)
		require.Zero(t, count, "%T should be empty", m)
	}
	detached, err := env.userRepo.FindByID(ctx, member.ID)
	require.NoError(t, err)
	require.Nil(t, detached.HouseholdID)
}
