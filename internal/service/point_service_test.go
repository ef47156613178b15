package service

import (
	"context"
	"testing"

	"github.com/chorebattle/backend/internal/model"
	"github.com/stretchr/testify/require"
)

func TestManualPointEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")

	entry, err := env.pointSvc.CreateManual(ctx, household.ID, ManualPointCreate{
		UserID: owner.ID,
		Points: 25,
		Type:   model.PointTypeBonus,
		Reason: "Helped with groceries",
	})
	require.NoError(t, err)
	require.Equal(t, 25, entry.Points)

	user, err := env.userRepo.FindByID(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 25, user.TotalPoints)

	// Unknown type and non-member targets are rejected.
	_, err = env.pointSvc.CreateManual(ctx, household.ID, ManualPointCreate{
		UserID: owner.ID, Points: 5, Type: "MYSTERY", Reason: "x",
	})
	require.ErrorIs(t, err, ErrInvalid)

	outsider := env.registerUser(t, "zoe@example.com", "Zoe")
	_, err = env.pointSvc.CreateManual(ctx, household.ID, ManualPointCreate{
		UserID: outsider.ID, Points: 5, Type: model.PointTypeBonus, Reason: "x",
	})
	require.ErrorIs(t, err, ErrInvalid)
}

func TestPointHistoryViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	member := env.registerUser(t, "ben@example.com", "Ben")
	_, _, err := env.householdSvc.Join(ctx, member.ID, member.Email, household.InviteCode)
	require.NoError(t, err)

	chore := env.createChore(t, owner, household.ID, "Dishes", "QUICK_WIN", "DAILY")
	_, err = env.choreSvc.Complete(ctx, owner.ID, household.ID, chore.ID, "", "")
	require.NoError(t, err)
	env.grantPoints(t, household.ID, member.ID, 10)

	mine, err := env.pointSvc.History(ctx, owner.ID, 0, 50)
	require.NoError(t, err)
	require.Equal(t, int64(1), mine.Total)
	require.NotNil(t, mine.Entries[0].Chore)

	all, err := env.pointSvc.HouseholdHistory(ctx, household.ID, 0, 50)
	require.NoError(t, err)
	require.Equal(t, int64(2), all.Total)

	byChore, err := env.pointSvc.ChoreHistory(ctx, household.ID, chore.ID, 0, 50)
	require.NoError(t, err)
	require.Equal(t, int64(1), byChore.Total)

	// A chore from another household is invisible.
	outsider := env.registerUser(t, "zoe@example.com", "Zoe")
	otherHousehold := env.createHousehold(t, outsider, "Elsewhere")
	_, err = env.pointSvc.ChoreHistory(ctx, otherHousehold.ID, chore.ID, 0, 50)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	member := env.registerUser(t, "ben@example.com", "Ben")
	_, _, err := env.householdSvc.Join(ctx, member.ID, member.Email, household.InviteCode)
	require.NoError(t, err)

	env.grantPoints(t, household.ID, owner.ID, 10)
	env.grantPoints(t, household.ID, member.ID, 30)

	board, err := env.pointSvc.Leaderboard(ctx, household.ID, "all")
	require.NoError(t, err)
	require.Len(t, board, 2)
	require.Equal(t, member.ID, board[0].User.ID)
	require.Equal(t, int64(30), board[0].Points)

	week, err := env.pointSvc.Leaderboard(ctx, household.ID, "week")
	require.NoError(t, err)
	require.Equal(t, member.ID, week[0].User.ID)

	_, err = env.pointSvc.Leaderboard(ctx, household.ID, "decade")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestUserStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "anna@example.com", "Anna")
	household := env.createHousehold(t, owner, "Home")
	chore := env.createChore(t, owner, household.ID, "Dishes", "QUICK_WIN", "DAILY")
	_, err := env.choreSvc.Complete(ctx, owner.ID, household.ID, chore.ID, "", "")
	require.NoError(t, err)
	env.grantPoints(t, household.ID, owner.ID, 20)

	stats, err := env.pointSvc.Stats(ctx, household.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 25, stats.TotalPoints)
	require.Equal(t, int64(1), stats.TotalCompletions)
	require.Len(t, stats.ActiveStreaks, 1)
	require.Equal(t, chore.ID, stats.ActiveStreaks[0].ID)

	byType := make(map[model.PointType]int64)
	for _, row := range stats.PointsByType {
		byType[row.Type] = row.Points
	}
	require.Equal(t, int64(5), byType[model.PointTypeChoreComplete])
	require.Equal(t, int64(20), byType[model.PointTypeBonus])
}
