package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chorebattle/backend/internal/auth"
	"github.com/chorebattle/backend/internal/model"
	"github.com/chorebattle/backend/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Household{},
		&model.ChoreRank{},
		&model.ChoreFrequency{},
		&model.Chore{},
		&model.ChoreCompletion{},
		&model.PointHistory{},
		&model.Reward{},
		&model.RewardClaim{},
	))
	return db
}

type testEnv struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	householdRepo repository.HouseholdRepository
	rankRepo      repository.ChoreRankRepository
	freqRepo      repository.ChoreFrequencyRepository
	choreRepo     repository.ChoreRepository
	rewardRepo    repository.RewardRepository
	pointRepo     repository.PointRepository

	tokens *auth.TokenManager

	authSvc      AuthService
	householdSvc HouseholdService
	rankSvc      ChoreRankService
	freqSvc      ChoreFrequencyService
	choreSvc     ChoreService
	rewardSvc    RewardService
	pointSvc     PointService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t)

	env := &testEnv{
		db:            db,
		userRepo:      repository.NewUserRepository(db),
		householdRepo: repository.NewHouseholdRepository(db),
		rankRepo:      repository.NewChoreRankRepository(db),
		freqRepo:      repository.NewChoreFrequencyRepository(db),
		choreRepo:     repository.NewChoreRepository(db),
		rewardRepo:    repository.NewRewardRepository(db),
		pointRepo:     repository.NewPointRepository(db),
		tokens:        auth.NewTokenManager("test-secret"),
	}
	env.authSvc = NewAuthService(env.userRepo, env.tokens)
	env.householdSvc = NewHouseholdService(env.householdRepo, env.userRepo, env.choreRepo, env.pointRepo, env.tokens)
	env.rankSvc = NewChoreRankService(env.rankRepo)
	env.freqSvc = NewChoreFrequencyService(env.freqRepo)
	env.choreSvc = NewChoreService(env.choreRepo, env.rankRepo, env.freqRepo, env.userRepo)
	env.rewardSvc = NewRewardService(env.rewardRepo, env.userRepo)
	env.pointSvc = NewPointService(env.pointRepo, env.userRepo, env.choreRepo)
	return env
}

// registerUser creates a user and returns it.
func (env *testEnv) registerUser(t *testing.T, email, name string) *model.User {
	t.Helper()
	user, err := env.authSvc.Register(context.Background(), email, "password123", name)
	require.NoError(t, err)
	return user
}

// createHousehold registers the owner into a fresh household.
func (env *testEnv) createHousehold(t *testing.T, owner *model.User, name string) *model.Household {
	t.Helper()
	household, _, err := env.householdSvc.Create(context.Background(), owner.ID, owner.Email, name)
	require.NoError(t, err)
	return household
}

// findRank looks up a seeded system rank by name.
func (env *testEnv) findRank(t *testing.T, householdID, name string) *model.ChoreRank {
	t.Helper()
	rank, err := env.rankRepo.FindByName(context.Background(), householdID, name)
	require.NoError(t, err)
	return rank
}

func (env *testEnv) findFrequency(t *testing.T, householdID, name string) *model.ChoreFrequency {
	t.Helper()
	freq, err := env.freqRepo.FindByName(context.Background(), householdID, name)
	require.NoError(t, err)
	return freq
}

// createChore makes a chore through the service with the given taxonomy names.
func (env *testEnv) createChore(t *testing.T, owner *model.User, householdID, title, rankName, freqName string) *model.Chore {
	t.Helper()
	rank := env.findRank(t, householdID, rankName)
	freq := env.findFrequency(t, householdID, freqName)
	chore, err := env.choreSvc.Create(context.Background(), owner.ID, householdID, ChoreCreate{
		Title:       title,
		Description: "test chore",
		RankID:      rank.ID,
		FrequencyID: freq.ID,
	})
	require.NoError(t, err)
	return chore
}

// grantPoints gives a user points via a manual BONUS ledger entry.
func (env *testEnv) grantPoints(t *testing.T, householdID, userID string, points int) {
	t.Helper()
	_, err := env.pointSvc.CreateManual(context.Background(), householdID, ManualPointCreate{
		UserID: userID,
		Points: points,
		Type:   model.PointTypeBonus,
		Reason: "test grant",
	})
	require.NoError(t, err)
}

// ageCompletions shifts every completion of a chore into the past by the
// given amount, preserving their relative order, so streak arithmetic can be
// exercised deterministically.
func (env *testEnv) ageCompletions(t *testing.T, choreID string, by time.Duration) {
	t.Helper()
	var completions []model.ChoreCompletion
	require.NoError(t, env.db.Where("chore_id = ?", choreID).Find(&completions).Error)
	for _, c := range completions {
		require.NoError(t, env.db.
			Model(&model.ChoreCompletion{}).
			Where("id = ?", c.ID).
			Update("completed_at", c.CompletedAt.Add(-by)).Error)
	}
}

// expireChore pushes nextReset into the past so the sweep fires.
func (env *testEnv) expireChore(t *testing.T, choreID string, by time.Duration) {
	t.Helper()
	require.NoError(t, env.db.
		Model(&model.Chore{}).
		Where("id = ?", choreID).
		Update("next_reset", time.Now().Add(-by)).Error)
}
