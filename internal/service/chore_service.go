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

type ChoreUpdate struct {
	Title         *string
	Description   *string
	RankID        *string
	FrequencyID   *string
	AssignedToID  *string
	ClearAssignee bool
}

type ChoreCreate struct {
	Title        string
	Description  string
	RankID       string
	FrequencyID  string
	AssignedToID *string
}

// ChoreDetail is a chore plus its recent completion trail.
type ChoreDetail struct {
	Chore             *model.Chore
	RecentCompletions []model.ChoreCompletion
}

type ChoreService interface {
	// List sweeps expired chores back to incomplete before returning them.
	List(ctx context.Context, householdID string) ([]model.Chore, error)
	Get(ctx context.Context, householdID, id string) (*ChoreDetail, error)
	Create(ctx context.Context, userID, householdID string, in ChoreCreate) (*model.Chore, error)
	Update(ctx context.Context, householdID, id string, upd ChoreUpdate) (*model.Chore, error)
	Delete(ctx context.Context, householdID, id string) error
	// Complete settles the chore: streak continuation, point award with
	// streak bonus, completion record, and ledger entry.
	Complete(ctx context.Context, userID, householdID, id, note, photoURL string) (*repository.CompletionResult, error)
}

type choreService struct {
	choreRepo repository.ChoreRepository
	rankRepo  repository.ChoreRankRepository
	freqRepo  repository.ChoreFrequencyRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

func NewChoreService(
	choreRepo repository.ChoreRepository,
	rankRepo repository.ChoreRankRepository,
	freqRepo repository.ChoreFrequencyRepository,
	userRepo repository.UserRepository,
) ChoreService {
	return &choreService{
		choreRepo: choreRepo,
		rankRepo:  rankRepo,
		freqRepo:  freqRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

// continuedStreak decides whether a completion extends the running streak.
// The gap is measured in whole days since the previous completion; a gap
// within the chore's interval continues that completion's streak, anything
// longer starts over at 1. Working from the completion record rather than
// the chore keeps continuation intact across the expiry sweep, which zeroes
// the chore's running streak.
func continuedStreak(prevStreak int, lastCompletedAt time.Time, daysInterval int, now time.Time) int {
	days := int(now.Sub(lastCompletedAt).Hours() / 24)
	if days <= daysInterval {
		return prevStreak + 1
	}
	return 1
}

// streakBonus awards 5 bonus points per 5 consecutive completions.
func streakBonus(streak int) int {
	return streak / 5 * 5
}

func (s *choreService) sweep(ctx context.Context, chore *model.Chore) (*model.Chore, error) {
	if chore.Frequency == nil || !chore.Expired(s.now()) {
		return chore, nil
	}
	reset, err := s.choreRepo.ResetIfExpired(ctx, chore.ID, chore.Frequency.DaysInterval, s.now())
	if err != nil {
		return nil, err
	}
	if !reset {
		return chore, nil
	}
	return s.choreRepo.FindByID(ctx, chore.ID)
}

func (s *choreService) List(ctx context.Context, householdID string) ([]model.Chore, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	chores, err := s.choreRepo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	for i := range chores {
		swept, err := s.sweep(ctx, &chores[i])
		if err != nil {
			return nil, err
		}
		chores[i] = *swept
	}
	return chores, nil
}

func (s *choreService) findHouseholdChore(ctx context.Context, householdID, id string) (*model.Chore, error) {
	chore, err := s.choreRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateErr(err)
	}
	if chore.HouseholdID != householdID {
		return nil, ErrNotFound
	}
	return chore, nil
}

func (s *choreService) Get(ctx context.Context, householdID, id string) (*ChoreDetail, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	chore, err := s.findHouseholdChore(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	chore, err = s.sweep(ctx, chore)
	if err != nil {
		return nil, err
	}
	recent, err := s.choreRepo.RecentCompletions(ctx, chore.ID, 5)
	if err != nil {
		return nil, err
	}
	return &ChoreDetail{Chore: chore, RecentCompletions: recent}, nil
}

func (s *choreService) validateTaxonomy(ctx context.Context, householdID, rankID, freqID string) (*model.ChoreRank, *model.ChoreFrequency, error) {
	rank, err := s.rankRepo.FindByID(ctx, rankID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: unknown chore rank", ErrInvalid)
		}
		return nil, nil, err
	}
	if rank.HouseholdID != householdID {
		return nil, nil, fmt.Errorf("%w: unknown chore rank", ErrInvalid)
	}
	freq, err := s.freqRepo.FindByID(ctx, freqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: unknown chore frequency", ErrInvalid)
		}
		return nil, nil, err
	}
	if freq.HouseholdID != householdID {
		return nil, nil, fmt.Errorf("%w: unknown chore frequency", ErrInvalid)
	}
	return rank, freq, nil
}

func (s *choreService) validateAssignee(ctx context.Context, householdID string, assigneeID *string) error {
	if assigneeID == nil || *assigneeID == "" {
		return nil
	}
	if _, err := s.userRepo.FindHouseholdMember(ctx, householdID, *assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: assignee must be a member of the household", ErrInvalid)
		}
		return err
	}
	return nil
}

func (s *choreService) Create(ctx context.Context, userID, householdID string, in ChoreCreate) (*model.Chore, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || len(in.Title) > 120 {
		return nil, fmt.Errorf("%w: title must be 1-120 characters", ErrInvalid)
	}
	_, freq, err := s.validateTaxonomy(ctx, householdID, in.RankID, in.FrequencyID)
	if err != nil {
		return nil, err
	}
	if err := s.validateAssignee(ctx, householdID, in.AssignedToID); err != nil {
		return nil, err
	}

	now := s.now()
	chore := &model.Chore{
		Title:        in.Title,
		Description:  in.Description,
		HouseholdID:  householdID,
		RankID:       in.RankID,
		FrequencyID:  in.FrequencyID,
		AssignedToID: in.AssignedToID,
		CreatedByID:  userID,
		LastReset:    now,
		NextReset:    now.Add(time.Duration(freq.DaysInterval) * 24 * time.Hour),
	}
	if err := s.choreRepo.Create(ctx, chore); err != nil {
		return nil, translateErr(err)
	}
	return s.choreRepo.FindByID(ctx, chore.ID)
}

func (s *choreService) Update(ctx context.Context, householdID, id string, upd ChoreUpdate) (*model.Chore, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	chore, err := s.findHouseholdChore(ctx, householdID, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" || len(title) > 120 {
			return nil, fmt.Errorf("%w: title must be 1-120 characters", ErrInvalid)
		}
		chore.Title = title
	}
	if upd.Description != nil {
		chore.Description = *upd.Description
	}
	if upd.RankID != nil && *upd.RankID != chore.RankID {
		rank, err := s.rankRepo.FindByID(ctx, *upd.RankID)
		if err != nil || rank.HouseholdID != householdID {
			return nil, fmt.Errorf("%w: unknown chore rank", ErrInvalid)
		}
		chore.RankID = *upd.RankID
	}
	if upd.FrequencyID != nil && *upd.FrequencyID != chore.FrequencyID {
		freq, err := s.freqRepo.FindByID(ctx, *upd.FrequencyID)
		if err != nil || freq.HouseholdID != householdID {
			return nil, fmt.Errorf("%w: unknown chore frequency", ErrInvalid)
		}
		chore.FrequencyID = *upd.FrequencyID
		// A new cadence restarts the window from now.
		now := s.now()
		chore.LastReset = now
		chore.NextReset = now.Add(time.Duration(freq.DaysInterval) * 24 * time.Hour)
	}
	if upd.ClearAssignee {
		chore.AssignedToID = nil
	} else if upd.AssignedToID != nil {
		if err := s.validateAssignee(ctx, householdID, upd.AssignedToID); err != nil {
			return nil, err
		}
		chore.AssignedToID = upd.AssignedToID
	}

	// Save relations stale; clear them so gorm doesn't upsert old rows.
	chore.Rank = nil
	chore.Frequency = nil
	chore.AssignedTo = nil
	chore.CreatedBy = nil
	if err := s.choreRepo.Update(ctx, chore); err != nil {
		return nil, translateErr(err)
	}
	return s.choreRepo.FindByID(ctx, chore.ID)
}

func (s *choreService) Delete(ctx context.Context, householdID, id string) error {
	if householdID == "" {
		return ErrNoHousehold
	}
	if _, err := s.findHouseholdChore(ctx, householdID, id); err != nil {
		return err
	}
	return s.choreRepo.Delete(ctx, id)
}

func (s *choreService) Complete(ctx context.Context, userID, householdID, id, note, photoURL string) (*repository.CompletionResult, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	chore, err := s.findHouseholdChore(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	chore, err = s.sweep(ctx, chore)
	if err != nil {
		return nil, err
	}
	if chore.IsComplete {
		return nil, ErrConflict
	}
	if chore.Rank == nil || chore.Frequency == nil {
		return nil, fmt.Errorf("chore %s is missing its rank or frequency", chore.ID)
	}

	now := s.now()
	streak := 1
	last, err := s.choreRepo.LatestCompletion(ctx, chore.ID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		streak = continuedStreak(last.StreakCount, last.CompletedAt, chore.Frequency.DaysInterval, now)
	}

	points := chore.Rank.PointValue + streakBonus(streak)
	result, err := s.choreRepo.ApplyCompletion(ctx, repository.CompletionParams{
		ChoreID:      chore.ID,
		ChoreTitle:   chore.Title,
		UserID:       userID,
		HouseholdID:  householdID,
		Streak:       streak,
		PointsEarned: points,
		Reason:       fmt.Sprintf("Completed Chore: %s (Streak: %d)", chore.Title, streak),
		Note:         note,
		PhotoURL:     photoURL,
		DaysInterval: chore.Frequency.DaysInterval,
		Now:          now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyComplete) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return result, nil
}
