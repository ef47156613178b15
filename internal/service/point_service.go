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

type HistoryPage struct {
	Entries []model.PointHistory
	Total   int64
}

type LeaderboardEntry struct {
	User             *model.User
	Points           int64
	TotalCompletions int64
}

// UserStats aggregates a member's ledger for the stats view.
type UserStats struct {
	TotalPoints      int
	TotalCompletions int64
	PointsByType     []repository.PointsByType
	ActiveStreaks    []model.Chore
}

type ManualPointCreate struct {
	UserID string
	Points int
	Type   model.PointType
	Reason string
}

type PointService interface {
	History(ctx context.Context, userID string, offset, limit int) (*HistoryPage, error)
	HouseholdHistory(ctx context.Context, householdID string, offset, limit int) (*HistoryPage, error)
	ChoreHistory(ctx context.Context, householdID, choreID string, offset, limit int) (*HistoryPage, error)
	// CreateManual appends a free-form ledger adjustment for a member.
	CreateManual(ctx context.Context, householdID string, in ManualPointCreate) (*model.PointHistory, error)
	// Leaderboard ranks members by points in the period: "all", "week", or
	// "month".
	Leaderboard(ctx context.Context, householdID, period string) ([]LeaderboardEntry, error)
	Stats(ctx context.Context, householdID, userID string) (*UserStats, error)
}

type pointService struct {
	pointRepo repository.PointRepository
	userRepo  repository.UserRepository
	choreRepo repository.ChoreRepository
	now       func() time.Time
}

func NewPointService(
	pointRepo repository.PointRepository,
	userRepo repository.UserRepository,
	choreRepo repository.ChoreRepository,
) PointService {
	return &pointService{
		pointRepo: pointRepo,
		userRepo:  userRepo,
		choreRepo: choreRepo,
		now:       time.Now,
	}
}

func (s *pointService) History(ctx context.Context, userID string, offset, limit int) (*HistoryPage, error) {
	entries, total, err := s.pointRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return &HistoryPage{Entries: entries, Total: total}, nil
}

func (s *pointService) HouseholdHistory(ctx context.Context, householdID string, offset, limit int) (*HistoryPage, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	entries, total, err := s.pointRepo.ListByHousehold(ctx, householdID, offset, limit)
	if err != nil {
		return nil, err
	}
	return &HistoryPage{Entries: entries, Total: total}, nil
}

func (s *pointService) ChoreHistory(ctx context.Context, householdID, choreID string, offset, limit int) (*HistoryPage, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	chore, err := s.choreRepo.FindByID(ctx, choreID)
	if err != nil {
		return nil, translateErr(err)
	}
	if chore.HouseholdID != householdID {
		return nil, ErrNotFound
	}
	entries, total, err := s.pointRepo.ListByChore(ctx, choreID, offset, limit)
	if err != nil {
		return nil, err
	}
	return &HistoryPage{Entries: entries, Total: total}, nil
}

func (s *pointService) CreateManual(ctx context.Context, householdID string, in ManualPointCreate) (*model.PointHistory, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	switch in.Type {
	case model.PointTypeChoreComplete, model.PointTypeRewardClaimed, model.PointTypeBonus:
	default:
		return nil, fmt.Errorf("%w: unknown point type %q", ErrInvalid, in.Type)
	}
	if in.Points == 0 {
		return nil, fmt.Errorf("%w: points must be non-zero", ErrInvalid)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalid)
	}
	if _, err := s.userRepo.FindHouseholdMember(ctx, householdID, in.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user must be a member of the household", ErrInvalid)
		}
		return nil, err
	}

	entry := &model.PointHistory{
		Points:      in.Points,
		Type:        in.Type,
		Reason:      strings.TrimSpace(in.Reason),
		UserID:      in.UserID,
		HouseholdID: householdID,
	}
	if err := s.pointRepo.CreateWithBalance(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *pointService) Leaderboard(ctx context.Context, householdID, period string) ([]LeaderboardEntry, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	var since time.Time
	switch period {
	case "", "all":
	case "week":
		since = s.now().AddDate(0, 0, -7)
	case "month":
		since = s.now().AddDate(0, -1, 0)
	default:
		return nil, fmt.Errorf("%w: period must be all, week, or month", ErrInvalid)
	}

	users, err := s.userRepo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(users))
	for i := range users {
		var points int64
		if since.IsZero() {
			points = int64(users[i].TotalPoints)
		} else {
			points, err = s.pointRepo.SumByUserSince(ctx, users[i].ID, since)
			if err != nil {
				return nil, err
			}
		}
		completions, err := s.pointRepo.CompletionCount(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LeaderboardEntry{
			User:             &users[i],
			Points:           points,
			TotalCompletions: completions,
		})
	}
	// ListByHousehold orders by lifetime points; period boards re-sort.
	if !since.IsZero() {
		for i := 1; i < len(entries); i++ {
			for j := i; j > 0 && entries[j].Points > entries[j-1].Points; j-- {
				entries[j], entries[j-1] = entries[j-1], entries[j]
			}
		}
	}
	return entries, nil
}

func (s *pointService) Stats(ctx context.Context, householdID, userID string) (*UserStats, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	user, err := s.userRepo.FindHouseholdMember(ctx, householdID, userID)
	if err != nil {
		return nil, translateErr(err)
	}
	completions, err := s.pointRepo.CompletionCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	byType, err := s.pointRepo.SumByType(ctx, userID)
	if err != nil {
		return nil, err
	}
	streaks, err := s.choreRepo.ActiveStreaks(ctx, householdID, userID)
	if err != nil {
		return nil, err
	}
	return &UserStats{
		TotalPoints:      user.TotalPoints,
		TotalCompletions: completions,
		PointsByType:     byType,
		ActiveStreaks:    streaks,
	}, nil
}
