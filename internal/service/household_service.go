package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chorebattle/backend/internal/auth"
	"github.com/chorebattle/backend/internal/model"
	"github.com/chorebattle/backend/internal/repository"
	"gorm.io/gorm"
)

// Member is a household member decorated for the members listing.
type Member struct {
	User        *model.User
	Completions int64
	IsOwner     bool
}

type HouseholdService interface {
	// Create seeds system taxonomies and returns a replacement session
	// token carrying the new household claim.
	Create(ctx context.Context, userID, email, name string) (*model.Household, string, error)
	Get(ctx context.Context, householdID string) (*model.Household, error)
	Rename(ctx context.Context, userID, householdID, name string) (*model.Household, error)
	// Delete cascades every household-scoped row and returns a replacement
	// token with an empty household claim.
	Delete(ctx context.Context, userID, email, householdID string) (string, error)
	Join(ctx context.Context, userID, email, inviteCode string) (*model.Household, string, error)
	Leave(ctx context.Context, userID, email string) (string, error)
	RemoveMember(ctx context.Context, actorID, householdID, memberID string) error
	TransferOwnership(ctx context.Context, actorID, householdID, newOwnerID string) error
	RegenerateInviteCode(ctx context.Context, actorID string) (string, error)
	Members(ctx context.Context, householdID string) ([]Member, error)
}

type householdService struct {
	householdRepo repository.HouseholdRepository
	userRepo      repository.UserRepository
	choreRepo     repository.ChoreRepository
	pointRepo     repository.PointRepository
	tokens        *auth.TokenManager
}

func NewHouseholdService(
	householdRepo repository.HouseholdRepository,
	userRepo repository.UserRepository,
	choreRepo repository.ChoreRepository,
	pointRepo repository.PointRepository,
	tokens *auth.TokenManager,
) HouseholdService {
	return &householdService{
		householdRepo: householdRepo,
		userRepo:      userRepo,
		choreRepo:     choreRepo,
		pointRepo:     pointRepo,
		tokens:        tokens,
	}
}

func defaultRanks() []model.ChoreRank {
	return []model.ChoreRank{
		{Name: "QUICK_WIN", DisplayName: "Quick Win", PointValue: 5, IsSystem: true},
		{Name: "PIECE_OF_CAKE", DisplayName: "Piece of Cake", PointValue: 10, IsSystem: true},
		{Name: "STANDARD", DisplayName: "Standard", PointValue: 15, IsSystem: true},
		{Name: "CHALLENGE", DisplayName: "Challenge", PointValue: 25, IsSystem: true},
		{Name: "DEEP_CLEAN", DisplayName: "Deep Clean", PointValue: 40, IsSystem: true},
	}
}

func defaultFrequencies() []model.ChoreFrequency {
	return []model.ChoreFrequency{
		{Name: "DAILY", DisplayName: "Daily", DaysInterval: 1, IsSystem: true},
		{Name: "WEEKLY", DisplayName: "Weekly", DaysInterval: 7, IsSystem: true},
		{Name: "BIWEEKLY", DisplayName: "Every Two Weeks", DaysInterval: 14, IsSystem: true},
		{Name: "MONTHLY", DisplayName: "Monthly", DaysInterval: 30, IsSystem: true},
	}
}

func (s *householdService) Create(ctx context.Context, userID, email, name string) (*model.Household, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", fmt.Errorf("%w: household name is required", ErrInvalid)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", translateErr(err)
	}
	if user.HouseholdID != nil {
		return nil, "", ErrConflict
	}

	var household *model.Household
	// One retry covers the vanishingly unlikely invite-code collision.
	for attempt := 0; attempt < 2; attempt++ {
		code, err := generateInviteCode()
		if err != nil {
			return nil, "", err
		}
		h := &model.Household{Name: name, InviteCode: code, OwnerID: userID}
		err = s.householdRepo.Create(ctx, h, defaultRanks(), defaultFrequencies())
		if err == nil {
			household = h
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", err
		}
	}
	if household == nil {
		return nil, "", ErrConflict
	}

	token, err := s.tokens.Issue(userID, email, household.ID)
	if err != nil {
		return nil, "", err
	}
	created, err := s.householdRepo.FindByID(ctx, household.ID)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

func (s *householdService) Get(ctx context.Context, householdID string) (*model.Household, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	h, err := s.householdRepo.FindByID(ctx, householdID)
	if err != nil {
		return nil, translateErr(err)
	}
	return h, nil
}

func (s *householdService) Rename(ctx context.Context, userID, householdID, name string) (*model.Household, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: household name is required", ErrInvalid)
	}
	h, err := s.householdRepo.FindByID(ctx, householdID)
	if err != nil {
		return nil, translateErr(err)
	}
	if h.OwnerID != userID {
		return nil, ErrForbidden
	}
	if err := s.householdRepo.UpdateName(ctx, householdID, strings.TrimSpace(name)); err != nil {
		return nil, err
	}
	return s.householdRepo.FindByID(ctx, householdID)
}

func (s *householdService) Delete(ctx context.Context, userID, email, householdID string) (string, error) {
	h, err := s.householdRepo.FindByID(ctx, householdID)
	if err != nil {
		return "", translateErr(err)
	}
	if h.OwnerID != userID {
		return "", ErrForbidden
	}
	if err := s.householdRepo.DeleteCascade(ctx, householdID); err != nil {
		return "", err
	}
	// The caller's old token still names the deleted household.
	return s.tokens.Issue(userID, email, "")
}

func (s *householdService) Join(ctx context.Context, userID, email, inviteCode string) (*model.Household, string, error) {
	if inviteCode == "" {
		return nil, "", fmt.Errorf("%w: invite code is required", ErrInvalid)
	}
	h, err := s.householdRepo.FindByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, "", translateErr(err)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", translateErr(err)
	}
	if user.HouseholdID != nil {
		return nil, "", ErrConflict
	}
	if err := s.userRepo.SetHousehold(ctx, userID, &h.ID); err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(userID, email, h.ID)
	if err != nil {
		return nil, "", err
	}
	return h, token, nil
}

func (s *householdService) Leave(ctx context.Context, userID, email string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", translateErr(err)
	}
	if user.HouseholdID == nil {
		return "", fmt.Errorf("%w: you are not a member of any household", ErrInvalid)
	}
	h, err := s.householdRepo.FindByID(ctx, *user.HouseholdID)
	if err != nil {
		return "", translateErr(err)
	}
	if h.OwnerID == userID {
		return "", ErrForbidden
	}
	if err := s.choreRepo.UnassignUser(ctx, h.ID, userID); err != nil {
		return "", err
	}
	if err := s.userRepo.SetHousehold(ctx, userID, nil); err != nil {
		return "", err
	}
	return s.tokens.Issue(userID, email, "")
}

func (s *householdService) RemoveMember(ctx context.Context, actorID, householdID, memberID string) error {
	if memberID == "" {
		return fmt.Errorf("%w: member id is required", ErrInvalid)
	}
	h, err := s.householdRepo.FindByID(ctx, householdID)
	if err != nil {
		return translateErr(err)
	}
	if h.OwnerID != actorID && actorID != memberID {
		return ErrForbidden
	}
	if memberID == h.OwnerID {
		return fmt.Errorf("%w: cannot remove the household owner", ErrInvalid)
	}
	if _, err := s.userRepo.FindHouseholdMember(ctx, householdID, memberID); err != nil {
		return translateErr(err)
	}
	if err := s.choreRepo.UnassignUser(ctx, householdID, memberID); err != nil {
		return err
	}
	return s.userRepo.SetHousehold(ctx, memberID, nil)
}

func (s *householdService) TransferOwnership(ctx context.Context, actorID, householdID, newOwnerID string) error {
	if newOwnerID == "" {
		return fmt.Errorf("%w: new owner id is required", ErrInvalid)
	}
	h, err := s.householdRepo.FindByID(ctx, householdID)
	if err != nil {
		return translateErr(err)
	}
	if h.OwnerID != actorID {
		return ErrForbidden
	}
	if _, err := s.userRepo.FindHouseholdMember(ctx, householdID, newOwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: new owner must be a member of the household", ErrInvalid)
		}
		return err
	}
	return s.householdRepo.UpdateOwner(ctx, householdID, newOwnerID)
}

func (s *householdService) RegenerateInviteCode(ctx context.Context, actorID string) (string, error) {
	h, err := s.householdRepo.FindByOwner(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrForbidden
		}
		return "", err
	}
	code, err := generateInviteCode()
	if err != nil {
		return "", err
	}
	if err := s.householdRepo.UpdateInviteCode(ctx, h.ID, code); err != nil {
		return "", translateErr(err)
	}
	return code, nil
}

func (s *householdService) Members(ctx context.Context, householdID string) ([]Member, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	h, err := s.householdRepo.FindByID(ctx, householdID)
	if err != nil {
		return nil, translateErr(err)
	}
	users, err := s.userRepo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	members := make([]Member, 0, len(users))
	for i := range users {
		completions, err := s.pointRepo.CompletionCount(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		members = append(members, Member{
			User:        &users[i],
			Completions: completions,
			IsOwner:     users[i].ID == h.OwnerID,
		})
	}
	return members, nil
}
