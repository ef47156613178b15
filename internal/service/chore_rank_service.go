package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/chorebattle/backend/internal/model"
	"github.com/chorebattle/backend/internal/repository"
	"gorm.io/gorm"
)

var taxonomyNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type RankUpdate struct {
	Name        *string
	DisplayName *string
	PointValue  *int
}

type ChoreRankService interface {
	List(ctx context.Context, householdID string) ([]model.ChoreRank, error)
	Create(ctx context.Context, householdID, name, displayName string, pointValue int) (*model.ChoreRank, error)
	Update(ctx context.Context, householdID, id string, upd RankUpdate) (*model.ChoreRank, error)
	Delete(ctx context.Context, householdID, id string) error
}

type choreRankService struct {
	rankRepo repository.ChoreRankRepository
}

func NewChoreRankService(rankRepo repository.ChoreRankRepository) ChoreRankService {
	return &choreRankService{rankRepo: rankRepo}
}

// validateTaxonomyName checks the shared naming rule for ranks and
// frequencies.
func validateTaxonomyName(name string) error {
	if name == "" || len(name) > 50 {
		return fmt.Errorf("%w: name must be 1-50 characters", ErrInvalid)
	}
	if !taxonomyNamePattern.MatchString(name) {
		return fmt.Errorf("%w: name can only contain letters, numbers, and underscores", ErrInvalid)
	}
	return nil
}

func (s *choreRankService) List(ctx context.Context, householdID string) ([]model.ChoreRank, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	return s.rankRepo.ListByHousehold(ctx, householdID)
}

func (s *choreRankService) Create(ctx context.Context, householdID, name, displayName string, pointValue int) (*model.ChoreRank, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	if err := validateTaxonomyName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrInvalid)
	}
	if pointValue <= 0 || pointValue > 1000 {
		return nil, fmt.Errorf("%w: point value must be between 1 and 1000", ErrInvalid)
	}

	if _, err := s.rankRepo.FindByName(ctx, householdID, name); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rank := &model.ChoreRank{
		Name:        name,
		DisplayName: strings.TrimSpace(displayName),
		PointValue:  pointValue,
		HouseholdID: householdID,
	}
	if err := s.rankRepo.Create(ctx, rank); err != nil {
		return nil, translateErr(err)
	}
	return rank, nil
}

func (s *choreRankService) Update(ctx context.Context, householdID, id string, upd RankUpdate) (*model.ChoreRank, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	rank, err := s.rankRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateErr(err)
	}
	if rank.HouseholdID != householdID {
		return nil, ErrForbidden
	}

	if upd.Name != nil && *upd.Name != rank.Name {
		if rank.IsSystem {
			return nil, ErrForbidden
		}
		if err := validateTaxonomyName(*upd.Name); err != nil {
			return nil, err
		}
		if other, err := s.rankRepo.FindByName(ctx, householdID, *upd.Name); err == nil && other.ID != id {
			return nil, ErrConflict
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		rank.Name = *upd.Name
	}
	if upd.DisplayName != nil {
		if strings.TrimSpace(*upd.DisplayName) == "" {
			return nil, fmt.Errorf("%w: display name is required", ErrInvalid)
		}
		rank.DisplayName = strings.TrimSpace(*upd.DisplayName)
	}
	if upd.PointValue != nil {
		if *upd.PointValue <= 0 || *upd.PointValue > 1000 {
			return nil, fmt.Errorf("%w: point value must be between 1 and 1000", ErrInvalid)
		}
		rank.PointValue = *upd.PointValue
	}

	if err := s.rankRepo.Update(ctx, rank); err != nil {
		return nil, translateErr(err)
	}
	return rank, nil
}

func (s *choreRankService) Delete(ctx context.Context, householdID, id string) error {
	if householdID == "" {
		return ErrNoHousehold
	}
	rank, err := s.rankRepo.FindByID(ctx, id)
	if err != nil {
		return translateErr(err)
	}
	if rank.HouseholdID != householdID {
		return ErrForbidden
	}
	if rank.IsSystem {
		return ErrForbidden
	}
	count, err := s.rankRepo.ChoreCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	return s.rankRepo.Delete(ctx, id)
}
