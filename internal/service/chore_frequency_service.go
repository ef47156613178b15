package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chorebattle/backend/internal/model"
	"github.com/chorebattle/backend/internal/repository"
	"gorm.io/gorm"
)

type FrequencyUpdate struct {
	Name         *string
	DisplayName  *string
	DaysInterval *int
}

type ChoreFrequencyService interface {
	List(ctx context.Context, householdID string) ([]model.ChoreFrequency, error)
	Create(ctx context.Context, householdID, name, displayName string, daysInterval int) (*model.ChoreFrequency, error)
	// Update reschedules every dependent chore when the interval changes.
	Update(ctx context.Context, householdID, id string, upd FrequencyUpdate) (*model.ChoreFrequency, error)
	Delete(ctx context.Context, householdID, id string) error
}

type choreFrequencyService struct {
	freqRepo repository.ChoreFrequencyRepository
}

func NewChoreFrequencyService(freqRepo repository.ChoreFrequencyRepository) ChoreFrequencyService {
	return &choreFrequencyService{freqRepo: freqRepo}
}

func validateDaysInterval(days int) error {
	if days < 1 || days > 365 {
		return fmt.Errorf("%w: days interval must be between 1 and 365", ErrInvalid)
	}
	return nil
}

func (s *choreFrequencyService) List(ctx context.Context, householdID string) ([]model.ChoreFrequency, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	return s.freqRepo.ListByHousehold(ctx, householdID)
}

func (s *choreFrequencyService) Create(ctx context.Context, householdID, name, displayName string, daysInterval int) (*model.ChoreFrequency, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	if err := validateTaxonomyName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrInvalid)
	}
	if err := validateDaysInterval(daysInterval); err != nil {
		return nil, err
	}

	if _, err := s.freqRepo.FindByName(ctx, householdID, name); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	freq := &model.ChoreFrequency{
		Name:         name,
		DisplayName:  strings.TrimSpace(displayName),
		DaysInterval: daysInterval,
		HouseholdID:  householdID,
	}
	if err := s.freqRepo.Create(ctx, freq); err != nil {
		return nil, translateErr(err)
	}
	return freq, nil
}

func (s *choreFrequencyService) Update(ctx context.Context, householdID, id string, upd FrequencyUpdate) (*model.ChoreFrequency, error) {
	if householdID == "" {
		return nil, ErrNoHousehold
	}
	freq, err := s.freqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateErr(err)
	}
	if freq.HouseholdID != householdID {
		return nil, ErrForbidden
	}

	if upd.Name != nil && *upd.Name != freq.Name {
		if freq.IsSystem {
			return nil, ErrForbidden
		}
		if err := validateTaxonomyName(*upd.Name); err != nil {
			return nil, err
		}
		if other, err := s.freqRepo.FindByName(ctx, householdID, *upd.Name); err == nil && other.ID != id {
			return nil, ErrConflict
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		freq.Name = *upd.Name
	}
	if upd.DisplayName != nil {
		if strings.TrimSpace(*upd.DisplayName) == "" {
			return nil, fmt.Errorf("%w: display name is required", ErrInvalid)
		}
		freq.DisplayName = strings.TrimSpace(*upd.DisplayName)
	}
	reschedule := false
	if upd.DaysInterval != nil && *upd.DaysInterval != freq.DaysInterval {
		if err := validateDaysInterval(*upd.DaysInterval); err != nil {
			return nil, err
		}
		freq.DaysInterval = *upd.DaysInterval
		reschedule = true
	}

	if err := s.freqRepo.UpdateWithReschedule(ctx, freq, reschedule); err != nil {
		return nil, translateErr(err)
	}
	return freq, nil
}

func (s *choreFrequencyService) Delete(ctx context.Context, householdID, id string) error {
	if householdID == "" {
		return ErrNoHousehold
	}
	freq, err := s.freqRepo.FindByID(ctx, id)
	if err != nil {
		return translateErr(err)
	}
	if freq.HouseholdID != householdID {
		return ErrForbidden
	}
	if freq.IsSystem {
		return ErrForbidden
	}
	count, err := s.freqRepo.ChoreCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	return s.freqRepo.Delete(ctx, id)
}
