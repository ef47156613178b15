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

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*model.User, error)
	// Login returns the user and a fresh session token carrying the
	// current household claim.
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalid)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalid)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:    email,
		Name:     strings.TrimSpace(name),
		Password: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, translateErr(err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	householdID := ""
	if user.HouseholdID != nil {
		householdID = *user.HouseholdID
	}
	token, err := s.tokens.Issue(user.ID, user.Email, householdID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
