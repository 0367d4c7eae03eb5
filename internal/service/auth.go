package service

import (
	"context"
	"errors"
	"strings"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/repository"
	"collab-deck-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var ErrInvalidCredentials = &Error{Kind: ErrUnauthorized, Message: "invalid email or password"}

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Signup(ctx context.Context, name, email, password, passwordConfirm string) (*domain.User, error) {
	logger.EnterMethod("authService.Signup", "email", email)

	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, newError(ErrValidation, "name, email, and password are required")
	}
	if !strings.Contains(email, "@") {
		return nil, newError(ErrValidation, "invalid email address")
	}
	if password != passwordConfirm {
		return nil, newError(ErrValidation, "passwords do not match")
	}
	if len(password) < minPasswordLength {
		return nil, newError(ErrValidation, "password must be at least %d characters", minPasswordLength)
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, newError(ErrConflict, "email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalError("authService.Signup", err, "email", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError("authService.Signup", err, "reason", "hash")
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.UserRoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "email already registered")
		}
		return nil, internalError("authService.Signup", err, "email", email)
	}

	logger.ExitMethod("authService.Signup", "userID", user.ID)
	return user, nil
}

func (s *authService) Signin(ctx context.Context, email, password string) (*domain.User, string, error) {
	logger.EnterMethod("authService.Signin", "email", email)

	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", newError(ErrValidation, "email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", internalError("authService.Signin", err, "email", email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Signin failed: wrong password", "userID", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", internalError("authService.Signin", err, "userID", user.ID)
	}

	logger.ExitMethod("authService.Signin", "userID", user.ID)
	return user, token, nil
}

func (s *authService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "user not found")
		}
		return nil, internalError("authService.Me", err, "userID", actor.UserID)
	}
	return user, nil
}
