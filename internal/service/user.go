package service

import (
	"context"
	"errors"
	"strings"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Lookup(ctx context.Context, actor domain.Actor, email string) (*domain.User, error) {
	if !actor.IsAuthenticated() {
		return nil, newError(ErrUnauthorized, "unauthorized")
	}
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, newError(ErrValidation, "email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, newError(ErrValidation, "invalid email address")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, internalError("userService.Lookup", err, "email", email)
	}
	return user, nil
}
