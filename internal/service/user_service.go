package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/repository"
)

// UserStore описывает зависимости UserService от хранилища пользователей.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByRole(ctx context.Context, role string, limit, offset int) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd repository.ProfileUpdate) (*models.User, error)
}

// UserService отвечает за профили пользователей.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// GetUser возвращает пользователя по идентификатору.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile применяет типизированное обновление профиля текущего пользователя.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, upd repository.ProfileUpdate) (*models.User, error) {
	user, err := s.users.UpdateProfile(ctx, actor.ID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListFreelancers возвращает активных фрилансеров.
func (s *UserService) ListFreelancers(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.ListByRole(ctx, models.RoleFreelancer, limit, offset)
}
