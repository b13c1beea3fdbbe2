package services

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/SundayYogurt/blog_service/internal/apperr"
	"github.com/SundayYogurt/blog_service/internal/dto"
	"github.com/SundayYogurt/blog_service/internal/helper"
	"github.com/SundayYogurt/blog_service/internal/repository"
	"gorm.io/gorm"
)

type UserService interface {
	List(page, limit int) (*dto.UserListResponse, error)
	GetByID(id uint) (*dto.UserResponse, error)
	Update(id uint, input dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(id uint) error
}

type userService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{users: users, logger: logger}
}

func (s *userService) List(page, limit int) (*dto.UserListResponse, error) {
	page, limit = normalizePage(page, limit)

	users, total, err := s.users.List(limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}

	return &dto.UserListResponse{
		Data:       out,
		Pagination: buildPagination(page, limit, total),
	}, nil
}

func (s *userService) GetByID(id uint) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Update(id uint, input dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email != user.Email {
			if _, err := s.users.FindByEmail(email); err == nil {
				return nil, apperr.Conflict("Email already exists")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Password != nil {
		hashed, err := helper.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.users.Save(user); err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, apperr.Conflict("Email already exists")
		}
		return nil, err
	}

	s.logger.Info("user updated", slog.Uint64("user_id", uint64(user.ID)))

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Delete(id uint) error {
	if _, err := s.users.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("User not found")
		}
		return err
	}

	if err := s.users.Delete(id); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.Uint64("user_id", uint64(id)))
	return nil
}
