package service

import (
	"context"
	"errors"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]dto.UserResponse, int64, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
	GetSelf(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateSelf(ctx context.Context, userID string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) ([]dto.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if !dto.PageExists(total, page, pageSize) {
		return nil, 0, ErrPageNotFound
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.FromModelToUserResponse(&users[i]))
	}
	return out, total, nil
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	user := req.ToModel()
	user.Email = normalizeEmail(user.Email)
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, userWriteError(err)
	}
	resp := dto.FromModelToUserResponse(&user)
	return &resp, nil
}

func (s *userService) Get(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

// Update is the admin edit; it may change the role.
func (s *userService) Update(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, user, req, true)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) GetSelf(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

// UpdateSelf never touches role or the escalation flags.
func (s *userService) UpdateSelf(ctx context.Context, userID string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, user, req, false)
}

func (s *userService) save(ctx context.Context, user *models.User, req dto.UpdateUserRequest, allowRole bool) (*dto.UserResponse, error) {
	req.ApplyTo(user, allowRole)
	user.Email = normalizeEmail(user.Email)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, userWriteError(err)
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

func (s *userService) findByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) findByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func userWriteError(err error) error {
	switch {
	case repository.IsDuplicate(err, repository.ConstraintUserEmail):
		return NewValidationError("email", "a user with that email already exists")
	case repository.IsDuplicate(err, repository.ConstraintUserUsername):
		return NewValidationError("username", "a user with that username already exists")
	case repository.IsDuplicate(err):
		return NewValidationError("non_field_errors", "user already exists")
	}
	return err
}
