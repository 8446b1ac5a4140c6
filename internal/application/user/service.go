// Package user provides the user account management service.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"netreq/internal/domain/user"
	"netreq/internal/shared/authorization"
	apperrors "netreq/internal/shared/errors"
	"netreq/internal/shared/logger"
)

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// UserDTO is the read model of a user account. The password hash never
// leaves the application layer.
type UserDTO struct {
	ID        uint   `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// CreateUserCommand represents an administrative account creation.
type CreateUserCommand struct {
	FullName string
	Email    string
	Password string
	Phone    string
	Role     string
}

// UpdateUserCommand represents an account update. Nil fields are left
// unchanged; only admins may change the role.
type UpdateUserCommand struct {
	FullName *string
	Phone    *string
	Password *string
	Role     *string
}

type Service struct {
	repo   user.Repository
	hasher PasswordHasher
	logger logger.Interface
}

func NewService(repo user.Repository, hasher PasswordHasher, logger logger.Interface) *Service {
	return &Service{repo: repo, hasher: hasher, logger: logger}
}

func (s *Service) Create(ctx context.Context, cmd CreateUserCommand) (*UserDTO, error) {
	if cmd.Password == "" {
		return nil, apperrors.NewValidationError("password is required")
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		s.logger.Errorw("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := user.NewUser(cmd.FullName, cmd.Email, hash, cmd.Phone, authorization.ParseUserRole(cmd.Role))
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return nil, apperrors.NewConflictError("email is already in use", cmd.Email)
		}
		s.logger.Errorw("failed to create user", "email", cmd.Email, "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("user created", "user_id", u.ID(), "role", u.Role())
	return toDTO(u), nil
}

func (s *Service) Get(ctx context.Context, id uint) (*UserDTO, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("user not found", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDTO(u), nil
}

// Update modifies an account. Non-admin actors may only update their own
// account and may not change the role.
func (s *Service) Update(ctx context.Context, id uint, cmd UpdateUserCommand, actor authorization.Actor) (*UserDTO, error) {
	if !actor.CanAccessOwnedResource(id) {
		return nil, apperrors.NewForbiddenError("you are not authorized to update this user")
	}
	if cmd.Role != nil && !actor.Role.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only administrators can change roles")
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("user not found", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	fullName, phone := "", ""
	if cmd.FullName != nil {
		fullName = *cmd.FullName
	}
	if cmd.Phone != nil {
		phone = *cmd.Phone
	}
	u.UpdateProfile(fullName, phone)

	if cmd.Password != nil {
		if *cmd.Password == "" {
			return nil, apperrors.NewValidationError("password cannot be empty")
		}
		hash, err := s.hasher.Hash(*cmd.Password)
		if err != nil {
			s.logger.Errorw("failed to hash password", "error", err)
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := u.ChangePasswordHash(hash); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	if cmd.Role != nil {
		if err := u.ChangeRole(authorization.UserRole(*cmd.Role)); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("user not found", fmt.Sprintf("%d", id))
		}
		s.logger.Errorw("failed to update user", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Infow("user updated", "user_id", id, "actor_id", actor.UserID)
	return toDTO(u), nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperrors.NewNotFoundError("user not found", fmt.Sprintf("%d", id))
		}
		s.logger.Errorw("failed to delete user", "user_id", id, "error", err)
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Infow("user deleted", "user_id", id)
	return nil
}

func (s *Service) List(ctx context.Context, filter user.ListFilter) ([]*UserDTO, error) {
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Errorw("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	dtos := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, toDTO(u))
	}
	return dtos, nil
}

func toDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:        u.ID(),
		FullName:  u.FullName(),
		Email:     u.Email(),
		Phone:     u.Phone(),
		Role:      u.Role().String(),
		CreatedAt: u.CreatedAt().Format(time.RFC3339),
	}
}
