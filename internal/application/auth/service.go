// Package auth provides registration, login, and profile retrieval.
package auth

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

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID uint, role authorization.UserRole) (string, error)
}

// RegisterCommand represents the input for self-service registration.
// Registration always creates a regular user; roles are assigned by admins.
type RegisterCommand struct {
	FullName string
	Email    string
	Password string
	Phone    string
}

// LoginCommand represents the input for authentication.
type LoginCommand struct {
	Email    string
	Password string
}

// ProfileDTO is the authenticated user's own account view.
type ProfileDTO struct {
	ID        uint   `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// LoginResult carries the signed token and the authenticated profile.
type LoginResult struct {
	Token string     `json:"token"`
	User  ProfileDTO `json:"user"`
}

type Service struct {
	userRepo user.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewService(userRepo user.Repository, hasher PasswordHasher, tokens TokenIssuer, logger logger.Interface) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*ProfileDTO, error) {
	if cmd.Password == "" {
		return nil, apperrors.NewValidationError("password is required")
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		s.logger.Errorw("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := user.NewUser(cmd.FullName, cmd.Email, hash, cmd.Phone, authorization.RoleUser)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return nil, apperrors.NewConflictError("email is already in use", cmd.Email)
		}
		s.logger.Errorw("failed to register user", "email", cmd.Email, "error", err)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Infow("user registered", "user_id", u.ID())
	return toProfile(u), nil
}

func (s *Service) Login(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Same error as a wrong password so the endpoint does not leak
			// which emails are registered.
			return nil, apperrors.NewUnauthorizedError("invalid email or password")
		}
		s.logger.Errorw("failed to load user for login", "error", err)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Verify(cmd.Password, u.PasswordHash()); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}

	token, err := s.tokens.Generate(u.ID(), u.Role())
	if err != nil {
		s.logger.Errorw("failed to generate token", "user_id", u.ID(), "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Infow("user logged in", "user_id", u.ID())
	return &LoginResult{Token: token, User: *toProfile(u)}, nil
}

func (s *Service) Profile(ctx context.Context, userID uint) (*ProfileDTO, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("user not found", fmt.Sprintf("%d", userID))
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return toProfile(u), nil
}

func toProfile(u *user.User) *ProfileDTO {
	return &ProfileDTO{
		ID:        u.ID(),
		FullName:  u.FullName(),
		Email:     u.Email(),
		Phone:     u.Phone(),
		Role:      u.Role().String(),
		CreatedAt: u.CreatedAt().Format(time.RFC3339),
	}
}
