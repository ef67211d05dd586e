package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainUser "github.com/campus-echo/campus-echo/internal/domain/user"
)

// Service handles account management.
type Service struct {
	repo   domainUser.Repository
	logger zerolog.Logger
}

func NewService(repo domainUser.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// RegisterInput contains registration fields.
type RegisterInput struct {
	Username         string
	Password         string
	Bio              *string
	StudentSinceYear *int
}

// Register creates a new account. New accounts start muffled with zero
// echoes until verified.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domainUser.User, error) {
	username := domainUser.NormalizeUsername(in.Username)
	if err := domainUser.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := domainUser.ValidatePassword(in.Password, username); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("username already taken")
	}

	hash, err := domainUser.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &domainUser.User{
		UserID:           uuid.New(),
		Username:         username,
		PasswordHash:     hash,
		Bio:              in.Bio,
		StudentSinceYear: in.StudentSinceYear,
		IsMuffled:        true,
		Echoes:           0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", u.UserID.String()).Str("username", u.Username).Msg("user registered")
	return u, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

// List returns a page of users.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domainUser.User, error) {
	return s.repo.List(ctx, limit, offset)
}

// Count returns the total number of accounts.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
