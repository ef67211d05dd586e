package review

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainReview "github.com/campus-echo/campus-echo/internal/domain/review"
	domainUser "github.com/campus-echo/campus-echo/internal/domain/user"
)

// Service handles review lifecycle.
type Service struct {
	repo   domainReview.Repository
	logger zerolog.Logger
}

func NewService(repo domainReview.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "review").Logger(),
	}
}

// CreateInput contains the fields for a new review.
type CreateInput struct {
	CourseID    *uuid.UUID
	ProfessorID *uuid.UUID
	Rating      int
	Content     *string
	Semester    *string
	Year        *int
}

// Create publishes a review authored by the actor.
func (s *Service) Create(ctx context.Context, actor *domainUser.User, in CreateInput) (*domainReview.Review, error) {
	now := time.Now().UTC()
	rv := &domainReview.Review{
		ReviewID:    uuid.New(),
		UserID:      actor.UserID,
		CourseID:    in.CourseID,
		ProfessorID: in.ProfessorID,
		Rating:      in.Rating,
		Content:     in.Content,
		Semester:    in.Semester,
		Year:        in.Year,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := rv.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	s.logger.Info().Str("review_id", rv.ReviewID.String()).Str("user_id", actor.UserID.String()).Msg("review created")
	return rv, nil
}

// Get returns a review by id.
func (s *Service) Get(ctx context.Context, reviewID uuid.UUID) (*domainReview.Review, error) {
	rv, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv == nil {
		return nil, domainReview.ErrNotFound
	}
	return rv, nil
}

// List returns a filtered page of reviews.
func (s *Service) List(ctx context.Context, filter domainReview.Filter, limit, offset int) ([]*domainReview.Review, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// Delete removes a review. Only the author or an admin may delete.
func (s *Service) Delete(ctx context.Context, actor *domainUser.User, reviewID uuid.UUID) error {
	rv, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if rv == nil {
		return domainReview.ErrNotFound
	}
	if rv.UserID != actor.UserID && !actor.IsAdmin {
		return domainReview.ErrNotOwner
	}
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return err
	}
	s.logger.Info().Str("review_id", reviewID.String()).Msg("review deleted")
	return nil
}
