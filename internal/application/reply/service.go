package reply

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainReply "github.com/campus-echo/campus-echo/internal/domain/reply"
	domainReview "github.com/campus-echo/campus-echo/internal/domain/review"
	domainUser "github.com/campus-echo/campus-echo/internal/domain/user"
)

// Service handles reply lifecycle.
type Service struct {
	repo       domainReply.Repository
	reviewRepo domainReview.Repository
	logger     zerolog.Logger
}

func NewService(repo domainReply.Repository, reviewRepo domainReview.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		reviewRepo: reviewRepo,
		logger:     logger.With().Str("service", "reply").Logger(),
	}
}

// Create posts a reply under an existing review.
func (s *Service) Create(ctx context.Context, actor *domainUser.User, reviewID uuid.UUID, content string) (*domainReply.Reply, error) {
	rv, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv == nil {
		return nil, domainReview.ErrNotFound
	}

	now := time.Now().UTC()
	rp := &domainReply.Reply{
		ReplyID:   uuid.New(),
		ReviewID:  reviewID,
		UserID:    actor.UserID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := rp.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rp); err != nil {
		return nil, err
	}
	s.logger.Info().Str("reply_id", rp.ReplyID.String()).Str("review_id", reviewID.String()).Msg("reply created")
	return rp, nil
}

// Get returns a reply by id.
func (s *Service) Get(ctx context.Context, replyID uuid.UUID) (*domainReply.Reply, error) {
	rp, err := s.repo.GetByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if rp == nil {
		return nil, domainReply.ErrNotFound
	}
	return rp, nil
}

// List returns a filtered page of replies.
func (s *Service) List(ctx context.Context, filter domainReply.Filter, limit, offset int) ([]*domainReply.Reply, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// Delete removes a reply. Only the author or an admin may delete.
func (s *Service) Delete(ctx context.Context, actor *domainUser.User, replyID uuid.UUID) error {
	rp, err := s.repo.GetByID(ctx, replyID)
	if err != nil {
		return err
	}
	if rp == nil {
		return domainReply.ErrNotFound
	}
	if rp.UserID != actor.UserID && !actor.IsAdmin {
		return domainReply.ErrNotOwner
	}
	if err := s.repo.Delete(ctx, replyID); err != nil {
		return err
	}
	s.logger.Info().Str("reply_id", replyID.String()).Msg("reply deleted")
	return nil
}
