package vote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainReply "github.com/campus-echo/campus-echo/internal/domain/reply"
	domainReview "github.com/campus-echo/campus-echo/internal/domain/review"
	domainUser "github.com/campus-echo/campus-echo/internal/domain/user"
	domainVote "github.com/campus-echo/campus-echo/internal/domain/vote"
)

// Service implements vote casting and removal. Counters on the voted
// content are always refreshed by recounting the votes table, and the
// author's echo score is recomputed whenever a target's stats change.
type Service struct {
	voteRepo   domainVote.Repository
	reviewRepo domainReview.Repository
	replyRepo  domainReply.Repository
	userRepo   domainUser.Repository
	logger     zerolog.Logger
}

func NewService(
	voteRepo domainVote.Repository,
	reviewRepo domainReview.Repository,
	replyRepo domainReply.Repository,
	userRepo domainUser.Repository,
	logger zerolog.Logger,
) *Service {
	return &Service{
		voteRepo:   voteRepo,
		reviewRepo: reviewRepo,
		replyRepo:  replyRepo,
		userRepo:   userRepo,
		logger:     logger.With().Str("service", "vote").Logger(),
	}
}

// CastInput identifies the target and direction of a vote. Exactly one of
// ReviewID/ReplyID must be set.
type CastInput struct {
	ReviewID *uuid.UUID
	ReplyID  *uuid.UUID
	VoteType bool
}

// Cast upserts the actor's vote on a target. Repeating the same vote is a
// no-op returning the stored row; voting the opposite direction flips the
// existing row in place. The second return reports whether a new row was
// created.
func (s *Service) Cast(ctx context.Context, actor *domainUser.User, in CastInput) (*domainVote.Vote, bool, error) {
	probe := domainVote.Vote{ReviewID: in.ReviewID, ReplyID: in.ReplyID}
	if err := probe.Validate(); err != nil {
		return nil, false, err
	}
	if !actor.CanVote() {
		return nil, false, domainVote.ErrMuffled
	}

	kind := probe.Kind()
	targetID := probe.TargetID()
	ownerID, err := s.targetOwner(ctx, kind, targetID)
	if err != nil {
		return nil, false, err
	}
	if ownerID == actor.UserID {
		return nil, false, domainVote.ErrOwnContent
	}

	existing, err := s.voteRepo.GetByUserAndTarget(ctx, actor.UserID, kind, targetID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.VoteType == in.VoteType {
			return existing, false, nil
		}
		if err := s.voteRepo.UpdateType(ctx, existing.VoteID, in.VoteType); err != nil {
			return nil, false, err
		}
		existing.VoteType = in.VoteType
		existing.UpdatedAt = time.Now().UTC()
		if err := s.refreshTarget(ctx, kind, targetID, ownerID); err != nil {
			return nil, false, err
		}
		s.logger.Info().Str("vote_id", existing.VoteID.String()).Bool("vote_type", in.VoteType).Msg("vote flipped")
		return existing, false, nil
	}

	now := time.Now().UTC()
	v := &domainVote.Vote{
		VoteID:    uuid.New(),
		UserID:    actor.UserID,
		ReviewID:  in.ReviewID,
		ReplyID:   in.ReplyID,
		VoteType:  in.VoteType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.voteRepo.Create(ctx, v); err != nil {
		return nil, false, err
	}
	if err := s.refreshTarget(ctx, kind, targetID, ownerID); err != nil {
		return nil, false, err
	}
	s.logger.Info().Str("vote_id", v.VoteID.String()).Bool("vote_type", in.VoteType).Msg("vote cast")
	return v, true, nil
}

// Remove deletes a vote. Only its owner or an admin may remove it.
func (s *Service) Remove(ctx context.Context, actor *domainUser.User, voteID uuid.UUID) error {
	v, err := s.voteRepo.GetByID(ctx, voteID)
	if err != nil {
		return err
	}
	if v == nil {
		return domainVote.ErrNotFound
	}
	if v.UserID != actor.UserID && !actor.IsAdmin {
		return domainVote.ErrNotVoteOwner
	}

	kind := v.Kind()
	targetID := v.TargetID()
	ownerID, err := s.targetOwner(ctx, kind, targetID)
	if err != nil && err != domainVote.ErrTargetNotFound {
		return err
	}

	if err := s.voteRepo.Delete(ctx, voteID); err != nil {
		return err
	}
	if ownerID != uuid.Nil {
		if err := s.refreshTarget(ctx, kind, targetID, ownerID); err != nil {
			return err
		}
	}
	s.logger.Info().Str("vote_id", voteID.String()).Msg("vote removed")
	return nil
}

// Get returns a vote by id.
func (s *Service) Get(ctx context.Context, voteID uuid.UUID) (*domainVote.Vote, error) {
	v, err := s.voteRepo.GetByID(ctx, voteID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domainVote.ErrNotFound
	}
	return v, nil
}

// ListMine returns the actor's votes, optionally narrowed to one target.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, reviewID, replyID *uuid.UUID, limit, offset int) ([]*domainVote.Vote, error) {
	filter := domainVote.Filter{UserID: &userID, ReviewID: reviewID, ReplyID: replyID}
	return s.voteRepo.List(ctx, filter, limit, offset)
}

// List returns a filtered page of votes.
func (s *Service) List(ctx context.Context, filter domainVote.Filter, limit, offset int) ([]*domainVote.Vote, error) {
	return s.voteRepo.List(ctx, filter, limit, offset)
}

// targetOwner resolves the author of the voted content, or
// ErrTargetNotFound when the content does not exist.
func (s *Service) targetOwner(ctx context.Context, kind domainVote.TargetKind, targetID uuid.UUID) (uuid.UUID, error) {
	switch kind {
	case domainVote.KindReview:
		rv, err := s.reviewRepo.GetByID(ctx, targetID)
		if err != nil {
			return uuid.Nil, err
		}
		if rv == nil {
			return uuid.Nil, domainVote.ErrTargetNotFound
		}
		return rv.UserID, nil
	default:
		rp, err := s.replyRepo.GetByID(ctx, targetID)
		if err != nil {
			return uuid.Nil, err
		}
		if rp == nil {
			return uuid.Nil, domainVote.ErrTargetNotFound
		}
		return rp.UserID, nil
	}
}

// refreshTarget recounts the target's votes, stores the counters, and
// recomputes the author's echo score.
func (s *Service) refreshTarget(ctx context.Context, kind domainVote.TargetKind, targetID, ownerID uuid.UUID) error {
	stats, err := s.voteRepo.CountForTarget(ctx, kind, targetID)
	if err != nil {
		return err
	}
	if kind == domainVote.KindReview {
		err = s.reviewRepo.SetVoteStats(ctx, targetID, stats.Upvotes, stats.Downvotes)
	} else {
		err = s.replyRepo.SetVoteStats(ctx, targetID, stats.Upvotes, stats.Downvotes)
	}
	if err != nil {
		return err
	}
	echoes, err := s.userRepo.RecomputeEchoes(ctx, ownerID)
	if err != nil {
		return err
	}
	s.logger.Debug().
		Str("target_id", targetID.String()).
		Int("upvotes", stats.Upvotes).
		Int("downvotes", stats.Downvotes).
		Int("echoes", echoes).
		Msg("target stats refreshed")
	return nil
}
