package vote

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows vote listings.
type Filter struct {
	UserID   *uuid.UUID
	ReviewID *uuid.UUID
	ReplyID  *uuid.UUID
}

// Stats holds a recount of one target's votes.
type Stats struct {
	Upvotes   int
	Downvotes int
}

// Repository defines persistence for votes.
type Repository interface {
	Create(ctx context.Context, v *Vote) error
	UpdateType(ctx context.Context, voteID uuid.UUID, voteType bool) error
	GetByID(ctx context.Context, voteID uuid.UUID) (*Vote, error)
	GetByUserAndTarget(ctx context.Context, userID uuid.UUID, kind TargetKind, targetID uuid.UUID) (*Vote, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Vote, error)
	Delete(ctx context.Context, voteID uuid.UUID) error

	// CountForTarget recounts a target's votes from the votes table.
	CountForTarget(ctx context.Context, kind TargetKind, targetID uuid.UUID) (Stats, error)
}
