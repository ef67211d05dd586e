package reply

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows reply listings.
type Filter struct {
	UserID   *uuid.UUID
	ReviewID *uuid.UUID
}

// Repository defines persistence for replies.
type Repository interface {
	Create(ctx context.Context, r *Reply) error
	Update(ctx context.Context, r *Reply) error
	GetByID(ctx context.Context, replyID uuid.UUID) (*Reply, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Reply, error)
	Delete(ctx context.Context, replyID uuid.UUID) error

	// SetVoteStats replaces the denormalized vote counters.
	SetVoteStats(ctx context.Context, replyID uuid.UUID, upvotes, downvotes int) error
}
