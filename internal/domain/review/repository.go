package review

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows review listings.
type Filter struct {
	UserID      *uuid.UUID
	CourseID    *uuid.UUID
	ProfessorID *uuid.UUID
}

// Repository defines persistence for reviews.
type Repository interface {
	Create(ctx context.Context, r *Review) error
	Update(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, reviewID uuid.UUID) (*Review, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Review, error)
	Delete(ctx context.Context, reviewID uuid.UUID) error

	// SetVoteStats replaces the denormalized vote counters.
	SetVoteStats(ctx context.Context, reviewID uuid.UUID, upvotes, downvotes int) error
}
