package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, error)
	Count(ctx context.Context) (int, error)

	// RecomputeEchoes recalculates the echo score from vote stats on the
	// user's authored content and stores the result.
	RecomputeEchoes(ctx context.Context, userID uuid.UUID) (int, error)
}
