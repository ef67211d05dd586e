package reply

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reply is a response to a review. Like reviews, its vote counters are
// denormalized and refreshed by recount only.
type Reply struct {
	ID        int64     `json:"-"`
	ReplyID   uuid.UUID `json:"id"`
	ReviewID  uuid.UUID `json:"review_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	IsEdited  bool      `json:"is_edited"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrEmptyContent = errors.New("reply content is required")
	ErrNotFound     = errors.New("reply not found")
	ErrNotOwner     = errors.New("not enough permissions")
)

func (r *Reply) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}
