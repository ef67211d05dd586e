package vote

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TargetKind names the two kinds of votable content.
type TargetKind string

const (
	KindReview TargetKind = "review"
	KindReply  TargetKind = "reply"
)

// Vote records one user's stance on one review or reply. Exactly one of
// ReviewID/ReplyID is set, and the database enforces at most one vote per
// (user, target) pair.
type Vote struct {
	ID        int64      `json:"-"`
	VoteID    uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	ReviewID  *uuid.UUID `json:"review_id,omitempty"`
	ReplyID   *uuid.UUID `json:"reply_id,omitempty"`
	VoteType  bool       `json:"vote_type"` // true = up, false = down
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

var (
	ErrNoTarget       = errors.New("exactly one of review_id or reply_id must be provided")
	ErrNotFound       = errors.New("vote not found")
	ErrTargetNotFound = errors.New("vote target not found")
	ErrOwnContent     = errors.New("cannot vote on your own content")
	ErrMuffled        = errors.New("muffled accounts cannot vote")
	ErrNotVoteOwner   = errors.New("not enough permissions")
)

// Validate checks the exactly-one-target invariant.
func (v *Vote) Validate() error {
	if (v.ReviewID == nil) == (v.ReplyID == nil) {
		return ErrNoTarget
	}
	return nil
}

// Kind reports which kind of content the vote targets.
func (v *Vote) Kind() TargetKind {
	if v.ReviewID != nil {
		return KindReview
	}
	return KindReply
}

// TargetID returns the id of the voted content.
func (v *Vote) TargetID() uuid.UUID {
	if v.ReviewID != nil {
		return *v.ReviewID
	}
	if v.ReplyID != nil {
		return *v.ReplyID
	}
	return uuid.Nil
}
