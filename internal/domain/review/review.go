package review

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Review is an anonymous course/professor review. Vote stats are maintained
// exclusively by recounting the votes table, never by inline arithmetic.
type Review struct {
	ID          int64      `json:"-"`
	ReviewID    uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	CourseID    *uuid.UUID `json:"course_id,omitempty"`
	ProfessorID *uuid.UUID `json:"professor_id,omitempty"`
	Rating      int        `json:"rating"`
	Content     *string    `json:"content,omitempty"`
	Semester    *string    `json:"semester,omitempty"`
	Year        *int       `json:"year,omitempty"`
	Upvotes     int        `json:"upvotes"`
	Downvotes   int        `json:"downvotes"`
	IsEdited    bool       `json:"is_edited"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

var (
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrNoSubject        = errors.New("review must reference a course or a professor")
	ErrNotFound         = errors.New("review not found")
	ErrNotOwner         = errors.New("not enough permissions")
)

// Validate checks the invariants enforced by the database schema.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrRatingOutOfRange
	}
	if r.CourseID == nil && r.ProfessorID == nil {
		return ErrNoSubject
	}
	return nil
}
