package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-echo/campus-echo/internal/domain/review"
)

// ReviewRepository implements review.Repository.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, review_id, user_id, course_id, professor_id, rating, content,
	semester, year, upvotes, downvotes, is_edited, created_at, updated_at`

func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO reviews
		(review_id, user_id, course_id, professor_id, rating, content, semester, year,
		 upvotes, downvotes, is_edited, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, rv.ReviewID, rv.UserID, rv.CourseID, rv.ProfessorID, rv.Rating, rv.Content, rv.Semester, rv.Year,
		rv.Upvotes, rv.Downvotes, rv.IsEdited, rv.CreatedAt, rv.UpdatedAt)
	return err
}

func (r *ReviewRepository) Update(ctx context.Context, rv *review.Review) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE reviews
		SET rating=$1, content=$2, semester=$3, year=$4, is_edited=$5, updated_at=$6
		WHERE review_id=$7
	`, rv.Rating, rv.Content, rv.Semester, rv.Year, rv.IsEdited, rv.UpdatedAt, rv.ReviewID)
	return err
}

func (r *ReviewRepository) GetByID(ctx context.Context, reviewID uuid.UUID) (*review.Review, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE review_id=$1`, reviewID)
	return scanReview(row)
}

func (r *ReviewRepository) List(ctx context.Context, filter review.Filter, limit, offset int) ([]*review.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews`
	args := []interface{}{}
	where := []string{}
	idx := 1
	if filter.UserID != nil {
		where = append(where, "user_id=$"+itoa(idx))
		args = append(args, *filter.UserID)
		idx++
	}
	if filter.CourseID != nil {
		where = append(where, "course_id=$"+itoa(idx))
		args = append(args, *filter.CourseID)
		idx++
	}
	if filter.ProfessorID != nil {
		where = append(where, "professor_id=$"+itoa(idx))
		args = append(args, *filter.ProfessorID)
		idx++
	}
	query += buildWhere(where)
	query += " ORDER BY created_at DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reviews []*review.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) Delete(ctx context.Context, reviewID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE review_id=$1`, reviewID)
	return err
}

func (r *ReviewRepository) SetVoteStats(ctx context.Context, reviewID uuid.UUID, upvotes, downvotes int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE reviews SET upvotes=$1, downvotes=$2, updated_at=NOW() WHERE review_id=$3
	`, upvotes, downvotes, reviewID)
	return err
}

func scanReview(row pgx.Row) (*review.Review, error) {
	var rv review.Review
	if err := row.Scan(&rv.ID, &rv.ReviewID, &rv.UserID, &rv.CourseID, &rv.ProfessorID, &rv.Rating,
		&rv.Content, &rv.Semester, &rv.Year, &rv.Upvotes, &rv.Downvotes, &rv.IsEdited,
		&rv.CreatedAt, &rv.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rv, nil
}

func buildWhere(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	out := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		out += " AND " + c
	}
	return out
}
