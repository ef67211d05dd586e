package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-echo/campus-echo/internal/domain/reply"
)

// ReplyRepository implements reply.Repository.
type ReplyRepository struct {
	pool *pgxpool.Pool
}

func NewReplyRepository(pool *pgxpool.Pool) *ReplyRepository {
	return &ReplyRepository{pool: pool}
}

const replyColumns = `id, reply_id, review_id, user_id, content, upvotes, downvotes,
	is_edited, created_at, updated_at`

func (r *ReplyRepository) Create(ctx context.Context, rp *reply.Reply) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO replies
		(reply_id, review_id, user_id, content, upvotes, downvotes, is_edited, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, rp.ReplyID, rp.ReviewID, rp.UserID, rp.Content, rp.Upvotes, rp.Downvotes, rp.IsEdited,
		rp.CreatedAt, rp.UpdatedAt)
	return err
}

func (r *ReplyRepository) Update(ctx context.Context, rp *reply.Reply) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE replies SET content=$1, is_edited=$2, updated_at=$3 WHERE reply_id=$4
	`, rp.Content, rp.IsEdited, rp.UpdatedAt, rp.ReplyID)
	return err
}

func (r *ReplyRepository) GetByID(ctx context.Context, replyID uuid.UUID) (*reply.Reply, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+replyColumns+` FROM replies WHERE reply_id=$1`, replyID)
	return scanReply(row)
}

func (r *ReplyRepository) List(ctx context.Context, filter reply.Filter, limit, offset int) ([]*reply.Reply, error) {
	query := `SELECT ` + replyColumns + ` FROM replies`
	args := []interface{}{}
	where := []string{}
	idx := 1
	if filter.UserID != nil {
		where = append(where, "user_id=$"+itoa(idx))
		args = append(args, *filter.UserID)
		idx++
	}
	if filter.ReviewID != nil {
		where = append(where, "review_id=$"+itoa(idx))
		args = append(args, *filter.ReviewID)
		idx++
	}
	query += buildWhere(where)
	query += " ORDER BY created_at ASC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var replies []*reply.Reply
	for rows.Next() {
		rp, err := scanReply(rows)
		if err != nil {
			return nil, err
		}
		replies = append(replies, rp)
	}
	return replies, rows.Err()
}

func (r *ReplyRepository) Delete(ctx context.Context, replyID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM replies WHERE reply_id=$1`, replyID)
	return err
}

func (r *ReplyRepository) SetVoteStats(ctx context.Context, replyID uuid.UUID, upvotes, downvotes int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE replies SET upvotes=$1, downvotes=$2, updated_at=NOW() WHERE reply_id=$3
	`, upvotes, downvotes, replyID)
	return err
}

func scanReply(row pgx.Row) (*reply.Reply, error) {
	var rp reply.Reply
	if err := row.Scan(&rp.ID, &rp.ReplyID, &rp.ReviewID, &rp.UserID, &rp.Content, &rp.Upvotes,
		&rp.Downvotes, &rp.IsEdited, &rp.CreatedAt, &rp.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rp, nil
}
