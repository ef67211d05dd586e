package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-echo/campus-echo/internal/domain/vote"
)

// VoteRepository implements vote.Repository.
type VoteRepository struct {
	pool *pgxpool.Pool
}

func NewVoteRepository(pool *pgxpool.Pool) *VoteRepository {
	return &VoteRepository{pool: pool}
}

const voteColumns = `id, vote_id, user_id, review_id, reply_id, vote_type, created_at, updated_at`

func (r *VoteRepository) Create(ctx context.Context, v *vote.Vote) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO votes (vote_id, user_id, review_id, reply_id, vote_type, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, v.VoteID, v.UserID, v.ReviewID, v.ReplyID, v.VoteType, v.CreatedAt, v.UpdatedAt)
	return err
}

func (r *VoteRepository) UpdateType(ctx context.Context, voteID uuid.UUID, voteType bool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE votes SET vote_type=$1, updated_at=NOW() WHERE vote_id=$2
	`, voteType, voteID)
	return err
}

func (r *VoteRepository) GetByID(ctx context.Context, voteID uuid.UUID) (*vote.Vote, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+voteColumns+` FROM votes WHERE vote_id=$1`, voteID)
	return scanVote(row)
}

func (r *VoteRepository) GetByUserAndTarget(ctx context.Context, userID uuid.UUID, kind vote.TargetKind, targetID uuid.UUID) (*vote.Vote, error) {
	column := "review_id"
	if kind == vote.KindReply {
		column = "reply_id"
	}
	row := r.pool.QueryRow(ctx, `SELECT `+voteColumns+` FROM votes WHERE user_id=$1 AND `+column+`=$2`, userID, targetID)
	return scanVote(row)
}

func (r *VoteRepository) List(ctx context.Context, filter vote.Filter, limit, offset int) ([]*vote.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes`
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
	if filter.ReplyID != nil {
		where = append(where, "reply_id=$"+itoa(idx))
		args = append(args, *filter.ReplyID)
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
	var votes []*vote.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (r *VoteRepository) Delete(ctx context.Context, voteID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM votes WHERE vote_id=$1`, voteID)
	return err
}

// CountForTarget recounts a target's votes from the votes table, the only
// source of truth for the denormalized counters.
func (r *VoteRepository) CountForTarget(ctx context.Context, kind vote.TargetKind, targetID uuid.UUID) (vote.Stats, error) {
	column := "review_id"
	if kind == vote.KindReply {
		column = "reply_id"
	}
	row := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE vote_type),
			COUNT(*) FILTER (WHERE NOT vote_type)
		FROM votes WHERE `+column+`=$1
	`, targetID)
	var stats vote.Stats
	if err := row.Scan(&stats.Upvotes, &stats.Downvotes); err != nil {
		return vote.Stats{}, err
	}
	return stats, nil
}

func scanVote(row pgx.Row) (*vote.Vote, error) {
	var v vote.Vote
	if err := row.Scan(&v.ID, &v.VoteID, &v.UserID, &v.ReviewID, &v.ReplyID, &v.VoteType,
		&v.CreatedAt, &v.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}
