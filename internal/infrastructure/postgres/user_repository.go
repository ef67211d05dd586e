package postgres

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-echo/campus-echo/internal/domain/user"
)

// UserRepository implements user.Repository.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, user_id, username, password_hash, bio, student_since_year,
	is_muffled, echoes, is_admin, is_banned, ban_reason, banned_until, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users
		(user_id, username, password_hash, bio, student_since_year, is_muffled, echoes,
		 is_admin, is_banned, ban_reason, banned_until, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, u.UserID, u.Username, u.PasswordHash, u.Bio, u.StudentSinceYear, u.IsMuffled, u.Echoes,
		u.IsAdmin, u.IsBanned, u.BanReason, u.BannedUntil, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username=$1, password_hash=$2, bio=$3, student_since_year=$4, is_muffled=$5,
		    echoes=$6, is_admin=$7, is_banned=$8, ban_reason=$9, banned_until=$10, updated_at=$11
		WHERE user_id=$12
	`, u.Username, u.PasswordHash, u.Bio, u.StudentSinceYear, u.IsMuffled,
		u.Echoes, u.IsAdmin, u.IsBanned, u.BanReason, u.BannedUntil, u.UpdatedAt, u.UserID)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=$1`, userID)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	row := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// RecomputeEchoes rebuilds the echo score from vote stats on the user's
// authored reviews and replies, floored at zero.
func (r *UserRepository) RecomputeEchoes(ctx context.Context, userID uuid.UUID) (int, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET echoes = GREATEST(0, (
			SELECT COALESCE(SUM(upvotes) - SUM(downvotes), 0)
			FROM (
				SELECT upvotes, downvotes FROM reviews WHERE user_id=$1
				UNION ALL
				SELECT upvotes, downvotes FROM replies WHERE user_id=$1
			) authored
		)), updated_at=NOW()
		WHERE user_id=$1
		RETURNING echoes
	`, userID)
	var echoes int
	if err := row.Scan(&echoes); err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return echoes, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.UserID, &u.Username, &u.PasswordHash, &u.Bio, &u.StudentSinceYear,
		&u.IsMuffled, &u.Echoes, &u.IsAdmin, &u.IsBanned, &u.BanReason, &u.BannedUntil,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
