package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/greenspro/auth-backend/internal/model"
	"github.com/greenspro/auth-backend/internal/utils"
)

// UserRepo persists user accounts in the `users` table, including the
// reset-token columns. Every mutation is a single statement, so row-level
// locking in MySQL is enough to serialize concurrent updates; there are no
// multi-step transactions.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,username,password_hash,is_approved,reset_token,reset_token_expiry,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u      model.User
		token  sql.NullString
		expiry sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsApproved,
		&token, &expiry, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	if token.Valid {
		u.ResetToken = &token.String
	}
	if expiry.Valid {
		t := expiry.Time
		u.ResetTokenExpiry = &t
	}
	return u, nil
}

// Create hashes the password and inserts an unapproved user, returning its
// ID. A unique-key collision on email or username surfaces as ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, email, username, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, password_hash, is_approved) VALUES (?,?,?,FALSE)",
		email, username, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// SetResetToken stores a fresh reset token and expiry on the user row. Any
// previously issued token is overwritten and becomes unusable immediately,
// keeping at most one live reset token per user.
func (r *UserRepo) SetResetToken(ctx context.Context, userID uint64, token string, expiry time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token=?, reset_token_expiry=? WHERE id=?",
		token, expiry.UTC(), userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeResetToken sets a new password hash and clears the reset-token
// columns in one conditional UPDATE. The token must match exactly and its
// expiry must still be in the future; otherwise ErrTokenInvalid is
// returned. Because the match and the clear happen in the same statement,
// two concurrent calls with the same token cannot both succeed: the second
// finds the token already cleared.
func (r *UserRepo) ConsumeResetToken(ctx context.Context, token, newPassword string, cost int) error {
	hash, err := utils.HashPassword(newPassword, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, reset_token=NULL, reset_token_expiry=NULL WHERE reset_token=? AND reset_token_expiry > UTC_TIMESTAMP()",
		hash, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTokenInvalid
	}
	return nil
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,email,username,is_approved,created_at FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.IsApproved, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SetApproval flips the is_approved flag. Approving an already-approved
// user is a no-op, not an error; existence is checked by the caller via
// GetByID when it builds the response.
func (r *UserRepo) SetApproval(ctx context.Context, id uint64, approved bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_approved=? WHERE id=?", approved, id)
	return err
}

// Delete removes a user row. ErrNotFound when no row matched.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
