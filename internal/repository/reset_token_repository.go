package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kennelworks/studbook-server/internal/model"
)

// ErrTokenNotFound is returned when no redeemable reset token matches a
// lookup.  Expired, already-used and never-issued tokens all collapse into
// this one error so callers cannot tell them apart.
var ErrTokenNotFound = errors.New("reset token not found")

// ResetTokenRepo persists password-reset tokens.  Only the SHA-256 hash of
// the mailed token value is stored.
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Create inserts a fresh token row bound to an email.  Outstanding tokens
// for the same email are left alone; each row is judged on its own fields.
func (r *ResetTokenRepo) Create(ctx context.Context, email, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (email, token_hash, expires_at, used) VALUES (?,?,?,0)",
		email, tokenHash, exp)
	return err
}

// FindRedeemable returns the token row matching hash that is unused and not
// yet expired.  Any other outcome is ErrTokenNotFound.
func (r *ResetTokenRepo) FindRedeemable(ctx context.Context, tokenHash string) (model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, token_hash, expires_at, used, created_at FROM password_reset_tokens WHERE token_hash=? AND used=0 AND expires_at>NOW() LIMIT 1",
		tokenHash).Scan(&t.ID, &t.Email, &t.TokenHash, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PasswordResetToken{}, ErrTokenNotFound
		}
		return model.PasswordResetToken{}, err
	}
	return t, nil
}

// MarkUsed flips the used flag exactly once.  The used=0 guard makes the
// update a no-op on replay, and the RowsAffected check turns that no-op
// into ErrTokenNotFound.
func (r *ResetTokenRepo) MarkUsed(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used=1 WHERE id=? AND used=0", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTokenNotFound
	}
	return nil
}
