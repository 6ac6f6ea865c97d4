package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "vidtube/pkg/errors"
)

// SessionRepository stores each user's single refresh session as a
// token hash on the users row.
type SessionRepository struct {
	db DBTX
}

// NewSessionRepository creates a PostgreSQL-backed session repository.
func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save stores the refresh token hash for the user, replacing any
// existing session.
func (r *SessionRepository) Save(ctx context.Context, userID, tokenHash string) error {
	query := `UPDATE users SET refresh_token_hash = $1, updated_at = NOW() WHERE id = $2`

	ct, err := r.db.Exec(ctx, query, tokenHash, userID)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}
	return nil
}

// Clear removes the user's session. Clearing an absent session or an
// unknown user is not an error, so logout stays idempotent.
func (r *SessionRepository) Clear(ctx context.Context, userID string) error {
	query := `UPDATE users SET refresh_token_hash = NULL, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Matches reports whether the hash equals the user's stored session
// hash. A cleared session never matches.
func (r *SessionRepository) Matches(ctx context.Context, userID, tokenHash string) (bool, error) {
	query := `SELECT refresh_token_hash FROM users WHERE id = $1`

	var stored *string
	err := r.db.QueryRow(ctx, query, userID).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.ErrNotFound
		}
		return false, fmt.Errorf("load session: %w", err)
	}

	return stored != nil && *stored == tokenHash, nil
}
