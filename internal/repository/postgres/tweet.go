package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"vidtube/internal/domain"
	apperrors "vidtube/pkg/errors"
)

// TweetRepository implements repository.TweetRepository using PostgreSQL.
type TweetRepository struct {
	db DBTX
}

// NewTweetRepository creates a PostgreSQL-backed tweet repository.
func NewTweetRepository(db DBTX) *TweetRepository {
	return &TweetRepository{db: db}
}

// Create inserts a new tweet.
func (r *TweetRepository) Create(ctx context.Context, t *domain.Tweet) error {
	query := `
		INSERT INTO tweets (id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query, t.ID, t.OwnerID, t.Content, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("user", t.OwnerID)
		}
		return fmt.Errorf("insert tweet: %w", err)
	}
	return nil
}

// GetByID retrieves a tweet by its ID.
func (r *TweetRepository) GetByID(ctx context.Context, id string) (*domain.Tweet, error) {
	query := `
		SELECT id, owner_id, content, created_at, updated_at
		FROM tweets
		WHERE id = $1`

	var t domain.Tweet
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.OwnerID,
		&t.Content,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan tweet: %w", err)
	}
	return &t, nil
}

// Update modifies a tweet's content.
func (r *TweetRepository) Update(ctx context.Context, t *domain.Tweet) error {
	t.UpdatedAt = time.Now().UTC()

	ct, err := r.db.Exec(ctx,
		`UPDATE tweets SET content = $1, updated_at = $2 WHERE id = $3`,
		t.Content, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update tweet: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("tweet", t.ID)
	}
	return nil
}

// Delete removes a tweet.
func (r *TweetRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("tweet", id)
	}
	return nil
}

// ListByOwner returns a user's tweets, newest first.
func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Tweet, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tweets WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tweets: %w", err)
	}

	query := `
		SELECT t.id, t.owner_id, t.content, t.created_at, t.updated_at,
		       u.username, u.full_name, u.avatar_url
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		WHERE t.owner_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list tweets: %w", err)
	}
	defer rows.Close()

	var tweets []domain.Tweet
	for rows.Next() {
		var (
			t      domain.Tweet
			owner  domain.VideoOwner
			avatar *string
		)
		if err := rows.Scan(
			&t.ID,
			&t.OwnerID,
			&t.Content,
			&t.CreatedAt,
			&t.UpdatedAt,
			&owner.Username,
			&owner.FullName,
			&avatar,
		); err != nil {
			return nil, 0, fmt.Errorf("scan tweet row: %w", err)
		}
		owner.AvatarURL = deref(avatar)
		t.Owner = &owner
		tweets = append(tweets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tweet rows: %w", err)
	}

	if tweets == nil {
		tweets = []domain.Tweet{}
	}
	return tweets, total, nil
}
