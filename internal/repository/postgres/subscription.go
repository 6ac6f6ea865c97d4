package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"vidtube/internal/domain"
	apperrors "vidtube/pkg/errors"
)

// SubscriptionRepository implements repository.SubscriptionRepository
// using PostgreSQL.
type SubscriptionRepository struct {
	db DBTX
}

// NewSubscriptionRepository creates a PostgreSQL-backed subscription
// repository.
func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Toggle subscribes the user to the channel, or unsubscribes when the
// subscription already exists.
func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`,
		subscriberID, channelID,
	)
	if err != nil {
		return false, fmt.Errorf("remove subscription: %w", err)
	}
	if ct.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at) VALUES ($1, $2, $3, NOW())`,
		uuid.New().String(), subscriberID, channelID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return true, nil
		}
		if isForeignKeyViolation(err) {
			return false, apperrors.NotFound("channel", channelID)
		}
		return false, fmt.Errorf("insert subscription: %w", err)
	}

	return true, nil
}

const subscriptionUserColumns = `u.id, u.username, u.email, u.full_name, u.password_hash, u.avatar_url, u.cover_image_url, u.refresh_token_hash, u.created_at, u.updated_at`

// ListSubscribers returns the users subscribed to a channel, most
// recent subscription first.
func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID string, limit, offset int) ([]domain.User, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subscribers: %w", err)
	}

	query := `
		SELECT ` + subscriptionUserColumns + `
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3`

	users, err := r.listUsers(ctx, query, channelID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListSubscribedChannels returns the channels a user subscribes to.
func (r *SubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID string, limit, offset int) ([]domain.User, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`, subscriberID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subscribed channels: %w", err)
	}

	query := `
		SELECT ` + subscriptionUserColumns + `
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3`

	users, err := r.listUsers(ctx, query, subscriberID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *SubscriptionRepository) listUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscription users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var (
			u       domain.User
			avatar  *string
			cover   *string
			session *string
		)
		if err := rows.Scan(
			&u.ID,
			&u.Username,
			&u.Email,
			&u.FullName,
			&u.PasswordHash,
			&avatar,
			&cover,
			&session,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscription user row: %w", err)
		}
		u.AvatarURL = deref(avatar)
		u.CoverImageURL = deref(cover)
		u.RefreshTokenHash = deref(session)
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription user rows: %w", err)
	}

	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
