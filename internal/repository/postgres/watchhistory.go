package postgres

import (
	"context"
	"fmt"

	"vidtube/internal/domain"
)

// WatchHistoryRepository records watched videos per user.
type WatchHistoryRepository struct {
	db DBTX
}

// NewWatchHistoryRepository creates a PostgreSQL-backed watch history
// repository.
func NewWatchHistoryRepository(db DBTX) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

// Record upserts a watch entry, bumping its timestamp on rewatch so the
// video moves back to the top of the history.
func (r *WatchHistoryRepository) Record(ctx context.Context, userID, videoID string) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = NOW()`

	if _, err := r.db.Exec(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("record watch history: %w", err)
	}
	return nil
}

// ListByUser returns the user's history, most recently watched first.
func (r *WatchHistoryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Video, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM watch_history WHERE user_id = $1`
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count watch history: %w", err)
	}

	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration, v.views, v.is_published, v.created_at, v.updated_at,
		       u.username, u.full_name, u.avatar_url
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE h.user_id = $1
		ORDER BY h.watched_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list watch history: %w", err)
	}
	defer rows.Close()

	videos, err := scanVideoRows(rows)
	if err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}
