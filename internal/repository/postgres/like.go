package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"vidtube/internal/domain"
)

// LikeRepository implements repository.LikeRepository using PostgreSQL.
type LikeRepository struct {
	db DBTX
}

// NewLikeRepository creates a PostgreSQL-backed like repository.
func NewLikeRepository(db DBTX) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle inserts a like, or removes the existing one. The delete runs
// first; when it removes nothing the like did not exist and is created.
func (r *LikeRepository) Toggle(ctx context.Context, userID string, target domain.LikeTarget, targetID string) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`DELETE FROM likes WHERE liked_by = $1 AND target_type = $2 AND target_id = $3`,
		userID, target, targetID,
	)
	if err != nil {
		return false, fmt.Errorf("remove like: %w", err)
	}
	if ct.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO likes (id, liked_by, target_type, target_id, created_at) VALUES ($1, $2, $3, $4, NOW())`,
		uuid.New().String(), userID, target, targetID,
	)
	if err != nil {
		// A concurrent toggle may have inserted first; the like exists
		// either way.
		if isUniqueViolation(err) {
			return true, nil
		}
		return false, fmt.Errorf("insert like: %w", err)
	}

	return true, nil
}

// Count returns the number of likes on a target.
func (r *LikeRepository) Count(ctx context.Context, target domain.LikeTarget, targetID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE target_type = $1 AND target_id = $2`,
		target, targetID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

// ListLikedVideos returns the published videos a user has liked,
// most recently liked first.
func (r *LikeRepository) ListLikedVideos(ctx context.Context, userID string, limit, offset int) ([]domain.Video, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM likes l
		JOIN videos v ON v.id = l.target_id
		WHERE l.liked_by = $1 AND l.target_type = 'video' AND v.is_published = true`
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count liked videos: %w", err)
	}

	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration, v.views, v.is_published, v.created_at, v.updated_at,
		       u.username, u.full_name, u.avatar_url
		FROM likes l
		JOIN videos v ON v.id = l.target_id
		JOIN users u ON u.id = v.owner_id
		WHERE l.liked_by = $1 AND l.target_type = 'video' AND v.is_published = true
		ORDER BY l.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list liked videos: %w", err)
	}
	defer rows.Close()

	videos, err := scanVideoRows(rows)
	if err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}
