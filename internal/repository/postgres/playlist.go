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

// PlaylistRepository implements repository.PlaylistRepository using
// PostgreSQL. Membership lives in the playlist_videos join table with
// a per-playlist position.
type PlaylistRepository struct {
	db DBTX
}

// NewPlaylistRepository creates a PostgreSQL-backed playlist repository.
func NewPlaylistRepository(db DBTX) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist.
func (r *PlaylistRepository) Create(ctx context.Context, p *domain.Playlist) error {
	query := `
		INSERT INTO playlists (id, owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query, p.ID, p.OwnerID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("user", p.OwnerID)
		}
		return fmt.Errorf("insert playlist: %w", err)
	}
	return nil
}

// GetByID retrieves a playlist with its videos populated in playlist
// order.
func (r *PlaylistRepository) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	query := `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM playlists
		WHERE id = $1`

	var p domain.Playlist
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan playlist: %w", err)
	}

	videosQuery := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration, v.views, v.is_published, v.created_at, v.updated_at,
		       u.username, u.full_name, u.avatar_url
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE pv.playlist_id = $1
		ORDER BY pv.position ASC`

	rows, err := r.db.Query(ctx, videosQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list playlist videos: %w", err)
	}
	defer rows.Close()

	videos, err := scanVideoRows(rows)
	if err != nil {
		return nil, err
	}

	p.Videos = videos
	p.VideoCount = len(videos)
	return &p, nil
}

// Update modifies a playlist's name and description.
func (r *PlaylistRepository) Update(ctx context.Context, p *domain.Playlist) error {
	p.UpdatedAt = time.Now().UTC()

	ct, err := r.db.Exec(ctx,
		`UPDATE playlists SET name = $1, description = $2, updated_at = $3 WHERE id = $4`,
		p.Name, p.Description, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("playlist", p.ID)
	}
	return nil
}

// Delete removes a playlist; membership rows cascade.
func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("playlist", id)
	}
	return nil
}

// ListByOwner returns a user's playlists with their video counts.
func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Playlist, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM playlists WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count playlists: %w", err)
	}

	query := `
		SELECT p.id, p.owner_id, p.name, p.description, p.created_at, p.updated_at,
		       (SELECT COUNT(*) FROM playlist_videos WHERE playlist_id = p.id) AS video_count
		FROM playlists p
		WHERE p.owner_id = $1
		ORDER BY p.updated_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []domain.Playlist
	for rows.Next() {
		var p domain.Playlist
		if err := rows.Scan(
			&p.ID,
			&p.OwnerID,
			&p.Name,
			&p.Description,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.VideoCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan playlist row: %w", err)
		}
		playlists = append(playlists, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate playlist rows: %w", err)
	}

	if playlists == nil {
		playlists = []domain.Playlist{}
	}
	return playlists, total, nil
}

// AddVideo appends the video at the next free position.
func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	query := `
		INSERT INTO playlist_videos (playlist_id, video_id, position, added_at)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_videos WHERE playlist_id = $1),
			NOW())`

	_, err := r.db.Exec(ctx, query, playlistID, videoID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("playlist video", "video_id", videoID)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("video", videoID)
		}
		return fmt.Errorf("add playlist video: %w", err)
	}
	return nil
}

// RemoveVideo removes a video from the playlist.
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	ct, err := r.db.Exec(ctx,
		`DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`,
		playlistID, videoID,
	)
	if err != nil {
		return fmt.Errorf("remove playlist video: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("playlist video", videoID)
	}
	return nil
}
