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

// VideoRepository implements repository.VideoRepository using PostgreSQL.
type VideoRepository struct {
	db DBTX
}

// NewVideoRepository creates a PostgreSQL-backed video repository.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

// sortColumns whitelists sortable columns so user input never reaches
// the ORDER BY clause directly.
var sortColumns = map[string]string{
	"created_at": "v.created_at",
	"views":      "v.views",
	"duration":   "v.duration",
	"title":      "v.title",
}

// Create inserts a new video.
func (r *VideoRepository) Create(ctx context.Context, v *domain.Video) error {
	query := `
		INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail_url, duration, views, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		v.ID,
		v.OwnerID,
		v.Title,
		v.Description,
		v.VideoURL,
		v.ThumbnailURL,
		v.Duration,
		v.Views,
		v.IsPublished,
		v.CreatedAt,
		v.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("user", v.OwnerID)
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// GetByID retrieves a video with its owner profile joined in.
func (r *VideoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration, v.views, v.is_published, v.created_at, v.updated_at,
		       u.username, u.full_name, u.avatar_url
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1`

	var (
		v      domain.Video
		owner  domain.VideoOwner
		avatar *string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.OwnerID,
		&v.Title,
		&v.Description,
		&v.VideoURL,
		&v.ThumbnailURL,
		&v.Duration,
		&v.Views,
		&v.IsPublished,
		&v.CreatedAt,
		&v.UpdatedAt,
		&owner.Username,
		&owner.FullName,
		&avatar,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan video: %w", err)
	}

	owner.AvatarURL = deref(avatar)
	v.Owner = &owner
	return &v, nil
}

// Update modifies an existing video.
func (r *VideoRepository) Update(ctx context.Context, v *domain.Video) error {
	v.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE videos
		SET title = $1, description = $2, thumbnail_url = $3, is_published = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.db.Exec(ctx, query,
		v.Title,
		v.Description,
		v.ThumbnailURL,
		v.IsPublished,
		v.UpdatedAt,
		v.ID,
	)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("video", v.ID)
	}

	return nil
}

// Delete removes a video. Likes, comments, and playlist entries
// cascade via foreign keys.
func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("video", id)
	}

	return nil
}

// List returns videos matching the params plus the total count before
// limit and offset.
func (r *VideoRepository) List(ctx context.Context, params domain.VideoListParams) ([]domain.Video, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !params.IncludeUnpublished {
		where += ` AND v.is_published = true`
	}
	if params.OwnerID != "" {
		where += ` AND v.owner_id = ` + arg(params.OwnerID)
	}
	if params.Query != "" {
		p := arg("%" + params.Query + "%")
		where += ` AND (v.title ILIKE ` + p + ` OR v.description ILIKE ` + p + `)`
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM videos v ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	orderBy, ok := sortColumns[params.SortBy]
	if !ok {
		orderBy = "v.created_at"
	}
	direction := "DESC"
	if params.SortOrder == "asc" {
		direction = "ASC"
	}

	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration, v.views, v.is_published, v.created_at, v.updated_at,
		       u.username, u.full_name, u.avatar_url
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		` + where + `
		ORDER BY ` + orderBy + ` ` + direction + `
		LIMIT ` + arg(params.Limit) + ` OFFSET ` + arg(params.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	videos, err := scanVideoRows(rows)
	if err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// IncrementViews adds delta to the stored view count.
func (r *VideoRepository) IncrementViews(ctx context.Context, id string, delta int64) error {
	_, err := r.db.Exec(ctx, `UPDATE videos SET views = views + $1 WHERE id = $2`, delta, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// scanVideoRows scans rows produced by the standard video-with-owner
// select column list.
func scanVideoRows(rows pgx.Rows) ([]domain.Video, error) {
	var videos []domain.Video
	for rows.Next() {
		var (
			v      domain.Video
			owner  domain.VideoOwner
			avatar *string
		)
		if err := rows.Scan(
			&v.ID,
			&v.OwnerID,
			&v.Title,
			&v.Description,
			&v.VideoURL,
			&v.ThumbnailURL,
			&v.Duration,
			&v.Views,
			&v.IsPublished,
			&v.CreatedAt,
			&v.UpdatedAt,
			&owner.Username,
			&owner.FullName,
			&avatar,
		); err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}
		owner.AvatarURL = deref(avatar)
		v.Owner = &owner
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video rows: %w", err)
	}

	if videos == nil {
		videos = []domain.Video{}
	}
	return videos, nil
}
