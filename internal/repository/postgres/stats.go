package postgres

import (
	"context"
	"fmt"

	"vidtube/internal/domain"
)

// StatsRepository aggregates dashboard figures with a single query.
type StatsRepository struct {
	db DBTX
}

// NewStatsRepository creates a PostgreSQL-backed stats repository.
func NewStatsRepository(db DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetChannelStats returns video, view, subscriber, and like totals for
// one channel.
func (r *StatsRepository) GetChannelStats(ctx context.Context, channelID string) (*domain.ChannelStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM videos WHERE owner_id = $1),
			(SELECT COALESCE(SUM(views), 0) FROM videos WHERE owner_id = $1),
			(SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1),
			(SELECT COUNT(*)
			   FROM likes l
			   JOIN videos v ON v.id = l.target_id
			  WHERE l.target_type = 'video' AND v.owner_id = $1)`

	var stats domain.ChannelStats
	err := r.db.QueryRow(ctx, query, channelID).Scan(
		&stats.TotalVideos,
		&stats.TotalViews,
		&stats.TotalSubscribers,
		&stats.TotalLikes,
	)
	if err != nil {
		return nil, fmt.Errorf("scan channel stats: %w", err)
	}

	return &stats, nil
}
