package service

import (
	"context"
	"log/slog"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
	"vidtube/pkg/pagination"
)

// DashboardService aggregates a channel owner's figures and uploads.
type DashboardService struct {
	stats  repository.StatsRepository
	videos repository.VideoRepository
	logger *slog.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(stats repository.StatsRepository, videos repository.VideoRepository, logger *slog.Logger) *DashboardService {
	return &DashboardService{stats: stats, videos: videos, logger: logger}
}

// Stats returns the channel's aggregate figures.
func (s *DashboardService) Stats(ctx context.Context, channelID string) (*domain.ChannelStats, error) {
	return s.stats.GetChannelStats(ctx, channelID)
}

// Videos returns the channel owner's uploads, drafts included.
func (s *DashboardService) Videos(ctx context.Context, ownerID string, params pagination.Params) (*pagination.Result[domain.Video], error) {
	videos, total, err := s.videos.List(ctx, domain.VideoListParams{
		OwnerID:            ownerID,
		Limit:              params.PerPage,
		Offset:             params.Offset,
		IncludeUnpublished: true,
	})
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(videos, total, params)
	return &result, nil
}
