package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidtube/internal/cache"
	"vidtube/internal/domain"
	"vidtube/internal/event"
	"vidtube/internal/repository"
	"vidtube/internal/storage"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/pagination"
	"vidtube/pkg/slug"
	"vidtube/pkg/validator"
)

// storageKeyFromURL recovers an object key from a public URL. Every
// storage backend places the key in the URL path.
func storageKeyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// VideoService handles video publishing, retrieval, and lifecycle.
type VideoService struct {
	videos   repository.VideoRepository
	history  repository.WatchHistoryRepository
	files    storage.Storage
	views    *cache.ViewCounter
	producer *event.Producer
	logger   *slog.Logger
}

// NewVideoService creates a new video service.
func NewVideoService(
	videos repository.VideoRepository,
	history repository.WatchHistoryRepository,
	files storage.Storage,
	views *cache.ViewCounter,
	producer *event.Producer,
	logger *slog.Logger,
) *VideoService {
	return &VideoService{
		videos:   videos,
		history:  history,
		files:    files,
		views:    views,
		producer: producer,
		logger:   logger,
	}
}

// PublishInput holds the data needed to publish a video.
type PublishInput struct {
	Title       string `validate:"required,min=1,max=200"`
	Description string `validate:"max=5000"`

	// Duration in seconds, reported by the uploading client. Zero when
	// unknown.
	Duration float64 `validate:"gte=0"`

	VideoFile *storage.UploadInput
	Thumbnail *storage.UploadInput
}

// Publish uploads a video with its thumbnail and creates the published
// record.
func (s *VideoService) Publish(ctx context.Context, ownerID string, input PublishInput) (*domain.Video, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	if err := validator.Validate(input); err != nil {
		return nil, err
	}
	if input.VideoFile == nil {
		return nil, apperrors.InvalidInput("video file is required")
	}
	if input.Thumbnail == nil {
		return nil, apperrors.InvalidInput("thumbnail is required")
	}
	if !strings.HasPrefix(input.VideoFile.ContentType, "video/") {
		return nil, apperrors.InvalidInput("video file must have a video content type")
	}
	if !strings.HasPrefix(input.Thumbnail.ContentType, "image/") {
		return nil, apperrors.InvalidInput("thumbnail must be an image")
	}

	now := time.Now().UTC()
	video := &domain.Video{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Duration:    input.Duration,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Object keys carry the slugged title so buckets stay browsable;
	// the ID suffix keeps them unique.
	keySlug := slug.MakeUnique(input.Title, video.ID)

	input.VideoFile.Key = "videos/" + keySlug
	uploaded, err := s.files.Upload(ctx, input.VideoFile)
	if err != nil {
		return nil, apperrors.Upstream("storage", err)
	}
	video.VideoURL = uploaded.URL

	input.Thumbnail.Key = "thumbnails/" + keySlug
	thumb, err := s.files.Upload(ctx, input.Thumbnail)
	if err != nil {
		return nil, apperrors.Upstream("storage", err)
	}
	video.ThumbnailURL = thumb.URL

	if err := s.videos.Create(ctx, video); err != nil {
		return nil, err
	}

	if err := s.producer.PublishVideoPublished(ctx, video); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish video published event",
			slog.String("video_id", video.ID), slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "video published",
		slog.String("video_id", video.ID), slog.String("owner_id", ownerID))

	return video, nil
}

// Get returns a video by ID, counting the view and recording it in the
// viewer's watch history. Unpublished videos are visible only to their
// owner. viewerID may be empty for anonymous viewers.
func (s *VideoService) Get(ctx context.Context, id, viewerID string) (*domain.Video, error) {
	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !video.IsPublished && !domain.IsOwner(video, viewerID) {
		return nil, apperrors.NotFound("video", id)
	}

	if err := s.views.Increment(ctx, video.ID); err != nil {
		// View counting is best effort; the video still renders.
		s.logger.WarnContext(ctx, "failed to count view",
			slog.String("video_id", video.ID), slog.String("error", err.Error()))
	}

	if viewerID != "" {
		if err := s.history.Record(ctx, viewerID, video.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to record watch history",
				slog.String("video_id", video.ID), slog.String("error", err.Error()))
		}
	}

	return video, nil
}

// UpdateInput holds the mutable video fields. Nil fields are left
// unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Thumbnail   *storage.UploadInput
}

// Update modifies a video's metadata. Only the owner may update.
func (s *VideoService) Update(ctx context.Context, id, userID string, input UpdateInput) (*domain.Video, error) {
	video, err := s.ownedVideo(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" || len(title) > 200 {
			return nil, apperrors.InvalidInput("title must be between 1 and 200 characters")
		}
		video.Title = title
	}
	if input.Description != nil {
		desc := strings.TrimSpace(*input.Description)
		if len(desc) > 5000 {
			return nil, apperrors.InvalidInput("description must be at most 5000 characters")
		}
		video.Description = desc
	}
	if input.Thumbnail != nil {
		if !strings.HasPrefix(input.Thumbnail.ContentType, "image/") {
			return nil, apperrors.InvalidInput("thumbnail must be an image")
		}
		input.Thumbnail.Key = "thumbnails/" + slug.MakeUnique(video.Title, video.ID)
		thumb, err := s.files.Upload(ctx, input.Thumbnail)
		if err != nil {
			return nil, apperrors.Upstream("storage", err)
		}
		if old := storageKeyFromURL(video.ThumbnailURL); old != "" && old != thumb.Key {
			if err := s.files.Delete(ctx, old); err != nil {
				s.logger.WarnContext(ctx, "failed to delete replaced thumbnail",
					slog.String("key", old), slog.String("error", err.Error()))
			}
		}
		video.ThumbnailURL = thumb.URL
	}

	video.UpdatedAt = time.Now().UTC()
	if err := s.videos.Update(ctx, video); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "video updated", slog.String("video_id", video.ID))
	return video, nil
}

// Delete removes a video and its stored files. Only the owner may
// delete.
func (s *VideoService) Delete(ctx context.Context, id, userID string) error {
	video, err := s.ownedVideo(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, video.ID); err != nil {
		return err
	}

	for _, key := range []string{storageKeyFromURL(video.VideoURL), storageKeyFromURL(video.ThumbnailURL)} {
		if key == "" {
			continue
		}
		if err := s.files.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to delete stored file",
				slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	if err := s.producer.PublishVideoDeleted(ctx, video); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish video deleted event",
			slog.String("video_id", video.ID), slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "video deleted", slog.String("video_id", video.ID))
	return nil
}

// TogglePublish flips a video between published and draft. Only the
// owner may toggle. It returns the new published state.
func (s *VideoService) TogglePublish(ctx context.Context, id, userID string) (bool, error) {
	video, err := s.ownedVideo(ctx, id, userID)
	if err != nil {
		return false, err
	}

	video.IsPublished = !video.IsPublished
	video.UpdatedAt = time.Now().UTC()
	if err := s.videos.Update(ctx, video); err != nil {
		return false, err
	}

	if video.IsPublished {
		if err := s.producer.PublishVideoPublished(ctx, video); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish video published event",
				slog.String("video_id", video.ID), slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "video publish state toggled",
		slog.String("video_id", video.ID), slog.Bool("is_published", video.IsPublished))

	return video.IsPublished, nil
}

// ListInput filters and orders a video listing request.
type ListInput struct {
	Query     string
	OwnerID   string
	SortBy    string
	SortOrder string
}

// List returns published videos matching the input. When the requester
// lists their own channel, drafts are included.
func (s *VideoService) List(ctx context.Context, input ListInput, viewerID string, params pagination.Params) (*pagination.Result[domain.Video], error) {
	listParams := domain.VideoListParams{
		Query:              strings.TrimSpace(input.Query),
		OwnerID:            input.OwnerID,
		SortBy:             input.SortBy,
		SortOrder:          input.SortOrder,
		Limit:              params.PerPage,
		Offset:             params.Offset,
		IncludeUnpublished: input.OwnerID != "" && input.OwnerID == viewerID,
	}

	videos, total, err := s.videos.List(ctx, listParams)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(videos, total, params)
	return &result, nil
}

// ownedVideo loads a video and checks ownership. A missing video is
// NotFound; someone else's video is Forbidden.
func (s *VideoService) ownedVideo(ctx context.Context, id, userID string) (*domain.Video, error) {
	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsOwner(video, userID) {
		return nil, apperrors.Forbidden("you do not own this video")
	}
	return video, nil
}
