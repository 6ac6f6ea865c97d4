package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/pagination"
)

// PlaylistService handles user-curated video collections.
type PlaylistService struct {
	playlists repository.PlaylistRepository
	videos    repository.VideoRepository
	logger    *slog.Logger
}

// NewPlaylistService creates a new playlist service.
func NewPlaylistService(playlists repository.PlaylistRepository, videos repository.VideoRepository, logger *slog.Logger) *PlaylistService {
	return &PlaylistService{playlists: playlists, videos: videos, logger: logger}
}

// PlaylistInput holds the mutable playlist fields.
type PlaylistInput struct {
	Name        string `validate:"required,min=1,max=100"`
	Description string `validate:"max=1000"`
}

// Create creates a playlist owned by the user.
func (s *PlaylistService) Create(ctx context.Context, userID string, input PlaylistInput) (*domain.Playlist, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if err := validatePlaylistInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	playlist := &domain.Playlist{
		ID:          uuid.New().String(),
		OwnerID:     userID,
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "playlist created", slog.String("playlist_id", playlist.ID))
	return playlist, nil
}

// Get returns a playlist with its videos.
func (s *PlaylistService) Get(ctx context.Context, id string) (*domain.Playlist, error) {
	return s.playlists.GetByID(ctx, id)
}

// Update modifies a playlist's name and description. Only the owner
// may update.
func (s *PlaylistService) Update(ctx context.Context, id, userID string, input PlaylistInput) (*domain.Playlist, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if err := validatePlaylistInput(input); err != nil {
		return nil, err
	}

	playlist, err := s.ownedPlaylist(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	playlist.Name = input.Name
	playlist.Description = input.Description
	playlist.UpdatedAt = time.Now().UTC()
	if err := s.playlists.Update(ctx, playlist); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "playlist updated", slog.String("playlist_id", id))
	return playlist, nil
}

// Delete removes a playlist. Only the owner may delete.
func (s *PlaylistService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.ownedPlaylist(ctx, id, userID); err != nil {
		return err
	}

	if err := s.playlists.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "playlist deleted", slog.String("playlist_id", id))
	return nil
}

// ListByOwner returns a user's playlists.
func (s *PlaylistService) ListByOwner(ctx context.Context, ownerID string, params pagination.Params) (*pagination.Result[domain.Playlist], error) {
	playlists, total, err := s.playlists.ListByOwner(ctx, ownerID, params.PerPage, params.Offset)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(playlists, total, params)
	return &result, nil
}

// AddVideo appends a video to the playlist. Only the owner may add;
// adding the same video twice fails.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, userID string) error {
	if _, err := s.ownedPlaylist(ctx, playlistID, userID); err != nil {
		return err
	}
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return err
	}

	if err := s.playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "video added to playlist",
		slog.String("playlist_id", playlistID), slog.String("video_id", videoID))
	return nil
}

// RemoveVideo removes a video from the playlist. Only the owner may
// remove.
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, userID string) error {
	if _, err := s.ownedPlaylist(ctx, playlistID, userID); err != nil {
		return err
	}

	if err := s.playlists.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "video removed from playlist",
		slog.String("playlist_id", playlistID), slog.String("video_id", videoID))
	return nil
}

func (s *PlaylistService) ownedPlaylist(ctx context.Context, id, userID string) (*domain.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsOwner(playlist, userID) {
		return nil, apperrors.Forbidden("you do not own this playlist")
	}
	return playlist, nil
}

func validatePlaylistInput(input PlaylistInput) error {
	if input.Name == "" || len(input.Name) > 100 {
		return apperrors.InvalidInput("playlist name must be between 1 and 100 characters")
	}
	if len(input.Description) > 1000 {
		return apperrors.InvalidInput("playlist description is too long")
	}
	return nil
}
