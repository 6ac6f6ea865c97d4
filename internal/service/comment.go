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

const maxCommentLength = 2000

// CommentService handles comments on videos.
type CommentService struct {
	comments repository.CommentRepository
	videos   repository.VideoRepository
	logger   *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(comments repository.CommentRepository, videos repository.VideoRepository, logger *slog.Logger) *CommentService {
	return &CommentService{comments: comments, videos: videos, logger: logger}
}

// Add posts a comment on a video.
func (s *CommentService) Add(ctx context.Context, videoID, userID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	// The video must exist and be visible to the commenter.
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !video.IsPublished && !domain.IsOwner(video, userID) {
		return nil, apperrors.NotFound("video", videoID)
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		ID:        uuid.New().String(),
		VideoID:   videoID,
		OwnerID:   userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "comment added",
		slog.String("comment_id", comment.ID), slog.String("video_id", videoID))

	return comment, nil
}

// Update edits a comment's content. Only the author may update.
func (s *CommentService) Update(ctx context.Context, id, userID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsOwner(comment, userID) {
		return nil, apperrors.Forbidden("you do not own this comment")
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "comment updated", slog.String("comment_id", id))
	return comment, nil
}

// Delete removes a comment. The author or the video's owner may
// delete.
func (s *CommentService) Delete(ctx context.Context, id, userID string) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !domain.IsOwner(comment, userID) {
		video, err := s.videos.GetByID(ctx, comment.VideoID)
		if err != nil {
			return err
		}
		if !domain.IsOwner(video, userID) {
			return apperrors.Forbidden("you do not own this comment")
		}
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "comment deleted", slog.String("comment_id", id))
	return nil
}

// ListByVideo returns a video's comments, newest first.
func (s *CommentService) ListByVideo(ctx context.Context, videoID string, params pagination.Params) (*pagination.Result[domain.Comment], error) {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	comments, total, err := s.comments.ListByVideo(ctx, videoID, params.PerPage, params.Offset)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(comments, total, params)
	return &result, nil
}

func validateCommentContent(content string) error {
	if content == "" {
		return apperrors.InvalidInput("comment content is required")
	}
	if len(content) > maxCommentLength {
		return apperrors.InvalidInput("comment content is too long")
	}
	return nil
}
