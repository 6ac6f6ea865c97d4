package service

import (
	"context"
	"log/slog"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/pagination"
)

// LikeService handles likes on videos, comments, and tweets.
type LikeService struct {
	likes    repository.LikeRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	tweets   repository.TweetRepository
	logger   *slog.Logger
}

// NewLikeService creates a new like service.
func NewLikeService(
	likes repository.LikeRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	tweets repository.TweetRepository,
	logger *slog.Logger,
) *LikeService {
	return &LikeService{
		likes:    likes,
		videos:   videos,
		comments: comments,
		tweets:   tweets,
		logger:   logger,
	}
}

// Toggle likes the target, or removes the like if one exists. It
// returns true when the like now exists.
func (s *LikeService) Toggle(ctx context.Context, userID string, target domain.LikeTarget, targetID string) (bool, error) {
	if !target.Valid() {
		return false, apperrors.InvalidInput("unknown like target type")
	}

	if err := s.targetExists(ctx, target, targetID); err != nil {
		return false, err
	}

	liked, err := s.likes.Toggle(ctx, userID, target, targetID)
	if err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "like toggled",
		slog.String("target_type", string(target)),
		slog.String("target_id", targetID),
		slog.Bool("liked", liked))

	return liked, nil
}

// Count returns the number of likes on a target.
func (s *LikeService) Count(ctx context.Context, target domain.LikeTarget, targetID string) (int64, error) {
	if !target.Valid() {
		return 0, apperrors.InvalidInput("unknown like target type")
	}
	return s.likes.Count(ctx, target, targetID)
}

// LikedVideos returns the videos a user has liked, newest like first.
func (s *LikeService) LikedVideos(ctx context.Context, userID string, params pagination.Params) (*pagination.Result[domain.Video], error) {
	videos, total, err := s.likes.ListLikedVideos(ctx, userID, params.PerPage, params.Offset)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(videos, total, params)
	return &result, nil
}

func (s *LikeService) targetExists(ctx context.Context, target domain.LikeTarget, targetID string) error {
	var err error
	switch target {
	case domain.LikeTargetVideo:
		_, err = s.videos.GetByID(ctx, targetID)
	case domain.LikeTargetComment:
		_, err = s.comments.GetByID(ctx, targetID)
	case domain.LikeTargetTweet:
		_, err = s.tweets.GetByID(ctx, targetID)
	}
	return err
}
