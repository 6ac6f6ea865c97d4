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

const maxTweetLength = 280

// TweetService handles short posts on channel feeds.
type TweetService struct {
	tweets repository.TweetRepository
	logger *slog.Logger
}

// NewTweetService creates a new tweet service.
func NewTweetService(tweets repository.TweetRepository, logger *slog.Logger) *TweetService {
	return &TweetService{tweets: tweets, logger: logger}
}

// Create posts a tweet on the user's channel feed.
func (s *TweetService) Create(ctx context.Context, userID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if err := validateTweetContent(content); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tweet := &domain.Tweet{
		ID:        uuid.New().String(),
		OwnerID:   userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tweet created", slog.String("tweet_id", tweet.ID))
	return tweet, nil
}

// Update edits a tweet's content. Only the author may update.
func (s *TweetService) Update(ctx context.Context, id, userID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if err := validateTweetContent(content); err != nil {
		return nil, err
	}

	tweet, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsOwner(tweet, userID) {
		return nil, apperrors.Forbidden("you do not own this tweet")
	}

	tweet.Content = content
	tweet.UpdatedAt = time.Now().UTC()
	if err := s.tweets.Update(ctx, tweet); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tweet updated", slog.String("tweet_id", id))
	return tweet, nil
}

// Delete removes a tweet. Only the author may delete.
func (s *TweetService) Delete(ctx context.Context, id, userID string) error {
	tweet, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.IsOwner(tweet, userID) {
		return apperrors.Forbidden("you do not own this tweet")
	}

	if err := s.tweets.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "tweet deleted", slog.String("tweet_id", id))
	return nil
}

// ListByUser returns a user's tweets, newest first.
func (s *TweetService) ListByUser(ctx context.Context, ownerID string, params pagination.Params) (*pagination.Result[domain.Tweet], error) {
	tweets, total, err := s.tweets.ListByOwner(ctx, ownerID, params.PerPage, params.Offset)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(tweets, total, params)
	return &result, nil
}

func validateTweetContent(content string) error {
	if content == "" {
		return apperrors.InvalidInput("tweet content is required")
	}
	if len(content) > maxTweetLength {
		return apperrors.InvalidInput("tweet content is too long")
	}
	return nil
}
