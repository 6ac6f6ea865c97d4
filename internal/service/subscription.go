package service

import (
	"context"
	"log/slog"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/pagination"
)

// SubscriptionService handles channel subscriptions.
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	users         repository.UserRepository
	logger        *slog.Logger
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(subscriptions repository.SubscriptionRepository, users repository.UserRepository, logger *slog.Logger) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, users: users, logger: logger}
}

// Toggle subscribes the user to the channel, or unsubscribes if
// already subscribed. Subscribing to yourself is rejected. It returns
// true when the subscription now exists.
func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if subscriberID == channelID {
		return false, apperrors.InvalidInput("you cannot subscribe to your own channel")
	}

	if _, err := s.users.GetByID(ctx, channelID); err != nil {
		return false, err
	}

	subscribed, err := s.subscriptions.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "subscription toggled",
		slog.String("channel_id", channelID), slog.Bool("subscribed", subscribed))

	return subscribed, nil
}

// Subscribers returns the users subscribed to a channel.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string, params pagination.Params) (*pagination.Result[domain.User], error) {
	if _, err := s.users.GetByID(ctx, channelID); err != nil {
		return nil, err
	}

	users, total, err := s.subscriptions.ListSubscribers(ctx, channelID, params.PerPage, params.Offset)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(users, total, params)
	return &result, nil
}

// SubscribedChannels returns the channels a user subscribes to.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID string, params pagination.Params) (*pagination.Result[domain.User], error) {
	channels, total, err := s.subscriptions.ListSubscribedChannels(ctx, subscriberID, params.PerPage, params.Offset)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(channels, total, params)
	return &result, nil
}
