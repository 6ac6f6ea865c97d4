package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vidtube/internal/domain"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/pagination"
)

// --- Mock Subscription Repository ---

type mockSubscriptionRepository struct {
	mock.Mock
}

func (m *mockSubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	args := m.Called(ctx, subscriberID, channelID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string, limit, offset int) ([]domain.User, int, error) {
	args := m.Called(ctx, channelID, limit, offset)
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}

func (m *mockSubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID string, limit, offset int) ([]domain.User, int, error) {
	args := m.Called(ctx, subscriberID, limit, offset)
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}

// --- Mock Stats Repository ---

type mockStatsRepository struct {
	mock.Mock
}

func (m *mockStatsRepository) GetChannelStats(ctx context.Context, channelID string) (*domain.ChannelStats, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChannelStats), args.Error(1)
}

// --- Subscription Tests ---

func TestSubscriptionToggle(t *testing.T) {
	subs := new(mockSubscriptionRepository)
	users := new(mockUserRepository)
	svc := NewSubscriptionService(subs, users, newTestLogger())
	ctx := context.Background()

	users.On("GetByID", ctx, "channel-1").Return(&domain.User{ID: "channel-1"}, nil)
	subs.On("Toggle", ctx, "user-123", "channel-1").Return(true, nil)

	subscribed, err := svc.Toggle(ctx, "user-123", "channel-1")

	require.NoError(t, err)
	assert.True(t, subscribed)
	subs.AssertExpectations(t)
}

func TestSubscriptionToggle_SelfRejected(t *testing.T) {
	subs := new(mockSubscriptionRepository)
	svc := NewSubscriptionService(subs, new(mockUserRepository), newTestLogger())

	_, err := svc.Toggle(context.Background(), "user-123", "user-123")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	subs.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscriptionToggle_UnknownChannel(t *testing.T) {
	subs := new(mockSubscriptionRepository)
	users := new(mockUserRepository)
	svc := NewSubscriptionService(subs, users, newTestLogger())
	ctx := context.Background()

	users.On("GetByID", ctx, "ghost").Return(nil, apperrors.NotFound("user", "ghost"))

	_, err := svc.Toggle(ctx, "user-123", "ghost")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubscribers(t *testing.T) {
	subs := new(mockSubscriptionRepository)
	users := new(mockUserRepository)
	svc := NewSubscriptionService(subs, users, newTestLogger())
	ctx := context.Background()

	users.On("GetByID", ctx, "channel-1").Return(&domain.User{ID: "channel-1"}, nil)
	subs.On("ListSubscribers", ctx, "channel-1", 10, 0).
		Return([]domain.User{{ID: "user-1"}, {ID: "user-2"}}, 2, nil)

	result, err := svc.Subscribers(ctx, "channel-1", pagination.DefaultParams())

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
}

// --- Dashboard Tests ---

func TestDashboardStats(t *testing.T) {
	stats := new(mockStatsRepository)
	svc := NewDashboardService(stats, new(mockVideoRepository), newTestLogger())
	ctx := context.Background()

	stats.On("GetChannelStats", ctx, "user-123").Return(&domain.ChannelStats{
		TotalVideos:      3,
		TotalViews:       1200,
		TotalSubscribers: 45,
		TotalLikes:       80,
	}, nil)

	got, err := svc.Stats(ctx, "user-123")

	require.NoError(t, err)
	assert.Equal(t, int64(1200), got.TotalViews)
}

func TestDashboardVideos_IncludesDrafts(t *testing.T) {
	videos := new(mockVideoRepository)
	svc := NewDashboardService(new(mockStatsRepository), videos, newTestLogger())
	ctx := context.Background()

	videos.On("List", ctx, mock.MatchedBy(func(p domain.VideoListParams) bool {
		return p.OwnerID == "user-123" && p.IncludeUnpublished
	})).Return([]domain.Video{{ID: "video-1", IsPublished: false}}, 1, nil)

	result, err := svc.Videos(ctx, "user-123", pagination.DefaultParams())

	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
	videos.AssertExpectations(t)
}
