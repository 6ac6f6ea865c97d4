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

// --- Mock Comment Repository ---

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCommentRepository) ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]domain.Comment, int, error) {
	args := m.Called(ctx, videoID, limit, offset)
	return args.Get(0).([]domain.Comment), args.Int(1), args.Error(2)
}

// --- Mock Tweet Repository ---

type mockTweetRepository struct {
	mock.Mock
}

func (m *mockTweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	args := m.Called(ctx, tweet)
	return args.Error(0)
}

func (m *mockTweetRepository) GetByID(ctx context.Context, id string) (*domain.Tweet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tweet), args.Error(1)
}

func (m *mockTweetRepository) Update(ctx context.Context, tweet *domain.Tweet) error {
	args := m.Called(ctx, tweet)
	return args.Error(0)
}

func (m *mockTweetRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTweetRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Tweet, int, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]domain.Tweet), args.Int(1), args.Error(2)
}

// --- Mock Like Repository ---

type mockLikeRepository struct {
	mock.Mock
}

func (m *mockLikeRepository) Toggle(ctx context.Context, userID string, target domain.LikeTarget, targetID string) (bool, error) {
	args := m.Called(ctx, userID, target, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeRepository) Count(ctx context.Context, target domain.LikeTarget, targetID string) (int64, error) {
	args := m.Called(ctx, target, targetID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLikeRepository) ListLikedVideos(ctx context.Context, userID string, limit, offset int) ([]domain.Video, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Video), args.Int(1), args.Error(2)
}

func newTestLikeService(
	likes *mockLikeRepository,
	videos *mockVideoRepository,
	comments *mockCommentRepository,
	tweets *mockTweetRepository,
) *LikeService {
	return NewLikeService(likes, videos, comments, tweets, newTestLogger())
}

// --- Toggle Tests ---

func TestLikeToggle_Video(t *testing.T) {
	likes := new(mockLikeRepository)
	videos := new(mockVideoRepository)
	svc := newTestLikeService(likes, videos, new(mockCommentRepository), new(mockTweetRepository))
	ctx := context.Background()

	videos.On("GetByID", ctx, "video-1").Return(&domain.Video{ID: "video-1", IsPublished: true}, nil)
	likes.On("Toggle", ctx, "user-123", domain.LikeTargetVideo, "video-1").Return(true, nil)

	liked, err := svc.Toggle(ctx, "user-123", domain.LikeTargetVideo, "video-1")

	require.NoError(t, err)
	assert.True(t, liked)
	likes.AssertExpectations(t)
}

func TestLikeToggle_RemovesExisting(t *testing.T) {
	likes := new(mockLikeRepository)
	tweets := new(mockTweetRepository)
	svc := newTestLikeService(likes, new(mockVideoRepository), new(mockCommentRepository), tweets)
	ctx := context.Background()

	tweets.On("GetByID", ctx, "tweet-1").Return(&domain.Tweet{ID: "tweet-1"}, nil)
	likes.On("Toggle", ctx, "user-123", domain.LikeTargetTweet, "tweet-1").Return(false, nil)

	liked, err := svc.Toggle(ctx, "user-123", domain.LikeTargetTweet, "tweet-1")

	require.NoError(t, err)
	assert.False(t, liked)
}

func TestLikeToggle_UnknownTargetType(t *testing.T) {
	svc := newTestLikeService(new(mockLikeRepository), new(mockVideoRepository), new(mockCommentRepository), new(mockTweetRepository))

	_, err := svc.Toggle(context.Background(), "user-123", domain.LikeTarget("playlist"), "x")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestLikeToggle_MissingTarget(t *testing.T) {
	likes := new(mockLikeRepository)
	comments := new(mockCommentRepository)
	svc := newTestLikeService(likes, new(mockVideoRepository), comments, new(mockTweetRepository))
	ctx := context.Background()

	comments.On("GetByID", ctx, "ghost").Return(nil, apperrors.NotFound("comment", "ghost"))

	_, err := svc.Toggle(ctx, "user-123", domain.LikeTargetComment, "ghost")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	likes.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLikeCount(t *testing.T) {
	likes := new(mockLikeRepository)
	svc := newTestLikeService(likes, new(mockVideoRepository), new(mockCommentRepository), new(mockTweetRepository))
	ctx := context.Background()

	likes.On("Count", ctx, domain.LikeTargetVideo, "video-1").Return(int64(7), nil)

	count, err := svc.Count(ctx, domain.LikeTargetVideo, "video-1")

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestLikedVideos(t *testing.T) {
	likes := new(mockLikeRepository)
	svc := newTestLikeService(likes, new(mockVideoRepository), new(mockCommentRepository), new(mockTweetRepository))
	ctx := context.Background()

	likes.On("ListLikedVideos", ctx, "user-123", 10, 0).
		Return([]domain.Video{{ID: "video-1"}}, 1, nil)

	result, err := svc.LikedVideos(ctx, "user-123", pagination.DefaultParams())

	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
}
