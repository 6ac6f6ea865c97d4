// Package repository defines the persistence interfaces the service
// layer depends on.
package repository

import (
	"context"

	"vidtube/internal/domain"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// GetChannelProfile returns a user's public channel view with
	// subscriber counts, relative to the viewer. viewerID may be empty.
	GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
}

// SessionRepository manages the single refresh session per user,
// stored as a token hash on the user row. Saving overwrites any
// previous session, which invalidates the old refresh token.
type SessionRepository interface {
	// Save stores the refresh token hash for the user, replacing any
	// existing session.
	Save(ctx context.Context, userID, tokenHash string) error

	// Clear removes the user's session. Clearing an absent session is
	// not an error.
	Clear(ctx context.Context, userID string) error

	// Matches reports whether the given hash equals the user's stored
	// session hash. A cleared session never matches.
	Matches(ctx context.Context, userID, tokenHash string) (bool, error)
}

// VideoRepository defines video persistence operations.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, id string) (*domain.Video, error)
	Update(ctx context.Context, video *domain.Video) error
	Delete(ctx context.Context, id string) error

	// List returns videos matching the params plus the total count
	// before limit and offset are applied.
	List(ctx context.Context, params domain.VideoListParams) ([]domain.Video, int, error)

	// IncrementViews adds delta to the stored view count.
	IncrementViews(ctx context.Context, id string, delta int64) error
}

// WatchHistoryRepository records which videos a user has watched.
type WatchHistoryRepository interface {
	// Record upserts a watch entry, bumping its timestamp on rewatch.
	Record(ctx context.Context, userID, videoID string) error

	// ListByUser returns the user's history, most recent first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Video, int, error)
}

// CommentRepository defines comment persistence operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
	ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]domain.Comment, int, error)
}

// TweetRepository defines tweet persistence operations.
type TweetRepository interface {
	Create(ctx context.Context, tweet *domain.Tweet) error
	GetByID(ctx context.Context, id string) (*domain.Tweet, error)
	Update(ctx context.Context, tweet *domain.Tweet) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Tweet, int, error)
}

// LikeRepository defines like persistence operations.
type LikeRepository interface {
	// Toggle inserts a like, or removes it if the user already liked
	// the target. It returns true when the like now exists.
	Toggle(ctx context.Context, userID string, target domain.LikeTarget, targetID string) (bool, error)

	// Count returns the number of likes on a target.
	Count(ctx context.Context, target domain.LikeTarget, targetID string) (int64, error)

	// ListLikedVideos returns the videos a user has liked.
	ListLikedVideos(ctx context.Context, userID string, limit, offset int) ([]domain.Video, int, error)
}

// PlaylistRepository defines playlist persistence operations.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *domain.Playlist) error

	// GetByID retrieves a playlist with its videos populated.
	GetByID(ctx context.Context, id string) (*domain.Playlist, error)

	Update(ctx context.Context, playlist *domain.Playlist) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Playlist, int, error)

	// AddVideo appends a video to the playlist. Adding a video twice
	// is an AlreadyExists error.
	AddVideo(ctx context.Context, playlistID, videoID string) error

	// RemoveVideo removes a video from the playlist.
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}

// SubscriptionRepository defines subscription persistence operations.
type SubscriptionRepository interface {
	// Toggle subscribes the user to the channel, or unsubscribes if
	// already subscribed. It returns true when the subscription now
	// exists.
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)

	// ListSubscribers returns the users subscribed to a channel.
	ListSubscribers(ctx context.Context, channelID string, limit, offset int) ([]domain.User, int, error)

	// ListSubscribedChannels returns the channels a user subscribes to.
	ListSubscribedChannels(ctx context.Context, subscriberID string, limit, offset int) ([]domain.User, int, error)
}

// StatsRepository aggregates channel dashboard figures.
type StatsRepository interface {
	GetChannelStats(ctx context.Context, channelID string) (*domain.ChannelStats, error)
}
