// Package domain holds the entities shared by the repository, service,
// and handler layers.
package domain

import (
	"time"
)

// User represents a registered user. The refresh token hash is the
// user's single active session; a NULL hash means no session.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	PasswordHash     string    `json:"-"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	CoverImageURL    string    `json:"cover_image_url,omitempty"`
	RefreshTokenHash string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TokenPair holds an access and refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ChannelProfile is a user viewed as a channel, enriched with
// subscription counts relative to the requesting viewer.
type ChannelProfile struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	CoverImageURL   string    `json:"cover_image_url,omitempty"`
	SubscriberCount int       `json:"subscriber_count"`
	SubscribedTo    int       `json:"subscribed_to_count"`
	IsSubscribed    bool      `json:"is_subscribed"`
	CreatedAt       time.Time `json:"created_at"`
}
