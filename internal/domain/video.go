package domain

import (
	"time"
)

// Video represents an uploaded video and its metadata.
type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Owner is populated by list and get queries that join the users table.
	Owner *VideoOwner `json:"owner,omitempty"`
}

// VideoOwner is the subset of the owner's profile embedded in video
// responses.
type VideoOwner struct {
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// OwnedBy returns the owning user's ID.
func (v *Video) OwnedBy() string { return v.OwnerID }

// VideoListParams filters and orders video listings.
type VideoListParams struct {
	Query     string
	OwnerID   string
	SortBy    string // created_at, views, duration, title
	SortOrder string // asc or desc
	Limit     int
	Offset    int

	// IncludeUnpublished lists drafts too; only valid when OwnerID is
	// the requesting user.
	IncludeUnpublished bool
}
