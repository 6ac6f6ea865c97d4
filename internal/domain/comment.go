package domain

import (
	"time"
)

// Comment is a viewer comment on a video.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	OwnerID   string    `json:"owner_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner *VideoOwner `json:"owner,omitempty"`
}

// OwnedBy returns the authoring user's ID.
func (c *Comment) OwnedBy() string { return c.OwnerID }
