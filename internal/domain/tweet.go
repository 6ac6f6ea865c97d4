package domain

import (
	"time"
)

// Tweet is a short text post on a user's channel feed.
type Tweet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner *VideoOwner `json:"owner,omitempty"`
}

// OwnedBy returns the authoring user's ID.
func (t *Tweet) OwnedBy() string { return t.OwnerID }
