package domain

import (
	"time"
)

// Playlist is a user-curated ordered collection of videos.
type Playlist struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	VideoCount  int       `json:"video_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Videos is populated only when fetching a single playlist.
	Videos []Video `json:"videos,omitempty"`
}

// OwnedBy returns the owning user's ID.
func (p *Playlist) OwnedBy() string { return p.OwnerID }
