package domain

import (
	"time"
)

// LikeTarget identifies the kind of entity a like attaches to.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Valid reports whether the target type is one of the known kinds.
func (t LikeTarget) Valid() bool {
	switch t {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
		return true
	}
	return false
}

// Like records that a user liked a video, comment, or tweet. A user
// can hold at most one like per target.
type Like struct {
	ID         string     `json:"id"`
	LikedBy    string     `json:"liked_by"`
	TargetType LikeTarget `json:"target_type"`
	TargetID   string     `json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`
}
