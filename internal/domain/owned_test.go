package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOwner(t *testing.T) {
	video := &Video{ID: "v1", OwnerID: "u1"}

	assert.True(t, IsOwner(video, "u1"))
	assert.False(t, IsOwner(video, "u2"))
	assert.False(t, IsOwner(video, ""), "anonymous caller never owns anything")
}

func TestOwnedImplementations(t *testing.T) {
	// Each owned entity reports its owning user.
	var cases = []struct {
		entity Owned
		want   string
	}{
		{&Video{OwnerID: "a"}, "a"},
		{&Comment{OwnerID: "b"}, "b"},
		{&Tweet{OwnerID: "c"}, "c"},
		{&Playlist{OwnerID: "d"}, "d"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.entity.OwnedBy())
	}
}

func TestLikeTargetValid(t *testing.T) {
	assert.True(t, LikeTargetVideo.Valid())
	assert.True(t, LikeTargetComment.Valid())
	assert.True(t, LikeTargetTweet.Valid())
	assert.False(t, LikeTarget("playlist").Valid())
	assert.False(t, LikeTarget("").Valid())
}
