package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  My First Video!!  ", "my-first-video"},
		{"go_1.24 release notes", "go-1-24-release-notes"},
		{"---", ""},
		{"", ""},
		{"Already-Sluggish", "already-sluggish"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMakeUnique(t *testing.T) {
	assert.Equal(t, "hello-world-ab12", MakeUnique("Hello World", "ab12"))
	assert.Equal(t, "ab12", MakeUnique("!!!", "ab12"))
}
