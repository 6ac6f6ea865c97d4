package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantPage    int
		wantPerPage int
		wantOffset  int
	}{
		{name: "defaults", url: "/videos", wantPage: 1, wantPerPage: 10, wantOffset: 0},
		{name: "explicit values", url: "/videos?page=3&limit=25", wantPage: 3, wantPerPage: 25, wantOffset: 50},
		{name: "zero page falls back", url: "/videos?page=0", wantPage: 1, wantPerPage: 10, wantOffset: 0},
		{name: "negative page falls back", url: "/videos?page=-2", wantPage: 1, wantPerPage: 10, wantOffset: 0},
		{name: "limit over cap falls back", url: "/videos?limit=500", wantPage: 1, wantPerPage: 10, wantOffset: 0},
		{name: "non-numeric ignored", url: "/videos?page=abc&limit=xyz", wantPage: 1, wantPerPage: 10, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := FromRequest(r)

			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestNewResult(t *testing.T) {
	data := []string{"a", "b", "c"}

	res := NewResult(data, 23, Params{Page: 2, PerPage: 10})

	assert.Equal(t, data, res.Data)
	assert.Equal(t, 23, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	assert.True(t, res.HasNext)
	assert.True(t, res.HasPrev)
}

func TestNewResult_NilData(t *testing.T) {
	res := NewResult[string](nil, 0, Params{Page: 1, PerPage: 10})

	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, 0, res.TotalPages)
	assert.False(t, res.HasNext)
	assert.False(t, res.HasPrev)
}
