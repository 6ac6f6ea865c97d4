package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]string{"video_id": "v1", "title": "intro"}

	ev, err := NewEvent("vidtube.video.published", "v1", "video", "vidtube", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "vidtube.video.published", ev.EventType)
	assert.Equal(t, "v1", ev.AggregateID)
	assert.Equal(t, "video", ev.AggregateType)
	assert.Equal(t, 1, ev.Version)
	assert.Equal(t, "vidtube", ev.Source)
	assert.WithinDuration(t, time.Now().UTC(), ev.Timestamp, time.Minute)

	var decoded map[string]string
	require.NoError(t, ev.UnmarshalData(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestEvent_RoundTrip(t *testing.T) {
	ev, err := NewEvent("vidtube.user.registered", "u1", "user", "vidtube", map[string]string{"username": "jane"})
	require.NoError(t, err)
	ev.WithCorrelationID("corr-123").WithMetadata("region", "eu")

	raw, err := ev.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalEvent(raw)
	require.NoError(t, err)

	assert.Equal(t, ev.EventID, got.EventID)
	assert.Equal(t, "corr-123", got.CorrelationID)
	assert.Equal(t, "eu", got.Metadata["region"])
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("vidtube.video.published", "v1", "video", "vidtube", make(chan int))
	assert.Error(t, err)
}
