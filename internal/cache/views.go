// Package cache buffers hot counters in Redis so every video play does
// not turn into a Postgres write.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const viewKeyPrefix = "vidtube:views:"

// VideoViewSink receives buffered view deltas during a drain.
type VideoViewSink interface {
	IncrementViews(ctx context.Context, id string, delta int64) error
}

// ViewCounter accumulates video view counts in Redis and flushes them
// to the durable store in batches.
type ViewCounter struct {
	client *redis.Client
	logger *slog.Logger
}

// NewViewCounter creates a view counter on the given Redis client.
func NewViewCounter(client *redis.Client, logger *slog.Logger) *ViewCounter {
	return &ViewCounter{client: client, logger: logger}
}

// Increment records one view for the video.
func (c *ViewCounter) Increment(ctx context.Context, videoID string) error {
	if err := c.client.Incr(ctx, viewKeyPrefix+videoID).Err(); err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// Drain scans all buffered counters, atomically claims each with
// GETDEL, and applies the deltas to the sink. A failed sink write puts
// the delta back so views are not lost; they retry on the next drain.
func (c *ViewCounter) Drain(ctx context.Context, sink VideoViewSink) error {
	iter := c.client.Scan(ctx, 0, viewKeyPrefix+"*", 100).Iterator()

	for iter.Next(ctx) {
		key := iter.Val()
		videoID := strings.TrimPrefix(key, viewKeyPrefix)

		raw, err := c.client.GetDel(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return fmt.Errorf("claim view count %s: %w", key, err)
		}

		delta, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || delta <= 0 {
			c.logger.WarnContext(ctx, "discarding malformed view counter",
				slog.String("key", key),
				slog.String("value", raw),
			)
			continue
		}

		if err := sink.IncrementViews(ctx, videoID, delta); err != nil {
			if rerr := c.client.IncrBy(ctx, key, delta).Err(); rerr != nil {
				c.logger.ErrorContext(ctx, "failed to restore view counter after sink error",
					slog.String("key", key),
					slog.Int64("delta", delta),
					slog.String("error", rerr.Error()),
				)
			}
			return fmt.Errorf("flush view count for %s: %w", videoID, err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan view counters: %w", err)
	}
	return nil
}
