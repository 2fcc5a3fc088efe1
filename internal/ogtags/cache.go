package ogtags

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// MetadataExtractor is implemented by Extractor and CachedExtractor.
type MetadataExtractor interface {
	Extract(ctx context.Context, rawURL string) Data
}

// CachedExtractor adds a redis cache-aside layer over an extractor.
// Cache failures degrade to a direct fetch; caching is an optimization,
// not a correctness requirement.
type CachedExtractor struct {
	next   MetadataExtractor
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedExtractor(next MetadataExtractor, rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) *CachedExtractor {
	return &CachedExtractor{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(rawURL string) string {
	return "ogtags:" + rawURL
}

func (c *CachedExtractor) Extract(ctx context.Context, rawURL string) Data {
	const op = "ogtags.CachedExtractor.Extract"

	key := cacheKey(rawURL)

	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var data Data
		if err := json.Unmarshal(b, &data); err == nil {
			return data
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Debug("metadata cache read failed", slog.Group(op, slog.Any("err", err)))
	}

	data := c.next.Extract(ctx, rawURL)

	if b, err := json.Marshal(data); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.logger.Debug("metadata cache write failed", slog.Group(op, slog.Any("err", err)))
		}
	}

	return data
}
