package cache

import (
	"context"
	"time"

	pkgcache "online-panthi/pkg/cache"
	"online-panthi/services/community/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	FeedKey = "community:feed"
	feedTTL = 60 * time.Second
)

type FeedCache interface {
	Get(ctx context.Context) ([]*entity.Post, bool)
	Set(ctx context.Context, posts []*entity.Post)
	Invalidate(ctx context.Context)
}

type redisFeedCache struct {
	client *redis.Client
}

func NewRedisFeedCache(client *redis.Client) FeedCache {
	return &redisFeedCache{client: client}
}

func (c *redisFeedCache) Get(ctx context.Context) ([]*entity.Post, bool) {
	var posts []*entity.Post
	ok, err := pkgcache.GetJSON(ctx, c.client, FeedKey, &posts)
	if err != nil || !ok {
		return nil, false
	}
	return posts, true
}

func (c *redisFeedCache) Set(ctx context.Context, posts []*entity.Post) {
	_ = pkgcache.SetJSON(ctx, c.client, FeedKey, posts, feedTTL)
}

func (c *redisFeedCache) Invalidate(ctx context.Context) {
	c.client.Del(ctx, FeedKey)
}

type noopFeedCache struct{}

// NewNoopFeedCache is used when Redis is unavailable.
func NewNoopFeedCache() FeedCache {
	return noopFeedCache{}
}

func (noopFeedCache) Get(context.Context) ([]*entity.Post, bool) { return nil, false }
func (noopFeedCache) Set(context.Context, []*entity.Post)        {}
func (noopFeedCache) Invalidate(context.Context)                 {}
