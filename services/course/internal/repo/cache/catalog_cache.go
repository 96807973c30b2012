package cache

import (
	"context"
	"time"

	pkgcache "online-panthi/pkg/cache"
	"online-panthi/services/course/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	CatalogKey = "courses:catalog"
	catalogTTL = 5 * time.Minute
)

// CatalogCache holds the unfiltered catalog in its base order.
type CatalogCache interface {
	Get(ctx context.Context) ([]*entity.Course, bool)
	Set(ctx context.Context, courses []*entity.Course)
	Invalidate(ctx context.Context)
}

type redisCatalogCache struct {
	client *redis.Client
}

func NewRedisCatalogCache(client *redis.Client) CatalogCache {
	return &redisCatalogCache{client: client}
}

func (c *redisCatalogCache) Get(ctx context.Context) ([]*entity.Course, bool) {
	var courses []*entity.Course
	ok, err := pkgcache.GetJSON(ctx, c.client, CatalogKey, &courses)
	if err != nil || !ok {
		return nil, false
	}
	return courses, true
}

func (c *redisCatalogCache) Set(ctx context.Context, courses []*entity.Course) {
	_ = pkgcache.SetJSON(ctx, c.client, CatalogKey, courses, catalogTTL)
}

func (c *redisCatalogCache) Invalidate(ctx context.Context) {
	c.client.Del(ctx, CatalogKey)
}

type noopCatalogCache struct{}

func NewNoopCatalogCache() CatalogCache {
	return noopCatalogCache{}
}

func (noopCatalogCache) Get(context.Context) ([]*entity.Course, bool) { return nil, false }
func (noopCatalogCache) Set(context.Context, []*entity.Course)        {}
func (noopCatalogCache) Invalidate(context.Context)                   {}
