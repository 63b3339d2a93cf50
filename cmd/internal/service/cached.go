package service

import (
	"context"
	"portalmunicipal/cmd/internal/infrastructure/cache"
	"portalmunicipal/cmd/internal/utils/apierror"
	"time"

	"github.com/labstack/gommon/log"
)

// PublicCache wraps the response cache used by public listings. Cache
// failures are logged and never fail a request.
type PublicCache struct {
	Cache cache.Cache
	TTL   time.Duration
}

func NewPublicCache(c cache.Cache, ttl time.Duration) *PublicCache {
	if c == nil {
		c = cache.NewNoop()
	}
	return &PublicCache{Cache: c, TTL: ttl}
}

// Invalidate drops every cached response under the prefixes.
func (p *PublicCache) Invalidate(ctx context.Context, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := p.Cache.DeletePrefix(ctx, prefix); err != nil {
			log.Warnf("failed to invalidate cache prefix %s: %v", prefix, err)
		}
	}
}

// cachedResponse serves key from the cache or calls load and stores its
// result. Errors returned by load are never cached.
func cachedResponse[T any](ctx context.Context, p *PublicCache, key string, load func() (T, apierror.ErrorResponse)) (T, apierror.ErrorResponse) {
	var out T
	found, err := p.Cache.Get(ctx, key, &out)
	if err != nil {
		log.Warnf("failed to read cache key %s: %v", key, err)
	}

	if found {
		return out, nil
	}

	out, apierr := load()
	if apierr != nil {
		return out, apierr
	}

	if err = p.Cache.Set(ctx, key, out, p.TTL); err != nil {
		log.Warnf("failed to write cache key %s: %v", key, err)
	}
	return out, nil
}
