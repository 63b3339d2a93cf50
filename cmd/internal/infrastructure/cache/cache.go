// Package cache keeps serialized public responses for a short while.
package cache

import (
	"context"
	"time"
)

const (
	PrefixAreas     = "public:areas"
	PrefixDocuments = "public:documents"
	PrefixBiddings  = "public:biddings"
	PrefixNews      = "public:news"
	PrefixServices  = "public:services"
	PrefixProjects  = "public:projects"
)

// Cache stores JSON encodable values. A miss is reported with found=false
// and a nil error.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Key joins a prefix with the parts identifying one response.
func Key(prefix string, parts ...string) string {
	key := prefix
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

type noopCache struct{}

// NewNoop returns a cache that never hits, used when no redis is configured.
func NewNoop() Cache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string, any) (bool, error) {
	return false, nil
}

func (noopCache) Set(context.Context, string, any, time.Duration) error {
	return nil
}

func (noopCache) DeletePrefix(context.Context, string) error {
	return nil
}
