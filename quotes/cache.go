package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tradesim/models"
	"tradesim/service"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// CachedProvider is a read-through Redis cache in front of another quote
// provider. Cache failures degrade to a live lookup, never to a request
// failure; unknown symbols are not cached.
type CachedProvider struct {
	next service.QuoteProvider
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCachedProvider wraps a provider with a Redis quote cache
func NewCachedProvider(next service.QuoteProvider, rdb *redis.Client, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
	}
}

func cacheKey(symbol string) string {
	return fmt.Sprintf("quote:%s", symbol)
}

// Lookup returns a cached quote when fresh, otherwise fetches from the
// underlying provider and caches the result.
func (c *CachedProvider) Lookup(ctx context.Context, symbol string) (*models.Quote, error) {
	cached, err := c.rdb.Get(ctx, cacheKey(symbol)).Result()
	if err == nil {
		var quote models.Quote
		if err := json.Unmarshal([]byte(cached), &quote); err == nil {
			return &quote, nil
		}
		// Corrupt cache entry; fall through to a live lookup
	} else if err != redis.Nil {
		log.WithError(err).WithField("symbol", symbol).Warn("Quote cache read failed")
	}

	quote, err := c.next.Lookup(ctx, symbol)
	if err != nil || quote == nil {
		return quote, err
	}

	payload, err := json.Marshal(quote)
	if err != nil {
		return quote, nil
	}
	if err := c.rdb.Set(ctx, cacheKey(symbol), payload, c.ttl).Err(); err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("Quote cache write failed")
	}

	return quote, nil
}
