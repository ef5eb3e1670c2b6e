// Package cache provides an optional key-value side-cache with TTL semantics,
// backed by an Olric cluster. When no cache servers are configured the Noop
// implementation keeps the rest of the code path unchanged.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	olriclib "github.com/olric-data/olric"
	"github.com/rs/zerolog/log"
)

// Cache is the minimal get/set/delete surface the application relies on.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Close(ctx context.Context) error
}

// dmapName is the single distributed map holding cached API lookups.
const dmapName = "contacts-api"

// Client wraps an Olric cluster client for cache operations.
type Client struct {
	client olriclib.Client
	dmap   olriclib.DMap
}

// New connects to the given Olric servers and opens the cache dmap.
func New(servers []string) (*Client, error) {
	client, err := olriclib.NewClusterClient(servers)
	if err != nil {
		return nil, fmt.Errorf("failed to create Olric cluster client: %w", err)
	}
	dm, err := client.NewDMap(dmapName)
	if err != nil {
		_ = client.Close(context.Background())
		return nil, fmt.Errorf("failed to open cache dmap: %w", err)
	}
	return &Client{client: client, dmap: dm}, nil
}

// Get returns the cached value for key, if present. Cache failures are
// treated as misses.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	resp, err := c.dmap.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, olriclib.ErrKeyNotFound) {
			log.Warn().Err(err).Str("key", key).Msg("Cache get failed")
		}
		return nil, false
	}
	value, err := resp.Byte()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache value decode failed")
		return nil, false
	}
	return value, true
}

// Set stores a value under key with the given TTL. Failures are logged and
// otherwise ignored; the cache is best-effort.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.dmap.Put(ctx, key, value, olriclib.EX(ttl)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache set failed")
	}
}

// Delete drops a key from the cache.
func (c *Client) Delete(ctx context.Context, key string) {
	if _, err := c.dmap.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache delete failed")
	}
}

// Close closes the underlying cluster client.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Close(ctx)
}

// Noop is a Cache that stores nothing, used when caching is disabled.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (Noop) Set(context.Context, string, []byte, time.Duration) {}

func (Noop) Delete(context.Context, string) {}

func (Noop) Close(context.Context) error { return nil }
