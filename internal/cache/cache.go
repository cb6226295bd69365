package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"kiosk-admin-console/internal/metrics"
	"kiosk-admin-console/internal/model"
)

// Tier is a shared second-level cache. Entries are JSON encoded.
type Tier interface {
	// Get also returns the epoch of endpoint the lookup was made at.
	Get(ctx context.Context, endpoint, params string) (data []byte, epoch int64, ok bool, err error)
	// Set stores data under epoch. Entries written under an epoch that has
	// since been revalidated are never returned.
	Set(ctx context.Context, endpoint, params string, epoch int64, data []byte, ttl time.Duration) error
	// Revalidate invalidates every entry of endpoint and notifies other instances.
	Revalidate(ctx context.Context, endpoint string) error
}

// Cache holds list responses keyed by endpoint and paging parameters.
type Cache struct {
	local    *gocache.Cache
	ttl      time.Duration
	group    singleflight.Group
	shared   Tier
	hub      *Hub
	recorder metrics.Recorder

	mu          sync.Mutex
	generations map[string]uint64
}

// Option customizes a Cache.
type Option func(*Cache)

// WithTier adds a shared tier behind the local one.
func WithTier(t Tier) Option {
	return func(c *Cache) { c.shared = t }
}

// WithHub makes revalidations observable by live sessions.
func WithHub(h *Hub) Option {
	return func(c *Cache) { c.hub = h }
}

// WithRecorder installs a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Cache) {
		if r != nil {
			c.recorder = r
		}
	}
}

// New creates a Cache whose local entries expire after ttl.
func New(ttl, cleanup time.Duration, opts ...Option) *Cache {
	c := &Cache{
		local:       gocache.New(ttl, cleanup),
		ttl:         ttl,
		recorder:    metrics.NoopRecorder{},
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type scopeKey struct{}

// WithScope returns a context whose lookups only share entries with
// lookups of the same scope, typically the operator id.
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the scope set by WithScope.
func ScopeFrom(ctx context.Context) string {
	scope, _ := ctx.Value(scopeKey{}).(string)
	return scope
}

// Key returns the cache key of one page of endpoint as seen from scope.
func Key(endpoint string, params model.PagingParams, scope string) string {
	key := endpoint + "?" + params.Encode()
	if scope != "" {
		key += "#" + scope
	}
	return key
}

// Generation returns the current generation of endpoint.
func (c *Cache) Generation(endpoint string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[endpoint]
}

// Get returns the cached page for endpoint/params, calling fetch on a miss.
// Concurrent identical lookups share one fetch. A fetch that started before
// a revalidation of endpoint returns its result but does not store it.
// Errors are never cached.
func Get[T any](ctx context.Context, c *Cache, endpoint string, params model.PagingParams, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	key := Key(endpoint, params, ScopeFrom(ctx))
	sharedKey := strings.TrimPrefix(key, endpoint+"?")

	if v, ok := c.local.Get(key); ok {
		if typed, ok := v.(T); ok {
			c.recorder.IncCacheHit(endpoint)
			return typed, nil
		}
	}

	gen := c.Generation(endpoint)
	v, err, _ := c.group.Do(fmt.Sprintf("%s@%d", key, gen), func() (any, error) {
		var (
			epoch    int64
			tierLive bool
		)
		if c.shared != nil {
			raw, ep, ok, err := c.shared.Get(ctx, endpoint, sharedKey)
			switch {
			case err != nil:
				log.Printf("cache: shared tier get %s: %v", key, err)
			case ok:
				var out T
				if err := json.Unmarshal(raw, &out); err == nil {
					c.recorder.IncSharedHit(endpoint)
					c.store(endpoint, key, gen, out)
					return out, nil
				}
				log.Printf("cache: discarding undecodable shared entry %s", key)
				epoch, tierLive = ep, true
			default:
				epoch, tierLive = ep, true
			}
		}

		c.recorder.IncCacheMiss(endpoint)
		out, err := fetch(ctx)
		if err != nil {
			c.recorder.IncFetchError(endpoint)
			return nil, err
		}
		// The tier write goes under the epoch read before the fetch, so a
		// revalidation that raced it orphans the entry.
		if c.store(endpoint, key, gen, out) && tierLive {
			if raw, err := json.Marshal(out); err == nil {
				if err := c.shared.Set(ctx, endpoint, sharedKey, epoch, raw, c.ttl); err != nil {
					log.Printf("cache: shared tier set %s: %v", key, err)
				}
			}
		}
		return out, nil
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache: entry %s has unexpected type %T", key, v)
	}
	return typed, nil
}

// store writes v under key unless endpoint was revalidated since gen.
func (c *Cache) store(endpoint, key string, gen uint64, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[endpoint] != gen {
		return false
	}
	c.local.Set(key, v, gocache.DefaultExpiration)
	return true
}

// Revalidate forces every page of endpoint to be fetched again, here and,
// through the shared tier, on every other instance.
func (c *Cache) Revalidate(ctx context.Context, endpoint string) error {
	c.invalidate(endpoint)
	if c.shared != nil {
		if err := c.shared.Revalidate(ctx, endpoint); err != nil {
			return fmt.Errorf("revalidate shared tier: %w", err)
		}
	}
	return nil
}

// ApplyRemote handles a revalidation notice received from another instance.
func (c *Cache) ApplyRemote(endpoint string) {
	c.invalidate(endpoint)
}

func (c *Cache) invalidate(endpoint string) {
	c.mu.Lock()
	c.generations[endpoint]++
	prefix := endpoint + "?"
	for key := range c.local.Items() {
		if strings.HasPrefix(key, prefix) {
			c.local.Delete(key)
		}
	}
	c.mu.Unlock()

	c.recorder.IncRevalidation(endpoint)
	if c.hub != nil {
		c.hub.Publish(endpoint)
	}
}
