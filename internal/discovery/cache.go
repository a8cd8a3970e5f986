package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/rueidis"
)

// MemoryCache keeps probe outcomes in process.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	matched bool
	expires time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return false, false
	}
	return e.matched, true
}

func (c *MemoryCache) Set(_ context.Context, key string, matched bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{matched: matched, expires: c.now().Add(c.ttl)}
}

const redisKeyPrefix = "cookingapp:probe:"

// RedisCache shares probe outcomes between API instances.
type RedisCache struct {
	client rueidis.Client
	ttl    time.Duration
}

func NewRedisCache(addrs []string, ttl time.Duration) (*RedisCache, error) {
	if len(addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  addrs,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (bool, bool) {
	cmd := c.client.B().Get().Key(redisKeyPrefix + key).Build()
	v, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		return false, false
	}
	return v == "1", true
}

func (c *RedisCache) Set(ctx context.Context, key string, matched bool) {
	v := "0"
	if matched {
		v = "1"
	}
	cmd := c.client.B().Set().Key(redisKeyPrefix + key).Value(v).Ex(c.ttl).Build()
	_ = c.client.Do(ctx, cmd).Error()
}

func (c *RedisCache) Close() {
	c.client.Close()
}

// NewCache builds the cache named by driver. "none" and "" return nil.
// The returned close func is never nil.
func NewCache(driver string, addrs []string, ttl time.Duration) (ResultCache, func(), error) {
	switch driver {
	case "", "none":
		return nil, func() {}, nil
	case "memory":
		return NewMemoryCache(ttl), func() {}, nil
	case "redis":
		rc, err := NewRedisCache(addrs, ttl)
		if err != nil {
			return nil, nil, err
		}
		return rc, rc.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", driver)
	}
}
