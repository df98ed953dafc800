package nlp

import (
	"context"
	"crypto/sha512"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gomodule/redigo/redis"
	"golang.org/x/sync/singleflight"

	"github.com/revelaction/stylo/prompt"
	sent "github.com/revelaction/stylo/sentence"
)

// ErrCacheMiss is returned by a Cache that does not hold the key.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores parsed documents by key.
type Cache interface {
	Get(ctx context.Context, key string) (sent.Doc, error)
	Set(ctx context.Context, key string, doc sent.Doc) error
}

// Key identifies a parse by language and text content.
func Key(text string, lang prompt.Lang) string {
	return fmt.Sprintf("stylo:doc:%s:%x", lang, sha512.Sum512([]byte(text)))
}

// Cached memoizes a Parser by input text identity. Concurrent parses of the
// same text share one call to the underlying parser. Cache failures are
// logged and never fail a parse.
type Cached struct {
	parser Parser
	cache  Cache
	group  singleflight.Group

	Logger *slog.Logger
}

var _ Parser = (*Cached)(nil)

func NewCached(p Parser, c Cache) *Cached {
	return &Cached{parser: p, cache: c, Logger: slog.Default()}
}

func (c *Cached) Parse(ctx context.Context, text string, lang prompt.Lang) (sent.Doc, error) {
	if IsBlank(text) {
		return sent.Doc{}, ErrNoContent
	}

	key := Key(text, lang)

	doc, err := c.cache.Get(ctx, key)
	if err == nil {
		c.Logger.Debug("parse cache hit", "key", key[:24])
		return doc, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.Logger.Warn("parse cache get failed", "error", err)
	}

	// The shared call must not inherit the cancellation of the caller that
	// started it. Each caller still returns on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		doc, err := c.parser.Parse(shared, text, lang)
		if err != nil {
			return sent.Doc{}, err
		}

		if err := c.cache.Set(shared, key, doc); err != nil {
			c.Logger.Warn("parse cache set failed", "error", err)
		}
		return doc, nil
	})

	select {
	case <-ctx.Done():
		return sent.Doc{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return sent.Doc{}, res.Err
		}
		return res.Val.(sent.Doc), nil
	}
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu   sync.RWMutex
	docs map[string]sent.Doc
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{docs: map[string]sent.Doc{}}
}

func (m *MemoryCache) Get(_ context.Context, key string) (sent.Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[key]
	if !ok {
		return sent.Doc{}, ErrCacheMiss
	}
	return doc, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, doc sent.Doc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[key] = doc
	return nil
}

func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// RedisCache stores documents as JSON in redis with an expiry.
type RedisCache struct {
	pool *redis.Pool
	ttl  time.Duration
}

var _ Cache = (*RedisCache)(nil)

// NewRedisPool returns a redis connection pool for addr (host:port).
func NewRedisPool(addr string, db int, password string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     8,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr,
				redis.DialDatabase(db),
				redis.DialPassword(password),
				redis.DialConnectTimeout(5*time.Second),
			)
		},
	}
}

func NewRedisCache(pool *redis.Pool, ttl time.Duration) *RedisCache {
	return &RedisCache{pool: pool, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string) (sent.Doc, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return sent.Doc{}, err
	}
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", key))
	if errors.Is(err, redis.ErrNil) {
		return sent.Doc{}, ErrCacheMiss
	}
	if err != nil {
		return sent.Doc{}, err
	}

	var doc sent.Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return sent.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}
	return doc, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, doc sent.Doc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if r.ttl > 0 {
		_, err = conn.Do("SET", key, data, "EX", int64(r.ttl/time.Second))
	} else {
		_, err = conn.Do("SET", key, data)
	}
	return err
}
