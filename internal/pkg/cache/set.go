package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("cache: key not found")

// NewSet stores values in Redis as msgpack when client is set, so every
// process sharing the Redis sees the same entries and flushes. A nil client
// keeps values in process.
func NewSet[T any](client *redis.Client, prefix string) *Set[T] {
	s := &Set[T]{
		client: client,
		prefix: prefix + ":",
	}
	if client == nil {
		s.c = cache.New(cache.NoExpiration, time.Minute*10)
	}
	return s
}

// Set is a keyed cache of T values.
type Set[T any] struct {
	// m is a mutex for MutexGetSet for concurrent prevention
	m sync.Mutex

	prefix string

	client *redis.Client
	c      *cache.Cache
}

func (c *Set[T]) key(key string) string {
	return c.prefix + key
}

func (c *Set[T]) Get(key string, dest *T) error {
	if c.client != nil {
		return redisGet(c.client, c.key(key), dest)
	}
	v, ok := c.c.Get(c.key(key))
	if !ok {
		return ErrNotFound
	}
	*dest = v.(T)
	return nil
}

func (c *Set[T]) Set(key string, value T, expire time.Duration) error {
	if c.client != nil {
		return redisSet(c.client, c.key(key), value, expire)
	}
	if l := log.Trace(); l.Enabled() {
		l.Str("key", c.key(key)).Msg("setting value to cache")
	}
	c.c.Set(c.key(key), value, expire)
	return nil
}

// MutexGetSet gets value from cache and writes to dest, or if the key does not exists, it executes valueFunc
// to get cache value if the key still not exists when serially dispatched, sets value to cache and
// writes value to dest.
// The first return value means whether the value is got from cache or not. True means calculated; False means got from cache.
func (c *Set[T]) MutexGetSet(key string, dest *T, valueFunc func() (T, error), expire time.Duration) (bool, error) {
	err := c.Get(key, dest)
	if err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	c.m.Lock()
	defer c.m.Unlock()
	err = c.Get(key, dest)
	if err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	value, err := valueFunc()
	if err != nil {
		log.Error().Err(err).Str("key", c.key(key)).Msg("failed to get value from valueFunc() in MutexGetSet")
		return true, err
	}

	// a failed write still serves the computed value
	_ = c.Set(key, value, expire)
	*dest = value

	return true, nil
}

func (c *Set[T]) Delete(key string) error {
	if c.client != nil {
		return redisDelete(c.client, c.key(key))
	}
	c.c.Delete(c.key(key))
	return nil
}

func (c *Set[T]) Flush() error {
	if c.client != nil {
		return redisFlush(c.client, c.prefix)
	}
	c.c.Flush()
	return nil
}
