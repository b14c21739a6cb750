package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewSingular picks its backend the way NewSet does.
func NewSingular[T any](client *redis.Client, key string) *Singular[T] {
	s := &Singular[T]{
		key:    key,
		client: client,
	}
	if client == nil {
		s.c = cache.New(cache.NoExpiration, time.Minute*10)
	}
	return s
}

// Singular is a cache holding at most one T.
type Singular[T any] struct {
	// m serializes valueFunc calls of MutexGetSet
	m sync.Mutex

	key string

	client *redis.Client
	c      *cache.Cache
}

func (c *Singular[T]) Get(dest *T) error {
	if c.client != nil {
		return redisGet(c.client, c.key, dest)
	}
	v, ok := c.c.Get(c.key)
	if !ok {
		return ErrNotFound
	}
	*dest = v.(T)
	return nil
}

func (c *Singular[T]) Set(value T, expire time.Duration) error {
	if c.client != nil {
		return redisSet(c.client, c.key, value, expire)
	}
	if l := log.Trace(); l.Enabled() {
		l.Str("key", c.key).Msg("setting value to cache")
	}
	c.c.Set(c.key, value, expire)
	return nil
}

// MutexGetSet writes the cached value to dest. On a miss, valueFunc runs at
// most once across concurrent callers of this process and its result is
// cached for expire. Errors of valueFunc are returned and never cached.
func (c *Singular[T]) MutexGetSet(dest *T, valueFunc func() (T, error), expire time.Duration) error {
	err := c.Get(dest)
	if err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	c.m.Lock()
	defer c.m.Unlock()
	err = c.Get(dest)
	if err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	value, err := valueFunc()
	if err != nil {
		log.Debug().Err(err).Str("key", c.key).Msg("valueFunc failed in MutexGetSet")
		return err
	}

	_ = c.Set(value, expire)
	*dest = value
	return nil
}

func (c *Singular[T]) Delete() error {
	if c.client != nil {
		return redisDelete(c.client, c.key)
	}
	c.c.Delete(c.key)
	return nil
}
