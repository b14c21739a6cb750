package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

const flushBatchSize = 500

func redisGet[T any](client *redis.Client, key string, dest *T) error {
	b, err := client.Get(context.Background(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	} else if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to get value from redis")
		return err
	}

	var v T
	if err := msgpack.Unmarshal(b, &v); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal value from msgpack from redis")
		return err
	}
	*dest = v
	return nil
}

func redisSet(client *redis.Client, key string, value any, expire time.Duration) error {
	if l := log.Trace(); l.Enabled() {
		l.Str("key", key).Msg("setting value to redis")
	}
	b, err := msgpack.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to marshal value with msgpack")
		return err
	}
	if err := client.Set(context.Background(), key, b, expire).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set value to redis")
		return err
	}
	return nil
}

func redisDelete(client *redis.Client, key string) error {
	if err := client.Del(context.Background(), key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete value from redis")
		return err
	}
	return nil
}

// redisFlush deletes every key starting with prefix. SCAN keeps the server
// responsive on large keyspaces.
func redisFlush(client *redis.Client, prefix string) error {
	ctx := context.Background()
	iter := client.Scan(ctx, 0, prefix+"*", flushBatchSize).Iterator()

	batch := make([]string, 0, flushBatchSize)
	del := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := client.Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == flushBatchSize {
			if err := del(); err != nil {
				log.Error().Err(err).Str("prefix", prefix).Msg("failed to clear cache")
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to scan cache keys")
		return err
	}
	if err := del(); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to clear cache")
		return err
	}
	return nil
}
