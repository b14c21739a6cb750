package infra

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/app/appconfig"
)

// Redis returns a nil client when no RedisURL is configured. Callers fall
// back to process-local state in that case.
func Redis(conf *appconfig.Config, lc fx.Lifecycle) (*redis.Client, error) {
	if conf.RedisURL == "" {
		log.Info().Msg("infra: redis: disabled due to missing url")
		return nil, nil
	}

	opts, err := redis.ParseURL(conf.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "infra: redis: invalid url")
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "infra: redis: ping failed")
	}
	log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("infra: redis: connected")

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}
