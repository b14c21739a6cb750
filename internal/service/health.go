package service

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
)

var ErrComponentUnhealthy = errors.New("component unhealthy")

// Health pings the storage and messaging backends. Redis and NATS are only
// checked when they are configured.
type Health struct {
	checks []healthCheck
}

type healthCheck struct {
	name string
	ping func(ctx context.Context) error
}

func NewHealth(db *bun.DB, rdb *redis.Client, nc *nats.Conn) *Health {
	checks := []healthCheck{{name: "database", ping: db.PingContext}}

	if rdb != nil {
		checks = append(checks, healthCheck{name: "redis", ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	// the client pings the server on its own; see infra/nats.go
	if nc != nil {
		checks = append(checks, healthCheck{name: "nats", ping: func(context.Context) error {
			switch status := nc.Status(); status {
			case nats.CONNECTED, nats.DRAINING_PUBS, nats.DRAINING_SUBS:
				return nil
			default:
				return errors.New(status.String())
			}
		}})
	}

	return &Health{checks: checks}
}

// Components lists the backends Ping checks, in order.
func (s *Health) Components() []string {
	names := make([]string, len(s.checks))
	for i, c := range s.checks {
		names[i] = c.name
	}
	return names
}

// Ping stops at the first failing backend.
func (s *Health) Ping(ctx context.Context) error {
	for _, c := range s.checks {
		if err := c.ping(ctx); err != nil {
			return errors.Wrapf(ErrComponentUnhealthy, "%s: %s", c.name, err)
		}
	}
	return nil
}
