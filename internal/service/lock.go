package service

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
)

// Locker serializes writers of the carryover tables.
type Locker interface {
	LockContext(ctx context.Context) error
	UnlockContext(ctx context.Context) (bool, error)
}

// NewCarryoverLock returns a distributed mutex when Redis is configured and
// a process-local one otherwise.
func NewCarryoverLock(rs *redsync.Redsync) Locker {
	if rs == nil {
		return newLocalLock()
	}
	return rs.NewMutex("mutex:carryover", redsync.WithExpiry(10*time.Minute), redsync.WithTries(64))
}

type localLock struct {
	ch chan struct{}
}

func newLocalLock() *localLock {
	return &localLock{ch: make(chan struct{}, 1)}
}

func (l *localLock) LockContext(ctx context.Context) error {
	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *localLock) UnlockContext(context.Context) (bool, error) {
	select {
	case <-l.ch:
		return true, nil
	default:
		return false, nil
	}
}
