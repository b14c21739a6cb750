// Package selector wraps the select queries every repository repeats over a
// single model type.
package selector

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/pkg/pgerr"
)

type S[T any] struct {
	DB bun.IDB
}

func New[T any](db bun.IDB) S[T] {
	return S[T]{DB: db}
}

// With returns a selector bound to db, typically a transaction.
func (r S[T]) With(db bun.IDB) S[T] {
	return S[T]{DB: db}
}

// SelectOne scans the first row matched by fn. No row maps to
// pgerr.ErrNotFound.
func (r S[T]) SelectOne(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) (*T, error) {
	var row T
	if err := fn(r.DB.NewSelect().Model(&row)).Limit(1).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

// SelectMany scans every row matched by fn. An empty result is not an error.
func (r S[T]) SelectMany(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) ([]*T, error) {
	var rows []*T
	if err := fn(r.DB.NewSelect().Model(&rows)).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	return rows, nil
}

// Count counts the rows matched by fn; a nil fn counts the whole table.
func (r S[T]) Count(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) (int, error) {
	q := r.DB.NewSelect().Model((*T)(nil))
	if fn != nil {
		q = fn(q)
	}
	return q.Count(ctx)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return pgerr.ErrNotFound
	}
	return err
}
