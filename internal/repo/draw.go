package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/repo/selector"
)

type Draw struct {
	db  *bun.DB
	sel selector.S[model.Draw]
}

func NewDraw(db *bun.DB) *Draw {
	return &Draw{db: db, sel: selector.New[model.Draw](db)}
}

// GetDraws returns every draw in ascending round order.
func (r *Draw) GetDraws(ctx context.Context) ([]*model.Draw, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("round ASC")
	})
}

func (r *Draw) GetDrawsDesc(ctx context.Context) ([]*model.Draw, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("round DESC")
	})
}

func (r *Draw) GetDrawByRound(ctx context.Context, round int) (*model.Draw, error) {
	return r.GetDrawByRoundTx(ctx, r.db, round)
}

func (r *Draw) GetDrawByRoundTx(ctx context.Context, tx bun.IDB, round int) (*model.Draw, error) {
	return r.sel.With(tx).SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("round = ?", round)
	})
}

func (r *Draw) GetLatestDraw(ctx context.Context) (*model.Draw, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("round DESC")
	})
}

// GetDrawsContainingAny returns draws up to maxRound whose main or bonus
// numbers include at least one of nums, ascending.
func (r *Draw) GetDrawsContainingAny(ctx context.Context, nums []int, maxRound int) ([]*model.Draw, error) {
	if len(nums) == 0 {
		return []*model.Draw{}, nil
	}
	in := bun.In(nums)
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("round <= ?", maxRound).
			WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					Where("num1 IN (?)", in).
					WhereOr("num2 IN (?)", in).
					WhereOr("num3 IN (?)", in).
					WhereOr("num4 IN (?)", in).
					WhereOr("num5 IN (?)", in).
					WhereOr("num6 IN (?)", in).
					WhereOr("bonus IN (?)", in)
			}).
			Order("round ASC")
	})
}

func (r *Draw) CountDraws(ctx context.Context) (int, error) {
	return r.sel.Count(ctx, nil)
}

// MaxRound returns 0 when the store is empty.
func (r *Draw) MaxRound(ctx context.Context) (int, error) {
	var round int
	err := r.db.NewSelect().
		Model((*model.Draw)(nil)).
		ColumnExpr("COALESCE(MAX(round), 0)").
		Scan(ctx, &round)
	if err != nil {
		return 0, errors.Wrap(err, "failed to query max draw round")
	}
	return round, nil
}

// CountBefore counts stored draws with a round lower than round.
func (r *Draw) CountBefore(ctx context.Context, tx bun.IDB, round int) (int, error) {
	return r.sel.With(tx).Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("round < ?", round)
	})
}

// InsertDraws inserts draws, skipping rounds that already exist. It returns
// the rounds that were actually written.
func (r *Draw) InsertDraws(ctx context.Context, draws []*model.Draw) ([]int, error) {
	inserted := []int{}
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, d := range draws {
			res, err := tx.NewInsert().
				Model(d).
				On("CONFLICT (round) DO NOTHING").
				Exec(ctx)
			if err != nil {
				return errors.Wrapf(err, "failed to insert draw %d", d.Round)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				inserted = append(inserted, d.Round)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}
