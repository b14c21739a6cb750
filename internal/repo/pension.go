package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/repo/selector"
)

type PensionDraw struct {
	db  *bun.DB
	sel selector.S[model.PensionDraw]
}

func NewPensionDraw(db *bun.DB) *PensionDraw {
	return &PensionDraw{db: db, sel: selector.New[model.PensionDraw](db)}
}

func (r *PensionDraw) GetDraws(ctx context.Context) ([]*model.PensionDraw, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("round ASC")
	})
}

func (r *PensionDraw) GetLatestDraw(ctx context.Context) (*model.PensionDraw, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("round DESC")
	})
}

func (r *PensionDraw) GetDrawByRound(ctx context.Context, round int) (*model.PensionDraw, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("round = ?", round)
	})
}

func (r *PensionDraw) CountDraws(ctx context.Context) (int, error) {
	return r.sel.Count(ctx, nil)
}

func (r *PensionDraw) MaxRound(ctx context.Context) (int, error) {
	var round int
	err := r.db.NewSelect().
		Model((*model.PensionDraw)(nil)).
		ColumnExpr("COALESCE(MAX(round), 0)").
		Scan(ctx, &round)
	return round, errors.Wrap(err, "failed to query max pension round")
}

func (r *PensionDraw) InsertDraw(ctx context.Context, d *model.PensionDraw) (bool, error) {
	res, err := r.db.NewInsert().
		Model(d).
		On("CONFLICT (round) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, errors.Wrapf(err, "failed to insert pension draw %d", d.Round)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
