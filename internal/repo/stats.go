package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/repo/selector"
)

// Stats persists derived statistics tables, each refreshed as a whole.
type Stats struct {
	db *bun.DB

	numberSel  selector.S[model.LottoNumberStat]
	gapSel     selector.S[model.LottoNumberGap]
	digitSel   selector.S[model.PensionDigitStat]
	refreshSel selector.S[model.StatsRefresh]
}

func NewStats(db *bun.DB) *Stats {
	return &Stats{
		db:         db,
		numberSel:  selector.New[model.LottoNumberStat](db),
		gapSel:     selector.New[model.LottoNumberGap](db),
		digitSel:   selector.New[model.PensionDigitStat](db),
		refreshSel: selector.New[model.StatsRefresh](db),
	}
}

func replaceAll[T any](ctx context.Context, tx bun.Tx, rows []*T) error {
	if _, err := tx.NewDelete().Model((*T)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	_, err := tx.NewInsert().Model(&rows).Exec(ctx)
	return err
}

func (r *Stats) SaveLottoStats(ctx context.Context, latestRound int, numbers []*model.LottoNumberStat, gaps []*model.LottoNumberGap) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := replaceAll(ctx, tx, numbers); err != nil {
			return errors.Wrap(err, "failed to save lotto number stats")
		}
		if err := replaceAll(ctx, tx, gaps); err != nil {
			return errors.Wrap(err, "failed to save lotto number gaps")
		}
		return r.markRefreshed(ctx, tx, "lotto", latestRound)
	})
}

func (r *Stats) SavePensionStats(ctx context.Context, latestRound int, digits []*model.PensionDigitStat) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := replaceAll(ctx, tx, digits); err != nil {
			return errors.Wrap(err, "failed to save pension digit stats")
		}
		return r.markRefreshed(ctx, tx, "pension", latestRound)
	})
}

func (r *Stats) markRefreshed(ctx context.Context, tx bun.Tx, name string, latestRound int) error {
	_, err := tx.NewInsert().
		Model(&model.StatsRefresh{Name: name, LatestRound: latestRound, RefreshedAt: time.Now()}).
		On("CONFLICT (name) DO UPDATE").
		Set("latest_round = EXCLUDED.latest_round").
		Set("refreshed_at = EXCLUDED.refreshed_at").
		Exec(ctx)
	return errors.Wrapf(err, "failed to mark %s stats refreshed", name)
}

// GetRefresh returns pgerr.ErrNotFound when name was never refreshed.
func (r *Stats) GetRefresh(ctx context.Context, name string) (*model.StatsRefresh, error) {
	return r.refreshSel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("name = ?", name)
	})
}

func (r *Stats) GetNumberStats(ctx context.Context) ([]*model.LottoNumberStat, error) {
	return r.numberSel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("number ASC", "include_bonus ASC")
	})
}

func (r *Stats) GetNumberGaps(ctx context.Context) ([]*model.LottoNumberGap, error) {
	return r.gapSel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("number ASC")
	})
}

func (r *Stats) GetDigitStats(ctx context.Context) ([]*model.PensionDigitStat, error) {
	return r.digitSel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("position ASC", "digit ASC")
	})
}
