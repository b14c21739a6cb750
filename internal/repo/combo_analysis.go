package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/repo/selector"
)

type ComboAnalysis struct {
	db  *bun.DB
	sel selector.S[model.ComboAnalysis]
}

func NewComboAnalysis(db *bun.DB) *ComboAnalysis {
	return &ComboAnalysis{db: db, sel: selector.New[model.ComboAnalysis](db)}
}

// ReplaceForRound swaps every row of targetRound for rows in one
// transaction, so readers never observe a partial partition.
func (r *ComboAnalysis) ReplaceForRound(ctx context.Context, targetRound int, rows []*model.ComboAnalysis) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*model.ComboAnalysis)(nil)).
			Where("target_round = ?", targetRound).
			Exec(ctx)
		if err != nil {
			return errors.Wrapf(err, "failed to clear combo analyses of round %d", targetRound)
		}
		for _, chunk := range lo.Chunk(rows, insertChunkSize) {
			if _, err := tx.NewInsert().Model(&chunk).Exec(ctx); err != nil {
				return errors.Wrapf(err, "failed to insert combo analyses of round %d", targetRound)
			}
		}
		return nil
	})
}

type ComboFilter struct {
	TargetRound  int
	Size         int
	IncludeBonus *bool
	MinAppear    int
	Limit        int
}

func (r *ComboAnalysis) GetCombos(ctx context.Context, f ComboFilter) ([]*model.ComboAnalysis, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("target_round = ?", f.TargetRound)
		if f.Size > 0 {
			q = q.Where("combo_size = ?", f.Size)
		}
		if f.IncludeBonus != nil {
			q = q.Where("include_bonus = ?", *f.IncludeBonus)
		}
		if f.MinAppear > 0 {
			q = q.Where("total_appear >= ?", f.MinAppear)
		}
		if f.Limit > 0 {
			q = q.Limit(f.Limit)
		}
		return q.Order("hit_rate DESC", "total_appear DESC", "combo_size ASC", "numbers_combo ASC")
	})
}

func (r *ComboAnalysis) CountForRound(ctx context.Context, targetRound int) (int, error) {
	return r.sel.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("target_round = ?", targetRound)
	})
}

// LatestTargetRound returns 0 when nothing was analyzed yet.
func (r *ComboAnalysis) LatestTargetRound(ctx context.Context) (int, error) {
	var round int
	err := r.db.NewSelect().
		Model((*model.ComboAnalysis)(nil)).
		ColumnExpr("COALESCE(MAX(target_round), 0)").
		Scan(ctx, &round)
	return round, errors.Wrap(err, "failed to query latest analyzed round")
}
