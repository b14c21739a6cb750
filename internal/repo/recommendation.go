package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/repo/selector"
)

type Recommendation struct {
	db  *bun.DB
	sel selector.S[model.Recommendation]
}

func NewRecommendation(db *bun.DB) *Recommendation {
	return &Recommendation{db: db, sel: selector.New[model.Recommendation](db)}
}

func (r *Recommendation) GetLatest(ctx context.Context, limit int) ([]*model.Recommendation, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("id DESC").Limit(limit)
	})
}

func (r *Recommendation) GetByWeek(ctx context.Context, weekKey string) ([]*model.Recommendation, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("week_key = ?", weekKey).Order("provider ASC")
	})
}

// UpsertRecommendation keeps one row per week and provider.
func (r *Recommendation) UpsertRecommendation(ctx context.Context, rec *model.Recommendation) error {
	_, err := r.db.NewInsert().
		Model(rec).
		On("CONFLICT (week_key, provider) DO UPDATE").
		Set("agency = EXCLUDED.agency").
		Set("numbers = EXCLUDED.numbers").
		Set("reasoning = EXCLUDED.reasoning").
		Set("raw_response = EXCLUDED.raw_response").
		Exec(ctx)
	return errors.Wrapf(err, "failed to upsert recommendation %s/%s", rec.WeekKey, rec.Provider)
}
