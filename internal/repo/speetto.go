package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/repo/selector"
)

type SpeettoStatus struct {
	db  *bun.DB
	sel selector.S[model.SpeettoStatus]
}

func NewSpeettoStatus(db *bun.DB) *SpeettoStatus {
	return &SpeettoStatus{db: db, sel: selector.New[model.SpeettoStatus](db)}
}

func (r *SpeettoStatus) GetStatuses(ctx context.Context) ([]*model.SpeettoStatus, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("speetto_type DESC", "round DESC")
	})
}

func (r *SpeettoStatus) UpsertStatus(ctx context.Context, s *model.SpeettoStatus) error {
	_, err := r.db.NewInsert().
		Model(s).
		On("CONFLICT (speetto_type, round) DO UPDATE").
		Set("sales_end_date = EXCLUDED.sales_end_date").
		Set("publish_qty = EXCLUDED.publish_qty").
		Set("stocking_rate = EXCLUDED.stocking_rate").
		Set("image_source = EXCLUDED.image_source").
		Set("ranks = EXCLUDED.ranks").
		Set("data_change_at = EXCLUDED.data_change_at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return errors.Wrapf(err, "failed to upsert speetto status %s #%d", s.SpeettoType, s.Round)
}
