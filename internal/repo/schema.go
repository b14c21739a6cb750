package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/model"
)

var schemaModels = []any{
	(*model.Draw)(nil),
	(*model.CarryoverRecord)(nil),
	(*model.CarryoverSummary)(nil),
	(*model.ComboAnalysis)(nil),
	(*model.PensionDraw)(nil),
	(*model.LottoNumberStat)(nil),
	(*model.LottoNumberGap)(nil),
	(*model.PensionDigitStat)(nil),
	(*model.StatsRefresh)(nil),
	(*model.SpeettoStatus)(nil),
	(*model.Recommendation)(nil),
}

// CreateSchema creates every table that does not exist yet.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, m := range schemaModels {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrapf(err, "failed to create table for %T", m)
		}
	}
	_, err := db.NewCreateIndex().
		Model((*model.ComboAnalysis)(nil)).
		Index("combo_analyses_round_size_idx").
		IfNotExists().
		Column("target_round", "combo_size").
		Exec(ctx)
	return errors.Wrap(err, "failed to create combo analyses index")
}
