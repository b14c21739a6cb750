package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/core/carryover"
	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/pkg/testentry"
	"github.com/lottostats/backend/internal/repo"
)

var firstDrawDate = time.Date(2002, time.December, 7, 20, 45, 0, 0, time.UTC)

func draw(round, bonus int, main ...int) *model.Draw {
	var m [carryover.MainCount]int
	copy(m[:], main)
	return model.NewDraw(round, firstDrawDate.AddDate(0, 0, 7*(round-1)), m, bonus)
}

// sequence is four consecutive rounds with known overlaps:
// 2 carries {4,5,6} plus the bonus 7, 3 carries {7,8,9}, 4 carries nothing.
func sequence() []*model.Draw {
	return []*model.Draw{
		draw(1, 7, 1, 2, 3, 4, 5, 6),
		draw(2, 40, 4, 5, 6, 7, 8, 9),
		draw(3, 1, 7, 8, 9, 10, 11, 12),
		draw(4, 45, 20, 21, 22, 23, 24, 25),
	}
}

type fixture struct {
	db        *bun.DB
	draw      *Draw
	carryover *Carryover
	combo     *ComboAnalysis
	updater   *Updater
}

func newFixture(t *testing.T) *fixture {
	db := testentry.DB(t)

	drawRepo := repo.NewDraw(db)
	drawService := NewDraw(drawRepo)
	carryoverService := NewCarryover(db, drawRepo, repo.NewCarryoverRecord(db), repo.NewCarryoverSummary(db), drawService, NewCarryoverLock(nil))
	comboService := NewComboAnalysis(drawRepo, repo.NewComboAnalysis(db))

	return &fixture{
		db:        db,
		draw:      drawService,
		carryover: carryoverService,
		combo:     comboService,
		updater:   NewUpdater(carryoverService, comboService),
	}
}

func (f *fixture) seed(t *testing.T, draws ...*model.Draw) {
	_, err := f.draw.DrawRepo.InsertDraws(context.Background(), draws)
	require.NoError(t, err)
}

// buckets flattens the summary into total and with-bonus counters by match
// count.
func (f *fixture) buckets(t *testing.T) (total, withBonus [carryover.MainCount + 1]int) {
	rows, err := f.carryover.SummaryRepo.GetSummary(context.Background())
	require.NoError(t, err)
	for _, r := range rows {
		total[r.MatchCount] = r.OccurrenceTotal
		withBonus[r.MatchCount] = r.OccurrenceWithBonus
	}
	return total, withBonus
}
