package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/repo/selector"
)

const insertChunkSize = 500

type CarryoverRecord struct {
	db  *bun.DB
	sel selector.S[model.CarryoverRecord]
}

func NewCarryoverRecord(db *bun.DB) *CarryoverRecord {
	return &CarryoverRecord{db: db, sel: selector.New[model.CarryoverRecord](db)}
}

func (r *CarryoverRecord) GetRecords(ctx context.Context) ([]*model.CarryoverRecord, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("round ASC")
	})
}

func (r *CarryoverRecord) GetRecordsDesc(ctx context.Context, matchCount *int, withBonus bool, limit int) ([]*model.CarryoverRecord, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		if matchCount != nil {
			if withBonus {
				q = q.Where("match_count_with_bonus = ?", *matchCount)
			} else {
				q = q.Where("match_count = ?", *matchCount)
			}
		}
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Order("round DESC")
	})
}

func (r *CarryoverRecord) GetRecordByRound(ctx context.Context, tx bun.IDB, round int) (*model.CarryoverRecord, error) {
	return r.sel.With(tx).SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("round = ?", round)
	})
}

func (r *CarryoverRecord) CountRecords(ctx context.Context) (int, error) {
	return r.sel.Count(ctx, nil)
}

// ReplaceRecords clears the table and writes records within tx.
func (r *CarryoverRecord) ReplaceRecords(ctx context.Context, tx bun.IDB, records []*model.CarryoverRecord) error {
	if _, err := tx.NewDelete().Model((*model.CarryoverRecord)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to clear carryover records")
	}
	for _, chunk := range lo.Chunk(records, insertChunkSize) {
		if _, err := tx.NewInsert().Model(&chunk).Exec(ctx); err != nil {
			return errors.Wrap(err, "failed to insert carryover records")
		}
	}
	return nil
}

func (r *CarryoverRecord) UpsertRecord(ctx context.Context, tx bun.IDB, record *model.CarryoverRecord) error {
	_, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (round) DO UPDATE").
		Set("match_count = EXCLUDED.match_count").
		Set("match_count_with_bonus = EXCLUDED.match_count_with_bonus").
		Set("matched_numbers = EXCLUDED.matched_numbers").
		Set("bonus_matched_numbers = EXCLUDED.bonus_matched_numbers").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return errors.Wrapf(err, "failed to upsert carryover record %d", record.Round)
}

type CarryoverSummary struct {
	db  *bun.DB
	sel selector.S[model.CarryoverSummary]
}

func NewCarryoverSummary(db *bun.DB) *CarryoverSummary {
	return &CarryoverSummary{db: db, sel: selector.New[model.CarryoverSummary](db)}
}

func (r *CarryoverSummary) GetSummary(ctx context.Context) ([]*model.CarryoverSummary, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("match_count ASC")
	})
}

func (r *CarryoverSummary) ReplaceSummary(ctx context.Context, tx bun.IDB, rows []*model.CarryoverSummary) error {
	if _, err := tx.NewDelete().Model((*model.CarryoverSummary)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to clear carryover summary")
	}
	if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to insert carryover summary")
	}
	return nil
}

// EnsureBuckets creates any missing bucket row with zero counters.
func (r *CarryoverSummary) EnsureBuckets(ctx context.Context, tx bun.IDB, buckets int) error {
	rows := make([]*model.CarryoverSummary, buckets)
	for i := range rows {
		rows[i] = &model.CarryoverSummary{MatchCount: i}
	}
	_, err := tx.NewInsert().
		Model(&rows).
		On("CONFLICT (match_count) DO NOTHING").
		Exec(ctx)
	return errors.Wrap(err, "failed to ensure carryover summary buckets")
}

// IncrementTotal adds delta to occurrence_total of one bucket atomically.
func (r *CarryoverSummary) IncrementTotal(ctx context.Context, tx bun.IDB, matchCount, delta int) error {
	_, err := tx.NewUpdate().
		Model((*model.CarryoverSummary)(nil)).
		Set("occurrence_total = occurrence_total + ?", delta).
		Where("match_count = ?", matchCount).
		Exec(ctx)
	return errors.Wrap(err, "failed to increment carryover summary")
}

func (r *CarryoverSummary) IncrementWithBonus(ctx context.Context, tx bun.IDB, matchCount, delta int) error {
	_, err := tx.NewUpdate().
		Model((*model.CarryoverSummary)(nil)).
		Set("occurrence_with_bonus = occurrence_with_bonus + ?", delta).
		Where("match_count = ?", matchCount).
		Exec(ctx)
	return errors.Wrap(err, "failed to increment carryover summary")
}
