package model

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/core/carryover"
)

type CarryoverRecord struct {
	bun.BaseModel `bun:"carryover_records,alias:cr"`

	Round               int   `bun:",pk" json:"round"`
	MatchCount          int   `bun:",notnull" json:"matchCount"`
	MatchCountWithBonus int   `bun:",notnull" json:"matchCountWithBonus"`
	MatchedNumbers      []int `json:"matchedNumbers"`
	BonusMatchedNumbers []int `json:"bonusMatchedNumbers"`

	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"-"`
}

func NewCarryoverRecord(r carryover.Record) *CarryoverRecord {
	return &CarryoverRecord{
		Round:               r.Round,
		MatchCount:          r.MatchCount,
		MatchCountWithBonus: r.MatchCountWithBonus,
		MatchedNumbers:      r.MatchedNumbers,
		BonusMatchedNumbers: r.BonusMatchedNumbers,
	}
}

func (r *CarryoverRecord) Core() carryover.Record {
	return carryover.Record{
		Round:               r.Round,
		MatchCount:          r.MatchCount,
		MatchCountWithBonus: r.MatchCountWithBonus,
		MatchedNumbers:      r.MatchedNumbers,
		BonusMatchedNumbers: r.BonusMatchedNumbers,
	}
}

// CarryoverSummary is one of the seven match-count buckets.
type CarryoverSummary struct {
	bun.BaseModel `bun:"carryover_summaries,alias:cs"`

	MatchCount          int `bun:",pk" json:"matchCount"`
	OccurrenceTotal     int `bun:",notnull" json:"occurrenceTotal"`
	OccurrenceWithBonus int `bun:",notnull" json:"occurrenceWithBonus"`
}

// SummaryRows expands s into its seven rows.
func SummaryRows(s carryover.Summary) []*CarryoverSummary {
	rows := make([]*CarryoverSummary, len(s))
	for k, b := range s {
		rows[k] = &CarryoverSummary{
			MatchCount:          k,
			OccurrenceTotal:     b.Total,
			OccurrenceWithBonus: b.WithBonus,
		}
	}
	return rows
}
