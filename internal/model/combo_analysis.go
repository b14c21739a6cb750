package model

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/core/carryover"
)

// ComboAnalysis is the hit-rate of one number combination of a target round.
// Rows of one target round are always replaced together.
type ComboAnalysis struct {
	bun.BaseModel `bun:"combo_analyses,alias:ca"`

	TargetRound   int       `bun:",pk" json:"targetRound"`
	IncludeBonus  bool      `bun:",pk" json:"includeBonus"`
	NumbersCombo  string    `bun:",pk" json:"numbersCombo"`
	ComboSize     int       `bun:",notnull" json:"comboSize"`
	Numbers       []int     `json:"numbers"`
	TotalAppear   int       `bun:",notnull" json:"totalAppear"`
	TotalOccur    int       `bun:",notnull" json:"totalOccur"`
	HitRate       float64   `bun:",notnull" json:"hitRate"`
	HistoryRounds []int     `json:"historyRounds"`
	AnalyzedAt    time.Time `bun:",notnull" json:"analyzedAt"`
}

func NewComboAnalysis(targetRound int, st carryover.ComboStat, at time.Time) *ComboAnalysis {
	return &ComboAnalysis{
		TargetRound:   targetRound,
		IncludeBonus:  st.IncludeBonus,
		NumbersCombo:  st.Key(),
		ComboSize:     len(st.Numbers),
		Numbers:       st.Numbers,
		TotalAppear:   st.TotalAppear,
		TotalOccur:    st.TotalOccur,
		HitRate:       st.HitRate,
		HistoryRounds: st.HistoryRounds,
		AnalyzedAt:    at,
	}
}
