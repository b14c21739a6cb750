package model

import (
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

// LottoNumberStat counts how many draws contained Number. With IncludeBonus
// the bonus number counts as well.
type LottoNumberStat struct {
	bun.BaseModel `bun:"lotto_number_stats,alias:lns"`

	Number       int  `bun:",pk" json:"number"`
	IncludeBonus bool `bun:",pk" json:"includeBonus"`
	WinCount     int  `bun:",notnull" json:"winCount"`
}

// LottoNumberGap tracks how long each number has been absent.
type LottoNumberGap struct {
	bun.BaseModel `bun:"lotto_number_gaps,alias:lng"`

	Number     int          `bun:",pk" json:"number"`
	WeeksSince null.Int     `json:"weeksSince" swaggertype:"integer"`
	LastRound  null.Int     `json:"lastRound" swaggertype:"integer"`
	LastDate   bun.NullTime `json:"lastDate" swaggertype:"string"`

	WeeksSinceWithBonus null.Int     `json:"weeksSinceWithBonus" swaggertype:"integer"`
	LastRoundWithBonus  null.Int     `json:"lastRoundWithBonus" swaggertype:"integer"`
	LastDateWithBonus   bun.NullTime `json:"lastDateWithBonus" swaggertype:"string"`
}

type PensionDigitStat struct {
	bun.BaseModel `bun:"pension_digit_stats,alias:pds"`

	Position string `bun:",pk" json:"position"`
	Digit    int    `bun:",pk" json:"digit"`
	WinCount int    `bun:",notnull" json:"winCount"`
}

// StatsRefresh records when derived statistics were last recomputed.
type StatsRefresh struct {
	bun.BaseModel `bun:"stats_refreshes,alias:sr"`

	Name        string    `bun:",pk" json:"name"`
	LatestRound int       `bun:",notnull" json:"latestRound"`
	RefreshedAt time.Time `bun:",notnull" json:"refreshedAt"`
}
