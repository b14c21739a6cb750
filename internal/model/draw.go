package model

import (
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"

	"github.com/lottostats/backend/internal/core/carryover"
)

// Draw is one weekly Lotto 6/45 result.
type Draw struct {
	bun.BaseModel `bun:"lotto_draws,alias:ld"`

	Round    int       `bun:",pk" json:"round"`
	DrawDate time.Time `bun:",notnull" json:"drawDate"`
	Num1     int       `bun:",notnull" json:"-"`
	Num2     int       `bun:",notnull" json:"-"`
	Num3     int       `bun:",notnull" json:"-"`
	Num4     int       `bun:",notnull" json:"-"`
	Num5     int       `bun:",notnull" json:"-"`
	Num6     int       `bun:",notnull" json:"-"`
	Bonus    int       `bun:",notnull" json:"bonus"`

	FirstPrizeAmount  null.Int `json:"firstPrizeAmount" swaggertype:"integer"`
	FirstWinnerCount  null.Int `json:"firstWinnerCount" swaggertype:"integer"`
	SecondPrizeAmount null.Int `json:"secondPrizeAmount" swaggertype:"integer"`
	TotalSales        null.Int `json:"totalSales" swaggertype:"integer"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"-"`
}

func NewDraw(round int, date time.Time, main [carryover.MainCount]int, bonus int) *Draw {
	return &Draw{
		Round:    round,
		DrawDate: date,
		Num1:     main[0],
		Num2:     main[1],
		Num3:     main[2],
		Num4:     main[3],
		Num5:     main[4],
		Num6:     main[5],
		Bonus:    bonus,
	}
}

func (d *Draw) Numbers() []int {
	return []int{d.Num1, d.Num2, d.Num3, d.Num4, d.Num5, d.Num6}
}

func (d *Draw) Core() carryover.Draw {
	return carryover.Draw{
		Round: d.Round,
		Main:  [carryover.MainCount]int{d.Num1, d.Num2, d.Num3, d.Num4, d.Num5, d.Num6},
		Bonus: d.Bonus,
	}
}

// PrizeDataMissing reports whether the prize details were never published
// for this round, as opposed to a round without a first prize winner.
func (d *Draw) PrizeDataMissing() bool {
	return d.FirstPrizeAmount.ValueOrZero() == 0 &&
		d.FirstWinnerCount.ValueOrZero() == 0 &&
		d.TotalSales.ValueOrZero() == 0
}

func CoreDraws(draws []*Draw) []carryover.Draw {
	out := make([]carryover.Draw, len(draws))
	for i, d := range draws {
		out[i] = d.Core()
	}
	return out
}
