package model

import (
	"time"

	"github.com/uptrace/bun"
)

// PensionDraw is one weekly Pension Lottery 720+ result. Number is the six
// first-prize digits; lower tiers match its suffixes.
type PensionDraw struct {
	bun.BaseModel `bun:"pension_draws,alias:pd"`

	Round       int       `bun:",pk" json:"round"`
	DrawDate    time.Time `bun:",notnull" json:"drawDate"`
	Group       int       `bun:",notnull" json:"group"`
	Number      string    `bun:",notnull" json:"number"`
	BonusNumber string    `bun:",notnull" json:"bonusNumber"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"-"`
}

// PensionTiers lists the winning suffix for tiers 2 through 7.
func (p *PensionDraw) PensionTiers() []string {
	tiers := make([]string, 0, len(p.Number))
	for i := 0; i < len(p.Number); i++ {
		tiers = append(tiers, p.Number[i:])
	}
	return tiers
}
