package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Recommendation is one provider's weekly number suggestion.
type Recommendation struct {
	bun.BaseModel `bun:"ai_recommendations,alias:ar"`

	ID          int       `bun:",pk,autoincrement" json:"-"`
	WeekKey     string    `bun:",notnull,unique:week_provider" json:"weekKey"`
	Provider    string    `bun:",notnull,unique:week_provider" json:"provider"`
	Agency      string    `bun:",notnull" json:"agency"`
	Numbers     []int     `json:"numbers"`
	Reasoning   string    `json:"reasoning"`
	RawResponse string    `json:"-"`
	CreatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
}
