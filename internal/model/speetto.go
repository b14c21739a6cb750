package model

import (
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

// SpeettoStatus is the remaining-prize status of one instant lottery edition.
type SpeettoStatus struct {
	bun.BaseModel `bun:"speetto_statuses,alias:ss"`

	SpeettoType  string        `bun:",pk" json:"speettoType"`
	Round        int           `bun:",pk" json:"round"`
	SalesEndDate null.String   `json:"salesEndDate" swaggertype:"string"`
	PublishQty   null.Int      `json:"publishQty" swaggertype:"integer"`
	StockingRate null.String   `json:"stockingRate" swaggertype:"string"`
	ImageSource  string        `json:"imageSource"`
	Ranks        []SpeettoRank `json:"ranks"`
	DataChangeAt null.String   `json:"dataChangeAt" swaggertype:"string"`

	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

type SpeettoRank struct {
	Rank       int      `json:"rank"`
	Prize      null.Int `json:"prize"`
	TotalCount null.Int `json:"totalCount"`
	LeftCount  null.Int `json:"leftCount"`
}
