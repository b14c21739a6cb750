package types

import "gopkg.in/guregu/null.v3"

// PurgeCacheRequest drops single caches by name, or every cache derived from
// one kind of source data by group.
type PurgeCacheRequest struct {
	Pairs  []PurgeCachePair `json:"pairs" validate:"dive"`
	Groups []string         `json:"groups" validate:"dive,oneof=lotto pension speetto ai"`
}

type PurgeCachePair struct {
	Name string      `json:"name" validate:"required"`
	Key  null.String `json:"key" swaggertype:"string"`
}

type ApplyRoundsRequest struct {
	Rounds []int `json:"rounds" validate:"required,min=1,dive,min=1"`
}
