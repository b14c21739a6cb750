package types

// NumberStatsQuery filters lotto number frequency rows.
type NumberStatsQuery struct {
	Numbers      string `query:"numbers" validate:"omitempty,max=256,intlist"`
	IncludeBonus *bool  `query:"includeBonus"`
	MinCount     *int   `query:"minCount" validate:"omitempty,min=0"`
	MaxCount     *int   `query:"maxCount" validate:"omitempty,min=0"`
	Order        string `query:"order" validate:"omitempty,oneof=win_desc win_asc num_asc num_desc bonus_asc bonus_desc"`
	Limit        int    `query:"limit" validate:"omitempty,min=1,max=1000"`
}

// DigitStatsQuery filters pension digit frequency rows.
type DigitStatsQuery struct {
	Positions string `query:"positions" validate:"omitempty,max=64"`
	Digits    string `query:"digits" validate:"omitempty,max=64,intlist"`
	MinCount  *int   `query:"minCount" validate:"omitempty,min=0"`
	MaxCount  *int   `query:"maxCount" validate:"omitempty,min=0"`
	Order     string `query:"order" validate:"omitempty,oneof=win_desc win_asc pos_asc pos_desc digit_asc digit_desc"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=1000"`
}

type CarryoverStatsQuery struct {
	Count            int  `query:"count" validate:"min=0,max=6"`
	IncludeBonus     bool `query:"includeBonus"`
	MustIncludeBonus bool `query:"mustIncludeBonus"`
}

type CarryoverAnalysisQuery struct {
	Pick         string `query:"pick" validate:"omitempty,max=64,intlist"`
	IncludeBonus *bool  `query:"includeBonus"`
}

type CarryoverHistoryQuery struct {
	MatchCount *int `query:"matchCount" validate:"omitempty,min=0,max=6"`
	WithBonus  bool `query:"withBonus"`
	Limit      int  `query:"limit" validate:"omitempty,min=1,max=5000"`
}

type ComboQuery struct {
	Round        int   `query:"round" validate:"omitempty,min=1"`
	Size         int   `query:"size" validate:"omitempty,min=1,max=6"`
	IncludeBonus *bool `query:"includeBonus"`
	MinAppear    int   `query:"minAppear" validate:"omitempty,min=0"`
	Limit        int   `query:"limit" validate:"omitempty,min=1,max=200"`
}
