package types

import (
	"time"

	"gopkg.in/guregu/null.v3"
)

// DrawResponse is a draw with its prize details. The details are null when
// they were never published; FirstWinnerCount is 0 for a rolled-over jackpot.
type DrawResponse struct {
	Round             int       `json:"round"`
	DrawDate          time.Time `json:"drawDate"`
	Numbers           []int     `json:"numbers"`
	Bonus             int       `json:"bonus"`
	FirstPrizeAmount  null.Int  `json:"firstPrizeAmount" swaggertype:"integer"`
	FirstWinnerCount  null.Int  `json:"firstWinnerCount" swaggertype:"integer"`
	SecondPrizeAmount null.Int  `json:"secondPrizeAmount" swaggertype:"integer"`
	TotalSales        null.Int  `json:"totalSales" swaggertype:"integer"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type CarryoverCaseStats struct {
	Case        int                  `json:"case"`
	MatchCount  int                  `json:"matchCount"`
	Occurrences int                  `json:"occurrences"`
	Total       int                  `json:"total"`
	ActualProb  float64              `json:"actualProb"`
	History     []CarryoverCaseEntry `json:"history"`
}

type CarryoverCaseEntry struct {
	Round          int   `json:"round"`
	MatchedNumbers []int `json:"matchedNumbers"`
}

type CandidateAnalysis struct {
	Case       int                  `json:"case"`
	LastRound  int                  `json:"lastRound"`
	Candidates []CandidateCarryRate `json:"candidates"`
	Synergy    *Synergy             `json:"synergy"`
}

type CandidateCarryRate struct {
	Number          int     `json:"number"`
	CarryCount      int     `json:"carryCount"`
	AppearanceCount int     `json:"appearanceCount"`
	CarryoverRate   float64 `json:"carryoverRate"`
	IsBonusLastWeek bool    `json:"isBonusLastWeek"`
}

type Synergy struct {
	Pair               []int `json:"pair"`
	ContainsBonusCarry bool  `json:"containsBonusCarry"`
	CoOccurrenceCount  int   `json:"coOccurrenceCount"`
	Rounds             []int `json:"rounds"`
}

type RebuildResponse struct {
	Records int      `json:"records"`
	Gaps    []int    `json:"gaps"`
	Errors  []string `json:"errors"`
}

type UpdateResponse struct {
	Applied     []int `json:"applied"`
	Skipped     []int `json:"skipped"`
	AnalyzedFor int   `json:"analyzedFor"`
}

type IngestResponse struct {
	Source   string          `json:"source"`
	Fetched  int             `json:"fetched"`
	Inserted []int           `json:"inserted"`
	Rejected []int           `json:"rejected"`
	Update   *UpdateResponse `json:"update,omitempty"`
	TaskID   string          `json:"taskId,omitempty"`
}

type SyncResponse struct {
	Saved  int      `json:"saved"`
	Errors []string `json:"errors"`
}
