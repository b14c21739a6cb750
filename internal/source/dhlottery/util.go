package dhlottery

import (
	"sort"

	"github.com/lottostats/backend/internal/model"
)

func sortDraws(draws []*model.Draw) {
	sort.Slice(draws, func(i, j int) bool { return draws[i].Round < draws[j].Round })
}
