package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"

	"github.com/lottostats/backend/internal/core/carryover"
	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/repo"
)

type Draw struct {
	DrawRepo *repo.Draw
}

func NewDraw(drawRepo *repo.Draw) *Draw {
	return &Draw{
		DrawRepo: drawRepo,
	}
}

// Cache: draws, 1 hr
func (s *Draw) GetDraws(ctx context.Context) ([]*model.Draw, error) {
	var draws []*model.Draw
	err := cache.Draws.MutexGetSet(&draws, func() ([]*model.Draw, error) {
		return s.DrawRepo.GetDraws(ctx)
	}, time.Hour)
	return draws, err
}

// Cache: latestDraw, 1 hr
func (s *Draw) GetLatestDraw(ctx context.Context) (*model.Draw, error) {
	var draw model.Draw
	err := cache.LatestDraw.MutexGetSet(&draw, func() (model.Draw, error) {
		d, err := s.DrawRepo.GetLatestDraw(ctx)
		if err != nil {
			return model.Draw{}, err
		}
		return *d, nil
	}, time.Hour)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// Cache: draw#round:{round}, 24 hrs
func (s *Draw) GetDrawByRound(ctx context.Context, round int) (*model.Draw, error) {
	var draw model.Draw
	_, err := cache.DrawByRound.MutexGetSet(strconv.Itoa(round), &draw, func() (model.Draw, error) {
		d, err := s.DrawRepo.GetDrawByRound(ctx, round)
		if err != nil {
			return model.Draw{}, err
		}
		return *d, nil
	}, 24*time.Hour)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

func (s *Draw) CountDraws(ctx context.Context) (int, error) {
	return s.DrawRepo.CountDraws(ctx)
}

// InsertNew stores the draws above the current maximum round. Malformed
// draws are left out and their rounds returned as rejected. Both lists are
// ascending.
func (s *Draw) InsertNew(ctx context.Context, draws []*model.Draw) (inserted, rejected []int, err error) {
	maxRound, err := s.DrawRepo.MaxRound(ctx)
	if err != nil {
		return nil, nil, err
	}

	rejected = []int{}
	fresh := lo.Filter(draws, func(d *model.Draw, _ int) bool {
		if d.Round <= maxRound {
			return false
		}
		if err := carryover.Validate(d.Core()); err != nil {
			log.Warn().
				Str("evt.name", "draw.rejected").
				Err(err).
				Int("round", d.Round).
				Msg("skipping malformed draw")
			rejected = append(rejected, d.Round)
			return false
		}
		return true
	})
	sort.Ints(rejected)
	if len(fresh) == 0 {
		return []int{}, rejected, nil
	}

	inserted, err = s.DrawRepo.InsertDraws(ctx, fresh)
	if err != nil {
		return nil, nil, err
	}
	if len(inserted) > 0 {
		cache.FlushGroup(cache.GroupLotto)
	}
	return inserted, rejected, nil
}

// ToResponse hides the prize details of rounds that never published them.
func (s *Draw) ToResponse(d *model.Draw) *types.DrawResponse {
	var resp types.DrawResponse
	// fields share names and types with the model; copying cannot fail
	_ = copier.Copy(&resp, d)
	resp.Numbers = d.Numbers()
	if d.PrizeDataMissing() {
		resp.FirstPrizeAmount = null.Int{}
		resp.FirstWinnerCount = null.Int{}
		resp.SecondPrizeAmount = null.Int{}
		resp.TotalSales = null.Int{}
	}
	return &resp
}
