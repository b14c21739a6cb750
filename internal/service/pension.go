package service

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/repo"
)

type Pension struct {
	PensionRepo *repo.PensionDraw
}

func NewPension(pensionRepo *repo.PensionDraw) *Pension {
	return &Pension{
		PensionRepo: pensionRepo,
	}
}

func (s *Pension) GetLatestDraw(ctx context.Context) (*model.PensionDraw, error) {
	return s.PensionRepo.GetLatestDraw(ctx)
}

// Cache: pensionDraw#round:{round}, 24 hrs
func (s *Pension) GetDrawByRound(ctx context.Context, round int) (*model.PensionDraw, error) {
	var draw model.PensionDraw
	_, err := cache.PensionDrawByRound.MutexGetSet(strconv.Itoa(round), &draw, func() (model.PensionDraw, error) {
		d, err := s.PensionRepo.GetDrawByRound(ctx, round)
		if err != nil {
			return model.PensionDraw{}, err
		}
		return *d, nil
	}, 24*time.Hour)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

func (s *Pension) CountDraws(ctx context.Context) (int, error) {
	return s.PensionRepo.CountDraws(ctx)
}

// InsertNew stores draw when it is newer than every stored round.
func (s *Pension) InsertNew(ctx context.Context, draw *model.PensionDraw) (bool, error) {
	maxRound, err := s.PensionRepo.MaxRound(ctx)
	if err != nil {
		return false, err
	}
	if draw.Round <= maxRound {
		return false, nil
	}
	if len(draw.Number) != len(PensionPositions)-1 {
		return false, errors.Errorf("pension draw %d has malformed number %q", draw.Round, draw.Number)
	}

	inserted, err := s.PensionRepo.InsertDraw(ctx, draw)
	if err != nil {
		return false, err
	}
	if inserted {
		cache.FlushGroup(cache.GroupPension)
	}
	return inserted, nil
}
