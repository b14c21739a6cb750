package service

import (
	"context"
	"time"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/repo"
)

type Speetto struct {
	SpeettoRepo *repo.SpeettoStatus
}

func NewSpeetto(speettoRepo *repo.SpeettoStatus) *Speetto {
	return &Speetto{
		SpeettoRepo: speettoRepo,
	}
}

// Cache: speettoStatuses, 1 hr
func (s *Speetto) GetStatuses(ctx context.Context) ([]*model.SpeettoStatus, error) {
	var statuses []*model.SpeettoStatus
	err := cache.SpeettoStatuses.MutexGetSet(&statuses, func() ([]*model.SpeettoStatus, error) {
		statuses, err := s.SpeettoRepo.GetStatuses(ctx)
		if err != nil {
			return nil, err
		}
		if statuses == nil {
			statuses = []*model.SpeettoStatus{}
		}
		return statuses, nil
	}, time.Hour)
	return statuses, err
}

func (s *Speetto) SaveStatuses(ctx context.Context, statuses []*model.SpeettoStatus) (int, error) {
	saved := 0
	for _, st := range statuses {
		st.UpdatedAt = time.Now()
		if err := s.SpeettoRepo.UpsertStatus(ctx, st); err != nil {
			return saved, err
		}
		saved++
	}
	if saved > 0 {
		cache.FlushGroup(cache.GroupSpeetto)
	}
	return saved, nil
}
