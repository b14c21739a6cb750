package service

import (
	"context"
	"strconv"
	"time"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/repo"
)

const DefaultRecommendationLimit = 4

type Recommendation struct {
	RecommendationRepo *repo.Recommendation
}

func NewRecommendation(recommendationRepo *repo.Recommendation) *Recommendation {
	return &Recommendation{
		RecommendationRepo: recommendationRepo,
	}
}

// Cache: recommendations#limit:{limit}, 1 hr
func (s *Recommendation) GetLatest(ctx context.Context, limit int) ([]*model.Recommendation, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	var recs []*model.Recommendation
	_, err := cache.Recommendations.MutexGetSet(strconv.Itoa(limit), &recs, func() ([]*model.Recommendation, error) {
		recs, err := s.RecommendationRepo.GetLatest(ctx, limit)
		if err != nil {
			return nil, err
		}
		if recs == nil {
			recs = []*model.Recommendation{}
		}
		return recs, nil
	}, time.Hour)
	return recs, err
}

func (s *Recommendation) Save(ctx context.Context, rec *model.Recommendation) error {
	if err := s.RecommendationRepo.UpsertRecommendation(ctx, rec); err != nil {
		return err
	}
	cache.FlushGroup(cache.GroupAI)
	return nil
}
