package service

import (
	"context"

	"explore/internal/model"
	"explore/internal/repository"
)

// BackfillSampler tops up undersized sections with randomly sampled
// shops not yet placed anywhere in the response.
type BackfillSampler struct {
	repo repository.ShopRepository
}

// NewBackfillSampler creates a new backfill sampler
func NewBackfillSampler(repo repository.ShopRepository) *BackfillSampler {
	return &BackfillSampler{repo: repo}
}

// Fill returns up to gap sampled items, excluding usedIDs. Returns fewer
// than gap when the active catalog is exhausted; that is not an error.
func (s *BackfillSampler) Fill(ctx context.Context, gap int, usedIDs []string) ([]model.RecommendationItem, error) {
	if gap <= 0 {
		return nil, nil
	}

	shops, err := s.repo.SampleActive(ctx, gap, usedIDs)
	if err != nil {
		return nil, err
	}

	items := make([]model.RecommendationItem, 0, len(shops))
	for _, shop := range shops {
		items = append(items, model.RecommendationItem{
			Shop:       shop,
			Reason:     ReasonPopularInArea,
			MatchScore: scoreBackfill,
			BasedOn:    model.BasisTrending,
		})
	}
	return items, nil
}
