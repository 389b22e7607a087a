package service

import (
	"context"
	"fmt"
	"strings"

	"explore/internal/model"
	"explore/internal/repository"
)

// Reason strings shown against recommendation items
const (
	ReasonPopularChoice = "Popular choice"
	ReasonNewAddition   = "New addition"
	ReasonPopularInArea = "Popular in your area"
	ReasonStyleFallback = "Matches your preferences"
)

// Match scores per scorer. The values come from the upstream contract
// and feed the UI confidence badge.
const (
	scoreStyleMatch = 0.85
	scoreTrending   = 0.9
	scoreRecent     = 0.7
	scoreCategory   = 0.8
	scoreBackfill   = 0.7
)

// minForYouMatches is the floor below which the content-match scorer
// pads its own result with sampled shops
const minForYouMatches = 6

// Scorer holds the independent section ranking strategies. Each method
// only reads from the repository; scorers never depend on each other's
// output.
type Scorer struct {
	repo    repository.ShopRepository
	sampler *BackfillSampler
}

// NewScorer creates a new scorer
func NewScorer(repo repository.ShopRepository, sampler *BackfillSampler) *Scorer {
	return &Scorer{repo: repo, sampler: sampler}
}

// ForYou is the content-match scorer. Favorite locations and style
// vibes restrict the catalog independently; a profile with neither
// degrades to the anonymous sampling path.
func (s *Scorer) ForYou(ctx context.Context, profile *model.UserPreferenceProfile, limit int) ([]model.RecommendationItem, error) {
	if !profile.HasSignals() {
		return s.sampler.Fill(ctx, limit, nil)
	}

	filter := model.ShopFilter{}
	if len(profile.FavoriteLocations) > 0 {
		filter.LocationIDs = profile.FavoriteLocations
	}
	if len(profile.StyleVibes) > 0 {
		if tags := MapStylesToTags(profile.StyleVibes); len(tags) > 0 {
			filter.Tags = tags
		}
	}

	shops, err := s.repo.FindActive(ctx, filter, model.SortRatingThenReviews, limit, 0)
	if err != nil {
		return nil, err
	}

	reason := styleReason(profile)
	items := make([]model.RecommendationItem, 0, len(shops))
	for _, shop := range shops {
		items = append(items, model.RecommendationItem{
			Shop:       shop,
			Reason:     reason,
			MatchScore: scoreStyleMatch,
			BasedOn:    model.BasisStyle,
		})
	}

	if len(items) < minForYouMatches {
		backfill, err := s.sampler.Fill(ctx, minForYouMatches-len(items), itemIDs(items))
		if err != nil {
			return nil, err
		}
		items = append(items, backfill...)
	}

	return items, nil
}

// Trending is the popularity scorer. locationID optionally restricts
// results to one area.
func (s *Scorer) Trending(ctx context.Context, limit int, locationID string) ([]model.RecommendationItem, error) {
	filter := model.ShopFilter{}
	if locationID != "" {
		filter.LocationIDs = []string{locationID}
	}

	shops, err := s.repo.FindActive(ctx, filter, model.SortReviewsThenRating, limit, 0)
	if err != nil {
		return nil, err
	}

	items := make([]model.RecommendationItem, 0, len(shops))
	for _, shop := range shops {
		items = append(items, model.RecommendationItem{
			Shop:       shop,
			Reason:     ReasonPopularChoice,
			MatchScore: scoreTrending,
			BasedOn:    model.BasisTrending,
		})
	}
	return items, nil
}

// RecentlyAdded is the recency scorer. The similar-users basis on its
// items is inherited from the upstream contract; see the model doc.
func (s *Scorer) RecentlyAdded(ctx context.Context, limit int) ([]model.RecommendationItem, error) {
	shops, err := s.repo.FindActive(ctx, model.ShopFilter{}, model.SortNewest, limit, 0)
	if err != nil {
		return nil, err
	}

	items := make([]model.RecommendationItem, 0, len(shops))
	for _, shop := range shops {
		items = append(items, model.RecommendationItem{
			Shop:       shop,
			Reason:     ReasonNewAddition,
			MatchScore: scoreRecent,
			BasedOn:    model.BasisSimilarUsers,
		})
	}
	return items, nil
}

// Category scores a single browse category. "trending", unknown
// categories, and categories with no tag mapping all delegate to the
// popularity scorer.
func (s *Scorer) Category(ctx context.Context, category string, limit int) ([]model.RecommendationItem, error) {
	tags := CategoryTags(category)
	if len(tags) == 0 {
		return s.Trending(ctx, limit, "")
	}

	shops, err := s.repo.FindActive(ctx, model.ShopFilter{Tags: tags}, model.SortRating, limit, 0)
	if err != nil {
		return nil, err
	}

	reason := fmt.Sprintf("Popular in %s", strings.ToLower(category))
	items := make([]model.RecommendationItem, 0, len(shops))
	for _, shop := range shops {
		items = append(items, model.RecommendationItem{
			Shop:       shop,
			Reason:     reason,
			MatchScore: scoreCategory,
			BasedOn:    model.BasisStyle,
		})
	}
	return items, nil
}

func styleReason(profile *model.UserPreferenceProfile) string {
	if len(profile.StyleVibes) > 0 {
		return fmt.Sprintf("Matches your %s style", profile.StyleVibes[0])
	}
	return ReasonStyleFallback
}

func itemIDs(items []model.RecommendationItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Shop.ID)
	}
	return ids
}
