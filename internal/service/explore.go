package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"explore/internal/cache"
	"explore/internal/config"
	"explore/internal/logger"
	"explore/internal/model"
	"explore/internal/repository"

	"github.com/google/uuid"
)

// ExploreService composes the personalized explore feed. Each request
// is an independent, stateless computation: scorers run in a fixed
// order and a running dedup set keeps every shop in at most one section
// of the response.
type ExploreService struct {
	repo    repository.ShopRepository
	prefs   repository.PreferenceStore
	feedLog repository.FeedLogger
	cache   *cache.SectionCache
	scorer  *Scorer
	sampler *BackfillSampler
	cfg     config.ExploreConfig
	log     *logger.Logger
}

// NewExploreService creates a new explore service. prefs, feedLog and
// sectionCache may be nil; the service degrades to anonymous feeds,
// no audit logging, and uncached sections respectively.
func NewExploreService(
	repo repository.ShopRepository,
	prefs repository.PreferenceStore,
	feedLog repository.FeedLogger,
	sectionCache *cache.SectionCache,
	cfg config.ExploreConfig,
	log *logger.Logger,
) *ExploreService {
	sampler := NewBackfillSampler(repo)
	return &ExploreService{
		repo:    repo,
		prefs:   prefs,
		feedLog: feedLog,
		cache:   sectionCache,
		scorer:  NewScorer(repo, sampler),
		sampler: sampler,
		cfg:     cfg,
		log:     log,
	}
}

// GetSections returns the full ordered explore feed: For You (or the
// reduced anonymous variant), Trending, Recently Added. Any repository
// failure aborts the whole composition; there is no partial response.
func (s *ExploreService) GetSections(ctx context.Context, userID string) (*model.FeedResponse, error) {
	startTime := time.Now()

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	used := map[string]bool{}
	sections := []model.RecommendationSection{}

	forYou, err := s.forYouSection(ctx, profile)
	if err != nil {
		return nil, err
	}
	markUsed(used, forYou.Items)
	sections = append(sections, forYou)

	trendingItems, err := s.trendingItems(ctx, s.cfg.TrendingLimit, "")
	if err != nil {
		return nil, err
	}
	trending, err := s.dedupSection(ctx, model.RecommendationSection{
		ID:       "trending",
		Title:    "Trending This Week",
		Subtitle: "Most visited stores",
		Type:     model.SectionTrending,
		Items:    trendingItems,
	}, s.cfg.TrendingLimit, used)
	if err != nil {
		return nil, err
	}
	sections = append(sections, trending)

	newItems, err := s.newItems(ctx, s.cfg.NewLimit)
	if err != nil {
		return nil, err
	}
	recentlyAdded, err := s.dedupSection(ctx, model.RecommendationSection{
		ID:       "new",
		Title:    "Recently Added",
		Subtitle: "Fresh finds in our database",
		Type:     model.SectionNew,
		Items:    newItems,
	}, s.cfg.NewLimit, used)
	if err != nil {
		return nil, err
	}
	sections = append(sections, recentlyAdded)

	took := time.Since(startTime).Milliseconds()
	feedID := uuid.NewString()
	s.logFeed(feedID, userID, sections, took)

	return &model.FeedResponse{
		FeedID:   feedID,
		Sections: sections,
		Took:     took,
	}, nil
}

// GetForYou returns the standalone For You section, degrading to
// anonymous sampling when the caller has no profile.
func (s *ExploreService) GetForYou(ctx context.Context, userID string, limit int) (*model.SectionResponse, error) {
	startTime := time.Now()

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var section model.RecommendationSection
	if profile != nil {
		items, err := s.scorer.ForYou(ctx, profile, limit)
		if err != nil {
			return nil, err
		}
		section = model.RecommendationSection{
			ID:       "for-you",
			Title:    "For You",
			Subtitle: "Based on your style preferences",
			Type:     model.SectionForYou,
			Items:    items,
		}
	} else {
		items, err := s.sampler.Fill(ctx, limit, nil)
		if err != nil {
			return nil, err
		}
		section = model.RecommendationSection{
			ID:       "for-you",
			Title:    "Recommended For You",
			Subtitle: "Popular picks to get you started",
			Type:     model.SectionForYou,
			Items:    items,
		}
	}

	return &model.SectionResponse{Section: section, Took: time.Since(startTime).Milliseconds()}, nil
}

// GetTrending returns the standalone Trending section. A non-empty
// locationID restricts it to one area and labels it as nearby.
func (s *ExploreService) GetTrending(ctx context.Context, limit int, locationID string) (*model.SectionResponse, error) {
	startTime := time.Now()

	items, err := s.trendingItems(ctx, limit, locationID)
	if err != nil {
		return nil, err
	}

	section := model.RecommendationSection{
		ID:       "trending",
		Title:    "Trending This Week",
		Subtitle: "Most visited stores",
		Type:     model.SectionTrending,
		Items:    items,
	}
	if locationID != "" {
		section.ID = "popular-" + locationID
		section.Title = fmt.Sprintf("Popular in %s", LocationLabel(locationID))
		section.Subtitle = "Top-rated nearby"
		section.Type = model.SectionNearby
	}

	return &model.SectionResponse{Section: section, Took: time.Since(startTime).Milliseconds()}, nil
}

// GetNew returns the standalone Recently Added section
func (s *ExploreService) GetNew(ctx context.Context, limit int) (*model.SectionResponse, error) {
	startTime := time.Now()

	items, err := s.newItems(ctx, limit)
	if err != nil {
		return nil, err
	}

	return &model.SectionResponse{
		Section: model.RecommendationSection{
			ID:       "new",
			Title:    "Recently Added",
			Subtitle: "Fresh finds in our database",
			Type:     model.SectionNew,
			Items:    items,
		},
		Took: time.Since(startTime).Milliseconds(),
	}, nil
}

// GetCategory returns a single category-scoped section. Unknown
// categories fall back to trending inside the scorer.
func (s *ExploreService) GetCategory(ctx context.Context, category string, limit int) (*model.SectionResponse, error) {
	startTime := time.Now()

	items, err := s.scorer.Category(ctx, category, limit)
	if err != nil {
		return nil, err
	}

	name := strings.ToLower(strings.TrimSpace(category))
	return &model.SectionResponse{
		Section: model.RecommendationSection{
			ID:       "category-" + name,
			Title:    fmt.Sprintf("%s Picks", titleCase(name)),
			Subtitle: fmt.Sprintf("Curated for %s lovers", name),
			Type:     model.SectionCategory,
			Items:    items,
		},
		Took: time.Since(startTime).Milliseconds(),
	}, nil
}

// LogFeedback records a user action against a served feed item
func (s *ExploreService) LogFeedback(ctx context.Context, feedID, shopID, action string) error {
	if s.feedLog == nil {
		return nil
	}
	return s.feedLog.LogFeedback(ctx, feedID, shopID, action)
}

// forYouSection builds the leading section of the composite feed
func (s *ExploreService) forYouSection(ctx context.Context, profile *model.UserPreferenceProfile) (model.RecommendationSection, error) {
	if profile != nil {
		items, err := s.scorer.ForYou(ctx, profile, s.cfg.ForYouLimit)
		if err != nil {
			return model.RecommendationSection{}, err
		}
		return model.RecommendationSection{
			ID:       "for-you",
			Title:    "For You",
			Subtitle: "Based on your style preferences",
			Type:     model.SectionForYou,
			Items:    items,
		}, nil
	}

	items, err := s.sampler.Fill(ctx, s.cfg.AnonymousLimit, nil)
	if err != nil {
		return model.RecommendationSection{}, err
	}
	return model.RecommendationSection{
		ID:       "for-you",
		Title:    "Recommended For You",
		Subtitle: "Popular picks to get you started",
		Type:     model.SectionForYou,
		Items:    items,
	}, nil
}

// dedupSection drops items already placed in earlier sections, tops the
// section back up from the remaining pool, and registers the survivors
// in the used set.
func (s *ExploreService) dedupSection(
	ctx context.Context,
	section model.RecommendationSection,
	limit int,
	used map[string]bool,
) (model.RecommendationSection, error) {
	kept := make([]model.RecommendationItem, 0, len(section.Items))
	for _, item := range section.Items {
		if used[item.Shop.ID] {
			continue
		}
		kept = append(kept, item)
	}

	if len(kept) < limit {
		exclude := make([]string, 0, len(used)+len(kept))
		for id := range used {
			exclude = append(exclude, id)
		}
		exclude = append(exclude, itemIDs(kept)...)

		backfill, err := s.sampler.Fill(ctx, limit-len(kept), exclude)
		if err != nil {
			return model.RecommendationSection{}, err
		}
		kept = append(kept, backfill...)
	}

	section.Items = kept
	markUsed(used, kept)
	return section, nil
}

// loadProfile returns nil for anonymous callers and for users without
// stored onboarding answers.
func (s *ExploreService) loadProfile(ctx context.Context, userID string) (*model.UserPreferenceProfile, error) {
	if userID == "" || s.prefs == nil {
		return nil, nil
	}
	answers, err := s.prefs.GetAnswers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	if answers == nil {
		return nil, nil
	}
	profile := BuildProfile(answers)
	return &profile, nil
}

// trendingItems serves the caller-independent trending list, through
// the section cache when one is configured
func (s *ExploreService) trendingItems(ctx context.Context, limit int, locationID string) ([]model.RecommendationItem, error) {
	key := cache.Key("trending", locationID, strconv.Itoa(limit))
	if items, ok := s.cache.GetItems(ctx, key); ok {
		return items, nil
	}

	items, err := s.scorer.Trending(ctx, limit, locationID)
	if err != nil {
		return nil, err
	}
	s.cache.SetItems(ctx, key, items)
	return items, nil
}

// newItems serves the caller-independent recently-added list
func (s *ExploreService) newItems(ctx context.Context, limit int) ([]model.RecommendationItem, error) {
	key := cache.Key("new", strconv.Itoa(limit))
	if items, ok := s.cache.GetItems(ctx, key); ok {
		return items, nil
	}

	items, err := s.scorer.RecentlyAdded(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.cache.SetItems(ctx, key, items)
	return items, nil
}

// logFeed writes the audit entry off the request path (non-blocking)
func (s *ExploreService) logFeed(feedID, userID string, sections []model.RecommendationSection, took int64) {
	if s.feedLog == nil {
		return
	}

	sectionTypes := make([]string, 0, len(sections))
	itemCount := 0
	for _, section := range sections {
		sectionTypes = append(sectionTypes, string(section.Type))
		itemCount += len(section.Items)
	}

	go func() {
		err := s.feedLog.LogFeed(context.Background(), repository.FeedLogEntry{
			FeedID:       feedID,
			UserID:       userID,
			SectionTypes: sectionTypes,
			ItemCount:    itemCount,
			TookMs:       took,
		})
		if err != nil && s.log != nil {
			s.log.Warn("feed log write failed", "feed_id", feedID, "error", err)
		}
	}()
}

func markUsed(used map[string]bool, items []model.RecommendationItem) {
	for _, item := range items {
		used[item.Shop.ID] = true
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
