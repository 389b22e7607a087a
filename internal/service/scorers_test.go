package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"explore/internal/model"
)

func newTestScorer(repo *fakeRepo) *Scorer {
	return NewScorer(repo, NewBackfillSampler(repo))
}

func TestTrending_OrderingIsStable(t *testing.T) {
	// a and b tie on review count: higher rating wins. c and d tie on
	// both: catalog order is preserved.
	repo := &fakeRepo{shops: []model.ShopRecord{
		shop("a", "Vintage", "btm", 3.5, 100, time.Hour),
		shop("b", "Vintage", "btm", 4.5, 100, time.Hour),
		shop("c", "Budget", "btm", 4.0, 50, time.Hour),
		shop("d", "Budget", "btm", 4.0, 50, time.Hour),
	}}
	scorer := newTestScorer(repo)

	items, err := scorer.Trending(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("Trending returned error: %v", err)
	}

	gotOrder := make([]string, len(items))
	for i, item := range items {
		gotOrder[i] = item.Shop.ID
	}
	wantOrder := []string{"b", "a", "c", "d"}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("Expected order %v, got %v", wantOrder, gotOrder)
	}

	for _, item := range items {
		if item.MatchScore != 0.9 {
			t.Errorf("Shop %s: expected matchScore 0.9, got %v", item.Shop.ID, item.MatchScore)
		}
		if item.BasedOn != model.BasisTrending {
			t.Errorf("Shop %s: expected basis trending, got %q", item.Shop.ID, item.BasedOn)
		}
		if item.Reason != ReasonPopularChoice {
			t.Errorf("Shop %s: unexpected reason %q", item.Shop.ID, item.Reason)
		}
	}
}

func TestCategory_TrendingAndUnknownDelegateToPopularity(t *testing.T) {
	repo := &fakeRepo{shops: bigCatalog(15)}
	scorer := newTestScorer(repo)

	direct, err := scorer.Trending(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("Trending returned error: %v", err)
	}

	for _, category := range []string{"trending", "no-such-category"} {
		delegated, err := scorer.Category(context.Background(), category, 10)
		if err != nil {
			t.Fatalf("Category(%q) returned error: %v", category, err)
		}
		if !reflect.DeepEqual(delegated, direct) {
			t.Errorf("Category(%q) output differs from a direct popularity call", category)
		}
	}
}

func TestCategory_MatchedItemsShape(t *testing.T) {
	repo := &fakeRepo{shops: bigCatalog(16)}
	scorer := newTestScorer(repo)

	items, err := scorer.Category(context.Background(), "vintage", 10)
	if err != nil {
		t.Fatalf("Category returned error: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("Expected vintage matches")
	}
	for _, item := range items {
		if item.Shop.Tag != "Vintage" {
			t.Errorf("Shop %s: tag %q not in vintage mapping", item.Shop.ID, item.Shop.Tag)
		}
		if item.MatchScore != 0.8 {
			t.Errorf("Shop %s: expected matchScore 0.8, got %v", item.Shop.ID, item.MatchScore)
		}
		if item.Reason != "Popular in vintage" {
			t.Errorf("Shop %s: unexpected reason %q", item.Shop.ID, item.Reason)
		}
	}
}

func TestCategory_RatingTiesKeepCatalogOrder(t *testing.T) {
	// a and b tie on rating. Review counts must not reorder them: the
	// category scorer ranks by rating alone with catalog-order ties.
	repo := &fakeRepo{shops: []model.ShopRecord{
		shop("a", "Vintage", "btm", 4.0, 5, time.Hour),
		shop("b", "Vintage", "btm", 4.0, 500, time.Hour),
		shop("c", "Vintage", "btm", 4.5, 1, time.Hour),
	}}
	scorer := newTestScorer(repo)

	items, err := scorer.Category(context.Background(), "vintage", 10)
	if err != nil {
		t.Fatalf("Category returned error: %v", err)
	}

	gotOrder := make([]string, len(items))
	for i, item := range items {
		gotOrder[i] = item.Shop.ID
	}
	wantOrder := []string{"c", "a", "b"}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("Expected order %v, got %v", wantOrder, gotOrder)
	}
}

func TestForYou_GenuineMatchesNameTheFirstVibe(t *testing.T) {
	repo := &fakeRepo{shops: bigCatalog(24)}
	scorer := newTestScorer(repo)

	profile := BuildProfile(map[string]any{
		"style": []any{"vintage", "streetwear"},
	})

	items, err := scorer.ForYou(context.Background(), &profile, 12)
	if err != nil {
		t.Fatalf("ForYou returned error: %v", err)
	}

	matches := 0
	for _, item := range items {
		if item.BasedOn != model.BasisStyle {
			continue
		}
		matches++
		if item.MatchScore != 0.85 {
			t.Errorf("Shop %s: expected matchScore 0.85, got %v", item.Shop.ID, item.MatchScore)
		}
		if item.Reason != "Matches your vintage style" {
			t.Errorf("Shop %s: unexpected reason %q", item.Shop.ID, item.Reason)
		}
	}
	if matches == 0 {
		t.Error("Expected at least one genuine style match")
	}
}

func TestForYou_NoMatchesBackfillsUntilCatalogExhausted(t *testing.T) {
	// Five active shops, all tagged Budget; the profile wants Vintage.
	// Zero genuine matches, and backfill drains the whole catalog.
	shops := []model.ShopRecord{
		shop("s1", "Budget", "btm", 4.0, 10, time.Hour),
		shop("s2", "Budget", "btm", 4.1, 12, time.Hour),
		shop("s3", "Budget", "btm", 4.2, 14, time.Hour),
		shop("s4", "Budget", "btm", 4.3, 16, time.Hour),
		shop("s5", "Budget", "btm", 4.4, 18, time.Hour),
	}
	repo := &fakeRepo{shops: shops}
	scorer := newTestScorer(repo)

	profile := BuildProfile(map[string]any{"style": []any{"vintage"}})

	items, err := scorer.ForYou(context.Background(), &profile, 12)
	if err != nil {
		t.Fatalf("ForYou returned error: %v", err)
	}

	if len(items) != 5 {
		t.Fatalf("Expected 5 backfilled items, got %d", len(items))
	}
	for _, item := range items {
		if item.BasedOn == model.BasisStyle {
			t.Errorf("Shop %s: backfilled item must not carry the style basis", item.Shop.ID)
		}
		if item.Reason != ReasonPopularInArea {
			t.Errorf("Shop %s: expected reason %q, got %q", item.Shop.ID, ReasonPopularInArea, item.Reason)
		}
		if item.MatchScore != 0.7 {
			t.Errorf("Shop %s: expected matchScore 0.7, got %v", item.Shop.ID, item.MatchScore)
		}
	}
}

func TestForYou_ProfileWithoutSignalsSamplesLikeAnonymous(t *testing.T) {
	repo := &fakeRepo{shops: bigCatalog(20)}
	scorer := newTestScorer(repo)
	sampler := NewBackfillSampler(repo)

	// Answers with neither vibes nor locations still build a profile,
	// but scoring must take the anonymous path.
	profile := BuildProfile(map[string]any{"budget": "low"})

	fromProfile, err := scorer.ForYou(context.Background(), &profile, 9)
	if err != nil {
		t.Fatalf("ForYou returned error: %v", err)
	}
	anonymous, err := sampler.Fill(context.Background(), 9, nil)
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}

	if !reflect.DeepEqual(fromProfile, anonymous) {
		t.Error("Signal-less profile should produce the anonymous sample")
	}
}

func TestForYou_LocationOnlyProfileRestrictsAndPads(t *testing.T) {
	shops := []model.ShopRecord{
		shop("k1", "Vintage", "koramangala", 4.8, 40, time.Hour),
		shop("k2", "Budget", "koramangala", 4.2, 30, time.Hour),
		shop("j1", "Vintage", "jayanagar", 4.9, 80, time.Hour),
		shop("j2", "Budget", "jayanagar", 4.1, 20, time.Hour),
		shop("j3", "Denim", "jayanagar", 3.9, 10, time.Hour),
		shop("j4", "Winter", "jayanagar", 3.8, 5, time.Hour),
		shop("j5", "Classic", "jayanagar", 3.7, 2, time.Hour),
	}
	repo := &fakeRepo{shops: shops}
	scorer := newTestScorer(repo)

	profile := BuildProfile(map[string]any{"favoriteLocations": []any{"koramangala"}})

	items, err := scorer.ForYou(context.Background(), &profile, 12)
	if err != nil {
		t.Fatalf("ForYou returned error: %v", err)
	}

	// Two genuine location matches padded up to the section minimum.
	if len(items) != 6 {
		t.Fatalf("Expected 6 items, got %d", len(items))
	}
	if items[0].Shop.ID != "k1" || items[1].Shop.ID != "k2" {
		t.Errorf("Expected koramangala shops first, got %s, %s", items[0].Shop.ID, items[1].Shop.ID)
	}
	for _, item := range items[:2] {
		if item.BasedOn != model.BasisStyle {
			t.Errorf("Shop %s: expected style basis, got %q", item.Shop.ID, item.BasedOn)
		}
		if item.Reason != ReasonStyleFallback {
			t.Errorf("Shop %s: expected generic reason, got %q", item.Shop.ID, item.Reason)
		}
	}
	for _, item := range items[2:] {
		if item.BasedOn != model.BasisTrending {
			t.Errorf("Shop %s: backfill basis should be trending, got %q", item.Shop.ID, item.BasedOn)
		}
	}
}

func TestRecentlyAdded_ItemShape(t *testing.T) {
	repo := &fakeRepo{shops: bigCatalog(10)}
	scorer := newTestScorer(repo)

	items, err := scorer.RecentlyAdded(context.Background(), 4)
	if err != nil {
		t.Fatalf("RecentlyAdded returned error: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("Expected 4 items, got %d", len(items))
	}

	for i, item := range items {
		if item.BasedOn != model.BasisSimilarUsers {
			t.Errorf("Item %d: expected similar-users basis, got %q", i, item.BasedOn)
		}
		if item.Reason != ReasonNewAddition {
			t.Errorf("Item %d: unexpected reason %q", i, item.Reason)
		}
		if i > 0 && items[i-1].Shop.CreatedAt.Before(item.Shop.CreatedAt) {
			t.Errorf("Item %d is newer than item %d", i, i-1)
		}
	}
}

func TestBackfillSampler_RespectsExclusionsAndExhaustion(t *testing.T) {
	repo := &fakeRepo{shops: []model.ShopRecord{
		shop("s1", "Budget", "btm", 4.0, 10, time.Hour),
		shop("s2", "Budget", "btm", 4.0, 10, time.Hour),
		shop("s3", "Budget", "btm", 4.0, 10, time.Hour),
	}}
	sampler := NewBackfillSampler(repo)

	items, err := sampler.Fill(context.Background(), 5, []string{"s2"})
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items from an exhausted catalog, got %d", len(items))
	}
	for _, item := range items {
		if item.Shop.ID == "s2" {
			t.Error("Excluded shop returned by sampler")
		}
	}

	if items, err := sampler.Fill(context.Background(), 0, nil); err != nil || len(items) != 0 {
		t.Errorf("Fill with zero gap: expected empty result, got %d items, err %v", len(items), err)
	}
}
