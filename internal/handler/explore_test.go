package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"explore/internal/config"
	"explore/internal/model"
	"explore/internal/service"

	"github.com/gin-gonic/gin"
)

// stubRepo serves a fixed catalog. Filter and sort fidelity is covered
// by the service tests; here we only need the plumbing.
type stubRepo struct {
	shops []model.ShopRecord
	fail  bool
}

var errStub = errors.New("connection refused")

func (s *stubRepo) FindActive(_ context.Context, _ model.ShopFilter, _ model.ShopSort, limit, _ int) ([]model.ShopRecord, error) {
	if s.fail {
		return nil, errStub
	}
	if limit > len(s.shops) {
		limit = len(s.shops)
	}
	return s.shops[:limit], nil
}

func (s *stubRepo) SampleActive(_ context.Context, size int, excludeIDs []string) ([]model.ShopRecord, error) {
	if s.fail {
		return nil, errStub
	}
	out := []model.ShopRecord{}
	for _, shop := range s.shops {
		if len(out) == size {
			break
		}
		excluded := false
		for _, id := range excludeIDs {
			if id == shop.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, shop)
		}
	}
	return out, nil
}

func (s *stubRepo) CountActive(_ context.Context, _ model.ShopFilter) (int, error) {
	if s.fail {
		return 0, errStub
	}
	return len(s.shops), nil
}

func testRouter(repo *stubRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := config.ExploreConfig{
		ForYouLimit:    12,
		TrendingLimit:  8,
		NewLimit:       6,
		DefaultLimit:   12,
		MaxLimit:       10,
		MinSectionSize: 6,
		AnonymousLimit: 6,
	}
	svc := service.NewExploreService(repo, nil, nil, nil, cfg, nil)
	exploreHandler := NewExploreHandler(svc, cfg.DefaultLimit, cfg.MaxLimit, nil)
	feedbackHandler := NewFeedbackHandler(svc)

	router := gin.New()
	apiV1 := router.Group("/api/v1")
	apiV1.GET("/explore/sections", exploreHandler.Sections)
	apiV1.GET("/explore/trending", exploreHandler.Trending)
	apiV1.GET("/explore/for-you", exploreHandler.ForYou)
	apiV1.GET("/explore/new", exploreHandler.New)
	apiV1.GET("/explore/category/:category", exploreHandler.Category)
	apiV1.POST("/explore/feedback", feedbackHandler.Submit)
	return router
}

func catalog(n int) []model.ShopRecord {
	rating := 4.2
	reviews := 37
	shops := make([]model.ShopRecord, 0, n)
	for i := 0; i < n; i++ {
		shops = append(shops, model.ShopRecord{
			ID:          string(rune('a' + i)),
			Name:        "Shop",
			Tag:         "Vintage",
			Location:    model.Location{ID: "btm", Label: "BTM Layout"},
			Rating:      &rating,
			ReviewCount: &reviews,
			Active:      true,
			CreatedAt:   time.Now(),
		})
	}
	return shops
}

func doGet(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, model.APIResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var body model.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	return w, body
}

func TestSections_SuccessEnvelope(t *testing.T) {
	router := testRouter(&stubRepo{shops: catalog(20)})

	w, body := doGet(t, router, "/api/v1/explore/sections")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !body.Success {
		t.Fatalf("Expected success envelope, got error %q", body.Error)
	}

	feed, ok := body.Data.(map[string]any)
	if !ok {
		t.Fatal("Expected feed object in data")
	}
	sections, ok := feed["sections"].([]any)
	if !ok || len(sections) != 3 {
		t.Fatalf("Expected 3 sections, got %v", feed["sections"])
	}
	if feed["feed_id"] == "" {
		t.Error("Expected a feed id")
	}
}

func TestSections_RepositoryFailureReturnsGenericError(t *testing.T) {
	router := testRouter(&stubRepo{fail: true})

	w, body := doGet(t, router, "/api/v1/explore/sections")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	if body.Success {
		t.Error("Expected success=false")
	}
	if body.Error != "failed to get recommendations" {
		t.Errorf("Expected generic error message, got %q", body.Error)
	}
	if body.Data != nil {
		t.Error("Expected no partial section data")
	}
}

func TestTrending_LimitIsCapped(t *testing.T) {
	router := testRouter(&stubRepo{shops: catalog(20)})

	w, body := doGet(t, router, "/api/v1/explore/trending?limit=100")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	data := body.Data.(map[string]any)
	section := data["section"].(map[string]any)
	items := section["items"].([]any)
	if len(items) != 10 {
		t.Errorf("Expected limit capped to 10, got %d items", len(items))
	}
}

func TestCategory_UnknownCategoryStillSucceeds(t *testing.T) {
	router := testRouter(&stubRepo{shops: catalog(8)})

	w, body := doGet(t, router, "/api/v1/explore/category/holographic")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for unknown category, got %d", w.Code)
	}
	if !body.Success {
		t.Errorf("Expected success, got %q", body.Error)
	}
}

func TestFeedback_InvalidActionRejected(t *testing.T) {
	router := testRouter(&stubRepo{shops: catalog(4)})

	payload := `{"feed_id":"f1","shop_id":"a","action":"teleport"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/explore/feedback", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid action, got %d", w.Code)
	}
}
