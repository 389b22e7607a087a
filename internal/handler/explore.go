package handler

import (
	"net/http"
	"strconv"

	"explore/internal/logger"
	"explore/internal/model"
	"explore/internal/service"

	"github.com/gin-gonic/gin"
)

// errRecommendations is the only error detail callers ever see;
// specifics stay in the server log.
const errRecommendations = "failed to get recommendations"

// ExploreHandler handles explore feed HTTP requests
type ExploreHandler struct {
	exploreService *service.ExploreService
	defaultLimit   int
	maxLimit       int
	log            *logger.Logger
}

// NewExploreHandler creates a new explore handler
func NewExploreHandler(exploreService *service.ExploreService, defaultLimit, maxLimit int, log *logger.Logger) *ExploreHandler {
	return &ExploreHandler{
		exploreService: exploreService,
		defaultLimit:   defaultLimit,
		maxLimit:       maxLimit,
		log:            log,
	}
}

// Sections handles GET /api/v1/explore/sections
func (h *ExploreHandler) Sections(c *gin.Context) {
	feed, err := h.exploreService.GetSections(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, "sections", err)
		return
	}
	c.JSON(http.StatusOK, model.APIResponse{Success: true, Data: feed})
}

// ForYou handles GET /api/v1/explore/for-you
func (h *ExploreHandler) ForYou(c *gin.Context) {
	section, err := h.exploreService.GetForYou(c.Request.Context(), callerID(c), h.limit(c))
	if err != nil {
		h.fail(c, "for-you", err)
		return
	}
	c.JSON(http.StatusOK, model.APIResponse{Success: true, Data: section})
}

// Trending handles GET /api/v1/explore/trending
func (h *ExploreHandler) Trending(c *gin.Context) {
	section, err := h.exploreService.GetTrending(c.Request.Context(), h.limit(c), c.Query("location"))
	if err != nil {
		h.fail(c, "trending", err)
		return
	}
	c.JSON(http.StatusOK, model.APIResponse{Success: true, Data: section})
}

// New handles GET /api/v1/explore/new
func (h *ExploreHandler) New(c *gin.Context) {
	section, err := h.exploreService.GetNew(c.Request.Context(), h.limit(c))
	if err != nil {
		h.fail(c, "new", err)
		return
	}
	c.JSON(http.StatusOK, model.APIResponse{Success: true, Data: section})
}

// Category handles GET /api/v1/explore/category/:category
func (h *ExploreHandler) Category(c *gin.Context) {
	section, err := h.exploreService.GetCategory(c.Request.Context(), c.Param("category"), h.limit(c))
	if err != nil {
		h.fail(c, "category", err)
		return
	}
	c.JSON(http.StatusOK, model.APIResponse{Success: true, Data: section})
}

func (h *ExploreHandler) fail(c *gin.Context, endpoint string, err error) {
	if h.log != nil {
		h.log.Error("feed composition failed", "endpoint", endpoint, "error", err)
	}
	c.JSON(http.StatusInternalServerError, model.APIResponse{Success: false, Error: errRecommendations})
}

// limit reads the optional limit query param, capped to the configured maximum
func (h *ExploreHandler) limit(c *gin.Context) int {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	return limit
}

// callerID resolves the optional caller identity. Authentication lives
// upstream; the gateway forwards the verified id in X-User-ID.
func callerID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return c.Query("user_id")
}
