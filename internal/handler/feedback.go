package handler

import (
	"net/http"

	"explore/internal/model"
	"explore/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler handles feedback-related HTTP requests
type FeedbackHandler struct {
	exploreService *service.ExploreService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(exploreService *service.ExploreService) *FeedbackHandler {
	return &FeedbackHandler{
		exploreService: exploreService,
	}
}

// Submit handles POST /api/v1/explore/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{Success: false, Error: "Invalid request: " + err.Error()})
		return
	}

	// Validate action
	validActions := map[string]bool{
		"click": true,
		"save":  true,
		"visit": true,
	}

	if !validActions[req.Action] {
		c.JSON(http.StatusBadRequest, model.APIResponse{Success: false, Error: "Invalid action. Must be one of: click, save, visit"})
		return
	}

	if err := h.exploreService.LogFeedback(c.Request.Context(), req.FeedID, req.ShopID, req.Action); err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{Success: false, Error: "Failed to log feedback"})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Success: true,
		Data:    model.FeedbackResponse{Success: true, Message: "Feedback logged successfully"},
	})
}
