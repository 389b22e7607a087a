package model

// RecommendationBasis is the enumerated reason category attached to a
// recommendation item, used for UI labeling and analytics.
type RecommendationBasis string

const (
	BasisStyle    RecommendationBasis = "style"
	BasisHistory  RecommendationBasis = "history"
	BasisTrending RecommendationBasis = "trending"
	// BasisSimilarUsers labels recency-driven items. The value is kept
	// verbatim from the upstream contract even though the heuristic is
	// novelty, not collaborative filtering.
	BasisSimilarUsers RecommendationBasis = "similar-users"
)

// SectionType identifies a recommendation section kind
type SectionType string

const (
	SectionTrending SectionType = "trending"
	SectionForYou   SectionType = "for-you"
	SectionNew      SectionType = "new"
	SectionNearby   SectionType = "nearby"
	SectionCategory SectionType = "category"
)

// RecommendationItem wraps a shop with the reason it was selected
type RecommendationItem struct {
	Shop       ShopRecord          `json:"shop"`
	Reason     string              `json:"reason"`
	MatchScore float64             `json:"matchScore"`
	BasedOn    RecommendationBasis `json:"basedOn"`
}

// RecommendationSection is a titled, ordered group of items. Within one
// response no shop identifier appears in more than one section.
type RecommendationSection struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Subtitle string               `json:"subtitle,omitempty"`
	Type     SectionType          `json:"type"`
	Items    []RecommendationItem `json:"items"`
}

// FeedResponse is the full explore feed returned to a caller
type FeedResponse struct {
	FeedID   string                  `json:"feed_id"`
	Sections []RecommendationSection `json:"sections"`
	Took     int64                   `json:"took_ms"`
}

// SectionResponse is a single-section result for the scoped endpoints
type SectionResponse struct {
	Section RecommendationSection `json:"section"`
	Took    int64                 `json:"took_ms"`
}

// APIResponse is the uniform endpoint envelope
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// FeedbackRequest records a user action against a served feed item
type FeedbackRequest struct {
	FeedID string `json:"feed_id" binding:"required"`
	ShopID string `json:"shop_id" binding:"required"`
	Action string `json:"action" binding:"required"` // click, save, visit
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
