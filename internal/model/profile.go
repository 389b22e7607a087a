package model

// Brand preference values
const (
	BrandLocal         = "local"
	BrandInternational = "international"
	BrandNoPreference  = "no-preference"
)

// BudgetRange represents a per-trip spending range
type BudgetRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// SizePreferences holds declared clothing sizes. Informational only,
// never used for scoring.
type SizePreferences struct {
	Top    string `json:"top,omitempty"`
	Bottom string `json:"bottom,omitempty"`
	Shoe   string `json:"shoe,omitempty"`
}

// UserPreferenceProfile is the normalized preference record derived from
// a user's onboarding answers. All list fields may be empty; an empty
// profile degrades to the anonymous scoring path rather than erroring.
type UserPreferenceProfile struct {
	StyleVibes          []string        `json:"style_vibes,omitempty"`
	Budget              BudgetRange     `json:"budget"`
	FavoriteCategories  []string        `json:"favorite_categories,omitempty"`
	Sizes               SizePreferences `json:"sizes"`
	FavoriteLocations   []string        `json:"favorite_locations,omitempty"`
	ShoppingFrequency   string          `json:"shopping_frequency,omitempty"`
	SustainabilityScore int             `json:"sustainability_score"`
	VintagePreference   int             `json:"vintage_preference"`
	BrandPreference     string          `json:"brand_preference"`
	Aesthetics          []string        `json:"aesthetics,omitempty"`
}

// HasSignals reports whether the profile carries anything the
// content-match scorer can act on.
func (p *UserPreferenceProfile) HasSignals() bool {
	if p == nil {
		return false
	}
	return len(p.StyleVibes) > 0 || len(p.FavoriteLocations) > 0
}
