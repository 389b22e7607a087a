package service

import (
	"strings"

	"explore/internal/model"
)

// budgetBrackets maps the onboarding budget answer to a spending range.
// Amounts are INR per trip.
var budgetBrackets = map[string]model.BudgetRange{
	"low":     {Min: 0, Max: 500, Currency: "INR"},
	"medium":  {Min: 500, Max: 1500, Currency: "INR"},
	"high":    {Min: 1500, Max: 3000, Currency: "INR"},
	"premium": {Min: 3000, Max: 10000, Currency: "INR"},
}

// defaultBudget applies when the budget answer is absent or unrecognized
var defaultBudget = model.BudgetRange{Min: 0, Max: 5000, Currency: "INR"}

// BuildProfile turns a raw onboarding answer map into a normalized
// preference profile. Every question is optional: absent or malformed
// answers fall back to documented defaults, unknown keys are ignored,
// and no input ever produces an error. Pure function.
func BuildProfile(answers map[string]any) model.UserPreferenceProfile {
	profile := model.UserPreferenceProfile{
		Budget:              defaultBudget,
		SustainabilityScore: 3,
		VintagePreference:   3,
		BrandPreference:     model.BrandNoPreference,
	}

	if answers == nil {
		return profile
	}

	profile.StyleVibes = toStringList(answers["style"])
	profile.FavoriteCategories = toStringList(answers["favoriteCategories"])
	profile.FavoriteLocations = toStringList(answers["favoriteLocations"])
	profile.Aesthetics = toStringList(answers["aesthetics"])
	profile.ShoppingFrequency = toString(answers["shoppingFrequency"])

	if bracket, ok := budgetBrackets[strings.ToLower(toString(answers["budget"]))]; ok {
		profile.Budget = bracket
	}

	if sizes, ok := answers["sizes"].(map[string]any); ok {
		profile.Sizes = model.SizePreferences{
			Top:    toString(sizes["top"]),
			Bottom: toString(sizes["bottom"]),
			Shoe:   toString(sizes["shoe"]),
		}
	}

	if score, ok := toScore(answers["sustainability"]); ok {
		profile.SustainabilityScore = score
	}
	if score, ok := toScore(answers["vintagePreference"]); ok {
		profile.VintagePreference = score
	}

	if brand := strings.ToLower(toString(answers["brandPreference"])); brand != "" {
		switch brand {
		case model.BrandLocal, model.BrandInternational, model.BrandNoPreference:
			profile.BrandPreference = brand
		}
	}

	return profile
}

func toString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func toStringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return cleanList(list)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return cleanList(out)
	default:
		return nil
	}
}

func cleanList(list []string) []string {
	out := list[:0:0]
	for _, s := range list {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// toScore accepts a 1-5 answer. JSON decoding hands numbers over as
// float64; anything outside the scale counts as absent.
func toScore(v any) (int, bool) {
	var score int
	switch n := v.(type) {
	case float64:
		score = int(n)
	case int:
		score = n
	default:
		return 0, false
	}
	if score < 1 || score > 5 {
		return 0, false
	}
	return score, true
}
