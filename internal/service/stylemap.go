package service

import "strings"

// Static lookup tables. Built once at init, read-only afterwards.

// styleTagMap translates abstract style vibes into concrete catalog
// category tags. Vibes with no entry contribute nothing.
var styleTagMap = map[string][]string{
	"vintage":     {"Vintage", "Pre-Loved", "Thrift"},
	"streetwear":  {"Streetwear", "Hype", "Urban"},
	"minimalist":  {"Basics", "Minimal"},
	"grunge":      {"Grunge", "Alternative"},
	"y2k":         {"Y2K", "Retro"},
	"cottagecore": {"Cottagecore", "Floral"},
	"old-money":   {"Classic", "Preppy"},
}

// categoryTagMap backs the category browse sections. "trending" has no
// tag set on purpose: it delegates to the popularity scorer.
var categoryTagMap = map[string][]string{
	"trending":    nil,
	"vintage":     {"Vintage", "Pre-Loved", "Thrift", "Retro"},
	"streetwear":  {"Streetwear", "Hype", "Urban"},
	"sustainable": {"Sustainable", "Eco", "Upcycled"},
	"designer":    {"Designer", "Luxury", "Premium"},
	"budget":      {"Budget", "Surplus", "Export"},
	"denim":       {"Denim"},
	"winter":      {"Winter", "Outerwear"},
}

// locationLabels maps area identifiers to display labels
var locationLabels = map[string]string{
	"hsr-layout":   "HSR Layout",
	"koramangala":  "Koramangala",
	"jayanagar":    "Jayanagar",
	"jpnagar":      "JP Nagar",
	"indiranagar":  "Indiranagar",
	"central":      "Commercial Street",
	"whitefield":   "Whitefield",
	"malleshwaram": "Malleshwaram",
	"btm":          "BTM Layout",
}

// MapStylesToTags returns the union of catalog tags for the given style
// vibes. Deterministic and order-independent on the resulting set;
// unknown vibes are skipped.
func MapStylesToTags(vibes []string) []string {
	seen := map[string]bool{}
	tags := []string{}
	for _, vibe := range vibes {
		for _, tag := range styleTagMap[strings.ToLower(strings.TrimSpace(vibe))] {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// CategoryTags returns the tag set for a browse category, or nil when
// the category is unknown or delegates to trending.
func CategoryTags(category string) []string {
	return categoryTagMap[strings.ToLower(strings.TrimSpace(category))]
}

// LocationLabel returns the display label for an area identifier
func LocationLabel(locationID string) string {
	if label, ok := locationLabels[locationID]; ok {
		return label
	}
	parts := strings.Fields(strings.ReplaceAll(locationID, "-", " "))
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
