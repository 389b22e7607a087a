package repository

import (
	"context"

	"explore/internal/model"
)

// ShopRepository is the catalog query contract the feed engine consumes.
// Only active shops are ever returned.
type ShopRepository interface {
	// FindActive returns active shops matching the filter in the given
	// sort order. Ties are broken by catalog insertion order.
	FindActive(ctx context.Context, filter model.ShopFilter, sort model.ShopSort, limit, offset int) ([]model.ShopRecord, error)

	// SampleActive returns a uniform random sample of active shops,
	// excluding the given identifiers. Returns fewer than size when the
	// catalog is exhausted.
	SampleActive(ctx context.Context, size int, excludeIDs []string) ([]model.ShopRecord, error)

	// CountActive returns the number of active shops matching the filter.
	CountActive(ctx context.Context, filter model.ShopFilter) (int, error)
}

// PreferenceStore returns a caller's stored onboarding answers.
// User persistence itself belongs to the directory service; the feed
// engine only reads the raw answer map.
type PreferenceStore interface {
	// GetAnswers returns the stored answers for a user, or nil when the
	// user has none (skipped onboarding or unknown id).
	GetAnswers(ctx context.Context, userID string) (map[string]any, error)
}

// FeedLogEntry describes one served feed for the audit log
type FeedLogEntry struct {
	FeedID       string
	UserID       string
	SectionTypes []string
	ItemCount    int
	TookMs       int64
}

// FeedLogger records served feeds and user feedback against them
type FeedLogger interface {
	LogFeed(ctx context.Context, entry FeedLogEntry) error
	LogFeedback(ctx context.Context, feedID, shopID, action string) error
}
