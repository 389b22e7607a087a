package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ShopRecord represents a thrift store catalog entry
type ShopRecord struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Tag         string    `json:"tag" db:"tag"`
	Description string    `json:"description,omitempty" db:"description"`
	Location    Location  `json:"location" db:"location"`
	Rating      *float64  `json:"rating,omitempty" db:"rating"`
	ReviewCount *int      `json:"review_count,omitempty" db:"review_count"`
	Specialties JSONArray `json:"specialties,omitempty" db:"specialties"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Location represents a shop's area identifier and display label
type Location struct {
	ID    string `json:"id" db:"id"`
	Label string `json:"label" db:"label"`
}

// ShopFilter represents optional catalog restrictions.
// All fields are optional and independently applicable.
type ShopFilter struct {
	LocationIDs []string `json:"location_ids,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Query       string   `json:"query,omitempty"`
}

// ShopSort identifies a fixed sort order for catalog queries
type ShopSort string

const (
	// SortRatingThenReviews orders by rating desc, review count desc, catalog order
	SortRatingThenReviews ShopSort = "rating_reviews"
	// SortRating orders by rating desc with catalog order breaking ties
	SortRating ShopSort = "rating"
	// SortReviewsThenRating orders by review count desc, rating desc, catalog order
	SortReviewsThenRating ShopSort = "reviews_rating"
	// SortNewest orders by creation timestamp desc
	SortNewest ShopSort = "newest"
)

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}
