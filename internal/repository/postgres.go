package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"explore/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const shopColumns = `
	id, name, tag, description,
	location_id AS "location.id", location_label AS "location.label",
	rating, review_count, specialties, active, created_at, updated_at`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// buildFilter translates a ShopFilter into WHERE clauses and args.
// Active-only is always enforced here.
func buildFilter(filter model.ShopFilter, argIndex int) ([]string, []interface{}, int) {
	whereClauses := []string{"active = true"}
	args := []interface{}{}

	if len(filter.LocationIDs) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("location_id = ANY($%d)", argIndex))
		args = append(args, pq.Array(filter.LocationIDs))
		argIndex++
	}
	if len(filter.Tags) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("tag = ANY($%d)", argIndex))
		args = append(args, pq.Array(filter.Tags))
		argIndex++
	}
	if filter.Query != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("search_vector @@ plainto_tsquery('english', $%d)", argIndex))
		args = append(args, filter.Query)
		argIndex++
	}

	return whereClauses, args, argIndex
}

// orderBy maps a sort key to its SQL clause. Creation order breaks ties
// so repeated queries return shops in a stable order.
func orderBy(sort model.ShopSort) string {
	switch sort {
	case model.SortReviewsThenRating:
		return "review_count DESC NULLS LAST, rating DESC NULLS LAST, created_at ASC, id ASC"
	case model.SortRating:
		return "rating DESC NULLS LAST, created_at ASC, id ASC"
	case model.SortNewest:
		return "created_at DESC, id ASC"
	default: // model.SortRatingThenReviews
		return "rating DESC NULLS LAST, review_count DESC NULLS LAST, created_at ASC, id ASC"
	}
}

// FindActive returns active shops matching the filter in the given sort order
func (r *PostgresRepository) FindActive(
	ctx context.Context,
	filter model.ShopFilter,
	sort model.ShopSort,
	limit, offset int,
) ([]model.ShopRecord, error) {
	whereClauses, args, argIndex := buildFilter(filter, 1)

	query := fmt.Sprintf(`
		SELECT %s
		FROM shops
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, shopColumns, strings.Join(whereClauses, " AND "), orderBy(sort), argIndex, argIndex+1)
	args = append(args, limit, offset)

	shops := []model.ShopRecord{}
	if err := r.db.SelectContext(ctx, &shops, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch shops: %w", err)
	}

	return shops, nil
}

// exclusionArray encodes an exclusion list for a NOT (id = ANY(...))
// clause. A nil slice must encode as an empty array, not SQL NULL:
// NOT (id = ANY(NULL)) is NULL and would filter out every row.
func exclusionArray(ids []string) driver.Valuer {
	if ids == nil {
		ids = []string{}
	}
	return pq.Array(ids)
}

// SampleActive returns a uniform random sample of active shops
func (r *PostgresRepository) SampleActive(ctx context.Context, size int, excludeIDs []string) ([]model.ShopRecord, error) {
	if size <= 0 {
		return []model.ShopRecord{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM shops
		WHERE active = true AND NOT (id = ANY($1))
		ORDER BY random()
		LIMIT $2
	`, shopColumns)

	shops := []model.ShopRecord{}
	if err := r.db.SelectContext(ctx, &shops, query, exclusionArray(excludeIDs), size); err != nil {
		return nil, fmt.Errorf("failed to sample shops: %w", err)
	}

	return shops, nil
}

// CountActive returns the number of active shops matching the filter
func (r *PostgresRepository) CountActive(ctx context.Context, filter model.ShopFilter) (int, error) {
	whereClauses, args, _ := buildFilter(filter, 1)

	query := fmt.Sprintf("SELECT COUNT(*) FROM shops WHERE %s", strings.Join(whereClauses, " AND "))

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count shops: %w", err)
	}

	return total, nil
}

// GetAnswers returns a user's stored onboarding answers, or nil when
// the user never completed onboarding
func (r *PostgresRepository) GetAnswers(ctx context.Context, userID string) (map[string]any, error) {
	var raw []byte
	query := `SELECT answers FROM user_preferences WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &raw, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	return decodeAnswers(raw)
}

// decodeAnswers decodes a stored answers document. A NULL column scans
// as a nil slice and means the same as a missing row.
func decodeAnswers(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	answers := map[string]any{}
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}

	return answers, nil
}

// LogFeed records a served feed
func (r *PostgresRepository) LogFeed(ctx context.Context, entry FeedLogEntry) error {
	query := `
		INSERT INTO feed_logs (feed_id, user_id, section_types, item_count, response_time_ms)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, entry.FeedID, entry.UserID, pq.Array(entry.SectionTypes), entry.ItemCount, entry.TookMs)
	if err != nil {
		return fmt.Errorf("failed to log feed: %w", err)
	}
	return nil
}

// LogFeedback records a user action against a served feed item
func (r *PostgresRepository) LogFeedback(ctx context.Context, feedID, shopID, action string) error {
	query := `
		UPDATE feed_logs
		SET clicked_shop_id = $2, action = $3
		WHERE feed_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, feedID, shopID, action)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}
