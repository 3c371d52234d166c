package catalog

import (
	"fmt"
	"strings"
	"time"
)

// RecordRating stores a rating.
//
// The (tool, user) pair is unique: a second rating from the same user for the
// same tool is rejected with ErrRatingConflict rather than updated in place.
func (c *SQLiteCatalog) RecordRating(rating Rating) error {
	if rating.Value < 0 || rating.Value > 5 {
		return ErrInvalidRating
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(`
		INSERT INTO ratings (tool_id, user_id, rating, created_at)
		VALUES (?, ?, ?, ?)
	`,
		rating.ToolID,
		rating.UserID,
		rating.Value,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrRatingConflict
		}
		return fmt.Errorf("failed to record rating: %w", err)
	}

	return nil
}

// ToolRatings returns all rating values for a tool.
func (c *SQLiteCatalog) ToolRatings(toolID int64) ([]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query("SELECT rating FROM ratings WHERE tool_id = ?", toolID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ratings: %w", err)
	}
	defer rows.Close()

	ratings := []int{}
	for rows.Next() {
		var value int
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ratings: %w", err)
	}

	return ratings, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite surfaces constraint errors by message, not by type.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
