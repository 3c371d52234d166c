package catalog

import (
	"fmt"
	"time"
)

// RecordUsage stores a usage event.
func (c *SQLiteCatalog) RecordUsage(event *UsageEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	success := 0
	if event.Success {
		success = 1
	}

	res, err := c.db.Exec(`
		INSERT INTO usage_logs (tool_id, user_id, success, processing_time, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`,
		event.ToolID,
		event.UserID,
		success,
		event.ProcessingTime,
		event.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		event.ID = id
	}

	return nil
}

// ToolUsage returns the usage history for a tool, oldest first.
func (c *SQLiteCatalog) ToolUsage(toolID int64) ([]UsageEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query(`
		SELECT id, tool_id, user_id, success, processing_time, timestamp
		FROM usage_logs
		WHERE tool_id = ?
		ORDER BY timestamp ASC, id ASC
	`, toolID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch usage history: %w", err)
	}
	defer rows.Close()

	events := []UsageEvent{}
	for rows.Next() {
		var event UsageEvent
		var success int
		var timestamp string

		if err := rows.Scan(
			&event.ID,
			&event.ToolID,
			&event.UserID,
			&success,
			&event.ProcessingTime,
			&timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan usage event: %w", err)
		}

		event.Success = success == 1
		ts, err := time.Parse(time.RFC3339Nano, timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse usage timestamp: %w", err)
		}
		event.Timestamp = ts

		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate usage events: %w", err)
	}

	return events, nil
}

// CountRecentUsage counts usage events for a tool since a given time.
func (c *SQLiteCatalog) CountRecentUsage(toolID int64, since time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	row := c.db.QueryRow(`
		SELECT COUNT(*) FROM usage_logs
		WHERE tool_id = ? AND timestamp >= ?
	`, toolID, since.UTC().Format(time.RFC3339Nano))

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recent usage: %w", err)
	}

	return count, nil
}
