package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateTool inserts a tool and returns its assigned id.
func (c *SQLiteCatalog) CreateTool(tool *Tool) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tool.CreatedAt.IsZero() {
		tool.CreatedAt = time.Now().UTC()
	}

	res, err := c.db.Exec(`
		INSERT INTO tools (name, description, cost, url, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		tool.Name,
		tool.Description,
		tool.Cost,
		tool.URL,
		tool.OwnerID,
		tool.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tool: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted tool id: %w", err)
	}

	tool.ID = id
	return id, nil
}

// GetTool fetches a single tool by id.
func (c *SQLiteCatalog) GetTool(id int64) (*Tool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	row := c.db.QueryRow(`
		SELECT id, name, description, cost, url, owner_id, created_at
		FROM tools
		WHERE id = ?
	`, id)

	tool, err := scanTool(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrToolNotFound
		}
		return nil, fmt.Errorf("failed to fetch tool %d: %w", id, err)
	}

	return tool, nil
}

// ListTools returns all tools ordered by id ascending.
func (c *SQLiteCatalog) ListTools() ([]Tool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query(`
		SELECT id, name, description, cost, url, owner_id, created_at
		FROM tools
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	defer rows.Close()

	return scanTools(rows)
}

// FetchByIDs returns the tools matching ids.
//
// Row order follows the database, not the input order. Callers that need a
// specific ranking (e.g. similarity order from the vector index) must
// re-sort themselves.
func (c *SQLiteCatalog) FetchByIDs(ids []int64) ([]Tool, error) {
	if len(ids) == 0 {
		return []Tool{}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := c.db.Query(fmt.Sprintf(`
		SELECT id, name, description, cost, url, owner_id, created_at
		FROM tools
		WHERE id IN (%s)
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tools by ids: %w", err)
	}
	defer rows.Close()

	return scanTools(rows)
}

// FetchBySubstring returns up to limit tools whose name or description
// contains pattern, case-insensitively, ordered by id.
func (c *SQLiteCatalog) FetchBySubstring(pattern string, limit int) ([]Tool, error) {
	if limit <= 0 {
		limit = 10
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// SQLite LIKE is case-insensitive for ASCII only; lower both sides so
	// the match is explicit.
	needle := "%" + strings.ToLower(pattern) + "%"

	rows, err := c.db.Query(`
		SELECT id, name, description, cost, url, owner_id, created_at
		FROM tools
		WHERE lower(name) LIKE ? OR lower(description) LIKE ?
		ORDER BY id ASC
		LIMIT ?
	`, needle, needle, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tools by substring: %w", err)
	}
	defer rows.Close()

	return scanTools(rows)
}

// FetchMostRecent returns up to limit tools ordered by creation time
// descending.
func (c *SQLiteCatalog) FetchMostRecent(limit int) ([]Tool, error) {
	if limit <= 0 {
		limit = 10
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query(`
		SELECT id, name, description, cost, url, owner_id, created_at
		FROM tools
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch most recent tools: %w", err)
	}
	defer rows.Close()

	return scanTools(rows)
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanTool.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTool reads one tool row.
func scanTool(row rowScanner) (*Tool, error) {
	var tool Tool
	var createdAt string

	if err := row.Scan(
		&tool.ID,
		&tool.Name,
		&tool.Description,
		&tool.Cost,
		&tool.URL,
		&tool.OwnerID,
		&createdAt,
	); err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tool timestamp: %w", err)
	}
	tool.CreatedAt = ts

	return &tool, nil
}

// scanTools reads all tool rows.
func scanTools(rows *sql.Rows) ([]Tool, error) {
	tools := []Tool{}
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, *tool)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tool rows: %w", err)
	}
	return tools, nil
}
