package catalog

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteCatalog implements Catalog using SQLite.
type SQLiteCatalog struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens (or creates) the catalog database at path and runs
// migrations.
func OpenSQLite(path string) (*SQLiteCatalog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}

	c := &SQLiteCatalog{db: db}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *SQLiteCatalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close catalog database: %w", err)
	}
	c.db = nil
	return nil
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

// runMigrations executes schema migrations in order.
func (c *SQLiteCatalog) runMigrations() error {
	if err := c.createMigrationsTable(); err != nil {
		return err
	}

	version, err := c.currentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "initial_schema", up: c.migration001InitialSchema},
	}

	for _, m := range migrations {
		if version < m.version {
			log.Printf("Running migration %d: %s", m.version, m.name)
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := c.setMigrationVersion(m.version, m.name); err != nil {
				return err
			}
		}
	}

	return nil
}

// createMigrationsTable creates the schema_migrations table.
func (c *SQLiteCatalog) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`
	_, err := c.db.Exec(query)
	return err
}

// currentMigrationVersion returns the highest applied migration version.
func (c *SQLiteCatalog) currentMigrationVersion() (int, error) {
	row := c.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// setMigrationVersion records a migration as applied.
func (c *SQLiteCatalog) setMigrationVersion(version int, name string) error {
	_, err := c.db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", version, name)
	return err
}

// migration001InitialSchema creates the initial catalog schema.
func (c *SQLiteCatalog) migration001InitialSchema() error {
	if _, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS tools (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			cost REAL NOT NULL DEFAULT 0,
			url TEXT NOT NULL DEFAULT '',
			owner_id INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create tools table: %w", err)
	}

	if _, err := c.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tools_name ON tools(name)
	`); err != nil {
		return fmt.Errorf("failed to create tools name index: %w", err)
	}

	if _, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS ratings (
			tool_id INTEGER NOT NULL REFERENCES tools(id),
			user_id INTEGER NOT NULL,
			rating INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(tool_id, user_id)
		)
	`); err != nil {
		return fmt.Errorf("failed to create ratings table: %w", err)
	}

	if _, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tool_id INTEGER NOT NULL REFERENCES tools(id),
			user_id INTEGER NOT NULL,
			amount REAL NOT NULL,
			currency TEXT NOT NULL DEFAULT 'USD',
			method TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create transactions table: %w", err)
	}

	if _, err := c.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transactions_tool ON transactions(tool_id)
	`); err != nil {
		return fmt.Errorf("failed to create transactions tool index: %w", err)
	}

	if _, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS usage_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tool_id INTEGER NOT NULL REFERENCES tools(id),
			user_id INTEGER NOT NULL,
			success INTEGER NOT NULL,
			processing_time REAL NOT NULL DEFAULT 0,
			timestamp TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create usage_logs table: %w", err)
	}

	if _, err := c.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_usage_logs_tool ON usage_logs(tool_id, timestamp)
	`); err != nil {
		return fmt.Errorf("failed to create usage_logs tool index: %w", err)
	}

	if _, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS search_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			search_id TEXT NOT NULL UNIQUE,
			query_hash TEXT NOT NULL,
			tier TEXT NOT NULL,
			results_count INTEGER NOT NULL,
			timestamp TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create search_history table: %w", err)
	}

	return nil
}
