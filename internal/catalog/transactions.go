package catalog

import (
	"fmt"
	"time"
)

// RecordTransaction stores a transaction.
func (c *SQLiteCatalog) RecordTransaction(tx *Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tx.Created.IsZero() {
		tx.Created = time.Now().UTC()
	}
	if tx.Currency == "" {
		tx.Currency = "USD"
	}

	res, err := c.db.Exec(`
		INSERT INTO transactions (tool_id, user_id, amount, currency, method, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		tx.ToolID,
		tx.UserID,
		tx.Amount,
		tx.Currency,
		tx.Method,
		tx.Created.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		tx.ID = id
	}

	return nil
}

// ToolTransactionAmounts returns all transaction amounts for a tool.
func (c *SQLiteCatalog) ToolTransactionAmounts(toolID int64) ([]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query("SELECT amount FROM transactions WHERE tool_id = ?", toolID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction amounts: %w", err)
	}
	defer rows.Close()

	amounts := []float64{}
	for rows.Next() {
		var amount float64
		if err := rows.Scan(&amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction amount: %w", err)
		}
		amounts = append(amounts, amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction amounts: %w", err)
	}

	return amounts, nil
}
