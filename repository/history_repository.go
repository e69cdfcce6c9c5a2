package repository

import (
	"context"
	"fmt"

	"tradesim/database"
	"tradesim/models"
)

// HistoryRepository implements the service.HistoryRepository interface.
// History rows are append-only; there are no update or delete operations.
type HistoryRepository struct {
	q queryable
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *database.DB) *HistoryRepository {
	return &HistoryRepository{q: db.Pool}
}

// newHistoryRepositoryWithTx creates a new history repository with a transaction
func newHistoryRepositoryWithTx(tx queryable) *HistoryRepository {
	return &HistoryRepository{q: tx}
}

// Record appends a history entry for an executed trade
func (r *HistoryRepository) Record(ctx context.Context, entry *models.HistoryEntry) error {
	query := `
		INSERT INTO history (user_id, symbol, name, shares, price, type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.Symbol,
		entry.Name,
		entry.Shares,
		entry.Price,
		entry.Type,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record history for user %d: %w", entry.UserID, err)
	}

	return nil
}

// GetByUser returns all history entries for a user, most recent first
func (r *HistoryRepository) GetByUser(ctx context.Context, userID int64) ([]*models.HistoryEntry, error) {
	query := `
		SELECT id, user_id, symbol, name, shares, price, type, created_at
		FROM history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Symbol,
			&entry.Name,
			&entry.Shares,
			&entry.Price,
			&entry.Type,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return entries, nil
}
