package repository

import (
	"context"
	"fmt"

	"tradesim/database"
	"tradesim/models"

	"github.com/jackc/pgx/v5"
)

// HoldingRepository implements the service.HoldingRepository interface
type HoldingRepository struct {
	q queryable
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *database.DB) *HoldingRepository {
	return &HoldingRepository{q: db.Pool}
}

// newHoldingRepositoryWithTx creates a new holding repository with a transaction
func newHoldingRepositoryWithTx(tx queryable) *HoldingRepository {
	return &HoldingRepository{q: tx}
}

// GetByUserAndSymbol retrieves a user's holding for one symbol
func (r *HoldingRepository) GetByUserAndSymbol(ctx context.Context, userID int64, symbol string) (*models.Holding, error) {
	query := `
		SELECT user_id, symbol, name, shares, created_at, updated_at
		FROM holdings
		WHERE user_id = $1 AND symbol = $2
	`

	var holding models.Holding
	err := r.q.QueryRow(ctx, query, userID, symbol).Scan(
		&holding.UserID,
		&holding.Symbol,
		&holding.Name,
		&holding.Shares,
		&holding.CreatedAt,
		&holding.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding %s for user %d: %w", symbol, userID, err)
	}

	return &holding, nil
}

// GetAllByUser returns all holdings for a user ordered by symbol
func (r *HoldingRepository) GetAllByUser(ctx context.Context, userID int64) ([]*models.Holding, error) {
	query := `
		SELECT user_id, symbol, name, shares, created_at, updated_at
		FROM holdings
		WHERE user_id = $1
		ORDER BY symbol
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings for user %d: %w", userID, err)
	}
	defer rows.Close()

	var holdings []*models.Holding
	for rows.Next() {
		var holding models.Holding
		err := rows.Scan(
			&holding.UserID,
			&holding.Symbol,
			&holding.Name,
			&holding.Shares,
			&holding.CreatedAt,
			&holding.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, &holding)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}

	return holdings, nil
}

// Create creates a new holding row for a user's first purchase of a symbol
func (r *HoldingRepository) Create(ctx context.Context, holding *models.Holding) error {
	query := `
		INSERT INTO holdings (user_id, symbol, name, shares)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		holding.UserID,
		holding.Symbol,
		holding.Name,
		holding.Shares,
	).Scan(&holding.CreatedAt, &holding.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create holding %s for user %d: %w", holding.Symbol, holding.UserID, err)
	}

	return nil
}

// UpdateShares sets the share count of an existing holding
func (r *HoldingRepository) UpdateShares(ctx context.Context, userID int64, symbol string, newShares int64) error {
	query := `
		UPDATE holdings
		SET shares = $1, updated_at = NOW()
		WHERE user_id = $2 AND symbol = $3
	`

	result, err := r.q.Exec(ctx, query, newShares, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to update shares of %s for user %d: %w", symbol, userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("holding %s for user %d not found", symbol, userID)
	}

	return nil
}

// Delete removes a holding row. The delete is scoped to (user_id, symbol) so
// one user selling out of a position can never touch another user's rows.
func (r *HoldingRepository) Delete(ctx context.Context, userID int64, symbol string) error {
	query := `
		DELETE FROM holdings
		WHERE user_id = $1 AND symbol = $2
	`

	result, err := r.q.Exec(ctx, query, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete holding %s for user %d: %w", symbol, userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("holding %s for user %d not found", symbol, userID)
	}

	return nil
}
