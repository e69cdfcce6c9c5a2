package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered account with a cash balance
type User struct {
	ID           int64           `db:"id"`
	Username     string          `db:"username"`
	PasswordHash string          `db:"password_hash"`
	Cash         decimal.Decimal `db:"cash"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}
