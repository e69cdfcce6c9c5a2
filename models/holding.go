package models

import (
	"time"
)

// Holding represents a user's current position in one symbol.
// There is at most one row per (user, symbol); a holding is deleted
// outright when its share count reaches zero.
type Holding struct {
	UserID    int64     `db:"user_id"`
	Symbol    string    `db:"symbol"`
	Name      string    `db:"name"`
	Shares    int64     `db:"shares"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
